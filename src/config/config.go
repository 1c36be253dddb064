package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	DATE_FORMAT = "2006-01-02"
	TIME_FORMAT = "15:04"
)

// CancelLock is how far ahead of its start time a booking must be for
// the primary booker to still cancel it.
func CancelLock() time.Duration {
	return durationEnv("CANCEL_LOCK", 2*time.Hour)
}

// CancelBlockThreshold is the trailing-7-day cancellation count at which
// a user gets blocked from creating new bookings.
func CancelBlockThreshold() int {
	v, err := strconv.Atoi(os.Getenv("CANCEL_BLOCK_THRESHOLD"))
	if err != nil || v < 1 {
		return 3
	}
	return v
}

// CancelBlockDuration is how long the block lasts once triggered.
func CancelBlockDuration() time.Duration {
	return durationEnv("CANCEL_BLOCK_DURATION", 7*24*time.Hour)
}

// CancelStatsWindow is the trailing window covered by the cancellation
// counters; counters older than this get reset by the daily job.
func CancelStatsWindow() time.Duration {
	return durationEnv("CANCEL_STATS_WINDOW", 7*24*time.Hour)
}

// NotificationTTL is how long notifications are retained before the
// daily purge removes them.
func NotificationTTL() time.Duration {
	return durationEnv("NOTIFICATION_TTL", 30*24*time.Hour)
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
