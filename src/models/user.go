package models

import (
	"time"

	"rbs/src/types"
)

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Username      string         `gorm:"uniqueIndex" json:"username,omitempty"`
	Email         string         `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash  string         `json:"-"`
	Role          types.UserRole `gorm:"default:'user'" json:"role,omitempty"`
	EmailVerified bool           `json:"email_verified,omitempty"`

	// Cancellation statistics, maintained by the booking service and
	// reset by the daily maintenance job.
	CancelCount  int        `json:"cancel_count,omitempty"`
	WarningCount int        `json:"warning_count,omitempty"`
	LastCancelAt *time.Time `json:"last_cancel_at,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
