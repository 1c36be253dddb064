package services

import (
	"context"
	"log"
	"time"

	"rbs/src/config"
	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/types"

	"gorm.io/gorm"
)

type MaintenanceService struct {
	db    *gorm.DB
	users *UserService
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db, users: NewUserService(db)}
}

// RunStatusSweep advances every non-terminal booking whose stored
// date/times say it should have moved on by now. Targets are computed
// from the stored timestamps alone, so a sweep that runs late, twice,
// or after a restart converges on the same statuses.
func (s *MaintenanceService) RunStatusSweep(now time.Time) (int, error) {
	changed := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var bookings []models.Booking
		if err := tx.
			Where("status IN ?", []types.BookingStatus{
				types.BOOKING_PENDING,
				types.BOOKING_CONFIRMED,
				types.BOOKING_ACTIVE,
			}).
			Find(&bookings).
			Error; err != nil {
			return err
		}
		for i := range bookings {
			b := &bookings[i]
			next, err := NextStatusAt(b, now)
			if err != nil {
				log.Printf("Skipping booking [%d] with unparseable slot: %s\n", b.ID, err.Error())
				continue
			}
			if next == b.Status {
				continue
			}
			if err := tx.
				Model(&models.Booking{}).
				Where("id = ?", b.ID).
				Update("status", next).
				Error; err != nil {
				return err
			}
			if next.Terminal() {
				if err := tx.Where("booking_id = ?", b.ID).Delete(&models.RoomSlot{}).Error; err != nil {
					return err
				}
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return changed, err
	}
	if changed > 0 {
		log.Printf("Status sweep advanced %d bookings\n", changed)
	}
	return changed, nil
}

// ResetCancellationCounters is the daily counter reset.
func (s *MaintenanceService) ResetCancellationCounters(now time.Time) {
	affected, err := s.users.ResetCancellationStats(now)
	if err != nil {
		log.Printf("Error resetting cancellation stats: %s\n", err.Error())
		return
	}
	log.Printf("Reset cancellation stats for %d users\n", affected)
}

// PurgeNotifications drops notifications past their retention window.
func (s *MaintenanceService) PurgeNotifications(now time.Time) {
	cutoff := now.Add(-config.NotificationTTL())
	res := s.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if res.Error != nil {
		log.Printf("Error purging notifications: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Purged %d notifications\n", res.RowsAffected)
	}
}

// LogHealth pings storage dependencies and logs the outcome.
func (s *MaintenanceService) LogHealth() {
	sqlDB, err := s.db.DB()
	if err != nil {
		log.Printf("[health] database handle unavailable: %s\n", err.Error())
	} else if err := sqlDB.Ping(); err != nil {
		log.Printf("[health] database ping failed: %s\n", err.Error())
	} else {
		log.Println("[health] database ok")
	}
	if rd := lib.GetRedisClient(); rd != nil {
		if err := rd.Ping(context.Background()).Err(); err != nil {
			log.Printf("[health] redis ping failed: %s\n", err.Error())
		} else {
			log.Println("[health] redis ok")
		}
	}
}
