package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"rbs/src/config"
	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// IsSlotAvailable reports whether the [startTime, endTime) slot is free
// for the room on the given date. Bookings already canceled, completed
// or missed do not block the slot; excludeBookingID lets a booking
// being superseded ignore itself.
func (s *BookingService) IsSlotAvailable(roomID uint, date, startTime, endTime string, excludeBookingID uint) (bool, error) {
	var available bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.NewNotFoundError("room not found")
		}
		ok, err := slotAvailable(tx, roomID, date, startTime, endTime, excludeBookingID)
		if err != nil {
			return err
		}
		available = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	return available, nil
}

func slotAvailable(tx *gorm.DB, roomID uint, date, startTime, endTime string, excludeBookingID uint) (bool, error) {
	var existing []models.Booking
	if err := tx.
		Model(&models.Booking{}).
		Select("id", "start_time", "end_time").
		Where("room_id = ? AND date = ?", roomID, date).
		Where("status IN ?", []types.BookingStatus{
			types.BOOKING_PENDING,
			types.BOOKING_CONFIRMED,
			types.BOOKING_ACTIVE,
		}).
		Find(&existing).
		Error; err != nil {
		return false, err
	}
	return findConflict(existing, startTime, endTime, excludeBookingID) == nil, nil
}

// CreateBooking validates and persists a booking together with its
// ledger row. The whole check-then-insert sequence runs inside one
// transaction holding a row lock on the room, so two concurrent
// requests for the same slot serialize instead of both passing the
// availability check; the unique index on the ledger is the backstop.
func (s *BookingService) CreateBooking(params *types.CreateBookingRequestBody, userID uint) (*models.Booking, error) {
	now := time.Now()
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Room{ID: params.RoomID}).
			First(&room).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("room not found")
			}
			return err
		}
		var user models.User
		if err := tx.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("user not found")
			}
			return err
		}

		if _, err := utils.ParseSlotDate(params.Date); err != nil {
			return types.NewValidationError("date must be in YYYY-MM-DD format")
		}
		if params.Date < now.Format(config.DATE_FORMAT) {
			return types.NewValidationError("date must not be in the past")
		}
		if params.EndTime <= params.StartTime {
			return types.NewValidationError("endTime must be after startTime")
		}

		if user.BlockedUntil != nil && now.Before(*user.BlockedUntil) {
			return types.NewForbiddenError(fmt.Sprintf("account is blocked from booking until %s", user.BlockedUntil.Format(time.RFC3339)))
		}

		ok, err := slotAvailable(tx, room.ID, params.Date, params.StartTime, params.EndTime, 0)
		if err != nil {
			return err
		}
		if !ok {
			return types.NewConflictError("time slot already booked")
		}

		if err := occupancyError(room.Type, 1+len(params.AdditionalUsers)); err != nil {
			return err
		}

		attendees := make([]*models.User, 0, len(params.AdditionalUsers))
		for _, email := range params.AdditionalUsers {
			var attendee models.User
			if err := tx.
				Where("email = ?", utils.NormalizeEmail(email)).
				First(&attendee).
				Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return types.NewNotFoundError(fmt.Sprintf("no user account found for %s", email))
				}
				return err
			}
			attendees = append(attendees, &attendee)
		}

		booking = models.Booking{
			RoomID:          room.ID,
			UserID:          user.ID,
			Date:            params.Date,
			StartTime:       params.StartTime,
			EndTime:         params.EndTime,
			Status:          types.BOOKING_PENDING,
			Reference:       uuid.NewString(),
			AdditionalUsers: attendees,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		slot := models.RoomSlot{
			RoomID:    room.ID,
			Date:      params.Date,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
			BookingID: booking.ID,
		}
		if err := tx.Create(&slot).Error; err != nil {
			if isUniqueViolation(err) {
				return types.NewConflictError("time slot already booked")
			}
			return err
		}
		return createNotification(tx, user.ID, "Booking created",
			fmt.Sprintf("%s on %s from %s to %s", room.Name, params.Date, params.StartTime, params.EndTime),
			"booking", booking.Reference)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.GetBooking(booking.ID)
	if err != nil {
		return nil, err
	}
	go s.sendBookingConfirmation(created)
	return created, nil
}

func (s *BookingService) GetBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.
		Model(&models.Booking{}).
		Preload("Room").
		Preload("User").
		Preload("AdditionalUsers").
		Order("date asc, start_time asc").
		Find(&bookings).
		Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: id}).
		Preload("Room").
		Preload("User").
		Preload("AdditionalUsers").
		First(&booking).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking removes the booking row, its attendee joins, and its
// ledger rows. Ledger rows are matched by booking id, never by
// date/time value equality.
func (s *BookingService) DeleteBooking(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where(&models.Booking{ID: id}).First(&booking).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("booking not found")
			}
			return err
		}
		if err := tx.Exec("DELETE FROM booking_attendees WHERE booking_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", id).Delete(&models.RoomSlot{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Booking{}, id).Error
	})
}

// UpdateStatus applies a manual state-machine transition. Admins and
// managers may apply any legal transition; a regular user may only
// cancel their own booking, and only while the cancellation window is
// still open.
func (s *BookingService) UpdateStatus(id uint, newStatus types.BookingStatus, requesterID uint, requesterRole types.UserRole) (*models.Booking, error) {
	if !newStatus.Valid() {
		return nil, types.NewValidationError("unknown booking status")
	}
	now := time.Now()
	privileged := requesterRole == types.ROLE_ADMIN || requesterRole == types.ROLE_MANAGER
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where(&models.Booking{ID: id}).First(&booking).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("booking not found")
			}
			return err
		}
		if !legalTransition(booking.Status, newStatus) {
			return types.NewValidationError(fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, newStatus))
		}
		if newStatus != types.BOOKING_CANCELED {
			if !privileged {
				return types.NewForbiddenError("only an admin or manager may override booking status")
			}
			if err := tx.Model(&models.Booking{}).Where("id = ?", id).Update("status", newStatus).Error; err != nil {
				return err
			}
			// A terminal booking no longer occupies its slot; the ledger
			// row must go in the same transaction or the slot stays
			// unbookable.
			if newStatus.Terminal() {
				return tx.Where("booking_id = ?", id).Delete(&models.RoomSlot{}).Error
			}
			return nil
		}

		if !privileged {
			if booking.UserID != requesterID {
				return types.NewForbiddenError("only the primary booker may cancel this booking")
			}
			startAt, err := utils.CombineDateTime(booking.Date, booking.StartTime)
			if err != nil {
				return err
			}
			if !now.Before(startAt) {
				return types.NewForbiddenError("booking has already started")
			}
			if !cancelWindowOpen(startAt, now, config.CancelLock()) {
				return types.NewForbiddenError(fmt.Sprintf("bookings starting within %s can no longer be canceled", config.CancelLock()))
			}
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": types.BOOKING_CANCELED, "canceled_at": now}).
			Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", id).Delete(&models.RoomSlot{}).Error; err != nil {
			return err
		}
		if err := recordCancellation(tx, booking.UserID, now); err != nil {
			return err
		}
		return createNotification(tx, booking.UserID, "Booking canceled",
			fmt.Sprintf("booking on %s from %s to %s was canceled", booking.Date, booking.StartTime, booking.EndTime),
			"booking", booking.Reference)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// CheckIn marks attendance for a booking by its reference code while
// its slot is underway; the sweep then resolves it to completed
// instead of missed.
func (s *BookingService) CheckIn(reference string) (*models.Booking, error) {
	now := time.Now()
	var bookingID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where(&models.Booking{Reference: reference}).First(&booking).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("booking not found")
			}
			return err
		}
		bookingID = booking.ID
		if booking.Status.Terminal() {
			return types.NewValidationError("booking is no longer active")
		}
		startAt, err := utils.CombineDateTime(booking.Date, booking.StartTime)
		if err != nil {
			return err
		}
		endAt, err := utils.CombineDateTime(booking.Date, booking.EndTime)
		if err != nil {
			return err
		}
		if now.Before(startAt) {
			return types.NewValidationError("booking has not started yet")
		}
		if !now.Before(endAt) {
			return types.NewValidationError("booking has already ended")
		}
		updates := map[string]any{"checked_in_at": now}
		if booking.Status != types.BOOKING_ACTIVE {
			updates["status"] = types.BOOKING_ACTIVE
		}
		return tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(bookingID)
}

// CountsByStatus aggregates bookings for the dashboard. Counts are
// cached in redis for a short window since the dashboard polls.
func (s *BookingService) CountsByStatus() (map[string]int64, error) {
	rd := lib.GetRedisClient()
	const cacheKey = "bookings:counts"
	if rd != nil {
		if val := rd.Get(context.Background(), cacheKey).Val(); val != "" {
			var cached map[string]int64
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.
		Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	counts := map[string]int64{
		string(types.BOOKING_PENDING):   0,
		string(types.BOOKING_CONFIRMED): 0,
		string(types.BOOKING_ACTIVE):    0,
		string(types.BOOKING_COMPLETED): 0,
		string(types.BOOKING_CANCELED):  0,
		string(types.BOOKING_MISSED):    0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	if rd != nil {
		if b, err := json.Marshal(counts); err == nil {
			rd.SetEx(context.Background(), cacheKey, string(b), 30*time.Second)
		}
	}
	return counts, nil
}

func (s *BookingService) sendBookingConfirmation(booking *models.Booking) {
	recipients := make([]string, 0, 1+len(booking.AdditionalUsers))
	if booking.User != nil {
		recipients = append(recipients, booking.User.Email)
	}
	for _, attendee := range booking.AdditionalUsers {
		recipients = append(recipients, attendee.Email)
	}
	if len(recipients) == 0 {
		return
	}
	roomName := ""
	if booking.Room != nil {
		roomName = booking.Room.Name
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "noreply",
		To:       recipients,
		Subject:  "Your room booking",
		Body: fmt.Sprintf(`
			<p>Your booking for <b>%s</b> on %s from %s to %s has been received.</p>
			<p>Present the attached code at the room to check in.</p>
		`, roomName, booking.Date, booking.StartTime, booking.EndTime),
		Html: true,
	}
	if qrPath, err := utils.GenerateBookingQR(booking.Reference); err == nil {
		input.Attachments = []string{qrPath}
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("Could not send booking confirmation for [%d]: %s\n", booking.ID, err.Error())
	}
}

func createNotification(tx *gorm.DB, userID uint, title, description, refType, refID string) error {
	n := models.Notification{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   &description,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	return tx.Create(&n).Error
}
