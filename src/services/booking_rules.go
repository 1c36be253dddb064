package services

import (
	"fmt"
	"time"

	"rbs/src/models"
	"rbs/src/types"
	"rbs/src/utils"
)

// legalTransition is the booking state machine. Terminal statuses have
// no outgoing edges; time-triggered edges are applied by the sweep job
// and manual edges by UpdateStatus.
func legalTransition(from, to types.BookingStatus) bool {
	if from.Terminal() || from == to {
		return false
	}
	switch from {
	case types.BOOKING_PENDING:
		return to == types.BOOKING_CONFIRMED || to == types.BOOKING_ACTIVE ||
			to == types.BOOKING_CANCELED || to == types.BOOKING_MISSED
	case types.BOOKING_CONFIRMED:
		return to == types.BOOKING_ACTIVE || to == types.BOOKING_CANCELED ||
			to == types.BOOKING_MISSED
	case types.BOOKING_ACTIVE:
		return to == types.BOOKING_COMPLETED || to == types.BOOKING_MISSED ||
			to == types.BOOKING_CANCELED
	}
	return false
}

// NextStatusAt computes the time-triggered status for a booking at the
// given instant from its stored date and times. Calling it twice with
// the same inputs yields the same answer, which is what makes the
// sweep job safe to re-run or run late.
func NextStatusAt(b *models.Booking, now time.Time) (types.BookingStatus, error) {
	if b.Status.Terminal() {
		return b.Status, nil
	}
	startAt, err := utils.CombineDateTime(b.Date, b.StartTime)
	if err != nil {
		return b.Status, err
	}
	endAt, err := utils.CombineDateTime(b.Date, b.EndTime)
	if err != nil {
		return b.Status, err
	}
	switch {
	case !now.Before(endAt):
		if b.CheckedInAt != nil {
			return types.BOOKING_COMPLETED, nil
		}
		return types.BOOKING_MISSED, nil
	case !now.Before(startAt):
		return types.BOOKING_ACTIVE, nil
	}
	return b.Status, nil
}

// cancelWindowOpen reports whether a booking starting at startAt may
// still be canceled at now. The boundary itself is locked: exactly
// lock ahead of start is too late.
func cancelWindowOpen(startAt, now time.Time, lock time.Duration) bool {
	return startAt.Sub(now) > lock
}

// occupancyError returns the validation error for a booking whose total
// user count falls short of what the room type requires, nil otherwise.
func occupancyError(roomType types.RoomType, totalUsers int) error {
	min := roomType.MinOccupancy()
	if totalUsers >= min {
		return nil
	}
	return types.NewValidationError(fmt.Sprintf("%s rooms require at least %d attendees including the primary booker", roomType, min))
}

// findConflict returns the first existing booking whose [start, end)
// interval overlaps the candidate slot, skipping the excluded id.
func findConflict(existing []models.Booking, startTime, endTime string, excludeID uint) *models.Booking {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID {
			continue
		}
		if utils.SlotsOverlap(b.StartTime, b.EndTime, startTime, endTime) {
			return b
		}
	}
	return nil
}
