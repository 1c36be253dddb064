package services

import (
	"testing"
	"time"

	"rbs/src/models"
	"rbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestLegalTransition(t *testing.T) {
	cases := []struct {
		from types.BookingStatus
		to   types.BookingStatus
		ok   bool
	}{
		{types.BOOKING_PENDING, types.BOOKING_CONFIRMED, true},
		{types.BOOKING_PENDING, types.BOOKING_ACTIVE, true},
		{types.BOOKING_PENDING, types.BOOKING_CANCELED, true},
		{types.BOOKING_PENDING, types.BOOKING_MISSED, true},
		{types.BOOKING_PENDING, types.BOOKING_COMPLETED, false},
		{types.BOOKING_CONFIRMED, types.BOOKING_ACTIVE, true},
		{types.BOOKING_CONFIRMED, types.BOOKING_CANCELED, true},
		{types.BOOKING_CONFIRMED, types.BOOKING_MISSED, true},
		{types.BOOKING_CONFIRMED, types.BOOKING_COMPLETED, false},
		{types.BOOKING_CONFIRMED, types.BOOKING_PENDING, false},
		{types.BOOKING_ACTIVE, types.BOOKING_COMPLETED, true},
		{types.BOOKING_ACTIVE, types.BOOKING_MISSED, true},
		{types.BOOKING_ACTIVE, types.BOOKING_CANCELED, true},
		{types.BOOKING_ACTIVE, types.BOOKING_PENDING, false},
		{types.BOOKING_COMPLETED, types.BOOKING_ACTIVE, false},
		{types.BOOKING_CANCELED, types.BOOKING_PENDING, false},
		{types.BOOKING_MISSED, types.BOOKING_CONFIRMED, false},
		{types.BOOKING_PENDING, types.BOOKING_PENDING, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, legalTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestNextStatusAt(t *testing.T) {
	checkedIn := time.Date(2026, 3, 10, 10, 5, 0, 0, time.Local)
	booking := func(status types.BookingStatus, checkin *time.Time) *models.Booking {
		return &models.Booking{
			Status:      status,
			Date:        "2026-03-10",
			StartTime:   "10:00",
			EndTime:     "11:00",
			CheckedInAt: checkin,
		}
	}
	at := func(hhmm string) time.Time {
		tm, _ := time.ParseInLocation("2006-01-02 15:04", "2026-03-10 "+hhmm, time.Local)
		return tm
	}

	t.Run("before start nothing changes", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_CONFIRMED, nil), at("09:59"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_CONFIRMED, next)
	})

	t.Run("at start becomes active", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_CONFIRMED, nil), at("10:00"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_ACTIVE, next)
	})

	t.Run("at end without check-in becomes missed", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_ACTIVE, nil), at("11:00"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_MISSED, next)
	})

	t.Run("at end with check-in becomes completed", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_ACTIVE, &checkedIn), at("11:00"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_COMPLETED, next)
	})

	t.Run("late sweep skips straight to terminal", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_PENDING, nil), at("13:30"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_MISSED, next)
	})

	t.Run("re-running yields the same answer", func(t *testing.T) {
		b := booking(types.BOOKING_CONFIRMED, &checkedIn)
		now := at("12:00")
		first, err := NextStatusAt(b, now)
		assert.Nil(t, err)
		b.Status = first
		second, err := NextStatusAt(b, now)
		assert.Nil(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("terminal statuses never move", func(t *testing.T) {
		next, err := NextStatusAt(booking(types.BOOKING_CANCELED, nil), at("12:00"))
		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_CANCELED, next)
	})
}

func TestCancelWindowOpen(t *testing.T) {
	lock := 2 * time.Hour
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	assert.True(t, cancelWindowOpen(start, start.Add(-2*time.Hour-time.Minute), lock))
	assert.False(t, cancelWindowOpen(start, start.Add(-2*time.Hour), lock), "exactly at the lock boundary is too late")
	assert.False(t, cancelWindowOpen(start, start.Add(-time.Hour), lock))
	assert.False(t, cancelWindowOpen(start, start.Add(time.Minute), lock))
}

func TestOccupancyError(t *testing.T) {
	assert.Nil(t, occupancyError(types.ROOM_OPEN, 1))
	assert.NotNil(t, occupancyError(types.ROOM_SMALL_SEMINAR, 1))
	assert.Nil(t, occupancyError(types.ROOM_SMALL_SEMINAR, 2))
	assert.NotNil(t, occupancyError(types.ROOM_LARGE_SEMINAR, 2))
	assert.Nil(t, occupancyError(types.ROOM_LARGE_SEMINAR, 3))

	err := occupancyError(types.ROOM_LARGE_SEMINAR, 1)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFindConflict(t *testing.T) {
	existing := []models.Booking{
		{ID: 1, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, StartTime: "10:00", EndTime: "11:00"},
		{ID: 3, StartTime: "13:00", EndTime: "15:00"},
	}

	t.Run("adjacent slots do not conflict", func(t *testing.T) {
		assert.Nil(t, findConflict(existing, "11:00", "12:00", 0))
	})

	t.Run("identical slot conflicts", func(t *testing.T) {
		hit := findConflict(existing, "10:00", "11:00", 0)
		assert.NotNil(t, hit)
		assert.Equal(t, uint(2), hit.ID)
	})

	t.Run("partial overlap conflicts", func(t *testing.T) {
		hit := findConflict(existing, "14:30", "16:00", 0)
		assert.NotNil(t, hit)
		assert.Equal(t, uint(3), hit.ID)
	})

	t.Run("containing slot conflicts", func(t *testing.T) {
		hit := findConflict(existing, "08:00", "12:00", 0)
		assert.NotNil(t, hit)
	})

	t.Run("excluded booking is skipped", func(t *testing.T) {
		assert.Nil(t, findConflict(existing, "13:00", "14:00", 3))
	})
}
