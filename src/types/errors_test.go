package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{NewNotFoundError("no such room"), http.StatusNotFound},
		{NewConflictError("time slot already booked"), http.StatusConflict},
		{NewForbiddenError("not yours"), http.StatusForbidden},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equalf(t, c.status, ErrorStatus(c.err), "error: %v", c.err)
	}
}

func TestErrorStatusWrapped(t *testing.T) {
	wrapped := fmt.Errorf("creating booking: %w", NewConflictError("time slot already booked"))
	assert.Equal(t, http.StatusConflict, ErrorStatus(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "no such room", ErrorMessage(NewNotFoundError("no such room")))
	assert.Equal(t, "record not found", ErrorMessage(gorm.ErrRecordNotFound))
	assert.Equal(t, "something went wrong", ErrorMessage(errors.New("pq: deadlock detected")))
}

func TestRoomTypeMinOccupancy(t *testing.T) {
	assert.Equal(t, 1, ROOM_OPEN.MinOccupancy())
	assert.Equal(t, 2, ROOM_SMALL_SEMINAR.MinOccupancy())
	assert.Equal(t, 3, ROOM_LARGE_SEMINAR.MinOccupancy())
}

func TestRoomTypeValid(t *testing.T) {
	assert.True(t, ROOM_OPEN.Valid())
	assert.False(t, RoomType("ballroom").Valid())
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BOOKING_PENDING.Terminal())
	assert.False(t, BOOKING_ACTIVE.Terminal())
	assert.True(t, BOOKING_COMPLETED.Terminal())
	assert.True(t, BOOKING_CANCELED.Terminal())
	assert.True(t, BOOKING_MISSED.Terminal())
}
