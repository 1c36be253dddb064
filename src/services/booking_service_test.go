package services

import (
	"net/http"
	"testing"

	"rbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite
	Mock sqlmock.Sqlmock
	Svc  *BookingService
}

func (s *BookingServiceTestSuite) SetupTest() {
	d, mock := newMockDB()
	s.Mock = mock
	s.Svc = NewBookingService(d)
}

func (s *BookingServiceTestSuite) expectRoomAndUser() {
	s.Mock.
		ExpectQuery(`SELECT (.+) FROM "rooms"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "name", "type", "capacity"}).
			AddRow(3, "Aurora", "open", 4))
	s.Mock.
		ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(1, "alice@example.com"))
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsBackwardSlot() {
	s.Mock.ExpectBegin()
	s.expectRoomAndUser()
	s.Mock.ExpectRollback()

	_, err := s.Svc.CreateBooking(&types.CreateBookingRequestBody{
		RoomID:    3,
		Date:      "2999-01-02",
		StartTime: "11:00",
		EndTime:   "10:00",
	}, 1)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, types.ErrorStatus(err))
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsEmptySlot() {
	s.Mock.ExpectBegin()
	s.expectRoomAndUser()
	s.Mock.ExpectRollback()

	_, err := s.Svc.CreateBooking(&types.CreateBookingRequestBody{
		RoomID:    3,
		Date:      "2999-01-02",
		StartTime: "11:00",
		EndTime:   "11:00",
	}, 1)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, types.ErrorStatus(err))
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsOverlap() {
	s.Mock.ExpectBegin()
	s.expectRoomAndUser()
	s.Mock.
		ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "start_time", "end_time"}).
			AddRow(5, "10:00", "11:00"))
	s.Mock.ExpectRollback()

	_, err := s.Svc.CreateBooking(&types.CreateBookingRequestBody{
		RoomID:    3,
		Date:      "2999-01-02",
		StartTime: "10:30",
		EndTime:   "11:30",
	}, 1)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), http.StatusConflict, types.ErrorStatus(err))
	assert.Equal(s.T(), "time slot already booked", err.Error())
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *BookingServiceTestSuite) TestTerminalOverrideFreesSlot() {
	s.Mock.ExpectBegin()
	s.Mock.
		ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "user_id", "status"}).
			AddRow(7, 1, "confirmed"))
	s.Mock.
		ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Mock.
		ExpectExec(`DELETE FROM "room_slots"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Mock.ExpectCommit()

	s.Svc.UpdateStatus(7, types.BOOKING_MISSED, 99, types.ROLE_ADMIN)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *BookingServiceTestSuite) TestNonPrivilegedOverrideForbidden() {
	s.Mock.ExpectBegin()
	s.Mock.
		ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "user_id", "status"}).
			AddRow(7, 1, "pending"))
	s.Mock.ExpectRollback()

	_, err := s.Svc.UpdateStatus(7, types.BOOKING_CONFIRMED, 1, types.ROLE_USER)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), http.StatusForbidden, types.ErrorStatus(err))
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func TestBookingServiceRunner(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}
