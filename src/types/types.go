package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type RoomType string

const (
	ROOM_OPEN          RoomType = "open"
	ROOM_SMALL_SEMINAR RoomType = "small_seminar"
	ROOM_LARGE_SEMINAR RoomType = "large_seminar"
)

// MinOccupancy returns the total user count (primary + additional) a
// room type requires on every booking.
func (t RoomType) MinOccupancy() int {
	switch t {
	case ROOM_SMALL_SEMINAR:
		return 2
	case ROOM_LARGE_SEMINAR:
		return 3
	default:
		return 1
	}
}

func (t RoomType) Valid() bool {
	switch t {
	case ROOM_OPEN, ROOM_SMALL_SEMINAR, ROOM_LARGE_SEMINAR:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_ACTIVE    BookingStatus = "active"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELED  BookingStatus = "canceled"
	BOOKING_MISSED    BookingStatus = "missed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BOOKING_PENDING, BOOKING_CONFIRMED, BOOKING_ACTIVE,
		BOOKING_COMPLETED, BOOKING_CANCELED, BOOKING_MISSED:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave the status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BOOKING_COMPLETED, BOOKING_CANCELED, BOOKING_MISSED:
		return true
	}
	return false
}

type UserRole string

const (
	ROLE_USER    UserRole = "user"
	ROLE_ADMIN   UserRole = "admin"
	ROLE_MANAGER UserRole = "manager"
)

func (r UserRole) Valid() bool {
	switch r {
	case ROLE_USER, ROLE_ADMIN, ROLE_MANAGER:
		return true
	}
	return false
}

type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type CreateRoomRequestBody struct {
	Name        string    `form:"name" json:"name" binding:"required"`
	Type        RoomType  `form:"type" json:"type" binding:"required"`
	Capacity    int       `form:"capacity" json:"capacity" binding:"required,min=1"`
	Description string    `form:"description" json:"description,omitempty"`
	Amenities   []Amenity `form:"-" json:"amenities,omitempty"`
}

type UpdateRoomRequestBody struct {
	Name        *string    `json:"name,omitempty"`
	Type        *RoomType  `json:"type,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Description *string    `json:"description,omitempty"`
	Amenities   *[]Amenity `json:"amenities,omitempty"`
}

type CreateBookingRequestBody struct {
	RoomID          uint     `json:"roomId" binding:"required"`
	Date            string   `json:"date" binding:"required,bookingdate"`
	StartTime       string   `json:"startTime" binding:"required,timeslot"`
	EndTime         string   `json:"endTime" binding:"required,timeslot"`
	AdditionalUsers []string `json:"additionalUsers"`
}

type UpdateBookingStatusRequestBody struct {
	NewStatus BookingStatus `json:"new_status" binding:"required"`
}

type CheckInRequestBody struct {
	Reference string `json:"reference" binding:"required"`
}

type RegisterUserRequestBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type UpdateRoleRequestBody struct {
	Role UserRole `json:"role" binding:"required"`
}

type CreateFAQRequestBody struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Position int    `json:"position,omitempty"`
}

type CreatePageRequestBody struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
