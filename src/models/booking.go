package models

import (
	"time"

	"rbs/src/types"
)

type Booking struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	RoomID    uint                `gorm:"index:idx_booking_room_date" json:"room_id,omitempty"`
	UserID    uint                `json:"user_id,omitempty"`
	Date      string              `gorm:"index:idx_booking_room_date" json:"date,omitempty"`
	StartTime string              `json:"start_time,omitempty"`
	EndTime   string              `json:"end_time,omitempty"`
	Status    types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Reference string              `gorm:"uniqueIndex" json:"reference,omitempty"`

	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`

	Room            *Room   `gorm:"foreignKey:room_id" json:"room,omitempty"`
	User            *User   `gorm:"foreignKey:user_id" json:"user,omitempty"`
	AdditionalUsers []*User `gorm:"many2many:booking_attendees;" json:"additional_users,omitempty"`

	types.Timestamps
}
