package models

import (
	"time"

	"rbs/src/types"
)

type Room struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Name        string           `gorm:"uniqueIndex" json:"name,omitempty"`
	Type        types.RoomType   `json:"type,omitempty"`
	Capacity    int              `json:"capacity,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageKey    *string          `json:"image_key,omitempty"`
	Amenities   types.JSONBArray `gorm:"type:jsonb" json:"amenities,omitempty"`

	Slots    []RoomSlot `gorm:"foreignKey:room_id" json:"slots,omitempty"`
	Bookings []Booking  `gorm:"foreignKey:room_id" json:"bookings,omitempty"`

	types.Timestamps
}

// RoomSlot is the room's occupied-slot ledger. Rows carry the owning
// booking id so removal never relies on value-equality over date/time
// fields, and the compound unique index doubles as the database-level
// guard against two bookings landing on the same slot. No soft-delete
// column: a released slot must drop out of the unique index for the
// slot to become bookable again.
type RoomSlot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RoomID    uint      `gorm:"uniqueIndex:idx_room_slot" json:"room_id,omitempty"`
	Date      string    `gorm:"uniqueIndex:idx_room_slot" json:"date,omitempty"`
	StartTime string    `gorm:"uniqueIndex:idx_room_slot" json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	BookingID uint      `gorm:"index" json:"booking_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}
