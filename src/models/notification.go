package models

import (
	"rbs/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        uint         `gorm:"index" json:"user_id"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	ReferenceType string       `json:"ref_type"`
	ReferenceID   string       `json:"ref_id"`
	ReferenceBody *types.JSONB `gorm:"type:jsonb" json:"ref_body"`

	types.Timestamps
}
