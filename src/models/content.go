package models

import "rbs/src/types"

type FAQ struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Position int    `json:"position,omitempty"`

	types.Timestamps
}

type Page struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Slug  string `gorm:"uniqueIndex" json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	types.Timestamps
}
