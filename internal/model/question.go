package model

import "time"

// Question is a reflection prompt. Category is a free-form label with no
// backing entity; the distinct set is derived by scanning this table.
type Question struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `gorm:"size:64;index" json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
