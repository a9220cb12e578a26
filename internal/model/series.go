package model

import "time"

// QuestionSeries is a named, ordered collection of questions meant to be
// worked through in sequence. QuestionCount is derived from membership rows.
type QuestionSeries struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Icon          string    `gorm:"size:16" json:"icon,omitempty"`
	Color         string    `gorm:"size:16" json:"color,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	QuestionCount int64     `gorm:"-" json:"questionCount"`
}

func (QuestionSeries) TableName() string { return "question_series" }

// SeriesQuestion places one question at one position within one series.
// OrderIndex is 1-based and unique per series; gaps after removals are
// expected and never renumbered.
type SeriesQuestion struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SeriesID   string    `gorm:"size:36;not null;uniqueIndex:idx_series_question;uniqueIndex:idx_series_order" json:"seriesId"`
	QuestionID string    `gorm:"size:36;not null;uniqueIndex:idx_series_question" json:"questionId"`
	OrderIndex int       `gorm:"not null;uniqueIndex:idx_series_order" json:"orderIndex"`
	CreatedAt  time.Time `json:"-"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
