package model

import "time"

// ThoughtEntry is one timestamped response a user wrote for a question.
// A user may hold any number of entries per question; every save is a new
// row, and reads are always scoped to (question, user).
type ThoughtEntry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	QuestionID string    `gorm:"size:36;not null;index:idx_thought_entries_question_user" json:"questionId"`
	UserID     string    `gorm:"size:36;not null;index:idx_thought_entries_question_user;index" json:"userId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
