package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ponder/internal/model"
)

type ThoughtRepository struct {
	db *gorm.DB
}

func NewThoughtRepository(db *gorm.DB) *ThoughtRepository {
	return &ThoughtRepository{db: db}
}

func (r *ThoughtRepository) WithTx(tx *gorm.DB) *ThoughtRepository {
	return &ThoughtRepository{db: tx}
}

func (r *ThoughtRepository) Create(entry *model.ThoughtEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create thought entry failed: %w", err)
	}
	return nil
}

// ListByQuestionAndUser returns only the caller's entries; no entry is
// ever visible across users.
func (r *ThoughtRepository) ListByQuestionAndUser(questionID, userID string) ([]model.ThoughtEntry, error) {
	var entries []model.ThoughtEntry
	err := r.db.Where("question_id = ? AND user_id = ?", questionID, userID).
		Order("updated_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list thought entries failed: %w", err)
	}
	return entries, nil
}

func (r *ThoughtRepository) GetByIDAndUserID(id, userID string) (*model.ThoughtEntry, error) {
	var entry model.ThoughtEntry
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get thought entry failed: %w", err)
	}
	return &entry, nil
}

func (r *ThoughtRepository) UpdateContent(id, content string) error {
	err := r.db.Model(&model.ThoughtEntry{}).
		Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return fmt.Errorf("update thought entry failed: %w", err)
	}
	return nil
}

func (r *ThoughtRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.ThoughtEntry{}).Error; err != nil {
		return fmt.Errorf("delete thought entry failed: %w", err)
	}
	return nil
}

func (r *ThoughtRepository) DeleteByQuestionID(questionID string) error {
	if err := r.db.Where("question_id = ?", questionID).Delete(&model.ThoughtEntry{}).Error; err != nil {
		return fmt.Errorf("delete thought entries by question failed: %w", err)
	}
	return nil
}
