package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ponder/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: tx}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("create question failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Where("id = ?", id).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query question by id failed: %w", err)
	}
	return &question, nil
}

func (r *QuestionRepository) ListAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions failed: %w", err)
	}
	return questions, nil
}

// ListCategories scans distinct non-empty category values. Categories have
// no entity of their own; the scan is the source of truth.
func (r *QuestionRepository) ListCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&model.Question{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, nil
}

// Patch updates only the supplied columns, leaving the rest untouched.
func (r *QuestionRepository) Patch(id string, fields map[string]interface{}) error {
	if err := r.db.Model(&model.Question{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update question failed: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Question{}).Error; err != nil {
		return fmt.Errorf("delete question failed: %w", err)
	}
	return nil
}
