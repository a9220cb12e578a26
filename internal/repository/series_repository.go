package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ponder/internal/model"
)

type SeriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

func (r *SeriesRepository) WithTx(tx *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: tx}
}

func (r *SeriesRepository) Create(series *model.QuestionSeries) error {
	if err := r.db.Create(series).Error; err != nil {
		return fmt.Errorf("create series failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) GetByID(id string) (*model.QuestionSeries, error) {
	var series model.QuestionSeries
	if err := r.db.Where("id = ?", id).First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query series by id failed: %w", err)
	}
	return &series, nil
}

// ListAll returns every series, creation order, with the derived
// membership count stitched in.
func (r *SeriesRepository) ListAll() ([]model.QuestionSeries, error) {
	var series []model.QuestionSeries
	if err := r.db.Order("created_at ASC").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("list series failed: %w", err)
	}

	type seriesCount struct {
		SeriesID string
		Count    int64
	}
	var counts []seriesCount
	err := r.db.Model(&model.SeriesQuestion{}).
		Select("series_id, COUNT(*) as count").
		Group("series_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count series memberships failed: %w", err)
	}

	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.SeriesID] = c.Count
	}
	for i := range series {
		series[i].QuestionCount = byID[series[i].ID]
	}
	return series, nil
}

func (r *SeriesRepository) Patch(id string, fields map[string]interface{}) error {
	if err := r.db.Model(&model.QuestionSeries{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update series failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.QuestionSeries{}).Error; err != nil {
		return fmt.Errorf("delete series failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) CreateMembership(membership *model.SeriesQuestion) error {
	if err := r.db.Create(membership).Error; err != nil {
		return fmt.Errorf("create series membership failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) GetMembership(seriesID, questionID string) (*model.SeriesQuestion, error) {
	var membership model.SeriesQuestion
	err := r.db.Where("series_id = ? AND question_id = ?", seriesID, questionID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get series membership failed: %w", err)
	}
	return &membership, nil
}

// ListMemberships returns membership rows with the question embedded,
// walked in order_index order.
func (r *SeriesRepository) ListMemberships(seriesID string) ([]model.SeriesQuestion, error) {
	var memberships []model.SeriesQuestion
	err := r.db.Where("series_id = ?", seriesID).
		Order("order_index ASC").
		Preload("Question").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("list series memberships failed: %w", err)
	}
	return memberships, nil
}

// MaxOrderIndex returns 0 for an empty series, so max+1 append starts at 1.
func (r *SeriesRepository) MaxOrderIndex(seriesID string) (int, error) {
	var max int
	err := r.db.Model(&model.SeriesQuestion{}).
		Where("series_id = ?", seriesID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("query max order index failed: %w", err)
	}
	return max, nil
}

func (r *SeriesRepository) UpdateOrderIndex(seriesID, questionID string, orderIndex int) error {
	err := r.db.Model(&model.SeriesQuestion{}).
		Where("series_id = ? AND question_id = ?", seriesID, questionID).
		Update("order_index", orderIndex).Error
	if err != nil {
		return fmt.Errorf("update order index failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) DeleteMembership(seriesID, questionID string) error {
	err := r.db.Where("series_id = ? AND question_id = ?", seriesID, questionID).
		Delete(&model.SeriesQuestion{}).Error
	if err != nil {
		return fmt.Errorf("delete series membership failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) DeleteMembershipsBySeries(seriesID string) error {
	if err := r.db.Where("series_id = ?", seriesID).Delete(&model.SeriesQuestion{}).Error; err != nil {
		return fmt.Errorf("delete memberships by series failed: %w", err)
	}
	return nil
}

func (r *SeriesRepository) DeleteMembershipsByQuestion(questionID string) error {
	if err := r.db.Where("question_id = ?", questionID).Delete(&model.SeriesQuestion{}).Error; err != nil {
		return fmt.Errorf("delete memberships by question failed: %w", err)
	}
	return nil
}
