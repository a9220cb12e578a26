package app

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ponder/internal/model"
	"ponder/internal/repository"
)

type SeriesService struct {
	db           *gorm.DB
	seriesRepo   *repository.SeriesRepository
	questionRepo *repository.QuestionRepository
}

type CreateSeriesInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

type UpdateSeriesInput struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

type AddQuestionInput struct {
	SeriesID   string
	QuestionID string
	// OrderIndex 0 means "append after the current maximum".
	OrderIndex int
}

type QuestionOrder struct {
	QuestionID string `json:"questionId"`
	OrderIndex int    `json:"orderIndex"`
}

func NewSeriesService(db *gorm.DB, seriesRepo *repository.SeriesRepository, questionRepo *repository.QuestionRepository) *SeriesService {
	return &SeriesService{
		db:           db,
		seriesRepo:   seriesRepo,
		questionRepo: questionRepo,
	}
}

func (s *SeriesService) List() ([]model.QuestionSeries, error) {
	return s.seriesRepo.ListAll()
}

func (s *SeriesService) GetByID(id string) (*model.QuestionSeries, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	series, err := s.seriesRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, ErrSeriesNotFound
	}
	return series, nil
}

func (s *SeriesService) Create(input CreateSeriesInput) (*model.QuestionSeries, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	series := &model.QuestionSeries{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Icon:        strings.TrimSpace(input.Icon),
		Color:       strings.TrimSpace(input.Color),
	}
	if err := s.seriesRepo.Create(series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *SeriesService) Update(id string, input UpdateSeriesInput) (*model.QuestionSeries, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.seriesRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSeriesNotFound
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Icon != nil {
		fields["icon"] = strings.TrimSpace(*input.Icon)
	}
	if input.Color != nil {
		fields["color"] = strings.TrimSpace(*input.Color)
	}
	if len(fields) > 0 {
		if err := s.seriesRepo.Patch(id, fields); err != nil {
			return nil, err
		}
	}
	return s.seriesRepo.GetByID(id)
}

// Delete removes the series and its membership rows atomically. Member
// questions survive; only the join records go.
func (s *SeriesService) Delete(id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	existing, err := s.seriesRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSeriesNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.seriesRepo.WithTx(tx)
		if err := repo.DeleteMembershipsBySeries(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
}

func (s *SeriesService) ListQuestions(seriesID string) ([]model.SeriesQuestion, error) {
	if seriesID == "" {
		return nil, ErrInvalidInput
	}
	series, err := s.seriesRepo.GetByID(seriesID)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, ErrSeriesNotFound
	}
	return s.seriesRepo.ListMemberships(seriesID)
}

// AddQuestion places a question in a series. With no explicit position the
// question appends after the current maximum order, so gaps left by prior
// removals never cause a reused slot.
func (s *SeriesService) AddQuestion(input AddQuestionInput) (*model.SeriesQuestion, error) {
	if input.SeriesID == "" || input.QuestionID == "" || input.OrderIndex < 0 {
		return nil, ErrInvalidInput
	}

	series, err := s.seriesRepo.GetByID(input.SeriesID)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, ErrSeriesNotFound
	}

	question, err := s.questionRepo.GetByID(input.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	existing, err := s.seriesRepo.GetMembership(input.SeriesID, input.QuestionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMembershipExists
	}

	membership := &model.SeriesQuestion{
		ID:         uuid.NewString(),
		SeriesID:   input.SeriesID,
		QuestionID: input.QuestionID,
		OrderIndex: input.OrderIndex,
	}

	// Position resolution and insert share one transaction so two
	// concurrent appends cannot read the same maximum.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.seriesRepo.WithTx(tx)
		if membership.OrderIndex == 0 {
			max, err := repo.MaxOrderIndex(input.SeriesID)
			if err != nil {
				return err
			}
			membership.OrderIndex = max + 1
		}
		return repo.CreateMembership(membership)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOrderConflict
		}
		return nil, err
	}
	return membership, nil
}

func (s *SeriesService) RemoveQuestion(seriesID, questionID string) error {
	if seriesID == "" || questionID == "" {
		return ErrInvalidInput
	}

	membership, err := s.seriesRepo.GetMembership(seriesID, questionID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMembershipNotFound
	}
	// Remaining order indexes are not renumbered; gaps are expected.
	return s.seriesRepo.DeleteMembership(seriesID, questionID)
}

// UpdateOrder applies a reordering batch atomically. Duplicate target
// positions within the batch are rejected up front. The writes run in two
// phases — every touched row is parked at a negated index before the final
// values land — so swaps inside the batch cannot trip the unique
// (series_id, order_index) constraint mid-flight. A target position held
// by a row outside the batch still fails the constraint and rolls the
// whole batch back.
func (s *SeriesService) UpdateOrder(seriesID string, orders []QuestionOrder) error {
	if seriesID == "" || len(orders) == 0 {
		return ErrInvalidInput
	}

	seen := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		if o.QuestionID == "" || o.OrderIndex < 1 {
			return ErrInvalidInput
		}
		if _, dup := seen[o.OrderIndex]; dup {
			return ErrInvalidInput
		}
		seen[o.OrderIndex] = struct{}{}
	}

	series, err := s.seriesRepo.GetByID(seriesID)
	if err != nil {
		return err
	}
	if series == nil {
		return ErrSeriesNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.seriesRepo.WithTx(tx)
		for _, o := range orders {
			if err := repo.UpdateOrderIndex(seriesID, o.QuestionID, -o.OrderIndex); err != nil {
				return err
			}
		}
		for _, o := range orders {
			if err := repo.UpdateOrderIndex(seriesID, o.QuestionID, o.OrderIndex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrOrderConflict
		}
		return err
	}
	return nil
}
