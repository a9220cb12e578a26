package app

import (
	"strings"

	"github.com/google/uuid"

	"ponder/internal/model"
	"ponder/internal/repository"
)

type ThoughtService struct {
	thoughtRepo  *repository.ThoughtRepository
	questionRepo *repository.QuestionRepository
}

type CreateThoughtInput struct {
	QuestionID string
	UserID     string
	Content    string
}

func NewThoughtService(thoughtRepo *repository.ThoughtRepository, questionRepo *repository.QuestionRepository) *ThoughtService {
	return &ThoughtService{
		thoughtRepo:  thoughtRepo,
		questionRepo: questionRepo,
	}
}

func (s *ThoughtService) ListByQuestion(questionID, userID string) ([]model.ThoughtEntry, error) {
	if questionID == "" || userID == "" {
		return nil, ErrInvalidInput
	}
	return s.thoughtRepo.ListByQuestionAndUser(questionID, userID)
}

// Create always inserts a new row. Saving twice against the same question
// yields two entries; editing is the explicit Update operation.
func (s *ThoughtService) Create(input CreateThoughtInput) (*model.ThoughtEntry, error) {
	content := strings.TrimSpace(input.Content)
	if input.QuestionID == "" || input.UserID == "" || content == "" {
		return nil, ErrInvalidInput
	}

	question, err := s.questionRepo.GetByID(input.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	entry := &model.ThoughtEntry{
		ID:         uuid.NewString(),
		QuestionID: input.QuestionID,
		UserID:     input.UserID,
		Content:    content,
	}
	if err := s.thoughtRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ThoughtService) Update(id, userID, content string) (*model.ThoughtEntry, error) {
	content = strings.TrimSpace(content)
	if id == "" || userID == "" || content == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.thoughtRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrThoughtNotFound
	}

	if err := s.thoughtRepo.UpdateContent(id, content); err != nil {
		return nil, err
	}
	return s.thoughtRepo.GetByIDAndUserID(id, userID)
}

func (s *ThoughtService) Delete(id, userID string) error {
	if id == "" || userID == "" {
		return ErrInvalidInput
	}

	existing, err := s.thoughtRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrThoughtNotFound
	}
	return s.thoughtRepo.Delete(id)
}
