package app

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ponder/internal/ai"
	"ponder/internal/model"
	"ponder/internal/repository"
)

const (
	aiFallbackDescription = "Generated by AI"
	aiFallbackCategory    = "AI"
	importDefaultCategory = "default"
)

var (
	jsonArrayPattern  = regexp.MustCompile(`\[[\s\S]*\]`)
	lineNumberPattern = regexp.MustCompile(`^\d+[.)]\s*`)
)

// CatalogCache is a best-effort cache of the full question catalog.
// Every error from it is swallowed; the database stays authoritative.
type CatalogCache interface {
	GetQuestions(ctx context.Context) ([]model.Question, bool, error)
	SetQuestions(ctx context.Context, questions []model.Question) error
	Invalidate(ctx context.Context) error
}

type QuestionService struct {
	db           *gorm.DB
	questionRepo *repository.QuestionRepository
	thoughtRepo  *repository.ThoughtRepository
	seriesRepo   *repository.SeriesRepository
	catalogCache CatalogCache
	llmClient    *ai.OpenAICompatibleClient
}

type CreateQuestionInput struct {
	Title       string
	Description string
	Category    string
}

type UpdateQuestionInput struct {
	Title       *string
	Description *string
	Category    *string
}

type BatchImportResult struct {
	Message   string           `json:"message"`
	Questions []model.Question `json:"questions"`
}

type AIGenerateInput struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Prompt    string
	Count     int
}

type AIGenerateResult struct {
	Message    string           `json:"message"`
	Questions  []model.Question `json:"questions"`
	AIResponse string           `json:"aiResponse"`
}

type generatedQuestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func NewQuestionService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	thoughtRepo *repository.ThoughtRepository,
	seriesRepo *repository.SeriesRepository,
	catalogCache CatalogCache,
) *QuestionService {
	return &QuestionService{
		db:           db,
		questionRepo: questionRepo,
		thoughtRepo:  thoughtRepo,
		seriesRepo:   seriesRepo,
		catalogCache: catalogCache,
		llmClient:    ai.NewOpenAICompatibleClient(),
	}
}

func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	if s.catalogCache != nil {
		if cached, hit, err := s.catalogCache.GetQuestions(ctx); err == nil && hit {
			return cached, nil
		}
	}

	questions, err := s.questionRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if s.catalogCache != nil {
		_ = s.catalogCache.SetQuestions(ctx, questions)
	}
	return questions, nil
}

func (s *QuestionService) GetByID(id string) (*model.Question, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

func (s *QuestionService) Categories() ([]string, error) {
	return s.questionRepo.ListCategories()
}

func (s *QuestionService) Create(ctx context.Context, input CreateQuestionInput) (*model.Question, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	question := &model.Question{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return question, nil
}

// Update patches only the fields present in the input; absent fields keep
// their stored values.
func (s *QuestionService) Update(ctx context.Context, id string, input UpdateQuestionInput) (*model.Question, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrQuestionNotFound
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		fields["category"] = strings.TrimSpace(*input.Category)
	}
	if len(fields) > 0 {
		if err := s.questionRepo.Patch(id, fields); err != nil {
			return nil, err
		}
	}
	s.invalidateCatalog(ctx)
	return s.questionRepo.GetByID(id)
}

// Delete removes the question together with its thought entries and series
// memberships in one transaction, so a failure leaves nothing half-deleted.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	existing, err := s.questionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrQuestionNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.thoughtRepo.WithTx(tx).DeleteByQuestionID(id); err != nil {
			return err
		}
		if err := s.seriesRepo.WithTx(tx).DeleteMembershipsByQuestion(id); err != nil {
			return err
		}
		return s.questionRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// BatchImport takes raw text, one question per line in
// title|description|category form. The split is naive (first two pipes
// only, no escaping) and lines without a title are silently dropped.
// All surviving rows commit atomically, preserving input order.
func (s *QuestionService) BatchImport(ctx context.Context, text string) (*BatchImportResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	var questions []model.Question
	for _, line := range strings.Split(text, "\n") {
		if question, ok := parseImportLine(line); ok {
			questions = append(questions, question)
		}
	}
	if len(questions) == 0 {
		return nil, ErrInvalidInput
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.questionRepo.WithTx(tx)
		for i := range questions {
			if err := repo.Create(&questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return &BatchImportResult{
		Message:   fmt.Sprintf("imported %d questions", len(questions)),
		Questions: questions,
	}, nil
}

func parseImportLine(line string) (model.Question, bool) {
	if strings.TrimSpace(line) == "" {
		return model.Question{}, false
	}

	parts := strings.SplitN(line, "|", 3)
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return model.Question{}, false
	}

	description := ""
	if len(parts) > 1 {
		description = strings.TrimSpace(parts[1])
	}
	category := importDefaultCategory
	if len(parts) > 2 {
		if trimmed := strings.TrimSpace(parts[2]); trimmed != "" {
			category = trimmed
		}
	}

	return model.Question{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Category:    category,
	}, true
}

// GenerateWithAI proxies one chat-completion call and persists whatever
// questions can be recovered from the reply. Parsing degrades in steps:
// strict JSON, then the first [...] span, then one question per line.
func (s *QuestionService) GenerateWithAI(ctx context.Context, input AIGenerateInput) (*AIGenerateResult, error) {
	if input.BaseURL == "" || input.APIKey == "" || input.ModelName == "" ||
		strings.TrimSpace(input.Prompt) == "" || input.Count <= 0 {
		return nil, ErrInvalidInput
	}

	messages := []ai.ChatMessage{
		{
			Role: "system",
			Content: "You are an assistant that writes reflective thinking questions. " +
				"Each question has a title, a description and a category. " +
				`Reply with a JSON array only, in the form ` +
				`[{"title": "...", "description": "...", "category": "..."}].`,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("%s\n\nGenerate %d thinking questions and return them as a JSON array.", strings.TrimSpace(input.Prompt), input.Count),
		},
	}

	content, err := s.llmClient.Complete(ctx, ai.ChatConfig{
		BaseURL: input.BaseURL,
		APIKey:  input.APIKey,
		Model:   input.ModelName,
	}, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIGeneration, err)
	}

	generated := parseGeneratedQuestions(content)
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: unusable model output", ErrAIGeneration)
	}

	questions := make([]model.Question, 0, len(generated))
	for _, g := range generated {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			continue
		}
		description := strings.TrimSpace(g.Description)
		if description == "" {
			description = aiFallbackDescription
		}
		category := strings.TrimSpace(g.Category)
		if category == "" {
			category = aiFallbackCategory
		}
		questions = append(questions, model.Question{
			ID:          uuid.NewString(),
			Title:       title,
			Description: description,
			Category:    category,
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: unusable model output", ErrAIGeneration)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.questionRepo.WithTx(tx)
		for i := range questions {
			if err := repo.Create(&questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return &AIGenerateResult{
		Message:    fmt.Sprintf("generated and imported %d questions", len(questions)),
		Questions:  questions,
		AIResponse: content,
	}, nil
}

func parseGeneratedQuestions(content string) []generatedQuestion {
	var generated []generatedQuestion

	raw := content
	if match := jsonArrayPattern.FindString(content); match != "" {
		raw = match
	}
	if err := json.Unmarshal([]byte(raw), &generated); err == nil && len(generated) > 0 {
		return generated
	}

	// Line fallback: the model ignored the JSON instruction, so treat
	// every non-blank line as a bare title.
	for _, line := range strings.Split(content, "\n") {
		title := strings.TrimSpace(lineNumberPattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if title == "" {
			continue
		}
		generated = append(generated, generatedQuestion{
			Title:       title,
			Description: aiFallbackDescription,
			Category:    aiFallbackCategory,
		})
	}
	return generated
}

func (s *QuestionService) invalidateCatalog(ctx context.Context) {
	if s.catalogCache != nil {
		_ = s.catalogCache.Invalidate(ctx)
	}
}
