package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponder/internal/model"
)

// fakeCatalogCache records the interactions so tests can assert on the
// read-through and invalidation behavior without a running Redis.
type fakeCatalogCache struct {
	questions   []model.Question
	hit         bool
	setCalls    int
	invalidates int
}

func (c *fakeCatalogCache) GetQuestions(ctx context.Context) ([]model.Question, bool, error) {
	return c.questions, c.hit, nil
}

func (c *fakeCatalogCache) SetQuestions(ctx context.Context, questions []model.Question) error {
	c.questions = questions
	c.hit = true
	c.setCalls++
	return nil
}

func (c *fakeCatalogCache) Invalidate(ctx context.Context) error {
	c.questions = nil
	c.hit = false
	c.invalidates++
	return nil
}

func TestQuestionCRUD(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateQuestionInput{
		Title:       "  What did you learn today?  ",
		Description: "One concrete thing.",
		Category:    "daily",
	})
	require.NoError(t, err)
	assert.Equal(t, "What did you learn today?", created.Title)

	got, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	newTitle := "What surprised you today?"
	updated, err := svc.Update(ctx, created.ID, UpdateQuestionInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	// Absent fields keep their stored values.
	assert.Equal(t, "One concrete thing.", updated.Description)
	assert.Equal(t, "daily", updated.Category)

	empty := "   "
	_, err = svc.Update(ctx, created.ID, UpdateQuestionInput{Title: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetByID("no-such-id")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrQuestionNotFound)
}

func TestQuestionDeleteCascades(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	thoughts := f.thoughtService()
	series := f.seriesService()
	ctx := context.Background()

	question := mustCreateQuestion(t, svc, "Cascade target")
	survivor := mustCreateQuestion(t, svc, "Survivor")

	_, err := thoughts.Create(CreateThoughtInput{QuestionID: question.ID, UserID: "user-1", Content: "a thought"})
	require.NoError(t, err)

	s, err := series.Create(CreateSeriesInput{Name: "Evening"})
	require.NoError(t, err)
	_, err = series.AddQuestion(AddQuestionInput{SeriesID: s.ID, QuestionID: question.ID})
	require.NoError(t, err)
	_, err = series.AddQuestion(AddQuestionInput{SeriesID: s.ID, QuestionID: survivor.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, question.ID))

	entries, err := thoughts.ListByQuestion(question.ID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	memberships, err := series.ListQuestions(s.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, survivor.ID, memberships[0].QuestionID)

	// The series itself and unrelated questions are untouched.
	_, err = series.GetByID(s.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(survivor.ID)
	require.NoError(t, err)
}

func TestQuestionCategories(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	for _, c := range []string{"daily", "work", "daily", ""} {
		_, err := svc.Create(ctx, CreateQuestionInput{Title: "q " + c, Category: c})
		require.NoError(t, err)
	}

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"daily", "work"}, categories)
}

func TestQuestionListUsesCatalogCache(t *testing.T) {
	f := newFixtures(t)
	cache := &fakeCatalogCache{}
	svc := f.questionService(cache)
	ctx := context.Background()

	question := mustCreateQuestion(t, svc, "Cached?")
	assert.Equal(t, 1, cache.invalidates)

	// First list misses and fills the cache.
	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, cache.setCalls)

	// Second list is served from the cache, even if the cached copy has
	// drifted from the database.
	cache.questions = []model.Question{{ID: "stale", Title: "stale copy"}}
	listed, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "stale", listed[0].ID)

	// Writes invalidate, so the next list goes back to the database.
	require.NoError(t, svc.Delete(ctx, question.ID))
	assert.Equal(t, 2, cache.invalidates)
	listed, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestBatchImport(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	text := "First question|With a description|growth\n" +
		"\n" +
		"Second question\n" +
		"Third|keeps|all|the|pipes\n" +
		"   |no title, dropped\n" +
		"Fourth||  \n"

	result, err := svc.BatchImport(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, "imported 4 questions", result.Message)
	require.Len(t, result.Questions, 4)

	first := result.Questions[0]
	assert.Equal(t, "First question", first.Title)
	assert.Equal(t, "With a description", first.Description)
	assert.Equal(t, "growth", first.Category)

	// Title-only line gets the defaults.
	second := result.Questions[1]
	assert.Equal(t, "Second question", second.Title)
	assert.Equal(t, "", second.Description)
	assert.Equal(t, "default", second.Category)

	// Only the first two pipes split; the rest stays in the category.
	third := result.Questions[2]
	assert.Equal(t, "Third", third.Title)
	assert.Equal(t, "keeps", third.Description)
	assert.Equal(t, "all|the|pipes", third.Category)

	// Blank trailing fields fall back to the category default.
	fourth := result.Questions[3]
	assert.Equal(t, "", fourth.Description)
	assert.Equal(t, "default", fourth.Category)

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestBatchImportRejectsEmptyText(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	_, err := svc.BatchImport(ctx, "   \n\t\n")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Lines that all lack titles are as good as empty.
	_, err = svc.BatchImport(ctx, "|desc only\n |another")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func llmStub(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		if status < 300 {
			resp := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": content}},
				},
			}
			assert.NoError(t, writeJSON(w, resp))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func TestGenerateWithAIParsesJSON(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	content := `Here you go:
[{"title": "What energized you?", "description": "Think back.", "category": "energy"},
 {"title": "What drained you?", "description": "", "category": ""}]`
	server := llmStub(t, http.StatusOK, content)

	result, err := svc.GenerateWithAI(ctx, AIGenerateInput{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		ModelName: "test-model",
		Prompt:    "daily energy check",
		Count:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated and imported 2 questions", result.Message)
	assert.Equal(t, content, result.AIResponse)
	require.Len(t, result.Questions, 2)

	assert.Equal(t, "What energized you?", result.Questions[0].Title)
	assert.Equal(t, "energy", result.Questions[0].Category)

	// Blank fields from the model fall back to the AI placeholders.
	assert.Equal(t, "Generated by AI", result.Questions[1].Description)
	assert.Equal(t, "AI", result.Questions[1].Category)

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestGenerateWithAILineFallback(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	server := llmStub(t, http.StatusOK, "1. What matters most right now?\n2) Where did you procrastinate?\n\nWhat would you redo?")

	result, err := svc.GenerateWithAI(ctx, AIGenerateInput{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		ModelName: "test-model",
		Prompt:    "anything",
		Count:     3,
	})
	require.NoError(t, err)
	require.Len(t, result.Questions, 3)
	assert.Equal(t, "What matters most right now?", result.Questions[0].Title)
	assert.Equal(t, "Where did you procrastinate?", result.Questions[1].Title)
	assert.Equal(t, "What would you redo?", result.Questions[2].Title)
	for _, q := range result.Questions {
		assert.Equal(t, "Generated by AI", q.Description)
		assert.Equal(t, "AI", q.Category)
	}
}

func TestGenerateWithAIUpstreamFailure(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	server := llmStub(t, http.StatusBadGateway, "")

	_, err := svc.GenerateWithAI(ctx, AIGenerateInput{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		ModelName: "test-model",
		Prompt:    "anything",
		Count:     1,
	})
	assert.ErrorIs(t, err, ErrAIGeneration)

	// Nothing is persisted on failure.
	stored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGenerateWithAIValidatesInput(t *testing.T) {
	f := newFixtures(t)
	svc := f.questionService(nil)
	ctx := context.Background()

	base := AIGenerateInput{
		BaseURL:   "http://localhost:0",
		APIKey:    "k",
		ModelName: "m",
		Prompt:    "p",
		Count:     1,
	}

	for name, mutate := range map[string]func(*AIGenerateInput){
		"missing base url": func(i *AIGenerateInput) { i.BaseURL = "" },
		"missing api key":  func(i *AIGenerateInput) { i.APIKey = "" },
		"missing model":    func(i *AIGenerateInput) { i.ModelName = "" },
		"blank prompt":     func(i *AIGenerateInput) { i.Prompt = "   " },
		"zero count":       func(i *AIGenerateInput) { i.Count = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			input := base
			mutate(&input)
			_, err := svc.GenerateWithAI(ctx, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
