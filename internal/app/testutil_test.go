package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ponder/internal/model"
	"ponder/internal/repository"
)

// newTestDB opens an isolated in-memory database per test. A single
// connection keeps every statement on the same :memory: instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.ThoughtEntry{},
		&model.QuestionSeries{},
		&model.SeriesQuestion{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fixtures struct {
	db        *gorm.DB
	users     *repository.UserRepository
	questions *repository.QuestionRepository
	thoughts  *repository.ThoughtRepository
	series    *repository.SeriesRepository
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	db := newTestDB(t)
	return fixtures{
		db:        db,
		users:     repository.NewUserRepository(db),
		questions: repository.NewQuestionRepository(db),
		thoughts:  repository.NewThoughtRepository(db),
		series:    repository.NewSeriesRepository(db),
	}
}

func (f fixtures) questionService(cache CatalogCache) *QuestionService {
	return NewQuestionService(f.db, f.questions, f.thoughts, f.series, cache)
}

func (f fixtures) thoughtService() *ThoughtService {
	return NewThoughtService(f.thoughts, f.questions)
}

func (f fixtures) seriesService() *SeriesService {
	return NewSeriesService(f.db, f.series, f.questions)
}

func mustCreateQuestion(t *testing.T, svc *QuestionService, title string) *model.Question {
	t.Helper()
	question, err := svc.Create(context.Background(), CreateQuestionInput{Title: title})
	require.NoError(t, err)
	return question
}
