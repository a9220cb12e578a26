package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponder/internal/model"
)

type seriesFixture struct {
	fixtures
	questions *QuestionService
	series    *SeriesService
}

func newSeriesFixture(t *testing.T) seriesFixture {
	t.Helper()
	f := newFixtures(t)
	return seriesFixture{
		fixtures:  f,
		questions: f.questionService(nil),
		series:    f.seriesService(),
	}
}

func (sf seriesFixture) addQuestion(t *testing.T, seriesID, title string, orderIndex int) *model.Question {
	t.Helper()
	question := mustCreateQuestion(t, sf.questions, title)
	_, err := sf.series.AddQuestion(AddQuestionInput{
		SeriesID:   seriesID,
		QuestionID: question.ID,
		OrderIndex: orderIndex,
	})
	require.NoError(t, err)
	return question
}

func orderOf(memberships []model.SeriesQuestion) map[string]int {
	out := make(map[string]int, len(memberships))
	for _, m := range memberships {
		out[m.QuestionID] = m.OrderIndex
	}
	return out
}

func TestSeriesCRUD(t *testing.T) {
	sf := newSeriesFixture(t)

	created, err := sf.series.Create(CreateSeriesInput{
		Name:  "  Good Night Diary  ",
		Icon:  "🌙",
		Color: "#4f46e5",
	})
	require.NoError(t, err)
	assert.Equal(t, "Good Night Diary", created.Name)

	_, err = sf.series.Create(CreateSeriesInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	newName := "Morning Pages"
	updated, err := sf.series.Update(created.ID, UpdateSeriesInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Morning Pages", updated.Name)
	assert.Equal(t, "🌙", updated.Icon)

	listed, err := sf.series.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(0), listed[0].QuestionCount)

	require.NoError(t, sf.series.Delete(created.ID))
	_, err = sf.series.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestSeriesQuestionCount(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Counted"})
	require.NoError(t, err)
	sf.addQuestion(t, s.ID, "one", 0)
	sf.addQuestion(t, s.ID, "two", 0)

	listed, err := sf.series.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].QuestionCount)
}

func TestAddQuestionAppendsAfterGaps(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Gappy"})
	require.NoError(t, err)

	first := sf.addQuestion(t, s.ID, "first", 0)
	second := sf.addQuestion(t, s.ID, "second", 0)
	third := sf.addQuestion(t, s.ID, "third", 0)

	// Removing the middle question leaves a gap; no renumbering happens.
	require.NoError(t, sf.series.RemoveQuestion(s.ID, second.ID))

	fourth := sf.addQuestion(t, s.ID, "fourth", 0)

	memberships, err := sf.series.ListQuestions(s.ID)
	require.NoError(t, err)
	positions := orderOf(memberships)
	assert.Equal(t, 1, positions[first.ID])
	assert.Equal(t, 3, positions[third.ID])
	// Append lands after the surviving maximum, not in the gap.
	assert.Equal(t, 4, positions[fourth.ID])
}

func TestAddQuestionExplicitPositionAndConflicts(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Strict"})
	require.NoError(t, err)
	question := sf.addQuestion(t, s.ID, "placed", 5)

	memberships, err := sf.series.ListQuestions(s.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, 5, memberships[0].OrderIndex)
	// The embedded question rides along on listing.
	require.NotNil(t, memberships[0].Question)
	assert.Equal(t, "placed", memberships[0].Question.Title)

	// Same question again, any position.
	_, err = sf.series.AddQuestion(AddQuestionInput{SeriesID: s.ID, QuestionID: question.ID})
	assert.ErrorIs(t, err, ErrMembershipExists)

	// Another question at an occupied position.
	other := mustCreateQuestion(t, sf.questions, "squatter")
	_, err = sf.series.AddQuestion(AddQuestionInput{SeriesID: s.ID, QuestionID: other.ID, OrderIndex: 5})
	assert.ErrorIs(t, err, ErrOrderConflict)

	// The failed insert leaves no membership behind.
	memberships, err = sf.series.ListQuestions(s.ID)
	require.NoError(t, err)
	assert.Len(t, memberships, 1)
}

func TestAddQuestionUnknownTargets(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Lonely"})
	require.NoError(t, err)
	question := mustCreateQuestion(t, sf.questions, "real")

	_, err = sf.series.AddQuestion(AddQuestionInput{SeriesID: "ghost", QuestionID: question.ID})
	assert.ErrorIs(t, err, ErrSeriesNotFound)

	_, err = sf.series.AddQuestion(AddQuestionInput{SeriesID: s.ID, QuestionID: "ghost"})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	assert.ErrorIs(t, sf.series.RemoveQuestion(s.ID, question.ID), ErrMembershipNotFound)
}

func TestUpdateOrderSwap(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Swappy"})
	require.NoError(t, err)
	a := sf.addQuestion(t, s.ID, "a", 0)
	b := sf.addQuestion(t, s.ID, "b", 0)
	c := sf.addQuestion(t, s.ID, "c", 0)

	// Swapping a and b would collide mid-batch without the two-phase write.
	err = sf.series.UpdateOrder(s.ID, []QuestionOrder{
		{QuestionID: a.ID, OrderIndex: 2},
		{QuestionID: b.ID, OrderIndex: 1},
	})
	require.NoError(t, err)

	memberships, err := sf.series.ListQuestions(s.ID)
	require.NoError(t, err)
	positions := orderOf(memberships)
	assert.Equal(t, 2, positions[a.ID])
	assert.Equal(t, 1, positions[b.ID])
	assert.Equal(t, 3, positions[c.ID])
	// Walk order follows the new indexes.
	assert.Equal(t, b.ID, memberships[0].QuestionID)
	assert.Equal(t, a.ID, memberships[1].QuestionID)
}

func TestUpdateOrderRejectsBadBatches(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Picky"})
	require.NoError(t, err)
	a := sf.addQuestion(t, s.ID, "a", 0)
	b := sf.addQuestion(t, s.ID, "b", 0)

	// Duplicate target positions inside one batch.
	err = sf.series.UpdateOrder(s.ID, []QuestionOrder{
		{QuestionID: a.ID, OrderIndex: 3},
		{QuestionID: b.ID, OrderIndex: 3},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Positions start at 1.
	err = sf.series.UpdateOrder(s.ID, []QuestionOrder{{QuestionID: a.ID, OrderIndex: 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, sf.series.UpdateOrder(s.ID, nil), ErrInvalidInput)
	assert.ErrorIs(t, sf.series.UpdateOrder("ghost", []QuestionOrder{{QuestionID: a.ID, OrderIndex: 1}}), ErrSeriesNotFound)
}

func TestUpdateOrderConflictRollsBack(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Rollback"})
	require.NoError(t, err)
	a := sf.addQuestion(t, s.ID, "a", 0)
	b := sf.addQuestion(t, s.ID, "b", 0)

	// Target position 2 is held by b, which is not in the batch.
	err = sf.series.UpdateOrder(s.ID, []QuestionOrder{{QuestionID: a.ID, OrderIndex: 2}})
	assert.ErrorIs(t, err, ErrOrderConflict)

	memberships, err := sf.series.ListQuestions(s.ID)
	require.NoError(t, err)
	positions := orderOf(memberships)
	assert.Equal(t, 1, positions[a.ID])
	assert.Equal(t, 2, positions[b.ID])
}

func TestSeriesDeleteKeepsQuestions(t *testing.T) {
	sf := newSeriesFixture(t)

	s, err := sf.series.Create(CreateSeriesInput{Name: "Disposable"})
	require.NoError(t, err)
	question := sf.addQuestion(t, s.ID, "keeper", 0)

	require.NoError(t, sf.series.Delete(s.ID))

	_, err = sf.series.ListQuestions(s.ID)
	assert.ErrorIs(t, err, ErrSeriesNotFound)

	// The question outlives its series.
	kept, err := sf.questions.GetByID(question.ID)
	require.NoError(t, err)
	assert.Equal(t, "keeper", kept.Title)
}
