// Package seed populates an empty database with starter content so a
// fresh install has something to reflect on.
package seed

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ponder/internal/model"
)

func Run(db *gorm.DB) error {
	if err := seedQuestions(db); err != nil {
		return err
	}
	return seedSeries(db)
}

func seedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count questions failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	starters := []model.Question{
		{
			Title:       "What left the deepest impression on you today?",
			Description: "A person, an event, an idea, or any moment that moved you.",
			Category:    "Daily reflection",
		},
		{
			Title:       "If you could change one thing about the world, what would it be?",
			Description: "Think about the social, environmental or personal issue you find most important.",
			Category:    "Values",
		},
		{
			Title:       "Describe your ideal day.",
			Description: "From waking up to falling asleep, how would a perfect day unfold?",
			Category:    "Life vision",
		},
		{
			Title:       "What have you learned recently?",
			Description: "A skill, a fact, or a new understanding of yourself or others.",
			Category:    "Growth",
		},
		{
			Title:       "What three things are you most grateful for?",
			Description: "Take a moment for the parts of life worth appreciating.",
			Category:    "Gratitude",
		},
		{
			Title:       "If failure were impossible, what would you try?",
			Description: "Imagine the goal you would chase without any fear of failing.",
			Category:    "Dreams",
		},
		{
			Title:       "Which of your qualities do you hope people remember?",
			Description: "Consider the impression and impact you want to leave behind.",
			Category:    "Self-knowledge",
		},
		{
			Title:       "What has confused or unsettled you lately?",
			Description: "Explore the questions that keep you thinking.",
			Category:    "Open questions",
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range starters {
			starters[i].ID = uuid.NewString()
			if err := tx.Create(&starters[i]).Error; err != nil {
				return fmt.Errorf("seed question failed: %w", err)
			}
		}
		return nil
	})
}

func seedSeries(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.QuestionSeries{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count series failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	series := model.QuestionSeries{
		ID:          uuid.NewString(),
		Name:        "Good Night Diary",
		Description: "Guided questions to close out the day: look back, find gratitude, get ready for tomorrow.",
		Icon:        "🌙",
		Color:       "#4f46e5",
	}

	members := []model.Question{
		{
			Title:       "Three good things",
			Description: "Recall three good things from today, however small. What made them good?",
			Category:    "Gratitude",
		},
		{
			Title:       "Tomorrow's highlight",
			Description: "What are you most looking forward to tomorrow, and why?",
			Category:    "Anticipation",
		},
		{
			Title:       "Letting go",
			Description: "Is there anything from today you want to set down before you sleep?",
			Category:    "Release",
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&series).Error; err != nil {
			return fmt.Errorf("seed series failed: %w", err)
		}
		for i := range members {
			members[i].ID = uuid.NewString()
			if err := tx.Create(&members[i]).Error; err != nil {
				return fmt.Errorf("seed series question failed: %w", err)
			}
			membership := model.SeriesQuestion{
				ID:         uuid.NewString(),
				SeriesID:   series.ID,
				QuestionID: members[i].ID,
				OrderIndex: i + 1,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return fmt.Errorf("seed series membership failed: %w", err)
			}
		}
		return nil
	})
}
