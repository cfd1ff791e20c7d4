package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
)

var achievementNames = map[string]string{
	models.AchFirstTask: "First Steps",
	models.AchTasks10:   "Ten Down",
	models.AchTasks100:  "Centurion",
	models.AchStreak7:   "One Week Strong",
	models.AchStreak30:  "Monthly Master",
	models.AchLevel5:    "Level 5",
	models.AchLevel10:   "Level 10",
	models.AchEarlyBird: "Early Bird",
}

// AchievementEvaluator unlocks achievements as a side effect of task
// completion and streak updates. Unlocks are insert-if-absent on the
// (user, code) key, so evaluating twice never duplicates.
type AchievementEvaluator struct {
	db *gorm.DB
}

func NewAchievementEvaluator(db *gorm.DB) *AchievementEvaluator {
	return &AchievementEvaluator{db: db}
}

// OnTaskCompleted evaluates completion-count, level and time-of-day unlocks.
// completedCount is the user's total completed tasks including this one.
func (e *AchievementEvaluator) OnTaskCompleted(userID uint, completedCount int64, level int, completedAt time.Time) []models.Achievement {
	var codes []string
	if completedCount >= 1 {
		codes = append(codes, models.AchFirstTask)
	}
	if completedCount >= 10 {
		codes = append(codes, models.AchTasks10)
	}
	if completedCount >= 100 {
		codes = append(codes, models.AchTasks100)
	}
	if level >= 5 {
		codes = append(codes, models.AchLevel5)
	}
	if level >= 10 {
		codes = append(codes, models.AchLevel10)
	}
	if completedAt.Hour() < 8 {
		codes = append(codes, models.AchEarlyBird)
	}
	return e.unlock(userID, codes, completedAt)
}

// OnStreak evaluates streak-length unlocks.
func (e *AchievementEvaluator) OnStreak(userID uint, streak int, now time.Time) []models.Achievement {
	var codes []string
	if streak >= 7 {
		codes = append(codes, models.AchStreak7)
	}
	if streak >= 30 {
		codes = append(codes, models.AchStreak30)
	}
	return e.unlock(userID, codes, now)
}

func (e *AchievementEvaluator) unlock(userID uint, codes []string, at time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for _, code := range codes {
		ach := models.Achievement{
			UserID:     userID,
			Code:       code,
			Name:       achievementNames[code],
			UnlockedAt: at,
		}
		res := e.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ach)
		if res.Error != nil {
			continue // best-effort; a lost unlock re-fires on the next trigger
		}
		if res.RowsAffected > 0 {
			unlocked = append(unlocked, ach)
		}
	}
	return unlocked
}
