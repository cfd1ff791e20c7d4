package models

import "time"

// Achievement codes evaluated on task completion and streak updates.
const (
	AchFirstTask = "first_task"
	AchTasks10   = "tasks_10"
	AchTasks100  = "tasks_100"
	AchStreak7   = "streak_7"
	AchStreak30  = "streak_30"
	AchLevel5    = "level_5"
	AchLevel10   = "level_10"
	AchEarlyBird = "early_bird"
)

// Achievement is a one-time unlock per user and code.
type Achievement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_ach_user_code,unique;not null" json:"user_id"`
	Code       string    `gorm:"index:idx_ach_user_code,unique;size:32;not null" json:"code"`
	Name       string    `gorm:"size:128" json:"name"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}
