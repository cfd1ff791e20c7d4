package models

import "time"

// StreakState is the per-user login streak record. One row per user, created
// on first login and never deleted. LastLoginDate is the custom-day date
// string ("2006-01-02"), not a raw midnight calendar date. BonusClaimedToday
// resets to false every time LastLoginDate advances.
type StreakState struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	LastLoginDate     string    `gorm:"size:10;not null" json:"last_login_date"`
	CurrentStreak     int       `gorm:"default:0" json:"current_streak"`
	LongestStreak     int       `gorm:"default:0" json:"longest_streak"`
	TotalLogins       int       `gorm:"default:0" json:"total_logins"`
	BonusClaimedToday bool      `gorm:"default:false" json:"bonus_claimed_today"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
