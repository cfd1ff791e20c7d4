package models

import "time"

// Time period slots a task can be scheduled into. Morning is the first slot
// of the day, which makes it the landing place for carried-over tasks.
const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

// ValidPeriod reports whether s names a known time period.
func ValidPeriod(s string) bool {
	return s == PeriodMorning || s == PeriodAfternoon || s == PeriodEvening
}

// Task is a user's to-do item. Completing a task awards its Points as XP.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Category    string     `gorm:"size:64;default:'general'" json:"category"`
	Points      int        `gorm:"default:10" json:"points"`
	TimePeriod  string     `gorm:"size:16;default:'morning'" json:"time_period"`
	Position    int        `gorm:"default:0" json:"position"`
	Completed   bool       `gorm:"index;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
