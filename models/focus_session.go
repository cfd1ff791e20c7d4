package models

import "time"

// FocusSession records a lock-in session: the user committing to their task
// list for one custom day. Carry-over records reference the session of the
// originating day as provenance; absence of a session is not an error.
type FocusSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Ref         string     `gorm:"size:64;uniqueIndex" json:"ref"`
	Date        string     `gorm:"index;size:10;not null" json:"date"`
	TaskCount   int        `gorm:"default:0" json:"task_count"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	DurationSec int        `gorm:"default:0" json:"duration_sec"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
