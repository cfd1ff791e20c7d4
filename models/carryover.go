package models

import "time"

// CarryOverRecord is the audit trail of a task rolled into the next day.
// Immutable after creation; the unique (user, task, original date) index is
// the idempotency key that prevents double-processing a day transition.
type CarryOverRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index:idx_carry_key,unique;not null" json:"user_id"`
	TaskID         uint      `gorm:"index:idx_carry_key,unique;not null" json:"task_id"`
	OriginalDate   string    `gorm:"index:idx_carry_key,unique;size:10;not null" json:"original_date"`
	Title          string    `gorm:"size:255" json:"title"`
	Category       string    `gorm:"size:64" json:"category"`
	Points         int       `json:"points"`
	OriginalPeriod string    `gorm:"size:16" json:"original_period"`
	SessionRef     string    `gorm:"size:64" json:"session_ref"`
	CreatedAt      time.Time `json:"created_at"`
}
