package models

import "time"

// ActivityDay stores aggregated API activity counts per user and custom day.
// Written by the activity middleware, read by the carry-over sweeper to find
// recently active users and by the stats endpoint for daily-active counts.
type ActivityDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_activity_user_date,unique;not null" json:"user_id"`
	Date      string    `gorm:"index:idx_activity_user_date,unique;size:10;not null" json:"date"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
