package models

import "time"

// Category is a user-defined task grouping used for filtering and analytics.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_cat_user_name,unique;not null" json:"user_id"`
	Name      string    `gorm:"index:idx_cat_user_name,unique;size:64;not null" json:"name"`
	Color     string    `gorm:"size:16" json:"color"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
