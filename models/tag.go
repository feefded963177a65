package models

import "time"

// Tag is a free-form label attached to posts
type Tag struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_name"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (Tag) TableName() string { return "tags" }
