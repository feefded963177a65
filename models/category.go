package models

import "time"

// Category groups posts under a named section
type Category struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(255);not null"`
	Slug        string    `json:"slug" db:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_slug"`
	Description *string   `json:"description" db:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }
