package models

import (
	"time"

	"github.com/google/uuid"
)

// PostCategory links a post to a category. Rows go away with either parent.
type PostCategory struct {
	PostID     uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;primaryKey;not null"`
	CategoryID uint      `json:"categoryId" db:"category_id" gorm:"primaryKey;not null;index:idx_post_categories_category_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" gorm:"not null"`

	Post     Post     `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PostCategory) TableName() string { return "post_categories" }

// PostTag links a post to a tag. Rows go away with either parent.
type PostTag struct {
	PostID    uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;primaryKey;not null"`
	TagID     uint      `json:"tagId" db:"tag_id" gorm:"primaryKey;not null;index:idx_post_tags_tag_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Tag  Tag  `json:"-" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PostTag) TableName() string { return "post_tags" }
