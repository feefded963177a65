package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known lifecycle states
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents an article with its publication metadata
type Post struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title            string     `json:"title" db:"title" gorm:"type:varchar(255);not null;index:idx_posts_title"`
	Slug             string     `json:"slug" db:"slug" gorm:"type:varchar(320);not null;uniqueIndex:idx_posts_slug"`
	Content          string     `json:"content" db:"content" gorm:"type:text;not null"`
	Excerpt          *string    `json:"excerpt" db:"excerpt" gorm:"type:text"`
	FeaturedImageURL *string    `json:"featuredImageUrl" db:"featured_image_url" gorm:"column:featured_image_url;type:text"`
	Status           PostStatus `json:"status" db:"status" gorm:"type:varchar(16);not null;default:DRAFT;index:idx_posts_status"`
	ViewCount        int64      `json:"viewCount" db:"view_count" gorm:"not null;default:0"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at" gorm:"not null"`
	PublishedAt      *time.Time `json:"publishedAt" db:"published_at"`
}

func (Post) TableName() string { return "posts" }

// PostWithRelations is a post hydrated with its categories and tags
type PostWithRelations struct {
	Post
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// CreatePostInput carries the fields accepted when creating a post
type CreatePostInput struct {
	Title            string
	Content          string
	Excerpt          *string
	FeaturedImageURL *string
	Status           PostStatus
	CategoryIDs      []uint
	TagIDs           []uint
}

// UpdatePostInput carries a partial update. Nil fields are left unchanged.
// A nil relation pointer leaves that relation set alone, a pointer to an empty
// slice clears it.
type UpdatePostInput struct {
	Title            *string
	Content          *string
	Excerpt          *string
	FeaturedImageURL *string
	Status           *PostStatus
	CategoryIDs      *[]uint
	TagIDs           *[]uint
}
