package models

import "github.com/google/uuid"

// SortField names a sortable post attribute
type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByTitle       SortField = "title"
	SortByViewCount   SortField = "viewCount"
	SortByPublishedAt SortField = "publishedAt"
)

// SortOrder is the direction of a sort key
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortKey is one ordering term of a post listing
type SortKey struct {
	Field SortField
	Order SortOrder
}

// PostFilter is the set of options recognized by post listings. Zero values
// mean "no restriction", except Limit which falls back to the page default.
type PostFilter struct {
	ID               *uuid.UUID
	Slug             string
	Status           PostStatus
	IsPublished      bool
	CategoryID       *uint
	TagID            *uint
	Search           string
	HasFeaturedImage bool
	Limit            int
	Offset           int
	SortBy           SortField
	SortOrder        SortOrder
	// ThenBy adds secondary sort keys after SortBy
	ThenBy []SortKey
}
