package api

import (
	"github.com/rpupo63/cms-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler     postHandler
	publicHandler   publicHandler
	categoryHandler categoryHandler
	tagHandler      tagHandler
	settingHandler  settingHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"post not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// createPostRequest is the body of POST /posts
type createPostRequest struct {
	Title            string            `json:"title" validate:"required,max=255"`
	Content          string            `json:"content" validate:"required"`
	Excerpt          *string           `json:"excerpt"`
	FeaturedImageURL *string           `json:"featuredImageUrl" validate:"omitempty,url"`
	Status           models.PostStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CategoryIDs      []uint            `json:"categoryIds" validate:"omitempty,dive,gt=0"`
	TagIDs           []uint            `json:"tagIds" validate:"omitempty,dive,gt=0"`
}

func (req createPostRequest) input() models.CreatePostInput {
	return models.CreatePostInput{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryIDs:      req.CategoryIDs,
		TagIDs:           req.TagIDs,
	}
}

// updatePostRequest is the body of PUT /posts/{postID}. Absent fields stay
// as they are; "categoryIds": [] clears the categories.
type updatePostRequest struct {
	Title            *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Content          *string            `json:"content" validate:"omitempty,min=1"`
	Excerpt          *string            `json:"excerpt"`
	FeaturedImageURL *string            `json:"featuredImageUrl" validate:"omitempty,url"`
	Status           *models.PostStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CategoryIDs      *[]uint            `json:"categoryIds"`
	TagIDs           *[]uint            `json:"tagIds"`
}

func (req updatePostRequest) input() models.UpdatePostInput {
	return models.UpdatePostInput{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryIDs:      req.CategoryIDs,
		TagIDs:           req.TagIDs,
	}
}

// categoryRequest is the body of POST and PUT /categories
type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// tagRequest is the body of POST and PUT /tags
type tagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// postListQuery holds the query string of post listings
type postListQuery struct {
	Status      string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	IsPublished bool   `json:"isPublished"`
	CategoryID  *uint  `json:"categoryId" validate:"omitempty,gt=0"`
	TagID       *uint  `json:"tagId" validate:"omitempty,gt=0"`
	Search      string `json:"search" validate:"max=255"`
	Limit       int    `json:"limit" validate:"gte=0"`
	Offset      int    `json:"offset" validate:"gte=0"`
	SortBy      string `json:"sortBy" validate:"omitempty,oneof=createdAt title viewCount publishedAt"`
	SortOrder   string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q postListQuery) filter() models.PostFilter {
	return models.PostFilter{
		Status:      models.PostStatus(q.Status),
		IsPublished: q.IsPublished,
		CategoryID:  q.CategoryID,
		TagID:       q.TagID,
		Search:      q.Search,
		Limit:       q.Limit,
		Offset:      q.Offset,
		SortBy:      models.SortField(q.SortBy),
		SortOrder:   models.SortOrder(q.SortOrder),
	}
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}
