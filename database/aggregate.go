package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/models"
)

// PostRow is one flattened row of a post joined with at most one category and
// one tag. Outer joins leave the related columns NULL.
type PostRow struct {
	models.Post
	CategoryID          *uint      `gorm:"column:category_id"`
	CategoryName        *string    `gorm:"column:category_name"`
	CategorySlug        *string    `gorm:"column:category_slug"`
	CategoryDescription *string    `gorm:"column:category_description"`
	CategoryCreatedAt   *time.Time `gorm:"column:category_created_at"`
	TagID               *uint      `gorm:"column:tag_id"`
	TagName             *string    `gorm:"column:tag_name"`
	TagSlug             *string    `gorm:"column:tag_slug"`
	TagCreatedAt        *time.Time `gorm:"column:tag_created_at"`
}

type postGroup struct {
	index      int
	categories map[uint]struct{}
	tags       map[uint]struct{}
}

// AggregateRows folds flat join rows into one record per post. Posts keep the
// order in which they first appear, related entities are de-duplicated by id
// and NULL placeholders are dropped.
func AggregateRows(rows []PostRow) []models.PostWithRelations {
	out := make([]models.PostWithRelations, 0, len(rows))
	groups := make(map[uuid.UUID]*postGroup)

	for _, row := range rows {
		g, ok := groups[row.ID]
		if !ok {
			g = &postGroup{
				index:      len(out),
				categories: make(map[uint]struct{}),
				tags:       make(map[uint]struct{}),
			}
			groups[row.ID] = g
			out = append(out, models.PostWithRelations{
				Post:       row.Post,
				Categories: []models.Category{},
				Tags:       []models.Tag{},
			})
		}
		post := &out[g.index]

		if row.CategoryID != nil {
			if _, seen := g.categories[*row.CategoryID]; !seen {
				g.categories[*row.CategoryID] = struct{}{}
				post.Categories = append(post.Categories, models.Category{
					ID:          *row.CategoryID,
					Name:        deref(row.CategoryName),
					Slug:        deref(row.CategorySlug),
					Description: row.CategoryDescription,
					CreatedAt:   derefTime(row.CategoryCreatedAt),
				})
			}
		}

		if row.TagID != nil {
			if _, seen := g.tags[*row.TagID]; !seen {
				g.tags[*row.TagID] = struct{}{}
				post.Tags = append(post.Tags, models.Tag{
					ID:        *row.TagID,
					Name:      deref(row.TagName),
					Slug:      deref(row.TagSlug),
					CreatedAt: derefTime(row.TagCreatedAt),
				})
			}
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
