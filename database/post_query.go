package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	likeEscape      = "!"
)

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt:   "posts.created_at",
	models.SortByTitle:       "posts.title",
	models.SortByViewCount:   "posts.view_count",
	models.SortByPublishedAt: "posts.published_at",
}

const relationColumns = `posts.*,
	categories.id AS category_id,
	categories.name AS category_name,
	categories.slug AS category_slug,
	categories.description AS category_description,
	categories.created_at AS category_created_at,
	tags.id AS tag_id,
	tags.name AS tag_name,
	tags.slug AS tag_slug,
	tags.created_at AS tag_created_at`

// Predicate is one named condition of a post query
type Predicate struct {
	Name   string
	Clause string
	Args   []any
}

// PostQuery accumulates predicates, sort keys and a page window, and compiles
// them into a single statement against the posts table.
type PostQuery struct {
	predicates []Predicate
	sort       []models.SortKey
	limit      int
	offset     int
}

// NewPostQuery translates a filter into predicates. Unknown sort fields fall
// back to createdAt so that no caller input reaches the ORDER BY clause.
func NewPostQuery(filter models.PostFilter) *PostQuery {
	q := &PostQuery{}

	if filter.ID != nil {
		q.where("id", "posts.id = ?", *filter.ID)
	}
	if filter.Slug != "" {
		q.where("slug", "posts.slug = ?", filter.Slug)
	}
	if filter.Status != "" {
		q.where("status", "posts.status = ?", filter.Status)
	}
	if filter.IsPublished {
		q.where("isPublished", "posts.status = ? AND posts.published_at IS NOT NULL", models.PostStatusPublished)
	}
	if filter.CategoryID != nil {
		q.where("categoryId",
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = posts.id AND pc.category_id = ?)",
			*filter.CategoryID)
	}
	if filter.TagID != nil {
		q.where("tagId",
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = posts.id AND pt.tag_id = ?)",
			*filter.TagID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		// both sides fold in the store so they agree on what lower case is
		pattern := "%" + escapeLike(search) + "%"
		q.where("search",
			"(LOWER(posts.title) LIKE LOWER(?) ESCAPE '"+likeEscape+"'"+
				" OR LOWER(posts.content) LIKE LOWER(?) ESCAPE '"+likeEscape+"'"+
				" OR LOWER(COALESCE(posts.excerpt, '')) LIKE LOWER(?) ESCAPE '"+likeEscape+"')",
			pattern, pattern, pattern)
	}
	if filter.HasFeaturedImage {
		q.where("hasFeaturedImage", "posts.featured_image_url IS NOT NULL AND posts.featured_image_url <> ''")
	}

	q.OrderBy(filter.SortBy, filter.SortOrder)
	for _, key := range filter.ThenBy {
		q.OrderBy(key.Field, key.Order)
	}
	q.Page(filter.Limit, filter.Offset)
	return q
}

func (q *PostQuery) where(name, clause string, args ...any) {
	q.predicates = append(q.predicates, Predicate{Name: name, Clause: clause, Args: args})
}

// OrderBy appends a sort key. An unknown field is dropped, or becomes
// createdAt when it would be the primary key.
func (q *PostQuery) OrderBy(field models.SortField, order models.SortOrder) *PostQuery {
	if _, ok := sortColumns[field]; !ok {
		if len(q.sort) > 0 {
			return q
		}
		field = models.SortByCreatedAt
	}
	if order != models.SortAsc {
		order = models.SortDesc
	}
	q.sort = append(q.sort, models.SortKey{Field: field, Order: order})
	return q
}

// Page sets the window. A non-positive limit means the default page size.
func (q *PostQuery) Page(limit, offset int) *PostQuery {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	q.limit, q.offset = limit, offset
	return q
}

// Predicates returns the accumulated conditions in the order they were added
func (q *PostQuery) Predicates() []Predicate {
	return append([]Predicate(nil), q.predicates...)
}

// Limit and Offset report the page window
func (q *PostQuery) Limit() int  { return q.limit }
func (q *PostQuery) Offset() int { return q.offset }

// OrderClause renders the sort keys, always ending with the id as tiebreaker.
// A null publishedAt sorts last whatever the direction.
func (q *PostQuery) OrderClause() string {
	keys := q.sort
	if len(keys) == 0 {
		keys = []models.SortKey{{Field: models.SortByCreatedAt, Order: models.SortDesc}}
	}
	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		part := fmt.Sprintf("%s %s", sortColumns[key.Field], strings.ToUpper(string(key.Order)))
		if key.Field == models.SortByPublishedAt {
			// unpublished posts trail in either direction on every store
			part += " NULLS LAST"
		}
		parts = append(parts, part)
	}
	parts = append(parts, "posts.id ASC")
	return strings.Join(parts, ", ")
}

// apply adds every predicate as an AND-ed WHERE condition
func (q *PostQuery) apply(tx *gorm.DB) *gorm.DB {
	for _, p := range q.predicates {
		tx = tx.Where(p.Clause, p.Args...)
	}
	return tx
}

// Find loads the page of matching posts together with their categories and
// tags in one round trip. The page is chosen over posts alone by an id
// subquery, so joins never skew the limit or the ordering.
func (q *PostQuery) Find(ctx context.Context, db *gorm.DB) ([]models.PostWithRelations, error) {
	order := q.OrderClause()

	page := q.apply(db.WithContext(ctx).Model(&models.Post{}).Select("posts.id")).
		Order(order).
		Limit(q.limit).
		Offset(q.offset)

	var rows []PostRow
	err := db.WithContext(ctx).
		Table("posts").
		Select(relationColumns).
		Joins("LEFT JOIN post_categories ON post_categories.post_id = posts.id").
		Joins("LEFT JOIN categories ON categories.id = post_categories.category_id").
		Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
		Where("posts.id IN (?)", page).
		Order(order + ", categories.id ASC, tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return AggregateRows(rows), nil
}

// Count returns the number of matching posts ignoring the page window
func (q *PostQuery) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := q.apply(db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error
	return total, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}
