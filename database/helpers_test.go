package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/models"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDatabase(t *testing.T) Database {
	t.Helper()

	db, err := Open(ConnectionConfig{
		Driver: DriverSQLite,
		DSN:    SQLiteDSN(filepath.Join(t.TempDir(), "cms.db")),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	d := New(db)
	require.NoError(t, d.Migrate())
	return d
}

func seedCategories(t *testing.T, d Database, names ...string) []models.Category {
	t.Helper()
	var out []models.Category
	for i, name := range names {
		c := models.Category{Name: name, Slug: name, CreatedAt: baseTime.Add(time.Duration(i) * time.Second)}
		require.NoError(t, d.CategoryRepo().Add(context.Background(), &c))
		out = append(out, c)
	}
	return out
}

func seedTags(t *testing.T, d Database, names ...string) []models.Tag {
	t.Helper()
	var out []models.Tag
	for i, name := range names {
		tag := models.Tag{Name: name, Slug: name, CreatedAt: baseTime.Add(time.Duration(i) * time.Second)}
		require.NoError(t, d.TagRepo().Add(context.Background(), &tag))
		out = append(out, tag)
	}
	return out
}

type postOption func(*models.Post)

func withStatus(status models.PostStatus) postOption {
	return func(p *models.Post) {
		p.Status = status
		if status == models.PostStatusPublished {
			at := p.CreatedAt
			p.PublishedAt = &at
		}
	}
}

func withViews(n int64) postOption {
	return func(p *models.Post) { p.ViewCount = n }
}

func withImage(url string) postOption {
	return func(p *models.Post) { p.FeaturedImageURL = &url }
}

func withExcerpt(excerpt string) postOption {
	return func(p *models.Post) { p.Excerpt = &excerpt }
}

func withCreatedAt(at time.Time) postOption {
	return func(p *models.Post) { p.CreatedAt, p.UpdatedAt = at, at }
}

func newPost(title string, opts ...postOption) *models.Post {
	p := &models.Post{
		ID:        uuid.New(),
		Title:     title,
		Slug:      title + "-" + uuid.NewString()[:8],
		Content:   "content of " + title,
		Status:    models.PostStatusDraft,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func createPost(t *testing.T, d Database, post *models.Post, categoryIDs, tagIDs []uint) *models.PostWithRelations {
	t.Helper()
	created, err := d.PostRepo().Create(context.Background(), post, categoryIDs, tagIDs)
	require.NoError(t, err)
	return created
}

func categoryIDs(categories []models.Category) []uint {
	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func postIDs(posts []models.PostWithRelations) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func ptr[T any](v T) *T { return &v }
