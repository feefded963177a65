package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/config"
	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PostStore is the persistence the post lifecycle depends on
type PostStore interface {
	Find(ctx context.Context, filter models.PostFilter) ([]models.PostWithRelations, error)
	Count(ctx context.Context, filter models.PostFilter) (int64, error)
	FindOne(ctx context.Context, filter models.PostFilter) (*models.PostWithRelations, error)
	Create(ctx context.Context, post *models.Post, categoryIDs, tagIDs []uint) (*models.PostWithRelations, error)
	Update(ctx context.Context, id uuid.UUID, changes models.PostChanges) (*models.PostWithRelations, error)
	IncrementViews(ctx context.Context, filter models.PostFilter) (*models.PostWithRelations, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error)
}

// Deps are the sources of time, identity and randomness. Nil members fall
// back to the wall clock, uuid.New and RandomToken.
type Deps struct {
	Now           func() time.Time
	NewID         func() uuid.UUID
	Disambiguator func() string
}

// PostPage is one window of a post listing
type PostPage struct {
	Posts  []models.PostWithRelations `json:"posts"`
	Total  int64                      `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// PostService governs the post lifecycle: slug assignment at creation,
// publication stamping and view counting.
type PostService struct {
	store  PostStore
	cfg    config.Content
	deps   Deps
	logger zerolog.Logger
}

func NewPostService(store PostStore, cfg config.Content, deps Deps) *PostService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.New
	}
	if deps.Disambiguator == nil {
		deps.Disambiguator = RandomToken
	}
	return &PostService{
		store:  store,
		cfg:    cfg,
		deps:   deps,
		logger: log.With().Str("service", "postService").Logger(),
	}
}

// now is truncated to microseconds so values survive a postgres round trip unchanged
func (s *PostService) now() time.Time {
	return s.deps.Now().UTC().Truncate(time.Microsecond)
}

// Create stores a new post with a fresh id and slug and links its initial
// categories and tags.
func (s *PostService) Create(ctx context.Context, in models.CreatePostInput) (*models.PostWithRelations, error) {
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, errs.NewInvalidFieldError("status", "unknown status "+string(status))
	}

	now := s.now()
	post := &models.Post{
		ID:               s.deps.NewID(),
		Title:            in.Title,
		Slug:             GenerateSlug(in.Title, s.deps.Disambiguator()),
		Content:          in.Content,
		Excerpt:          nonEmpty(in.Excerpt),
		FeaturedImageURL: nonEmpty(in.FeaturedImageURL),
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == models.PostStatusPublished {
		post.PublishedAt = &now
	}

	created, err := s.store.Create(ctx, post, in.CategoryIDs, in.TagIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("postID", created.ID.String()).
		Str("slug", created.Slug).
		Str("status", string(created.Status)).
		Msg("post created")
	return created, nil
}

// Update changes only the supplied fields and stamps updatedAt. Moving a post
// into PUBLISHED for the first time also stamps publishedAt.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, in models.UpdatePostInput) (*models.PostWithRelations, error) {
	now := s.now()
	changes := models.PostChanges{
		Columns:     map[string]any{"updated_at": now},
		CategoryIDs: in.CategoryIDs,
		TagIDs:      in.TagIDs,
		At:          now,
	}

	if in.Title != nil {
		changes.Columns["title"] = *in.Title
	}
	if in.Content != nil {
		changes.Columns["content"] = *in.Content
	}
	if in.Excerpt != nil {
		changes.Columns["excerpt"] = nonEmpty(in.Excerpt)
	}
	if in.FeaturedImageURL != nil {
		changes.Columns["featured_image_url"] = nonEmpty(in.FeaturedImageURL)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, errs.NewInvalidFieldError("status", "unknown status "+string(*in.Status))
		}
		changes.Columns["status"] = *in.Status
		if *in.Status == models.PostStatusPublished {
			changes.PublishedAt = &now
			changes.KeepFirstPublishedAt = true
		}
	}

	updated, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("postID", id.String()).Msg("post updated")
	return updated, nil
}

// Publish moves the post to PUBLISHED and stamps publishedAt. With
// RestampOnPublish every call stamps again; otherwise only the first one does.
func (s *PostService) Publish(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	now := s.now()
	published, err := s.store.Update(ctx, id, models.PostChanges{
		Columns:              map[string]any{"status": models.PostStatusPublished},
		PublishedAt:          &now,
		KeepFirstPublishedAt: !s.cfg.RestampOnPublish,
		At:                   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("postID", id.String()).Time("publishedAt", *published.PublishedAt).Msg("post published")
	return published, nil
}

// RecordView counts one view of the post and returns it with the new count
func (s *PostService) RecordView(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	return s.store.IncrementViews(ctx, models.PostFilter{ID: &id})
}

// RecordViewBySlug counts one public view of a published post
func (s *PostService) RecordViewBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	post, err := s.store.IncrementViews(ctx, models.PostFilter{Slug: slug, IsPublished: true})
	if err != nil {
		return nil, err
	}
	s.fillExcerpt(post)
	return post, nil
}

// Remove deletes the post and returns it as it was
func (s *PostService) Remove(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("postID", id.String()).Msg("post removed")
	return removed, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	return s.store.FindOne(ctx, models.PostFilter{ID: &id})
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	return s.store.FindOne(ctx, models.PostFilter{Slug: strings.TrimSpace(slug)})
}

// List returns one page of posts matching filter and the overall match count
func (s *PostService) List(ctx context.Context, filter models.PostFilter) (*PostPage, error) {
	filter.Limit, filter.Offset = s.window(filter.Limit, filter.Offset)

	page := &PostPage{Limit: filter.Limit, Offset: filter.Offset}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := s.store.Find(gctx, filter)
		page.Posts = posts
		return err
	})
	g.Go(func() error {
		total, err := s.store.Count(gctx, filter)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// ListPublished is List restricted to published posts, newest publication first
// unless another order is requested
func (s *PostService) ListPublished(ctx context.Context, filter models.PostFilter) (*PostPage, error) {
	filter.IsPublished = true
	filter.Status = ""
	if filter.SortBy == "" {
		filter.SortBy, filter.SortOrder = models.SortByPublishedAt, models.SortDesc
	}

	page, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range page.Posts {
		s.fillExcerpt(&page.Posts[i])
	}
	return page, nil
}

// Featured returns the most viewed published posts that carry a featured image
func (s *PostService) Featured(ctx context.Context, limit int) ([]models.PostWithRelations, error) {
	if limit <= 0 {
		limit = s.cfg.FeaturedLimit
	}
	limit, _ = s.window(limit, 0)

	posts, err := s.store.Find(ctx, models.PostFilter{
		IsPublished:      true,
		HasFeaturedImage: true,
		SortBy:           models.SortByViewCount,
		SortOrder:        models.SortDesc,
		ThenBy:           []models.SortKey{{Field: models.SortByPublishedAt, Order: models.SortDesc}},
		Limit:            limit,
	})
	if err != nil {
		return nil, err
	}
	for i := range posts {
		s.fillExcerpt(&posts[i])
	}
	return posts, nil
}

func (s *PostService) window(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *PostService) fillExcerpt(post *models.PostWithRelations) {
	if post.Excerpt != nil && *post.Excerpt != "" {
		return
	}
	excerpt := DeriveExcerpt(post.Content, s.cfg.ExcerptLength)
	post.Excerpt = &excerpt
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
