package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/models"
	"github.com/rpupo63/cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// publicHandler serves the unauthenticated read surface. Only published
// posts are ever visible here.
type publicHandler struct {
	responder    Responder
	logger       zerolog.Logger
	posts        *services.PostService
	categoryRepo *database.CategoryRepo
	tagRepo      *database.TagRepo
	settingRepo  *database.SettingRepo
	validator    requestValidator
}

func newPublicHandler(posts *services.PostService, database database.Database, validator requestValidator) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	return publicHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		posts:        posts,
		categoryRepo: database.CategoryRepo(),
		tagRepo:      database.TagRepo(),
		settingRepo:  database.SettingRepo(),
		validator:    validator,
	}
}

// listPosts returns a page of published posts
// @Summary List published posts
// @Tags Public
// @Produce json
// @Param search query string false "Case-insensitive match on title, content and excerpt"
// @Param categoryId query int false "Category filter"
// @Param tagId query int false "Tag filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.PostPage
// @Router /public/posts [get]
func (h publicHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := h.validator.parsePostListQuery(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.posts.ListPublished(r.Context(), query.filter())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// featuredPosts returns the most read published posts with a cover image
// @Summary List featured posts
// @Tags Public
// @Produce json
// @Param limit query int false "Number of posts, defaults to 4"
// @Success 200 {array} models.PostWithRelations
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Router /public/posts/featured [get]
func (h publicHandler) featuredPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r.URL.Query(), "limit")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, err := h.posts.Featured(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getPost returns a published post by slug and counts the read
// @Summary Read published post
// @Tags Public
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.PostWithRelations
// @Failure 404 {object} ErrorResponse "No published post with this slug"
// @Router /public/posts/{slug} [get]
func (h publicHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.posts.RecordViewBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// listCategories returns every category
// @Summary List categories
// @Tags Public
// @Produce json
// @Success 200 {array} models.Category
// @Router /public/categories [get]
func (h publicHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, categories)
	}
}

// listTags returns every tag
// @Summary List tags
// @Tags Public
// @Produce json
// @Success 200 {array} models.Tag
// @Router /public/tags [get]
func (h publicHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// getMetadata returns the public site settings. Keys never set come back empty.
// @Summary Get site metadata
// @Tags Public
// @Produce json
// @Success 200 {object} map[string]string "about, address, email and phone_number"
// @Router /public/metadata [get]
func (h publicHandler) getMetadata() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingRepo.FindByKeys(r.Context(), models.MetadataKeys)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		metadata := make(map[string]string, len(models.MetadataKeys))
		for _, key := range models.MetadataKeys {
			metadata[key] = ""
		}
		for _, s := range settings {
			metadata[s.ID] = s.Value
		}

		h.responder.WriteJSON(w, metadata)
	}
}
