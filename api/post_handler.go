package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     *services.PostService
	validator requestValidator
}

func newPostHandler(posts *services.PostService, validator requestValidator) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
		validator: validator,
	}
}

// listPosts returns a page of posts in any status
// @Summary List posts
// @Tags Posts
// @Produce json
// @Param status query string false "DRAFT, PUBLISHED or ARCHIVED"
// @Param isPublished query bool false "Only published posts"
// @Param categoryId query int false "Category filter"
// @Param tagId query int false "Tag filter"
// @Param search query string false "Case-insensitive match on title, content and excerpt"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param sortBy query string false "createdAt, title, viewCount or publishedAt"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} services.PostPage
// @Failure 400 {object} ErrorResponse
// @Router /posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := h.validator.parsePostListQuery(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.posts.List(r.Context(), query.filter())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// getPost retrieves a post by id
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.PostWithRelations
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Get(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// getPostBySlug retrieves a post by slug without counting a view
// @Summary Get post by slug
// @Tags Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.PostWithRelations
// @Failure 404 {object} ErrorResponse
// @Router /posts/slug/{slug} [get]
func (h postHandler) getPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a new post
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body createPostRequest true "Post data"
// @Success 201 {object} models.PostWithRelations
// @Failure 400 {object} ErrorResponse "Invalid post data or unknown category/tag"
// @Failure 409 {object} ErrorResponse "Slug already taken"
// @Router /posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := h.validator.decodeBody(w, r, "post", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Create(r.Context(), req.input())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Debug().Str("subject", ctxGetSubject(r.Context())).Str("postID", post.ID.String()).Msg("created post")
		h.responder.WriteJSONStatus(w, http.StatusCreated, post)
	}
}

// updatePost applies a partial update
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param post body updatePostRequest true "Fields to change"
// @Success 200 {object} models.PostWithRelations
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updatePostRequest
		if err := h.validator.decodeBody(w, r, "post", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Update(r.Context(), postID, req.input())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// publishPost marks a post as published
// @Summary Publish post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.PostWithRelations
// @Failure 400 {object} ErrorResponse "Invalid post ID"
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID}/publish [post]
func (h postHandler) publishPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Publish(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost removes a post and returns it as it was
// @Summary Delete post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.PostWithRelations "The deleted post"
// @Failure 400 {object} ErrorResponse "Invalid post ID"
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Remove(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Debug().Str("subject", ctxGetSubject(r.Context())).Str("postID", post.ID.String()).Msg("deleted post")
		h.responder.WriteJSON(w, post)
	}
}
