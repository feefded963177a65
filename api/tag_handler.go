package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"github.com/rpupo63/cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
	validator requestValidator
	now       func() time.Time
}

func newTagHandler(tagRepo *database.TagRepo, validator requestValidator, now func() time.Time) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
		validator: validator,
		now:       now,
	}
}

// getAllTags lists tags oldest first
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// getTag retrieves one tag
// @Summary Get tag
// @Tags Tags
// @Produce json
// @Param tagID path int true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 404 {object} ErrorResponse
// @Router /tags/{tagID} [get]
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uintParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.FindByID(r.Context(), tagID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// createTag adds a tag whose slug is derived from its name
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body tagRequest true "Tag data"
// @Success 201 {object} models.Tag
// @Failure 409 {object} ErrorResponse "A tag with this slug already exists"
// @Router /tags [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagRequest
		if err := h.validator.decodeBody(w, r, "tag", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := services.Slugify(req.Name)
		if slug == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("name", "name must contain a letter or digit"))
			return
		}

		tag := models.Tag{Name: req.Name, Slug: slug, CreatedAt: h.now().UTC().Truncate(time.Microsecond)}
		if err := h.tagRepo.Add(r.Context(), &tag); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, tag)
	}
}

// updateTag renames a tag and recomputes its slug
// @Summary Update tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tagID path int true "Tag ID"
// @Param tag body tagRequest true "Tag data"
// @Success 200 {object} models.Tag
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A tag with this slug already exists"
// @Router /tags/{tagID} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uintParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req tagRequest
		if err := h.validator.decodeBody(w, r, "tag", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := services.Slugify(req.Name)
		if slug == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("name", "name must contain a letter or digit"))
			return
		}

		if err := h.tagRepo.Update(r.Context(), &models.Tag{ID: tagID, Name: req.Name, Slug: slug}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.tagRepo.FindByID(r.Context(), tagID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteTag removes a tag and unlinks it from every post
// @Summary Delete tag
// @Tags Tags
// @Param tagID path int true "Tag ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /tags/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uintParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.Delete(r.Context(), tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
