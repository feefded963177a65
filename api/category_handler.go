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

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	validator    requestValidator
	now          func() time.Time
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, validator requestValidator, now func() time.Time) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		validator:    validator,
		now:          now,
	}
}

// getAllCategories lists categories by name
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, categories)
	}
}

// getCategory retrieves one category
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /categories/{categoryID} [get]
func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uintParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// createCategory adds a category whose slug is derived from its name
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body categoryRequest true "Category data"
// @Success 201 {object} models.Category
// @Failure 409 {object} ErrorResponse "A category with this slug already exists"
// @Router /categories [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := h.validator.decodeBody(w, r, "category", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := services.Slugify(req.Name)
		if slug == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("name", "name must contain a letter or digit"))
			return
		}

		category := models.Category{
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			CreatedAt:   h.now().UTC().Truncate(time.Microsecond),
		}
		if err := h.categoryRepo.Add(r.Context(), &category); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, category)
	}
}

// updateCategory renames a category and recomputes its slug
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param categoryID path int true "Category ID"
// @Param category body categoryRequest true "Category data"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A category with this slug already exists"
// @Router /categories/{categoryID} [put]
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uintParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req categoryRequest
		if err := h.validator.decodeBody(w, r, "category", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := services.Slugify(req.Name)
		if slug == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("name", "name must contain a letter or digit"))
			return
		}

		category := models.Category{ID: categoryID, Name: req.Name, Slug: slug, Description: req.Description}
		if err := h.categoryRepo.Update(r.Context(), &category); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.categoryRepo.FindByID(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteCategory removes a category and unlinks it from every post
// @Summary Delete category
// @Tags Categories
// @Param categoryID path int true "Category ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /categories/{categoryID} [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uintParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.categoryRepo.Delete(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
