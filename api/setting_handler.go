package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxSettingKeyLength = 64

type settingHandler struct {
	responder   Responder
	logger      zerolog.Logger
	settingRepo *database.SettingRepo
}

func newSettingHandler(settingRepo *database.SettingRepo) settingHandler {
	logger := log.With().Str("handlerName", "settingHandler").Logger()

	return settingHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		settingRepo: settingRepo,
	}
}

// getAllSettings lists every setting
// @Summary List settings
// @Tags Settings
// @Produce json
// @Success 200 {array} models.Setting
// @Router /settings [get]
func (h settingHandler) getAllSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, settings)
	}
}

// getSetting retrieves one setting by key
// @Summary Get setting
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} models.Setting
// @Failure 404 {object} ErrorResponse
// @Router /settings/{key} [get]
func (h settingHandler) getSetting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setting, err := h.settingRepo.FindByKey(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, setting)
	}
}

// updateSettings writes every key of a {"key": "value"} body
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body map[string]string true "Values by key"
// @Success 200 {object} map[string]string "Confirmation message"
// @Failure 400 {object} ErrorResponse "Invalid key or malformed body"
// @Router /settings [put]
func (h settingHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]string
		if err := decodeJSON(w, r, "settings", &values); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		for key := range values {
			if strings.TrimSpace(key) == "" || len(key) > maxSettingKeyLength {
				h.responder.WriteError(w, errs.NewInvalidFieldError(key, "setting keys must be 1 to 64 characters"))
				return
			}
		}

		if err := h.settingRepo.Upsert(r.Context(), values); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Int("count", len(values)).Str("subject", ctxGetSubject(r.Context())).Msg("settings updated")
		h.responder.WriteJSON(w, map[string]string{"message": "Settings updated successfully"})
	}
}
