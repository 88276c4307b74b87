package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	settings  SettingsService
}

func newSettingsHandler(settings SettingsService, production bool) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()
	return settingsHandler{
		responder: NewResponder(logger, production),
		logger:    logger,
		settings:  settings,
	}
}

// public returns the settings subset visitors may see
// @Summary Public settings
// @Tags Settings
// @Produce json
// @Success 200 {object} Envelope "Public settings"
// @Router /api/settings [get]
func (h settingsHandler) public() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settings.Public(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", settings)
	}
}

func (h settingsHandler) admin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settings.Current(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", settings)
	}
}

// update merges a partial settings document into the stored settings
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope "Updated settings"
// @Failure 400 {object} Envelope "Validation error"
// @Router /api/settings [put]
func (h settingsHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch, err := readBody(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.settings.Update(r.Context(), adminID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("adminID", adminID.String()).Msg("settings updated")
		h.responder.WriteJSON(w, "Settings updated successfully", settings)
	}
}
