package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	dashboard DashboardService
}

func newDashboardHandler(dashboard DashboardService, production bool) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()
	return dashboardHandler{
		responder: NewResponder(logger, production),
		logger:    logger,
		dashboard: dashboard,
	}
}

func (h dashboardHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.dashboard.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", stats)
	}
}
