package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const healthPingTimeout = 2 * time.Second

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          Pinger
	startupTime time.Time
}

func newHealthHandler(db Pinger, startupTime time.Time, production bool) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger, production),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	StartedAt time.Time `json:"startedAt"`
	Uptime    string    `json:"uptime"`
}

// check reports liveness and database reachability
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} Envelope "Service healthy"
// @Failure 503 {object} Envelope "Database unreachable"
// @Router /health [get]
func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			Status:    "ok",
			Database:  "up",
			StartedAt: h.startupTime,
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		}

		if h.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			if err := h.db.Ping(ctx); err != nil {
				h.logger.Error().Err(err).Msg("Database ping failed")
				h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "database unavailable"))
				return
			}
		}

		h.responder.WriteJSON(w, "Service is healthy", status)
	}
}
