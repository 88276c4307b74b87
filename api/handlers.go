package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Services, production bool, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		health:    newHealthHandler(svc.Database, startupTime, production),
		auth:      newAuthHandler(svc.Auth, production),
		story:     newStoryHandler(svc.Stories, svc.Engagement, production),
		gallery:   newGalleryHandler(svc.Gallery, svc.Engagement, production),
		comment:   newCommentHandler(svc.Moderation, production),
		settings:  newSettingsHandler(svc.Settings, production),
		dashboard: newDashboardHandler(svc.Dashboard, production),
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewValidationError(name, "invalid "+name)
	}
	return id, nil
}

// queryInt returns the integer query parameter key, or def when absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryBool returns nil when key is absent or not a boolean.
func queryBool(r *http.Request, key string) *bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func listParams(r *http.Request) services.ListParams {
	return services.ListParams{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 0),
	}
}
