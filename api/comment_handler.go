package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var moderationMessages = map[services.ModerationAction]string{
	services.ActionApprove: "Comment approved successfully",
	services.ActionReject:  "Comment rejected successfully",
	services.ActionSpam:    "Comment marked as spam",
}

type commentHandler struct {
	responder  Responder
	logger     zerolog.Logger
	moderation ModerationService
}

func newCommentHandler(moderation ModerationService, production bool) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()
	return commentHandler{
		responder:  NewResponder(logger, production),
		logger:     logger,
		moderation: moderation,
	}
}

// list returns comments across all stories for moderation
// @Summary List comments for moderation
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, spam or all"
// @Success 200 {object} Envelope "Comments, stats and pagination"
// @Router /api/admin/comments [get]
func (h commentHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.moderation.List(r.Context(), services.ModerationListParams{
			ListParams: listParams(r),
			Status:     r.URL.Query().Get("status"),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", page)
	}
}

func (h commentHandler) moderate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.ModerationInput
		if err := decodeJSON(w, r, "moderation", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.moderation.Moderate(r.Context(), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("commentID", id.String()).Str("action", string(in.Action)).Msg("comment moderated")
		h.responder.WriteJSON(w, moderationMessages[in.Action], comment)
	}
}

func (h commentHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.moderation.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Comment deleted successfully", nil)
	}
}
