package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type storyHandler struct {
	responder  Responder
	logger     zerolog.Logger
	stories    StoryService
	engagement EngagementService
}

func newStoryHandler(stories StoryService, engagement EngagementService, production bool) storyHandler {
	logger := log.With().Str("handlerName", "storyHandler").Logger()
	return storyHandler{
		responder:  NewResponder(logger, production),
		logger:     logger,
		stories:    stories,
		engagement: engagement,
	}
}

func storyListParams(r *http.Request) services.StoryListParams {
	q := r.URL.Query()
	return services.StoryListParams{
		ListParams: listParams(r),
		Status:     q.Get("status"),
		Category:   q.Get("category"),
		Sort:       q.Get("sort"),
	}
}

// listPublished pages through published stories
// @Summary List stories
// @Description Published stories, newest first, or by popularity with sort=popular
// @Tags Stories
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size"
// @Param category query string false "personal, work or lifestyle"
// @Param sort query string false "latest or popular"
// @Success 200 {object} Envelope "Stories and pagination"
// @Failure 400 {object} Envelope "Invalid category"
// @Router /api/stories [get]
func (h storyHandler) listPublished() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.stories.ListPublished(r.Context(), storyListParams(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", page)
	}
}

func (h storyHandler) popular() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stories, err := h.stories.Popular(r.Context(), queryInt(r, "limit", services.DefaultPopularLimit))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", stories)
	}
}

// getPublished returns one published story by id or slug and counts the view
// @Summary Get story
// @Tags Stories
// @Produce json
// @Param identifier path string true "Story id or slug"
// @Success 200 {object} Envelope "Story with approved comments"
// @Failure 404 {object} Envelope "Story not found"
// @Router /api/stories/{identifier} [get]
func (h storyHandler) getPublished() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story, err := h.stories.GetPublished(r.Context(), chi.URLParam(r, "identifier"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", story)
	}
}

func (h storyHandler) listAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.stories.ListAdmin(r.Context(), storyListParams(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", page)
	}
}

func (h storyHandler) getAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "identifier")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		story, err := h.stories.GetAdmin(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", story)
	}
}

// create adds a story authored by the calling admin
// @Summary Create story
// @Tags Stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param story body services.StoryInput true "Story fields"
// @Success 201 {object} Envelope "Created story"
// @Failure 400 {object} Envelope "Validation error"
// @Failure 409 {object} Envelope "Slug conflict"
// @Router /api/stories [post]
func (h storyHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.StoryInput
		if err := decodeJSON(w, r, "story", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		story, err := h.stories.Create(r.Context(), authorID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, "Story created successfully", story)
	}
}

func (h storyHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "identifier")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.StoryInput
		if err := decodeJSON(w, r, "story", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		story, err := h.stories.Update(r.Context(), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Story updated successfully", story)
	}
}

func (h storyHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "identifier")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.stories.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Story deleted successfully", nil)
	}
}

// like toggles the caller's like on a published story
// @Summary Toggle story like
// @Tags Stories
// @Produce json
// @Param identifier path string true "Story id or slug"
// @Success 200 {object} Envelope "Action and like count"
// @Failure 403 {object} Envelope "Likes disabled"
// @Failure 404 {object} Envelope "Story not found"
// @Router /api/stories/{identifier}/like [post]
func (h storyHandler) like() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.engagement.ToggleStoryLike(r.Context(), chi.URLParam(r, "identifier"), callerFrom(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		message := "Story liked"
		if res.Action != models.ActionLiked {
			message = "Story unliked"
		}
		h.responder.WriteJSON(w, message, res)
	}
}

func (h storyHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CommentInput
		if err := decodeJSON(w, r, "comment", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.engagement.AddComment(r.Context(), chi.URLParam(r, "identifier"), in, callerFrom(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message := "Comment added successfully"
		if !comment.IsApproved {
			message = "Comment submitted for moderation"
		}
		h.responder.WriteCreated(w, message, comment)
	}
}

func (h storyHandler) addReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.CommentInput
		if err := decodeJSON(w, r, "reply", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		res, err := h.engagement.AddReply(r.Context(), chi.URLParam(r, "identifier"), commentID, in, callerFrom(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, "Reply added successfully", res)
	}
}
