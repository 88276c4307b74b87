package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionSpam    ModerationAction = "spam"
)

const (
	defaultModerationLimit = 20
	maxModerationLimit     = 100
)

// applyModeration moves comment along the moderation state machine. Reject only
// clears the approval, so a spam comment stays flagged.
func applyModeration(comment *models.Comment, action ModerationAction) error {
	switch action {
	case ActionApprove:
		comment.IsApproved = true
		comment.IsSpam = false
	case ActionReject:
		comment.IsApproved = false
	case ActionSpam:
		comment.IsSpam = true
		comment.IsApproved = false
	default:
		return errs.NewValidationError("action", "Invalid action. Must be approve, reject, or spam")
	}
	return nil
}

type ModerationListParams struct {
	ListParams
	Status string
}

type ModerationPagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ModerationPage struct {
	Comments   []models.Comment     `json:"comments"`
	Stats      models.CommentStats  `json:"stats"`
	Pagination ModerationPagination `json:"pagination"`
}

type ModerationService struct {
	comments CommentStore
	now      Clock
	logger   zerolog.Logger
}

func NewModerationService(comments CommentStore) *ModerationService {
	return &ModerationService{
		comments: comments,
		now:      time.Now,
		logger:   log.With().Str("service", "moderation").Logger(),
	}
}

func parseModerationStatus(raw string) (models.ModerationStatus, error) {
	status := models.ModerationStatus(strings.ToLower(raw))
	switch status {
	case "", models.ModerationAll:
		return models.ModerationAll, nil
	case models.ModerationPending, models.ModerationApproved, models.ModerationSpam:
		return status, nil
	}
	return "", errs.NewValidationError("status", "Status must be all, pending, approved, or spam")
}

// List pages through comments in a moderation state, newest first, with totals per state.
func (s *ModerationService) List(ctx context.Context, params ModerationListParams) (*ModerationPage, error) {
	status, err := parseModerationStatus(params.Status)
	if err != nil {
		return nil, err
	}

	offset := params.offset(defaultModerationLimit, maxModerationLimit)
	comments, total, err := s.comments.List(ctx, database.CommentQuery{
		Status: status,
		Page:   database.Page{Offset: offset, Limit: params.Limit},
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.comments.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &ModerationPage{
		Comments: comments,
		Stats:    stats,
		Pagination: ModerationPagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: pageCount(total, params.Limit),
		},
	}, nil
}

// Moderate applies an admin decision and optional notes to a comment.
func (s *ModerationService) Moderate(ctx context.Context, id uuid.UUID, in ModerationInput) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyModeration(comment, in.Action); err != nil {
		return nil, err
	}
	if in.ModerationNotes != nil {
		comment.ModerationNotes = strings.TrimSpace(*in.ModerationNotes)
	}
	comment.UpdatedAt = s.now()

	if err := s.comments.UpdateModeration(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("commentID", comment.ID.String()).
		Str("action", string(in.Action)).
		Str("status", string(comment.Status())).
		Msg("Moderated comment")
	return comment, nil
}

// Delete removes a comment and its replies whatever their state.
func (s *ModerationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("commentID", id.String()).Msg("Deleted comment")
	return nil
}
