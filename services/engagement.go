package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const anonymousCaller = "anonymous"

// ReplyResult is the parent comment after a reply, plus the reply itself.
type ReplyResult struct {
	Comment models.Comment `json:"comment"`
	Reply   models.Comment `json:"reply"`
}

// EngagementService handles anonymous likes, comments and replies.
type EngagementService struct {
	stories  StoryStore
	comments CommentStore
	likes    LikeStore
	images   GalleryStore
	settings SettingsProvider
	notifier Notifier
	now      Clock
	logger   zerolog.Logger
}

func NewEngagementService(stories StoryStore, comments CommentStore, likes LikeStore, images GalleryStore, settings SettingsProvider, notifier Notifier) *EngagementService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &EngagementService{
		stories:  stories,
		comments: comments,
		likes:    likes,
		images:   images,
		settings: settings,
		notifier: notifier,
		now:      time.Now,
		logger:   log.With().Str("service", "engagement").Logger(),
	}
}

func callerIdentifier(c Caller) string {
	if c.Identifier == "" {
		return anonymousCaller
	}
	return c.Identifier
}

// publishedStory resolves identifier to a published story or a 404.
func (s *EngagementService) publishedStory(ctx context.Context, identifier string) (*database.StoryRef, error) {
	id, slug := parseIdentifier(identifier)
	ref, err := s.stories.FindRef(ctx, id, slug)
	if err != nil {
		return nil, err
	}
	if ref.Status != models.StatusPublished {
		return nil, errs.NewNotFound("story")
	}
	return ref, nil
}

// ToggleStoryLike likes the story for caller, or takes the like back if one exists.
func (s *EngagementService) ToggleStoryLike(ctx context.Context, identifier string, caller Caller) (*models.LikeResult, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Content.EnableLikes {
		return nil, errs.NewFeatureDisabledError("likes")
	}

	story, err := s.publishedStory(ctx, identifier)
	if err != nil {
		return nil, err
	}

	result, err := s.toggle(ctx, models.LikeTargetStory, story.ID, callerIdentifier(caller))
	if err != nil {
		return nil, err
	}

	if result.Action == models.ActionLiked && settings.Notifications.Email.Enabled && settings.Notifications.Email.NewLike {
		s.notify(settings, Notification{
			Subject: fmt.Sprintf("New like on %q", story.Title),
			Body:    fmt.Sprintf("<p>%q now has %d likes.</p>", story.Title, result.LikeCount),
		})
	}
	return result, nil
}

// ToggleImageLike is ToggleStoryLike for an active gallery image.
func (s *EngagementService) ToggleImageLike(ctx context.Context, id uuid.UUID, caller Caller) (*models.LikeResult, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Content.EnableLikes {
		return nil, errs.NewFeatureDisabledError("likes")
	}

	image, err := s.images.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toggle(ctx, models.LikeTargetGalleryImage, image.ID, callerIdentifier(caller))
}

// toggle removes an existing like, otherwise adds one. A concurrent duplicate
// add means the caller's like is in place, so it reports liked.
func (s *EngagementService) toggle(ctx context.Context, targetType string, targetID uuid.UUID, identifier string) (*models.LikeResult, error) {
	removed, err := s.likes.Remove(ctx, targetType, targetID, identifier)
	if err != nil {
		return nil, err
	}

	action := models.ActionUnliked
	if !removed {
		action = models.ActionLiked
		err := s.likes.Add(ctx, &models.Like{
			ID:         uuid.New(),
			TargetType: targetType,
			TargetID:   targetID,
			Identifier: identifier,
			CreatedAt:  s.now(),
		})
		if err != nil && !errs.IsAlreadyExists(err) {
			return nil, err
		}
	}

	count, err := s.likes.Count(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	return &models.LikeResult{Action: action, LikeCount: count}, nil
}

func (s *EngagementService) commentsAllowed(settings *models.Settings, caller Caller) error {
	if !settings.Content.EnableComments {
		return errs.NewFeatureDisabledError("comments")
	}
	if !settings.Content.AllowGuestComments && !caller.Authenticated {
		return errs.NewForbiddenError("guest comments are disabled")
	}
	return nil
}

// danglingRef reports an insert whose referenced row was deleted underneath it
// as a 404 for entity.
func danglingRef(err error, entity string) error {
	if errs.IsForeignKeyConstraintError(err) {
		return errs.NewNotFound(entity)
	}
	return err
}

func (s *EngagementService) newComment(storyID uuid.UUID, parentID *uuid.UUID, in CommentInput, caller Caller, settings *models.Settings) *models.Comment {
	now := s.now()
	return &models.Comment{
		ID:         uuid.New(),
		StoryID:    storyID,
		ParentID:   parentID,
		Name:       in.Name,
		Email:      in.Email,
		IPAddress:  callerIdentifier(caller),
		Text:       in.Text,
		IsApproved: !settings.Content.ModerateComments,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddComment appends a top level comment to a published story.
func (s *EngagementService) AddComment(ctx context.Context, identifier string, in CommentInput, caller Caller) (*models.Comment, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.commentsAllowed(settings, caller); err != nil {
		return nil, err
	}
	story, err := s.publishedStory(ctx, identifier)
	if err != nil {
		return nil, err
	}

	comment := s.newComment(story.ID, nil, in, caller, settings)
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, danglingRef(err, "story")
	}

	s.notifyComment(settings, story, comment)
	comment.Email = ""
	return comment, nil
}

// AddReply appends a reply to a visible top level comment of a published story.
func (s *EngagementService) AddReply(ctx context.Context, identifier string, commentID uuid.UUID, in CommentInput, caller Caller) (*ReplyResult, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.commentsAllowed(settings, caller); err != nil {
		return nil, err
	}
	story, err := s.publishedStory(ctx, identifier)
	if err != nil {
		return nil, err
	}

	parent, err := s.comments.FindThread(ctx, story.ID, commentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsApproved || parent.IsSpam {
		return nil, errs.NewNotFound("comment")
	}

	reply := s.newComment(story.ID, &parent.ID, in, caller, settings)
	if err := s.comments.Add(ctx, reply); err != nil {
		return nil, danglingRef(err, "comment")
	}
	s.notifyComment(settings, story, reply)

	thread, err := s.comments.FindThread(ctx, story.ID, parent.ID)
	if err != nil {
		return nil, err
	}
	visible := thread.Replies[:0]
	for _, r := range thread.Replies {
		if r.ID == reply.ID || (r.IsApproved && !r.IsSpam) {
			visible = append(visible, r)
		}
	}
	thread.Replies = visible
	redactComments(thread.Replies)
	thread.Email = ""
	reply.Email = ""

	return &ReplyResult{Comment: *thread, Reply: *reply}, nil
}

func (s *EngagementService) notifyComment(settings *models.Settings, story *database.StoryRef, comment *models.Comment) {
	if !settings.Notifications.Email.Enabled || !settings.Notifications.Email.NewComment {
		return
	}
	kind := "comment"
	if comment.IsReply() {
		kind = "reply"
	}
	s.notify(settings, Notification{
		Subject: fmt.Sprintf("New %s on %q", kind, story.Title),
		Body: fmt.Sprintf("<p><strong>%s</strong> wrote:</p><blockquote>%s</blockquote><p>Approved: %t</p>",
			htmlEscape(comment.Name), htmlEscape(comment.Text), comment.IsApproved),
		Link: "/stories/" + story.Slug,
	})
}

// notify delivers n to the admin in the background. Failures are only logged.
func (s *EngagementService) notify(settings *models.Settings, n Notification) {
	if to := settings.Notifications.AdminEmail; to != "" {
		n.To = []string{to}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("subject", n.Subject).Msg("Notification failed")
		}
	}()
}
