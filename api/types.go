package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// The interfaces below are implemented by the structs in package services.

type StoryService interface {
	ListPublished(ctx context.Context, params services.StoryListParams) (*services.StoryPage, error)
	ListAdmin(ctx context.Context, params services.StoryListParams) (*services.StoryPage, error)
	GetPublished(ctx context.Context, identifier string) (*services.StoryView, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*services.StoryView, error)
	Popular(ctx context.Context, limit int) ([]services.StoryView, error)
	Create(ctx context.Context, authorID uuid.UUID, in services.StoryInput) (*services.StoryView, error)
	Update(ctx context.Context, id uuid.UUID, in services.StoryInput) (*services.StoryView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EngagementService interface {
	ToggleStoryLike(ctx context.Context, identifier string, caller services.Caller) (*models.LikeResult, error)
	ToggleImageLike(ctx context.Context, id uuid.UUID, caller services.Caller) (*models.LikeResult, error)
	AddComment(ctx context.Context, identifier string, in services.CommentInput, caller services.Caller) (*models.Comment, error)
	AddReply(ctx context.Context, identifier string, commentID uuid.UUID, in services.CommentInput, caller services.Caller) (*services.ReplyResult, error)
}

type ModerationService interface {
	List(ctx context.Context, params services.ModerationListParams) (*services.ModerationPage, error)
	Moderate(ctx context.Context, id uuid.UUID, in services.ModerationInput) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GalleryService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, file services.UploadFile, in services.GalleryInput) (*models.GalleryImage, error)
	Update(ctx context.Context, id uuid.UUID, in services.GalleryInput) (*models.GalleryImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	ListActive(ctx context.Context, params services.GalleryListParams) (*services.GalleryPage, error)
	ListAdmin(ctx context.Context, params services.GalleryListParams) (*services.GalleryPage, error)
	InstagramPosts(ctx context.Context, limit int) ([]models.GalleryImage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error)
}

type SettingsService interface {
	Current(ctx context.Context) (*models.Settings, error)
	Public(ctx context.Context) (*models.PublicSettings, error)
	Update(ctx context.Context, adminID uuid.UUID, patch []byte) (*models.Settings, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Verify(token string) (*services.Claims, error)
	Me(ctx context.Context, id uuid.UUID) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, in services.ChangePasswordInput) error
}

type DashboardService interface {
	Stats(ctx context.Context) (*services.DashboardStats, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles everything the handlers call.
type Services struct {
	Stories    StoryService
	Engagement EngagementService
	Moderation ModerationService
	Gallery    GalleryService
	Settings   SettingsService
	Auth       AuthService
	Dashboard  DashboardService
	Database   Pinger
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	health    healthHandler
	auth      authHandler
	story     storyHandler
	gallery   galleryHandler
	comment   commentHandler
	settings  settingsHandler
	dashboard dashboardHandler
}
