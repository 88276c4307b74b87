package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// The interfaces below are satisfied by the repositories in package database.

type StoryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	FindPublished(ctx context.Context, id *uuid.UUID, slug string) (*models.Story, error)
	FindRef(ctx context.Context, id *uuid.UUID, slug string) (*database.StoryRef, error)
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Add(ctx context.Context, story *models.Story) error
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q database.StoryQuery) ([]models.Story, int64, error)
	Popular(ctx context.Context, limit int) ([]models.Story, error)
}

type StoryStatsStore interface {
	StatusCounts(ctx context.Context) (map[models.StoryStatus]int64, error)
	TotalViews(ctx context.Context) (int64, error)
	Popular(ctx context.Context, limit int) ([]models.Story, error)
}

type CommentStore interface {
	Add(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	FindThread(ctx context.Context, storyID, commentID uuid.UUID) (*models.Comment, error)
	UpdateModeration(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q database.CommentQuery) ([]models.Comment, int64, error)
	Stats(ctx context.Context) (models.CommentStats, error)
}

type LikeStore interface {
	Add(ctx context.Context, like *models.Like) error
	Remove(ctx context.Context, targetType string, targetID uuid.UUID, identifier string) (bool, error)
	Count(ctx context.Context, targetType string, targetID uuid.UUID) (int64, error)
	CountByType(ctx context.Context, targetType string) (int64, error)
}

type GalleryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error)
	FindActive(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error)
	Add(ctx context.Context, image *models.GalleryImage) error
	Update(ctx context.Context, image *models.GalleryImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q database.GalleryQuery) ([]models.GalleryImage, int64, error)
	Reorder(ctx context.Context, ids []uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
}

type SettingsStore interface {
	GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// SettingsProvider hands out the current site settings.
type SettingsProvider interface {
	Current(ctx context.Context) (*models.Settings, error)
}

// ImageHost stores gallery files outside the database.
type ImageHost interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (models.HostedAsset, error)
	Delete(ctx context.Context, publicID string) error
}

// Clock returns the current time.
type Clock func() time.Time
