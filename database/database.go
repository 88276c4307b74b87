package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	storyRepo    *StoryRepo
	commentRepo  *CommentRepo
	likeRepo     *LikeRepo
	galleryRepo  *GalleryRepo
	settingsRepo *SettingsRepo
	userRepo     *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		storyRepo:    NewStoryRepo(db),
		commentRepo:  NewCommentRepo(db),
		likeRepo:     NewLikeRepo(db),
		galleryRepo:  NewGalleryRepo(db),
		settingsRepo: NewSettingsRepo(db),
		userRepo:     NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) StoryRepo() *StoryRepo {
	return d.storyRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) LikeRepo() *LikeRepo {
	return d.likeRepo
}

func (d Database) GalleryRepo() *GalleryRepo {
	return d.galleryRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return wrapErr("ping", "database", err)
	}
	return wrapErr("ping", "database", sqlDB.PingContext(ctx))
}
