package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// GetOrCreate returns the settings row, inserting defaults first when none exists.
// Concurrent callers race on the primary key and all read back the same row.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	settings, err := r.find(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapErr("find", "settings", err)
	}

	defaults.ID = models.SettingsID
	err = r.primary(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
	if err != nil {
		return nil, wrapErr("create", "settings", err)
	}

	settings, err = r.find(ctx)
	if err != nil {
		return nil, wrapErr("find", "settings", err)
	}
	return settings, nil
}

// primary starts a fresh statement pinned to the primary. Every query needs its own.
func (r *SettingsRepo) primary(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(dbresolver.Write)
}

func (r *SettingsRepo) find(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.primary(ctx).First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save writes the settings row
func (r *SettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	return wrapErr("update", "settings", r.db.WithContext(ctx).Save(settings).Error)
}
