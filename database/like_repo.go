package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Exists reports whether identifier already likes the target
func (r *LikeRepo) Exists(ctx context.Context, targetType string, targetID uuid.UUID, identifier string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Like{}).
		Where("target_type = ? AND target_id = ? AND identifier = ?", targetType, targetID, identifier).
		Count(&count).Error
	if err != nil {
		return false, wrapErr("find", "like", err)
	}
	return count > 0, nil
}

// Add records a like. A second like by the same identifier fails with a conflict.
func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	return wrapErr("create", "like", r.db.WithContext(ctx).Create(like).Error)
}

// Remove deletes the like of identifier on the target and reports whether one existed
func (r *LikeRepo) Remove(ctx context.Context, targetType string, targetID uuid.UUID, identifier string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND identifier = ?", targetType, targetID, identifier).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, wrapErr("delete", "like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of likes on one target
func (r *LikeRepo) Count(ctx context.Context, targetType string, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, wrapErr("count", "likes", err)
}

// CountByType returns the number of likes across every target of one type
func (r *LikeRepo) CountByType(ctx context.Context, targetType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_type = ?", targetType).
		Count(&count).Error
	return count, wrapErr("count", "likes", err)
}
