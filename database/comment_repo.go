package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// CommentQuery narrows the moderation listing.
type CommentQuery struct {
	Status models.ModerationStatus
	Page   Page
}

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

func byModerationStatus(db *gorm.DB, status models.ModerationStatus) *gorm.DB {
	switch status {
	case models.ModerationPending:
		return db.Where("is_approved = ? AND is_spam = ?", false, false)
	case models.ModerationApproved:
		return db.Where("is_approved = ? AND is_spam = ?", true, false)
	case models.ModerationSpam:
		return db.Where("is_spam = ?", true)
	default:
		return db
	}
}

// Add inserts a comment or reply
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return wrapErr("create", "comment", r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

// FindByID returns a single comment without its replies
func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&comment, "id = ?", id).Error; err != nil {
		return nil, wrapErr("find", "comment", err)
	}
	return &comment, nil
}

// FindThread returns a top level comment of storyID with all of its replies, oldest first
func (r *CommentRepo) FindThread(ctx context.Context, storyID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Preload("Replies", oldestFirst).
		Where("id = ? AND story_id = ? AND parent_id IS NULL", commentID, storyID).
		First(&comment).Error
	if err != nil {
		return nil, wrapErr("find", "comment", err)
	}
	return &comment, nil
}

// UpdateModeration writes the moderation flags and notes of a comment
func (r *CommentRepo) UpdateModeration(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).
		Model(comment).
		Select("IsApproved", "IsSpam", "ModerationNotes", "UpdatedAt").
		Updates(comment).Error
	return wrapErr("update", "comment", err)
}

// Delete removes a comment. Replies go with it through the foreign key.
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr("delete", "comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapErr("delete", "comment", gorm.ErrRecordNotFound)
	}
	return nil
}

// List returns one page of comments in q.Status, newest first, with their story's title and slug
func (r *CommentRepo) List(ctx context.Context, q CommentQuery) ([]models.Comment, int64, error) {
	var total int64
	if err := byModerationStatus(r.db.WithContext(ctx).Model(&models.Comment{}), q.Status).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count", "comments", err)
	}

	var comments []models.Comment
	err := q.Page.apply(byModerationStatus(r.db.WithContext(ctx), q.Status)).
		Preload("Story", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title", "slug") }).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, 0, wrapErr("find", "comments", err)
	}
	return comments, total, nil
}

// Stats counts comments by moderation state in one pass
func (r *CommentRepo) Stats(ctx context.Context) (models.CommentStats, error) {
	var stats models.CommentStats
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE NOT is_approved AND NOT is_spam) AS pending,
			COUNT(*) FILTER (WHERE is_approved AND NOT is_spam) AS approved,
			COUNT(*) FILTER (WHERE is_spam) AS spam`).
		Scan(&stats).Error
	return stats, wrapErr("count", "comments", err)
}
