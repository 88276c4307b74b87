package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// GalleryQuery narrows a gallery listing. Nil pointers mean no filter.
type GalleryQuery struct {
	Category        models.GalleryCategory
	IsInstagramPost *bool
	IsActive        *bool
	Page            Page
}

type GalleryRepo struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) *GalleryRepo {
	return &GalleryRepo{db}
}

const galleryCountColumns = `gallery_images.*,
	(SELECT COUNT(*) FROM likes WHERE likes.target_type = ? AND likes.target_id = gallery_images.id) AS like_count`

func (r *GalleryRepo) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.GalleryImage{}).Select(galleryCountColumns, models.LikeTargetGalleryImage)
}

func (q GalleryQuery) filter(db *gorm.DB) *gorm.DB {
	if q.Category != "" {
		db = db.Where("gallery_images.category = ?", q.Category)
	}
	if q.IsInstagramPost != nil {
		db = db.Where("gallery_images.is_instagram_post = ?", *q.IsInstagramPost)
	}
	if q.IsActive != nil {
		db = db.Where("gallery_images.is_active = ?", *q.IsActive)
	}
	return db
}

// FindByID returns an image whatever its active flag
func (r *GalleryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := r.withCounts(ctx).Clauses(dbresolver.Write).Where("gallery_images.id = ?", id).First(&image).Error; err != nil {
		return nil, wrapErr("find", "gallery image", err)
	}
	return &image, nil
}

// FindActive returns an image only when it is active
func (r *GalleryRepo) FindActive(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	var image models.GalleryImage
	err := r.withCounts(ctx).
		Where("gallery_images.id = ? AND gallery_images.is_active = ?", id, true).
		First(&image).Error
	if err != nil {
		return nil, wrapErr("find", "gallery image", err)
	}
	return &image, nil
}

// Add inserts a new gallery image
func (r *GalleryRepo) Add(ctx context.Context, image *models.GalleryImage) error {
	return wrapErr("create", "gallery image", r.db.WithContext(ctx).Create(image).Error)
}

// Update writes every column of an existing gallery image
func (r *GalleryRepo) Update(ctx context.Context, image *models.GalleryImage) error {
	return wrapErr("update", "gallery image", r.db.WithContext(ctx).Save(image).Error)
}

// Delete removes an image row with its likes
func (r *GalleryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.GalleryImage{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_type = ? AND target_id = ?", models.LikeTargetGalleryImage, id).Delete(&models.Like{}).Error
	})
	return txErr("delete", "gallery image", err)
}

// IncrementViews bumps the view counter in a single statement
func (r *GalleryRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.GalleryImage{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return wrapErr("increment views", "gallery image", err)
}

// List returns one page of images matching q ordered by sort order then newest first
func (r *GalleryRepo) List(ctx context.Context, q GalleryQuery) ([]models.GalleryImage, int64, error) {
	var total int64
	if err := q.filter(r.db.WithContext(ctx).Model(&models.GalleryImage{})).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count", "gallery images", err)
	}

	var images []models.GalleryImage
	err := q.Page.apply(q.filter(r.withCounts(ctx))).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, 0, wrapErr("find", "gallery images", err)
	}
	return images, total, nil
}

// Reorder sets sort_order to each id's position in ids, all or nothing
func (r *GalleryRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.GalleryImage{}).Where("id = ?", id).Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	return txErr("reorder", "gallery image", err)
}

// CountActive returns the number of active images
func (r *GalleryRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GalleryImage{}).Where("is_active = ?", true).Count(&count).Error
	return count, wrapErr("count", "gallery images", err)
}
