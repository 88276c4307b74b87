package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type StorySort string

const (
	SortLatest  StorySort = "latest"
	SortPopular StorySort = "popular"
)

// StoryQuery narrows a story listing. Zero values mean no filter.
type StoryQuery struct {
	Status   models.StoryStatus
	Category models.StoryCategory
	Sort     StorySort
	Page     Page
}

type StoryRepo struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) *StoryRepo {
	return &StoryRepo{db}
}

const storyCountColumns = `stories.*,
	(SELECT COUNT(*) FROM likes WHERE likes.target_type = ? AND likes.target_id = stories.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.story_id = stories.id AND comments.parent_id IS NULL
		AND comments.is_approved = TRUE AND comments.is_spam = FALSE) AS comment_count`

func (r *StoryRepo) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Story{}).Select(storyCountColumns, models.LikeTargetStory)
}

func visibleComments(db *gorm.DB) *gorm.DB {
	return db.Where("is_approved = ? AND is_spam = ?", true, false).Order("created_at ASC")
}

func topLevelVisibleComments(db *gorm.DB) *gorm.DB {
	return visibleComments(db.Where("parent_id IS NULL"))
}

func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// FindByID returns a story with every comment and reply, regardless of moderation state
func (r *StoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := r.withCounts(ctx).
		Clauses(dbresolver.Write).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return oldestFirst(db.Where("parent_id IS NULL")) }).
		Preload("Comments.Replies", oldestFirst).
		Where("stories.id = ?", id).
		First(&story).Error
	if err != nil {
		return nil, wrapErr("find", "story", err)
	}
	return &story, nil
}

// FindPublished looks a published story up by id or slug and loads only approved comments and replies
func (r *StoryRepo) FindPublished(ctx context.Context, id *uuid.UUID, slug string) (*models.Story, error) {
	var story models.Story
	q := r.withCounts(ctx).
		Preload("Comments", topLevelVisibleComments).
		Preload("Comments.Replies", visibleComments).
		Where("stories.status = ?", models.StatusPublished)
	if id != nil {
		q = q.Where("stories.id = ?", *id)
	} else {
		q = q.Where("stories.slug = ?", slug)
	}
	if err := q.First(&story).Error; err != nil {
		return nil, wrapErr("find", "story", err)
	}
	return &story, nil
}

// StoryRef is the slice of a story needed to accept likes and comments.
type StoryRef struct {
	ID     uuid.UUID
	Title  string
	Slug   string
	Status models.StoryStatus
}

// FindRef looks a story up by id or slug without loading its content
func (r *StoryRepo) FindRef(ctx context.Context, id *uuid.UUID, slug string) (*StoryRef, error) {
	var ref StoryRef
	q := r.db.WithContext(ctx).Model(&models.Story{}).Select("id", "title", "slug", "status")
	if id != nil {
		q = q.Where("id = ?", *id)
	} else {
		q = q.Where("slug = ?", slug)
	}
	if err := q.Take(&ref).Error; err != nil {
		return nil, wrapErr("find", "story", err)
	}
	return &ref, nil
}

// SlugTaken reports whether a story other than excludeID owns slug
func (r *StoryRepo) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Story{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, wrapErr("check slug", "story", err)
	}
	return count > 0, nil
}

// Add inserts a new story into the database
func (r *StoryRepo) Add(ctx context.Context, story *models.Story) error {
	return wrapErr("create", "story", r.db.WithContext(ctx).Omit(clause.Associations).Create(story).Error)
}

// Update writes every column of an existing story
func (r *StoryRepo) Update(ctx context.Context, story *models.Story) error {
	return wrapErr("update", "story", r.db.WithContext(ctx).Omit(clause.Associations).Save(story).Error)
}

// Delete removes a story with its likes. Comments go with it through the foreign key.
func (r *StoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Story{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_type = ? AND target_id = ?", models.LikeTargetStory, id).Delete(&models.Like{}).Error
	})
	return txErr("delete", "story", err)
}

// IncrementViews bumps the view counter in a single statement
func (r *StoryRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return wrapErr("increment views", "story", err)
}

// List returns one page of stories matching q and the total match count
func (r *StoryRepo) List(ctx context.Context, q StoryQuery) ([]models.Story, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		if q.Status != "" {
			db = db.Where("stories.status = ?", q.Status)
		}
		if q.Category != "" {
			db = db.Where("stories.category = ?", q.Category)
		}
		return db
	}

	var total int64
	if err := filtered(r.db.WithContext(ctx).Model(&models.Story{})).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count", "stories", err)
	}

	list := filtered(r.withCounts(ctx))
	switch {
	case q.Sort == SortPopular:
		list = list.Order("views DESC").Order("like_count DESC")
	case q.Status == models.StatusPublished:
		list = list.Order("published_at DESC")
	default:
		list = list.Order("created_at DESC")
	}

	var stories []models.Story
	if err := q.Page.apply(list).Find(&stories).Error; err != nil {
		return nil, 0, wrapErr("find", "stories", err)
	}
	return stories, total, nil
}

// Popular ranks published stories by likes then views
func (r *StoryRepo) Popular(ctx context.Context, limit int) ([]models.Story, error) {
	var stories []models.Story
	err := r.withCounts(ctx).
		Where("stories.status = ?", models.StatusPublished).
		Order("like_count DESC").
		Order("views DESC").
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, wrapErr("find popular", "stories", err)
	}
	return stories, nil
}

// StatusCounts groups stories by status
func (r *StoryRepo) StatusCounts(ctx context.Context) (map[models.StoryStatus]int64, error) {
	var rows []struct {
		Status models.StoryStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("count", "stories", err)
	}

	counts := make(map[models.StoryStatus]int64, len(models.StoryStatuses))
	for _, s := range models.StoryStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TotalViews sums the view counters of every story
func (r *StoryRepo) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, wrapErr("sum views", "stories", err)
}
