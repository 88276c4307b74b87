package services

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/models"
	"golang.org/x/sync/errgroup"
)

const dashboardPopularLimit = 5

type StoryTotals struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
	Archived  int64 `json:"archived"`
	Views     int64 `json:"views"`
}

type LikeTotals struct {
	Total   int64 `json:"total"`
	Stories int64 `json:"stories"`
	Gallery int64 `json:"gallery"`
}

type DashboardStats struct {
	Stories        StoryTotals         `json:"stories"`
	Likes          LikeTotals          `json:"likes"`
	Comments       models.CommentStats `json:"comments"`
	GalleryImages  int64               `json:"galleryImages"`
	PopularStories []StoryView         `json:"popularStories"`
}

type DashboardService struct {
	stories  StoryStatsStore
	comments CommentStore
	likes    LikeStore
	images   GalleryStore
	now      Clock
}

func NewDashboardService(stories StoryStatsStore, comments CommentStore, likes LikeStore, images GalleryStore) *DashboardService {
	return &DashboardService{
		stories:  stories,
		comments: comments,
		likes:    likes,
		images:   images,
		now:      time.Now,
	}
}

// Stats gathers the admin overview. The counts are independent and run concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats   DashboardStats
		counts  map[models.StoryStatus]int64
		popular []models.Story
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.stories.StatusCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Stories.Views, err = s.stories.TotalViews(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Likes.Stories, err = s.likes.CountByType(gctx, models.LikeTargetStory)
		return err
	})
	g.Go(func() (err error) {
		stats.Likes.Gallery, err = s.likes.CountByType(gctx, models.LikeTargetGalleryImage)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments, err = s.comments.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.GalleryImages, err = s.images.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		popular, err = s.stories.Popular(gctx, dashboardPopularLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Stories.Published = counts[models.StatusPublished]
	stats.Stories.Draft = counts[models.StatusDraft]
	stats.Stories.Archived = counts[models.StatusArchived]
	stats.Stories.Total = stats.Stories.Published + stats.Stories.Draft + stats.Stories.Archived
	stats.Likes.Total = stats.Likes.Stories + stats.Likes.Gallery

	now := s.now()
	stats.PopularStories = make([]StoryView, len(popular))
	for i := range popular {
		stats.PopularStories[i] = StoryView{Story: popular[i], IsNew: popular[i].IsNew(now)}
	}
	return &stats, nil
}
