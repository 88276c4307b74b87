package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPopularLimit = 5
	maxPopularLimit     = 20
	maxStoriesPerPage   = 50
	popularCachePrefix  = "stories:popular:"
)

// StoryView is a story as returned to clients.
type StoryView struct {
	models.Story
	IsNew bool `json:"isNew"`
}

type StoryPagination struct {
	Current      int   `json:"current"`
	Total        int   `json:"total"`
	Count        int   `json:"count"`
	TotalStories int64 `json:"totalStories"`
}

type StoryPage struct {
	Stories    []StoryView     `json:"stories"`
	Pagination StoryPagination `json:"pagination"`
}

type StoryListParams struct {
	ListParams
	Status   string
	Category string
	Sort     string
}

type StoryService struct {
	stories  StoryStore
	settings SettingsProvider
	cache    cache.Store
	now      Clock
	logger   zerolog.Logger
}

func NewStoryService(stories StoryStore, settings SettingsProvider, store cache.Store) *StoryService {
	return &StoryService{
		stories:  stories,
		settings: settings,
		cache:    store,
		now:      time.Now,
		logger:   log.With().Str("service", "stories").Logger(),
	}
}

func (s *StoryService) view(story *models.Story) StoryView {
	return StoryView{Story: *story, IsNew: story.IsNew(s.now())}
}

func (s *StoryService) views(stories []models.Story) []StoryView {
	out := make([]StoryView, len(stories))
	for i := range stories {
		out[i] = s.view(&stories[i])
	}
	return out
}

// redactComments strips commenter emails from a story headed to the public.
func redactComments(comments []models.Comment) {
	for i := range comments {
		comments[i].Email = ""
		redactComments(comments[i].Replies)
	}
}

func parseCategory(raw string) (models.StoryCategory, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	c := models.StoryCategory(raw)
	if !models.ValidStoryCategory(c) {
		return "", errs.NewValidationError("category", "Category must be personal, work, or lifestyle")
	}
	return c, nil
}

// ListPublished pages through published stories, newest first or by popularity.
func (s *StoryService) ListPublished(ctx context.Context, params StoryListParams) (*StoryPage, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(params.Category)
	if err != nil {
		return nil, err
	}

	sort := database.SortLatest
	if params.Sort == string(database.SortPopular) {
		sort = database.SortPopular
	}

	offset := params.offset(settings.Content.StoriesPerPage, maxStoriesPerPage)
	stories, total, err := s.stories.List(ctx, database.StoryQuery{
		Status:   models.StatusPublished,
		Category: category,
		Sort:     sort,
		Page:     database.Page{Offset: offset, Limit: params.Limit},
	})
	if err != nil {
		return nil, err
	}
	return s.page(stories, total, params.ListParams), nil
}

// ListAdmin pages through every story, newest first.
func (s *StoryService) ListAdmin(ctx context.Context, params StoryListParams) (*StoryPage, error) {
	category, err := parseCategory(params.Category)
	if err != nil {
		return nil, err
	}
	var status models.StoryStatus
	if params.Status != "" && params.Status != "all" {
		status = models.StoryStatus(params.Status)
		if !models.ValidStoryStatus(status) {
			return nil, errs.NewValidationError("status", "Status must be draft, published, or archived")
		}
	}

	offset := params.offset(10, maxStoriesPerPage)
	stories, total, err := s.stories.List(ctx, database.StoryQuery{
		Status:   status,
		Category: category,
		Page:     database.Page{Offset: offset, Limit: params.Limit},
	})
	if err != nil {
		return nil, err
	}
	return s.page(stories, total, params.ListParams), nil
}

func (s *StoryService) page(stories []models.Story, total int64, params ListParams) *StoryPage {
	return &StoryPage{
		Stories: s.views(stories),
		Pagination: StoryPagination{
			Current:      params.Page,
			Total:        pageCount(total, params.Limit),
			Count:        len(stories),
			TotalStories: total,
		},
	}
}

// GetPublished resolves identifier as an id or slug, counts the view and returns
// the story with its approved comments.
func (s *StoryService) GetPublished(ctx context.Context, identifier string) (*StoryView, error) {
	id, slug := parseIdentifier(identifier)
	story, err := s.stories.FindPublished(ctx, id, slug)
	if err != nil {
		return nil, err
	}
	if err := s.stories.IncrementViews(ctx, story.ID); err != nil {
		return nil, err
	}
	story.Views++
	redactComments(story.Comments)

	v := s.view(story)
	return &v, nil
}

// GetAdmin returns any story by id with all of its comments.
func (s *StoryService) GetAdmin(ctx context.Context, id uuid.UUID) (*StoryView, error) {
	story, err := s.stories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(story)
	return &v, nil
}

// Popular ranks published stories by likes then views. Results are cached.
func (s *StoryService) Popular(ctx context.Context, limit int) ([]StoryView, error) {
	if limit < 1 {
		limit = DefaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}
	key := fmt.Sprintf("%s%d", popularCachePrefix, limit)

	var cached []StoryView
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Popular stories cache read failed")
	} else if found {
		return cached, nil
	}

	stories, err := s.stories.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := s.views(stories)

	if ttl := s.cacheTTL(ctx); ttl > 0 {
		if err := s.cache.Set(ctx, key, out, ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Popular stories cache write failed")
		}
	}
	return out, nil
}

func (s *StoryService) cacheTTL(ctx context.Context) time.Duration {
	settings, err := s.settings.Current(ctx)
	if err != nil || !settings.Performance.EnableCaching {
		return 0
	}
	return time.Duration(settings.Performance.CacheTimeout) * time.Second
}

func (s *StoryService) invalidatePopular(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, popularCachePrefix); err != nil {
		s.logger.Warn().Err(err).Msg("Popular stories cache invalidation failed")
	}
}

func (s *StoryService) Create(ctx context.Context, authorID uuid.UUID, in StoryInput) (*StoryView, error) {
	in.normalize()
	if err := in.validate(true); err != nil {
		return nil, err
	}

	now := s.now()
	story := &models.Story{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Category:  models.CategoryPersonal,
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.applyTo(story)

	if err := s.persist(ctx, story, true, true); err != nil {
		return nil, err
	}
	s.logger.Info().Str("storyID", story.ID.String()).Str("slug", story.Slug).Msg("Created story")
	s.invalidatePopular(ctx)
	return s.GetAdmin(ctx, story.ID)
}

func (s *StoryService) Update(ctx context.Context, id uuid.UUID, in StoryInput) (*StoryView, error) {
	in.normalize()
	if err := in.validate(false); err != nil {
		return nil, err
	}

	story, err := s.stories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	titleChanged := in.Title != nil && *in.Title != story.Title
	in.applyTo(story)
	story.Comments = nil
	story.UpdatedAt = s.now()

	if err := s.persist(ctx, story, false, titleChanged); err != nil {
		return nil, err
	}
	s.invalidatePopular(ctx)
	return s.GetAdmin(ctx, story.ID)
}

func (s *StoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("storyID", id.String()).Msg("Deleted story")
	s.invalidatePopular(ctx)
	return nil
}

// persist runs the lifecycle steps and writes the story. When another writer
// claims the slug between the scan and the write, the scan runs once more.
func (s *StoryService) persist(ctx context.Context, story *models.Story, isNew, titleChanged bool) error {
	regenerate := isNew || titleChanged
	if regenerate {
		slug, err := uniqueSlug(ctx, s.stories, Slugify(story.Title), story.ID)
		if err != nil {
			return err
		}
		story.Slug = slug
	}
	deriveMetadata(story, s.now())

	save := s.stories.Update
	if isNew {
		save = s.stories.Add
	}

	err := save(ctx, story)
	if err == nil || !regenerate || !errs.IsAlreadyExists(err) {
		return err
	}

	s.logger.Warn().Str("slug", story.Slug).Msg("Slug claimed concurrently, rescanning")
	slug, scanErr := uniqueSlug(ctx, s.stories, Slugify(story.Title), story.ID)
	if scanErr != nil {
		return scanErr
	}
	story.Slug = slug
	if err := save(ctx, story); err != nil {
		if errs.IsAlreadyExists(err) {
			return errs.NewUniqueConstraintViolationError("story", "slug", err)
		}
		return err
	}
	return nil
}
