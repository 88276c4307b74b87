package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeSettings struct {
	settings models.Settings
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{settings: models.DefaultSettings()}
}

func (f *fakeSettings) Current(context.Context) (*models.Settings, error) {
	s := f.settings
	return &s, nil
}

type fakeStoryStore struct {
	mu      sync.Mutex
	stories map[uuid.UUID]*models.Story
	views   map[uuid.UUID]int64
	// addErrs are returned by Add, one per call, before stories are stored.
	addErrs []error
}

func newFakeStoryStore() *fakeStoryStore {
	return &fakeStoryStore{stories: map[uuid.UUID]*models.Story{}, views: map[uuid.UUID]int64{}}
}

func (f *fakeStoryStore) put(story models.Story) *models.Story {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := story
	f.stories[s.ID] = &s
	return &s
}

func (f *fakeStoryStore) clone(s *models.Story) *models.Story {
	c := *s
	c.Comments = append([]models.Comment(nil), s.Comments...)
	return &c
}

func (f *fakeStoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stories[id]
	if !ok {
		return nil, errs.NewNotFound("story")
	}
	return f.clone(s), nil
}

func (f *fakeStoryStore) find(id *uuid.UUID, slug string) (*models.Story, bool) {
	if id != nil {
		s, ok := f.stories[*id]
		return s, ok
	}
	for _, s := range f.stories {
		if s.Slug == slug {
			return s, true
		}
	}
	return nil, false
}

func (f *fakeStoryStore) FindPublished(_ context.Context, id *uuid.UUID, slug string) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.find(id, slug)
	if !ok || s.Status != models.StatusPublished {
		return nil, errs.NewNotFound("story")
	}
	return f.clone(s), nil
}

func (f *fakeStoryStore) FindRef(_ context.Context, id *uuid.UUID, slug string) (*database.StoryRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.find(id, slug)
	if !ok {
		return nil, errs.NewNotFound("story")
	}
	return &database.StoryRef{ID: s.ID, Title: s.Title, Slug: s.Slug, Status: s.Status}, nil
}

func (f *fakeStoryStore) SlugTaken(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stories {
		if s.Slug == slug && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStoryStore) Add(_ context.Context, story *models.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.addErrs) > 0 {
		err := f.addErrs[0]
		f.addErrs = f.addErrs[1:]
		return err
	}
	for _, s := range f.stories {
		if s.Slug == story.Slug {
			return errs.NewAlreadyExists("story")
		}
	}
	f.stories[story.ID] = f.clone(story)
	return nil
}

func (f *fakeStoryStore) Update(_ context.Context, story *models.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stories[story.ID]; !ok {
		return errs.NewNotFound("story")
	}
	f.stories[story.ID] = f.clone(story)
	return nil
}

func (f *fakeStoryStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stories[id]; !ok {
		return errs.NewNotFound("story")
	}
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stories[id]
	if !ok {
		return errs.NewNotFound("story")
	}
	s.Views++
	return nil
}

func (f *fakeStoryStore) List(_ context.Context, q database.StoryQuery) ([]models.Story, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Story
	for _, s := range f.stories {
		if (q.Status == "" || s.Status == q.Status) && (q.Category == "" || s.Category == q.Category) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if q.Page.Offset < len(out) {
		out = out[q.Page.Offset:]
	} else {
		out = nil
	}
	if q.Page.Limit > 0 && len(out) > q.Page.Limit {
		out = out[:q.Page.Limit]
	}
	return out, total, nil
}

func (f *fakeStoryStore) Popular(_ context.Context, limit int) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Story
	for _, s := range f.stories {
		if s.Status == models.StatusPublished {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LikeCount != out[j].LikeCount {
			return out[i].LikeCount > out[j].LikeCount
		}
		return out[i].Views > out[j].Views
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStoryStore) StatusCounts(context.Context) (map[models.StoryStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.StoryStatus]int64{}
	for _, s := range f.stories {
		counts[s.Status]++
	}
	return counts, nil
}

func (f *fakeStoryStore) TotalViews(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, s := range f.stories {
		total += s.Views
	}
	return total, nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment
	addErr   error
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[uuid.UUID]*models.Comment{}}
}

func (f *fakeCommentStore) put(c models.Comment) *models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[c.ID] = &c
	return &c
}

func (f *fakeCommentStore) Add(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	copied := *c
	f.comments[c.ID] = &copied
	return nil
}

func (f *fakeCommentStore) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, errs.NewNotFound("comment")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentStore) FindThread(_ context.Context, storyID, commentID uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[commentID]
	if !ok || c.StoryID != storyID || c.ParentID != nil {
		return nil, errs.NewNotFound("comment")
	}
	thread := *c
	thread.Replies = nil
	for _, r := range f.comments {
		if r.ParentID != nil && *r.ParentID == c.ID {
			thread.Replies = append(thread.Replies, *r)
		}
	}
	sort.Slice(thread.Replies, func(i, j int) bool { return thread.Replies[i].CreatedAt.Before(thread.Replies[j].CreatedAt) })
	return &thread, nil
}

func (f *fakeCommentStore) UpdateModeration(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.comments[c.ID]
	if !ok {
		return errs.NewNotFound("comment")
	}
	stored.IsApproved = c.IsApproved
	stored.IsSpam = c.IsSpam
	stored.ModerationNotes = c.ModerationNotes
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return errs.NewNotFound("comment")
	}
	delete(f.comments, id)
	for rid, r := range f.comments {
		if r.ParentID != nil && *r.ParentID == id {
			delete(f.comments, rid)
		}
	}
	return nil
}

func (f *fakeCommentStore) List(_ context.Context, q database.CommentQuery) ([]models.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.comments {
		if q.Status == models.ModerationAll || q.Status == "" || c.Status() == q.Status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if q.Page.Offset < len(out) {
		out = out[q.Page.Offset:]
	} else {
		out = nil
	}
	if q.Page.Limit > 0 && len(out) > q.Page.Limit {
		out = out[:q.Page.Limit]
	}
	return out, total, nil
}

func (f *fakeCommentStore) Stats(context.Context) (models.CommentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.CommentStats
	for _, c := range f.comments {
		stats.Total++
		switch c.Status() {
		case models.ModerationPending:
			stats.Pending++
		case models.ModerationApproved:
			stats.Approved++
		case models.ModerationSpam:
			stats.Spam++
		}
	}
	return stats, nil
}

type likeKey struct {
	targetType string
	targetID   uuid.UUID
	identifier string
}

type fakeLikeStore struct {
	mu    sync.Mutex
	likes map[likeKey]bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[likeKey]bool{}}
}

func (f *fakeLikeStore) Add(_ context.Context, like *models.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey{like.TargetType, like.TargetID, like.Identifier}
	if f.likes[k] {
		return errs.NewAlreadyExists("like")
	}
	f.likes[k] = true
	return nil
}

func (f *fakeLikeStore) Remove(_ context.Context, targetType string, targetID uuid.UUID, identifier string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey{targetType, targetID, identifier}
	if !f.likes[k] {
		return false, nil
	}
	delete(f.likes, k)
	return true, nil
}

func (f *fakeLikeStore) Count(_ context.Context, targetType string, targetID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.likes {
		if k.targetType == targetType && k.targetID == targetID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikeStore) CountByType(_ context.Context, targetType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.likes {
		if k.targetType == targetType {
			n++
		}
	}
	return n, nil
}

type fakeGalleryStore struct {
	mu        sync.Mutex
	images    map[uuid.UUID]*models.GalleryImage
	reordered []uuid.UUID
}

func newFakeGalleryStore() *fakeGalleryStore {
	return &fakeGalleryStore{images: map[uuid.UUID]*models.GalleryImage{}}
}

func (f *fakeGalleryStore) put(img models.GalleryImage) *models.GalleryImage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[img.ID] = &img
	return &img
}

func (f *fakeGalleryStore) FindByID(_ context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[id]
	if !ok {
		return nil, errs.NewNotFound("gallery image")
	}
	copied := *img
	return &copied, nil
}

func (f *fakeGalleryStore) FindActive(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	img, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !img.IsActive {
		return nil, errs.NewNotFound("gallery image")
	}
	return img, nil
}

func (f *fakeGalleryStore) Add(_ context.Context, img *models.GalleryImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *img
	f.images[img.ID] = &copied
	return nil
}

func (f *fakeGalleryStore) Update(_ context.Context, img *models.GalleryImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *img
	f.images[img.ID] = &copied
	return nil
}

func (f *fakeGalleryStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.images[id]; !ok {
		return errs.NewNotFound("gallery image")
	}
	delete(f.images, id)
	return nil
}

func (f *fakeGalleryStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if img, ok := f.images[id]; ok {
		img.Views++
	}
	return nil
}

func (f *fakeGalleryStore) List(_ context.Context, q database.GalleryQuery) ([]models.GalleryImage, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GalleryImage
	for _, img := range f.images {
		if q.Category != "" && img.Category != q.Category {
			continue
		}
		if q.IsActive != nil && img.IsActive != *q.IsActive {
			continue
		}
		if q.IsInstagramPost != nil && img.IsInstagramPost != *q.IsInstagramPost {
			continue
		}
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	if q.Page.Offset < len(out) {
		out = out[q.Page.Offset:]
	} else {
		out = nil
	}
	if q.Page.Limit > 0 && len(out) > q.Page.Limit {
		out = out[:q.Page.Limit]
	}
	return out, total, nil
}

func (f *fakeGalleryStore) Reorder(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.images[id]; !ok {
			return errs.NewNotFound("gallery image")
		}
	}
	for i, id := range ids {
		f.images[id].SortOrder = i
	}
	f.reordered = ids
	return nil
}

func (f *fakeGalleryStore) CountActive(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, img := range f.images {
		if img.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeSettingsStore struct {
	mu    sync.Mutex
	row   *models.Settings
	saves int
}

func (f *fakeSettingsStore) GetOrCreate(_ context.Context, defaults models.Settings) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.row == nil {
		d := defaults
		f.row = &d
	}
	// Round trip through JSON so callers never share slices with the stored row.
	raw, err := json.Marshal(f.row)
	if err != nil {
		return nil, err
	}
	var out models.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out.ID = f.row.ID
	return &out, nil
}

func (f *fakeSettingsStore) Save(_ context.Context, s *models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.row = &copied
	f.saves++
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NewNotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errs.NewNotFound("user")
}

func (f *fakeUserStore) Add(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return errs.NewAlreadyExists("user")
		}
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

type fakeImageHost struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	deleted  []string
	failures int
}

func newFakeImageHost() *fakeImageHost {
	return &fakeImageHost{uploads: map[string][]byte{}}
}

func (f *fakeImageHost) Upload(_ context.Context, key, _ string, body []byte) (models.HostedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return models.HostedAsset{}, errs.NewImageHostError("upload", nil)
	}
	f.uploads[key] = body
	return models.HostedAsset{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (f *fakeImageHost) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	delete(f.uploads, publicID)
	return nil
}

// memoryCache is a cache.Store backed by a map of JSON documents.
type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
