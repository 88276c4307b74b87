package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/stretchr/testify/mock"
)

type MockStoryService struct {
	mock.Mock
}

func (m *MockStoryService) ListPublished(ctx context.Context, params services.StoryListParams) (*services.StoryPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryPage), args.Error(1)
}

func (m *MockStoryService) ListAdmin(ctx context.Context, params services.StoryListParams) (*services.StoryPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryPage), args.Error(1)
}

func (m *MockStoryService) GetPublished(ctx context.Context, identifier string) (*services.StoryView, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryView), args.Error(1)
}

func (m *MockStoryService) GetAdmin(ctx context.Context, id uuid.UUID) (*services.StoryView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryView), args.Error(1)
}

func (m *MockStoryService) Popular(ctx context.Context, limit int) ([]services.StoryView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.StoryView), args.Error(1)
}

func (m *MockStoryService) Create(ctx context.Context, authorID uuid.UUID, in services.StoryInput) (*services.StoryView, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryView), args.Error(1)
}

func (m *MockStoryService) Update(ctx context.Context, id uuid.UUID, in services.StoryInput) (*services.StoryView, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StoryView), args.Error(1)
}

func (m *MockStoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) ToggleStoryLike(ctx context.Context, identifier string, caller services.Caller) (*models.LikeResult, error) {
	args := m.Called(ctx, identifier, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeResult), args.Error(1)
}

func (m *MockEngagementService) ToggleImageLike(ctx context.Context, id uuid.UUID, caller services.Caller) (*models.LikeResult, error) {
	args := m.Called(ctx, id, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeResult), args.Error(1)
}

func (m *MockEngagementService) AddComment(ctx context.Context, identifier string, in services.CommentInput, caller services.Caller) (*models.Comment, error) {
	args := m.Called(ctx, identifier, in, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockEngagementService) AddReply(ctx context.Context, identifier string, commentID uuid.UUID, in services.CommentInput, caller services.Caller) (*services.ReplyResult, error) {
	args := m.Called(ctx, identifier, commentID, in, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReplyResult), args.Error(1)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) List(ctx context.Context, params services.ModerationListParams) (*services.ModerationPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ModerationPage), args.Error(1)
}

func (m *MockModerationService) Moderate(ctx context.Context, id uuid.UUID, in services.ModerationInput) (*models.Comment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockModerationService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) Upload(ctx context.Context, uploaderID uuid.UUID, file services.UploadFile, in services.GalleryInput) (*models.GalleryImage, error) {
	args := m.Called(ctx, uploaderID, file, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryImage), args.Error(1)
}

func (m *MockGalleryService) Update(ctx context.Context, id uuid.UUID, in services.GalleryInput) (*models.GalleryImage, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryImage), args.Error(1)
}

func (m *MockGalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGalleryService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockGalleryService) ListActive(ctx context.Context, params services.GalleryListParams) (*services.GalleryPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GalleryPage), args.Error(1)
}

func (m *MockGalleryService) ListAdmin(ctx context.Context, params services.GalleryListParams) (*services.GalleryPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GalleryPage), args.Error(1)
}

func (m *MockGalleryService) InstagramPosts(ctx context.Context, limit int) ([]models.GalleryImage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GalleryImage), args.Error(1)
}

func (m *MockGalleryService) Get(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryImage), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Current(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsService) Public(ctx context.Context) (*models.PublicSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicSettings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, adminID uuid.UUID, patch []byte) (*models.Settings, error) {
	args := m.Called(ctx, adminID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) Verify(token string) (*services.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Claims), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, id uuid.UUID, in services.ChangePasswordInput) error {
	return m.Called(ctx, id, in).Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context) (*services.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStats), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var (
	_ StoryService      = (*MockStoryService)(nil)
	_ EngagementService = (*MockEngagementService)(nil)
	_ ModerationService = (*MockModerationService)(nil)
	_ GalleryService    = (*MockGalleryService)(nil)
	_ SettingsService   = (*MockSettingsService)(nil)
	_ AuthService       = (*MockAuthService)(nil)
	_ DashboardService  = (*MockDashboardService)(nil)
	_ Pinger            = (*MockPinger)(nil)

	_ StoryService      = (*services.StoryService)(nil)
	_ EngagementService = (*services.EngagementService)(nil)
	_ ModerationService = (*services.ModerationService)(nil)
	_ GalleryService    = (*services.GalleryService)(nil)
	_ SettingsService   = (*services.SettingsService)(nil)
	_ AuthService       = (*services.AuthService)(nil)
	_ DashboardService  = (*services.DashboardService)(nil)
)
