package services

import (
	"context"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const publicSettingsKey = "settings:public"

type SettingsService struct {
	store  SettingsStore
	cache  cache.Store
	now    Clock
	logger zerolog.Logger
}

func NewSettingsService(store SettingsStore, c cache.Store) *SettingsService {
	return &SettingsService{
		store:  store,
		cache:  c,
		now:    time.Now,
		logger: log.With().Str("service", "settings").Logger(),
	}
}

// Current returns the settings row, creating it with defaults on first use.
func (s *SettingsService) Current(ctx context.Context) (*models.Settings, error) {
	return s.store.GetOrCreate(ctx, models.DefaultSettings())
}

// Public returns the visitor safe projection of the settings.
func (s *SettingsService) Public(ctx context.Context) (*models.PublicSettings, error) {
	var cached models.PublicSettings
	if found, err := s.cache.Get(ctx, publicSettingsKey, &cached); err != nil {
		s.logger.Warn().Err(err).Msg("Public settings cache read failed")
	} else if found {
		return &cached, nil
	}

	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	public := settings.Public()

	if settings.Performance.EnableCaching && settings.Performance.CacheTimeout > 0 {
		ttl := time.Duration(settings.Performance.CacheTimeout) * time.Second
		if err := s.cache.Set(ctx, publicSettingsKey, public, ttl); err != nil {
			s.logger.Warn().Err(err).Msg("Public settings cache write failed")
		}
	}
	return &public, nil
}

// Update merges a JSON document onto the current settings. Sections and fields
// missing from patch keep their values; arrays are replaced whole.
func (s *SettingsService) Update(ctx context.Context, adminID uuid.UUID, patch []byte) (*models.Settings, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	merged := *current
	if err := json.Unmarshal(patch, &merged); err != nil {
		return nil, errs.Malformed("settings")
	}
	merged.ID = current.ID
	merged.CreatedAt = current.CreatedAt
	merged.NormalizeKeywords()

	if err := validateSettings(&merged); err != nil {
		return nil, err
	}

	merged.LastUpdatedBy = &adminID
	merged.UpdatedAt = s.now()
	if err := s.store.Save(ctx, &merged); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, publicSettingsKey); err != nil {
		s.logger.Warn().Err(err).Msg("Public settings cache invalidation failed")
	}
	s.logger.Info().Str("adminID", adminID.String()).Msg("Updated settings")
	return &merged, nil
}

func validateSettings(st *models.Settings) error {
	return validationErr(validation.Errors{
		"content.storiesPerPage": validation.Validate(st.Content.StoriesPerPage,
			validation.Required.Error("Stories per page must be between 3 and 20"),
			validation.Min(3).Error("Stories per page must be between 3 and 20"),
			validation.Max(20).Error("Stories per page must be between 3 and 20")),
		"content.galleryImagesPerPage": validation.Validate(st.Content.GalleryImagesPerPage,
			validation.Required.Error("Gallery images per page must be between 6 and 50"),
			validation.Min(6).Error("Gallery images per page must be between 6 and 50"),
			validation.Max(50).Error("Gallery images per page must be between 6 and 50")),
		"security.sessionTimeout": validation.Validate(st.Security.SessionTimeout,
			validation.Required.Error("Session timeout must be between 15 and 480 minutes"),
			validation.Min(15).Error("Session timeout must be between 15 and 480 minutes"),
			validation.Max(480).Error("Session timeout must be between 15 and 480 minutes")),
		"security.maxLoginAttempts": validation.Validate(st.Security.MaxLoginAttempts,
			validation.Required.Error("Max login attempts must be between 3 and 10"),
			validation.Min(3).Error("Max login attempts must be between 3 and 10"),
			validation.Max(10).Error("Max login attempts must be between 3 and 10")),
		"security.lockoutDuration": validation.Validate(st.Security.LockoutDuration,
			validation.Required.Error("Lockout duration must be between 5 and 1440 minutes"),
			validation.Min(5).Error("Lockout duration must be between 5 and 1440 minutes"),
			validation.Max(1440).Error("Lockout duration must be between 5 and 1440 minutes")),
		"seo.metaTitle": validation.Validate(st.SEO.MetaTitle,
			validation.RuneLength(0, metaTitleLimit).Error("Meta title cannot exceed 60 characters")),
		"seo.metaDescription": validation.Validate(st.SEO.MetaDescription,
			validation.RuneLength(0, metaDescriptionLimit).Error("Meta description cannot exceed 160 characters")),
		"seo.twitterCard": validation.Validate(st.SEO.TwitterCard,
			validation.In("summary", "summary_large_image").Error("Twitter card must be summary or summary_large_image")),
		"performance.cacheTimeout": validation.Validate(st.Performance.CacheTimeout,
			validation.Min(0).Error("Cache timeout cannot be negative")),
		"performance.maxImageSize": validation.Validate(st.Performance.MaxImageSize,
			validation.Required.Error("Max image size must be positive"),
			validation.Min(int64(1)).Error("Max image size must be positive")),
		"notifications.adminEmail": validation.Validate(st.Notifications.AdminEmail,
			is.EmailFormat.Error("Admin email must be a valid email")),
	}.Filter())
}
