package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	DefaultInstagramLimit = 6
	maxGalleryPerPage     = 50
	galleryKeyPrefix      = "gallery/"
)

func newInstagramData(data models.InstagramData) *datatypes.JSONType[models.InstagramData] {
	d := datatypes.NewJSONType(data)
	return &d
}

// UploadFile is an image received from a multipart form.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type GalleryListParams struct {
	ListParams
	Category        string
	IsInstagramPost *bool
	IsActive        *bool
}

type GalleryPagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

type GalleryPage struct {
	Images     []models.GalleryImage `json:"images"`
	Pagination GalleryPagination     `json:"pagination"`
}

type GalleryService struct {
	images   GalleryStore
	settings SettingsProvider
	host     ImageHost
	now      Clock
	logger   zerolog.Logger
}

// NewGalleryService builds the gallery service. A nil host disables uploads.
func NewGalleryService(images GalleryStore, settings SettingsProvider, host ImageHost) *GalleryService {
	return &GalleryService{
		images:   images,
		settings: settings,
		host:     host,
		now:      time.Now,
		logger:   log.With().Str("service", "gallery").Logger(),
	}
}

func parseGalleryCategory(raw string) (models.GalleryCategory, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	c := models.GalleryCategory(raw)
	if !models.ValidGalleryCategory(c) {
		return "", errs.NewValidationError("category", "Invalid gallery category")
	}
	return c, nil
}

// assetKey names the hosted object after the upload's base name and the upload time.
func assetKey(filename, format string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = format
	}
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := Slugify(base)
	key := fmt.Sprintf("%s%s-%d", galleryKeyPrefix, name, now.UnixMilli())
	if ext != "" {
		key += "." + ext
	}
	return key
}

// describeImage reads the dimensions of jpeg, png and gif files. Other image
// types are accepted with the format taken from the content type.
func describeImage(file UploadFile) (width, height int, format string) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return 0, 0, strings.TrimPrefix(strings.ToLower(file.ContentType), "image/")
	}
	return cfg.Width, cfg.Height, format
}

// Upload stores the file with the image host and records it in the gallery.
func (s *GalleryService) Upload(ctx context.Context, uploaderID uuid.UUID, file UploadFile, in GalleryInput) (*models.GalleryImage, error) {
	if s.host == nil {
		return nil, errs.NewImageHostDisabledError()
	}
	if len(file.Data) == 0 {
		return nil, errs.NewValidationError("image", "No image file provided")
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return nil, errs.NewUnsupportedMediaTypeError(file.ContentType)
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if limit := settings.Performance.MaxImageSize; limit > 0 && int64(len(file.Data)) > limit {
		return nil, errs.NewMaxBodySizeError(limit)
	}

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	width, height, format := describeImage(file)
	asset, err := s.host.Upload(ctx, assetKey(file.Filename, format, now), file.ContentType, file.Data)
	if err != nil {
		return nil, err
	}

	img := &models.GalleryImage{
		ID: uuid.New(),
		Image: models.ImageAsset{
			URL:      asset.URL,
			PublicID: asset.PublicID,
			Width:    width,
			Height:   height,
			Format:   format,
			Size:     int64(len(file.Data)),
		},
		Category:   models.GalleryOther,
		UploadedBy: uploaderID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.applyTo(img)
	img.ApplyDefaults(now)

	if err := s.images.Add(ctx, img); err != nil {
		if delErr := s.host.Delete(ctx, asset.PublicID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("publicID", asset.PublicID).Msg("Failed to release orphaned upload")
		}
		return nil, err
	}
	s.logger.Info().Str("imageID", img.ID.String()).Str("publicID", asset.PublicID).Msg("Uploaded gallery image")
	return img, nil
}

func (s *GalleryService) Update(ctx context.Context, id uuid.UUID, in GalleryInput) (*models.GalleryImage, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(img)
	img.ApplyDefaults(s.now())
	img.UpdatedAt = s.now()

	if err := s.images.Update(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Delete releases the hosted file, then removes the record and its likes.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.host != nil && img.Image.PublicID != "" {
		if err := s.host.Delete(ctx, img.Image.PublicID); err != nil {
			return err
		}
	}
	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("imageID", id.String()).Msg("Deleted gallery image")
	return nil
}

// Reorder gives each image its position in ids as sort order.
func (s *GalleryService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return errs.NewValidationError("imageIds", "Image IDs array is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return errs.NewValidationError("imageIds", "Image IDs must be unique")
		}
		seen[id] = struct{}{}
	}
	return s.images.Reorder(ctx, ids)
}

func (s *GalleryService) list(ctx context.Context, params GalleryListParams) (*GalleryPage, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	category, err := parseGalleryCategory(params.Category)
	if err != nil {
		return nil, err
	}

	offset := params.offset(settings.Content.GalleryImagesPerPage, maxGalleryPerPage)
	images, total, err := s.images.List(ctx, database.GalleryQuery{
		Category:        category,
		IsInstagramPost: params.IsInstagramPost,
		IsActive:        params.IsActive,
		Page:            database.Page{Offset: offset, Limit: params.Limit},
	})
	if err != nil {
		return nil, err
	}

	pages := pageCount(total, params.Limit)
	return &GalleryPage{
		Images: images,
		Pagination: GalleryPagination{
			Current: params.Page,
			Pages:   pages,
			Total:   total,
			HasNext: params.Page < pages,
			HasPrev: params.Page > 1,
		},
	}, nil
}

// ListActive pages through the images visitors can see.
func (s *GalleryService) ListActive(ctx context.Context, params GalleryListParams) (*GalleryPage, error) {
	active := true
	params.IsActive = &active
	return s.list(ctx, params)
}

// ListAdmin pages through every image, optionally filtered on the active flag.
func (s *GalleryService) ListAdmin(ctx context.Context, params GalleryListParams) (*GalleryPage, error) {
	return s.list(ctx, params)
}

// InstagramPosts returns the first active images marked as Instagram posts.
func (s *GalleryService) InstagramPosts(ctx context.Context, limit int) ([]models.GalleryImage, error) {
	if limit < 1 {
		limit = DefaultInstagramLimit
	}
	if limit > maxGalleryPerPage {
		limit = maxGalleryPerPage
	}
	active, instagram := true, true
	images, _, err := s.images.List(ctx, database.GalleryQuery{
		IsInstagramPost: &instagram,
		IsActive:        &active,
		Page:            database.Page{Limit: limit},
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Get returns an active image and counts the view.
func (s *GalleryService) Get(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	img, err := s.images.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.images.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	img.Views++
	return img, nil
}
