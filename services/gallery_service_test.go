package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, w, h int) UploadFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return UploadFile{Filename: "Beach Day.PNG", ContentType: "image/png", Data: buf.Bytes()}
}

func newTestGalleryService() (*GalleryService, *fakeGalleryStore, *fakeImageHost, *fakeSettings) {
	store := newFakeGalleryStore()
	host := newFakeImageHost()
	settings := newFakeSettings()
	svc := NewGalleryService(store, settings, host)
	svc.now = fixedClock
	return svc, store, host, settings
}

func TestAssetKey(t *testing.T) {
	ms := fixedNow.UnixMilli()
	assert.Equal(t, fmt.Sprintf("gallery/beach-day-%d.png", ms), assetKey("Beach Day.PNG", "png", fixedNow))
	assert.Equal(t, fmt.Sprintf("gallery/untitled-%d.jpeg", ms), assetKey("", "jpeg", fixedNow))
	assert.Equal(t, fmt.Sprintf("gallery/shot-%d.webp", ms), assetKey("dir/shot.webp", "", fixedNow))
}

func TestGalleryUpload(t *testing.T) {
	svc, store, host, _ := newTestGalleryService()
	ctx := context.Background()
	uploader := uuid.New()

	img, err := svc.Upload(ctx, uploader, pngFile(t, 4, 3), GalleryInput{
		InstagramData: &models.InstagramData{PostID: "ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Gallery Image 3/10/2024", img.Title)
	assert.Equal(t, img.Title, img.Image.Alt)
	assert.Equal(t, 4, img.Image.Width)
	assert.Equal(t, 3, img.Image.Height)
	assert.Equal(t, "png", img.Image.Format)
	assert.Equal(t, models.GalleryOther, img.Category)
	assert.Equal(t, uploader, img.UploadedBy)
	assert.True(t, img.IsActive)
	assert.Nil(t, img.InstagramData)

	key := fmt.Sprintf("gallery/beach-day-%d.png", fixedNow.UnixMilli())
	assert.Equal(t, key, img.Image.PublicID)
	assert.Equal(t, "https://cdn.test/"+key, img.Image.URL)
	assert.Contains(t, host.uploads, key)

	stored, err := store.FindByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Title, stored.Title)
}

func TestGalleryUploadInstagram(t *testing.T) {
	svc, _, _, _ := newTestGalleryService()
	instagram := true
	img, err := svc.Upload(context.Background(), uuid.New(), pngFile(t, 1, 1), GalleryInput{
		Title:           strPtr("Sunset"),
		Alt:             strPtr("Gallery Image"),
		IsInstagramPost: &instagram,
		InstagramData:   &models.InstagramData{PostID: "abc", Likes: 12, Hashtags: []string{"Sun", "sun", "sea"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset", img.Image.Alt)
	require.NotNil(t, img.InstagramData)
	data := img.InstagramData.Data()
	assert.Equal(t, "abc", data.PostID)
	assert.Equal(t, []string{"sun", "sea"}, data.Hashtags)
}

func TestGalleryUploadHidden(t *testing.T) {
	svc, store, _, _ := newTestGalleryService()
	ctx := context.Background()
	hidden := false

	img, err := svc.Upload(ctx, uuid.New(), pngFile(t, 2, 2), GalleryInput{IsActive: &hidden})
	require.NoError(t, err)
	assert.False(t, img.IsActive)

	stored, err := store.FindByID(ctx, img.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestGalleryUploadRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("not an image", func(t *testing.T) {
		svc, _, _, _ := newTestGalleryService()
		_, err := svc.Upload(ctx, uuid.New(), UploadFile{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, GalleryInput{})
		assert.Equal(t, 415, errs.StatusCode(err))
	})

	t.Run("too large", func(t *testing.T) {
		svc, _, _, settings := newTestGalleryService()
		settings.settings.Performance.MaxImageSize = 10
		_, err := svc.Upload(ctx, uuid.New(), pngFile(t, 8, 8), GalleryInput{})
		assert.Equal(t, 413, errs.StatusCode(err))
	})

	t.Run("empty", func(t *testing.T) {
		svc, _, _, _ := newTestGalleryService()
		_, err := svc.Upload(ctx, uuid.New(), UploadFile{ContentType: "image/png"}, GalleryInput{})
		assert.Equal(t, 400, errs.StatusCode(err))
	})

	t.Run("no image host", func(t *testing.T) {
		svc := NewGalleryService(newFakeGalleryStore(), newFakeSettings(), nil)
		_, err := svc.Upload(ctx, uuid.New(), pngFile(t, 1, 1), GalleryInput{})
		assert.True(t, errs.IsImageHostDisabledError(err))
	})

	t.Run("host failure", func(t *testing.T) {
		svc, store, host, _ := newTestGalleryService()
		host.failures = 1
		_, err := svc.Upload(ctx, uuid.New(), pngFile(t, 1, 1), GalleryInput{})
		assert.True(t, errs.IsImageHostError(err))
		assert.Empty(t, store.images)
	})
}

func TestGalleryUploadUnknownFormat(t *testing.T) {
	svc, _, _, _ := newTestGalleryService()
	img, err := svc.Upload(context.Background(), uuid.New(), UploadFile{Filename: "pic.webp", ContentType: "image/webp", Data: []byte("RIFF....WEBP")}, GalleryInput{})
	require.NoError(t, err)
	assert.Equal(t, "webp", img.Image.Format)
	assert.Zero(t, img.Image.Width)
}

func TestGalleryUpdateAndDelete(t *testing.T) {
	svc, store, host, _ := newTestGalleryService()
	ctx := context.Background()
	img := store.put(models.GalleryImage{
		ID:       uuid.New(),
		Title:    "Old",
		Image:    models.ImageAsset{PublicID: "gallery/old.png", Alt: "Old"},
		IsActive: true,
	})

	category := models.GalleryEvents
	updated, err := svc.Update(ctx, img.ID, GalleryInput{Title: strPtr("New title"), Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, models.GalleryEvents, updated.Category)
	assert.Equal(t, "Old", updated.Image.Alt)

	bad := models.GalleryCategory("food")
	_, err = svc.Update(ctx, img.ID, GalleryInput{Category: &bad})
	assert.Equal(t, 400, errs.StatusCode(err))

	blank := models.GalleryCategory("")
	_, err = svc.Update(ctx, img.ID, GalleryInput{Category: &blank})
	assert.Equal(t, 400, errs.StatusCode(err))

	require.NoError(t, svc.Delete(ctx, img.ID))
	assert.Equal(t, []string{"gallery/old.png"}, host.deleted)
	assert.True(t, errs.IsNotFound(svc.Delete(ctx, img.ID)))
}

func TestGalleryReorder(t *testing.T) {
	svc, store, _, _ := newTestGalleryService()
	ctx := context.Background()
	a := store.put(models.GalleryImage{ID: uuid.New(), SortOrder: 5})
	b := store.put(models.GalleryImage{ID: uuid.New(), SortOrder: 9})

	require.NoError(t, svc.Reorder(ctx, []uuid.UUID{b.ID, a.ID}))
	assert.Equal(t, 0, store.images[b.ID].SortOrder)
	assert.Equal(t, 1, store.images[a.ID].SortOrder)

	assert.Equal(t, 400, errs.StatusCode(svc.Reorder(ctx, nil)))
	assert.Equal(t, 400, errs.StatusCode(svc.Reorder(ctx, []uuid.UUID{a.ID, a.ID})))
	assert.True(t, errs.IsNotFound(svc.Reorder(ctx, []uuid.UUID{uuid.New()})))
}

func TestGalleryListing(t *testing.T) {
	svc, store, _, settings := newTestGalleryService()
	ctx := context.Background()
	settings.settings.Content.GalleryImagesPerPage = 6

	for i := 0; i < 7; i++ {
		store.put(models.GalleryImage{ID: uuid.New(), IsActive: true, SortOrder: i, Category: models.GalleryPersonal})
	}
	store.put(models.GalleryImage{ID: uuid.New(), IsActive: false})
	for i := 0; i < 8; i++ {
		store.put(models.GalleryImage{ID: uuid.New(), IsActive: true, IsInstagramPost: true, SortOrder: 100 + i, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute)})
	}

	page, err := svc.ListActive(ctx, GalleryListParams{Category: "personal"})
	require.NoError(t, err)
	assert.Len(t, page.Images, 6)
	assert.Equal(t, GalleryPagination{Current: 1, Pages: 2, Total: 7, HasNext: true, HasPrev: false}, page.Pagination)
	assert.Equal(t, 0, page.Images[0].SortOrder)

	page, err = svc.ListActive(ctx, GalleryListParams{Category: "personal", ListParams: ListParams{Page: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Images, 1)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	inactive := false
	admin, err := svc.ListAdmin(ctx, GalleryListParams{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.Pagination.Total)

	posts, err := svc.InstagramPosts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, posts, DefaultInstagramLimit)
	for _, p := range posts {
		assert.True(t, p.IsInstagramPost)
	}

	_, err = svc.ListActive(ctx, GalleryListParams{Category: "food"})
	assert.Equal(t, 400, errs.StatusCode(err))
}

func TestGalleryGet(t *testing.T) {
	svc, store, _, _ := newTestGalleryService()
	ctx := context.Background()
	img := store.put(models.GalleryImage{ID: uuid.New(), IsActive: true, Views: 2})
	hidden := store.put(models.GalleryImage{ID: uuid.New(), IsActive: false})

	got, err := svc.Get(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)
	assert.Equal(t, int64(3), store.images[img.ID].Views)

	_, err = svc.Get(ctx, hidden.ID)
	assert.True(t, errs.IsNotFound(err))
}
