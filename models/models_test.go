package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestStoryIsNew(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-6 * 24 * time.Hour)
	old := now.Add(-8 * 24 * time.Hour)

	assert.True(t, (&Story{PublishedAt: &recent}).IsNew(now))
	assert.False(t, (&Story{PublishedAt: &old}).IsNew(now))
	assert.False(t, (&Story{}).IsNew(now))
}

func TestCommentStatus(t *testing.T) {
	assert.Equal(t, ModerationPending, (&Comment{}).Status())
	assert.Equal(t, ModerationApproved, (&Comment{IsApproved: true}).Status())
	assert.Equal(t, ModerationSpam, (&Comment{IsSpam: true}).Status())
}

func TestGalleryApplyDefaults(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	img := &GalleryImage{Image: ImageAsset{Alt: DefaultImageAlt}}
	img.ApplyDefaults(now)
	assert.Equal(t, "Gallery Image 1/5/2026", img.Title)
	assert.Equal(t, "Gallery Image 1/5/2026", img.Image.Alt)
	assert.Equal(t, GalleryOther, img.Category)

	custom := &GalleryImage{Title: "Sunset", Image: ImageAsset{Alt: "Beach at dusk"}, Category: GalleryEvents}
	custom.ApplyDefaults(now)
	assert.Equal(t, "Beach at dusk", custom.Image.Alt)
	assert.Equal(t, GalleryEvents, custom.Category)
}

func TestNormalizeKeywords(t *testing.T) {
	s := DefaultSettings()
	s.SEO.Keywords = []string{"  Travel ", "", "PHOTOGRAPHY"}
	s.NormalizeKeywords()
	assert.Equal(t, []string{"travel", "photography"}, s.SEO.Keywords)

	s.SEO.Keywords = []string{"   "}
	s.NormalizeKeywords()
	assert.Equal(t, DefaultSEOKeywords, s.SEO.Keywords)
}

func TestPublicSettingsHidesPrivateSections(t *testing.T) {
	s := DefaultSettings()
	s.Analytics.FacebookPixelID = "px-1"
	s.Content.ModerateComments = true

	pub := s.Public()
	assert.Equal(t, 6, pub.Content.StoriesPerPage)
	assert.True(t, pub.Analytics.EnableTracking)
	assert.Empty(t, pub.Analytics.GoogleAnalyticsID)
}

func TestUserIsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.True(t, (&User{LockUntil: &future}).IsLocked(now))
	assert.False(t, (&User{LockUntil: &past}).IsLocked(now))
	assert.False(t, (&User{}).IsLocked(now))
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "title", "zeta", "alpha"}, []string{"id", "title"})
	assert.Equal(t, []string{"alpha", "zeta"}, got)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id"}))
}

func TestModelsParse(t *testing.T) {
	cache := &sync.Map{}
	for _, m := range All() {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.NotEmpty(t, s.Table)
	}

	s, err := schema.Parse(&Story{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Contains(t, s.DBNames, "seo_meta_title")
	likeCount, ok := s.FieldsByDBName["like_count"]
	require.True(t, ok)
	assert.False(t, likeCount.Creatable)
}
