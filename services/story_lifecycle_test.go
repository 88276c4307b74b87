package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMetadataPreview(t *testing.T) {
	long := &models.Story{Title: "Long story", Content: strings.Repeat("a", 200)}
	deriveMetadata(long, fixedNow)
	assert.Len(t, long.Preview, 153)
	assert.True(t, strings.HasSuffix(long.Preview, "..."))
	assert.Equal(t, strings.Repeat("a", 150), strings.TrimSuffix(long.Preview, "..."))

	short := &models.Story{Title: "Short story", Content: strings.Repeat("b", 100)}
	deriveMetadata(short, fixedNow)
	assert.Equal(t, short.Content, short.Preview)

	given := &models.Story{Title: "Given", Content: strings.Repeat("c", 200), Preview: "hand written"}
	deriveMetadata(given, fixedNow)
	assert.Equal(t, "hand written", given.Preview)
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 min read", readTime(""))
	assert.Equal(t, "1 min read", readTime("just a few words"))
	assert.Equal(t, "2 min read", readTime(strings.Repeat("word ", 400)))
	assert.Equal(t, "3 min read", readTime(strings.Repeat("word ", 401)))
}

func TestDeriveMetadataSEO(t *testing.T) {
	story := &models.Story{
		Title:   strings.Repeat("x", 70),
		Content: "content",
		Preview: strings.Repeat("p", 200),
	}
	deriveMetadata(story, fixedNow)
	assert.Equal(t, strings.Repeat("x", 57)+"...", story.SEO.MetaTitle)
	assert.Len(t, story.SEO.MetaDescription, 160)
	assert.True(t, strings.HasSuffix(story.SEO.MetaDescription, "..."))
}

func TestDeriveKeywords(t *testing.T) {
	words := make([]string, 15)
	for i := range words {
		words[i] = fmt.Sprintf("keyword%02d", i+1)
	}
	story := &models.Story{Title: strings.Join(words, " "), Content: "content", Tags: []string{"travel"}}
	deriveMetadata(story, fixedNow)

	require.Len(t, story.SEO.Keywords, 10)
	assert.Equal(t, []string(words[:10]), []string(story.SEO.Keywords))

	short := deriveKeywords("A Day, at the Beach!", []string{"Summer", "beach", " "})
	assert.Equal(t, []string{"beach", "summer"}, short)
}

func TestDeriveMetadataKeepsSuppliedKeywords(t *testing.T) {
	story := &models.Story{Title: "Morning routine", Content: "content"}
	story.SEO.Keywords = []string{" Coffee ", "coffee", "Yoga"}
	deriveMetadata(story, fixedNow)
	assert.Equal(t, []string{"coffee", "yoga"}, []string(story.SEO.Keywords))
}

func TestDeriveMetadataPublishesOnce(t *testing.T) {
	story := &models.Story{Title: "Draft", Content: "content", Status: models.StatusDraft}
	deriveMetadata(story, fixedNow)
	assert.Nil(t, story.PublishedAt)

	story.Status = models.StatusPublished
	deriveMetadata(story, fixedNow)
	require.NotNil(t, story.PublishedAt)
	assert.Equal(t, fixedNow, *story.PublishedAt)

	story.Status = models.StatusArchived
	deriveMetadata(story, fixedNow.Add(24*time.Hour))
	story.Status = models.StatusPublished
	deriveMetadata(story, fixedNow.Add(48*time.Hour))
	assert.Equal(t, fixedNow, *story.PublishedAt)
}

func TestNormalizeTerms(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeTerms([]string{" A", "b", "a", ""}, 0))
	assert.Equal(t, []string{"a"}, normalizeTerms([]string{"a", "b"}, 1))
	assert.Empty(t, normalizeTerms(nil, 0))
}
