package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

const (
	previewLength        = 150
	metaTitleLimit       = 60
	metaDescriptionLimit = 160
	maxKeywords          = 10
	minKeywordLength     = 4
	wordsPerMinute       = 200
	ellipsis             = "..."
)

// deriveMetadata fills every field of story that is derived from its content
// and has not been supplied. The slug is handled separately.
func deriveMetadata(story *models.Story, now time.Time) {
	story.Tags = normalizeTerms(story.Tags, 0)

	if strings.TrimSpace(story.Preview) == "" {
		story.Preview = truncate(story.Content, previewLength, previewLength)
	}

	if story.Status == models.StatusPublished && story.PublishedAt == nil {
		published := now
		story.PublishedAt = &published
	}

	if strings.TrimSpace(story.ReadTime) == "" {
		story.ReadTime = readTime(story.Content)
	}

	if strings.TrimSpace(story.SEO.MetaTitle) == "" {
		story.SEO.MetaTitle = truncate(story.Title, metaTitleLimit, metaTitleLimit-len(ellipsis))
	}

	if strings.TrimSpace(story.SEO.MetaDescription) == "" {
		description := story.Preview
		if description == "" {
			description = headRunes(story.Content, metaDescriptionLimit)
		}
		story.SEO.MetaDescription = truncate(description, metaDescriptionLimit, metaDescriptionLimit-len(ellipsis))
	}

	if len(normalizeTerms(story.SEO.Keywords, 0)) == 0 {
		story.SEO.Keywords = deriveKeywords(story.Title, story.Tags)
	} else {
		story.SEO.Keywords = normalizeTerms(story.SEO.Keywords, maxKeywords)
	}
}

// truncate returns s unchanged when it has at most limit runes; otherwise its
// first keep runes followed by an ellipsis.
func truncate(s string, limit, keep int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return headRunes(s, keep) + ellipsis
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// readTime renders ceil(words/200) minutes, never less than one.
func readTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// deriveKeywords takes title words longer than three characters, then tags,
// deduplicated and capped at maxKeywords.
func deriveKeywords(title string, tags []string) []string {
	var candidates []string
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) >= minKeywordLength {
			candidates = append(candidates, word)
		}
	}
	candidates = append(candidates, tags...)
	return normalizeTerms(candidates, maxKeywords)
}

// normalizeTerms trims and lowercases terms, drops blanks and duplicates while
// keeping first-seen order, and keeps at most limit entries when limit > 0.
func normalizeTerms(terms []string, limit int) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
