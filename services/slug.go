package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const (
	emptySlugBase   = "untitled"
	slugGuardPrefix = "story-"
	maxSlugAttempts = 1000
)

var (
	slugDisallowed = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// reservedSlugs collide with static routes under /api/stories.
var reservedSlugs = map[string]bool{
	"admin":   true,
	"popular": true,
}

// Slugify turns a title into a URL segment: lowercase ASCII letters, digits and
// single hyphens. It never returns an empty string or one that parses as a story id.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	switch {
	case slug == "":
		return emptySlugBase
	case looksLikeID(slug), reservedSlugs[slug]:
		return slugGuardPrefix + slug
	}
	return slug
}

// looksLikeID reports whether s has the shape of a story id.
func looksLikeID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// parseIdentifier splits a public story identifier into an id or a slug.
func parseIdentifier(identifier string) (*uuid.UUID, string) {
	identifier = strings.TrimSpace(identifier)
	if looksLikeID(identifier) {
		id := uuid.MustParse(identifier)
		return &id, ""
	}
	return nil, identifier
}

type slugChecker interface {
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// uniqueSlug returns base, or base-1, base-2, ... whichever no story other than
// excludeID owns.
func uniqueSlug(ctx context.Context, checker slugChecker, base string, excludeID uuid.UUID) (string, error) {
	candidate := base
	for n := 1; n <= maxSlugAttempts; n++ {
		taken, err := checker.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", errs.NewUniqueConstraintViolationError("story", "slug", fmt.Errorf("no free slug for %q", base))
}
