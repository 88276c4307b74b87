package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StoryCategory string

const (
	CategoryPersonal  StoryCategory = "personal"
	CategoryWork      StoryCategory = "work"
	CategoryLifestyle StoryCategory = "lifestyle"
)

var StoryCategories = []StoryCategory{CategoryPersonal, CategoryWork, CategoryLifestyle}

type StoryStatus string

const (
	StatusDraft     StoryStatus = "draft"
	StatusPublished StoryStatus = "published"
	StatusArchived  StoryStatus = "archived"
)

var StoryStatuses = []StoryStatus{StatusDraft, StatusPublished, StatusArchived}

// NewStoryWindow is how long after publication a story is flagged as new.
const NewStoryWindow = 7 * 24 * time.Hour

// StorySEO is stored inline on the stories table with a seo_ prefix.
type StorySEO struct {
	MetaTitle       string                      `json:"metaTitle" gorm:"type:varchar(60)"`
	MetaDescription string                      `json:"metaDescription" gorm:"type:varchar(160)"`
	Keywords        datatypes.JSONSlice[string] `json:"keywords" gorm:"type:jsonb"`
}

// Story is a long form post written by an admin
type Story struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_stories_slug"`
	Content     string                      `json:"content" db:"content" gorm:"type:text;not null"`
	Preview     string                      `json:"preview" db:"preview" gorm:"type:varchar(300)"`
	Category    StoryCategory               `json:"category" db:"category" gorm:"type:varchar(20);not null;default:personal;index:idx_stories_category"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"type:jsonb"`
	Status      StoryStatus                 `json:"status" db:"status" gorm:"type:varchar(20);not null;default:draft;index:idx_stories_status_published,priority:1"`
	AuthorID    uuid.UUID                   `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	PublishedAt *time.Time                  `json:"publishedAt,omitempty" db:"published_at" gorm:"type:timestamptz;index:idx_stories_status_published,priority:2"`
	Views       int64                       `json:"views" db:"views" gorm:"type:bigint;not null;default:0"`
	ReadTime    string                      `json:"readTime" db:"read_time" gorm:"type:varchar(32)"`
	SEO         StorySEO                    `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	// Populated by the repository's count subqueries; never written.
	LikeCount    int64 `json:"likeCount" gorm:"->;-:migration"`
	CommentCount int64 `json:"commentCount" gorm:"->;-:migration"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:StoryID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsNew reports whether the story was published within NewStoryWindow of now.
func (s *Story) IsNew(now time.Time) bool {
	if s.PublishedAt == nil {
		return false
	}
	return now.Sub(*s.PublishedAt) < NewStoryWindow
}

func (s *Story) IsPublished() bool {
	return s.Status == StatusPublished
}

func ValidStoryCategory(c StoryCategory) bool {
	for _, known := range StoryCategories {
		if c == known {
			return true
		}
	}
	return false
}

func ValidStoryStatus(s StoryStatus) bool {
	for _, known := range StoryStatuses {
		if s == known {
			return true
		}
	}
	return false
}
