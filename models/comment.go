package models

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string

const (
	ModerationAll      ModerationStatus = "all"
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationSpam     ModerationStatus = "spam"
)

// Comment is a visitor comment on a story. A reply is a comment whose ParentID
// points at a top level comment of the same story.
type Comment struct {
	ID              uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	StoryID         uuid.UUID  `json:"storyId" db:"story_id" gorm:"type:uuid;not null;index:idx_comments_story_parent,priority:1"`
	ParentID        *uuid.UUID `json:"parentId,omitempty" db:"parent_id" gorm:"type:uuid;index:idx_comments_story_parent,priority:2"`
	Name            string     `json:"name" db:"name" gorm:"type:varchar(50);not null"`
	Email           string     `json:"email,omitempty" db:"email" gorm:"type:varchar(255)"`
	IPAddress       string     `json:"-" db:"ip_address" gorm:"type:varchar(64)"`
	Text            string     `json:"text" db:"text" gorm:"type:varchar(1000);not null"`
	IsApproved      bool       `json:"isApproved" db:"is_approved" gorm:"not null;default:false;index:idx_comments_moderation,priority:1"`
	IsSpam          bool       `json:"isSpam" db:"is_spam" gorm:"not null;default:false;index:idx_comments_moderation,priority:2"`
	Likes           int        `json:"likes" db:"likes" gorm:"type:integer;not null;default:0"`
	ModerationNotes string     `json:"moderationNotes,omitempty" db:"moderation_notes" gorm:"type:text"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:CASCADE"`
	Story   *Story    `json:"story,omitempty" gorm:"foreignKey:StoryID;references:ID"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Status derives the moderation state from the two flags.
func (c *Comment) Status() ModerationStatus {
	switch {
	case c.IsSpam:
		return ModerationSpam
	case c.IsApproved:
		return ModerationApproved
	default:
		return ModerationPending
	}
}

// CommentStats counts comments by moderation state.
type CommentStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Spam     int64 `json:"spam"`
}
