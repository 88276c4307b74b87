package models

import (
	"time"

	"github.com/google/uuid"
)

// Like target types double as the owning table names.
const (
	LikeTargetStory        = "stories"
	LikeTargetGalleryImage = "gallery_images"
)

// Like records one anonymous caller liking one story or gallery image.
type Like struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TargetType string    `json:"targetType" db:"target_type" gorm:"type:varchar(32);not null;uniqueIndex:idx_likes_target_identifier,priority:1"`
	TargetID   uuid.UUID `json:"targetId" db:"target_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_target_identifier,priority:2"`
	Identifier string    `json:"-" db:"identifier" gorm:"type:varchar(64);not null;uniqueIndex:idx_likes_target_identifier,priority:3"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

type LikeAction string

const (
	ActionLiked   LikeAction = "liked"
	ActionUnliked LikeAction = "unliked"
)

// LikeResult is returned by a like toggle.
type LikeResult struct {
	Action    LikeAction `json:"action"`
	LikeCount int64      `json:"likeCount"`
}
