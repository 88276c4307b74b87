package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GalleryCategory string

const (
	GalleryPhotoshoot   GalleryCategory = "photoshoot"
	GalleryBehindScenes GalleryCategory = "behind-scenes"
	GalleryPersonal     GalleryCategory = "personal"
	GalleryProfessional GalleryCategory = "professional"
	GalleryEvents       GalleryCategory = "events"
	GalleryOther        GalleryCategory = "other"
)

var GalleryCategories = []GalleryCategory{
	GalleryPhotoshoot, GalleryBehindScenes, GalleryPersonal, GalleryProfessional, GalleryEvents, GalleryOther,
}

// DefaultImageAlt is the placeholder alt text replaced by the title on save.
const DefaultImageAlt = "Gallery Image"

// ImageAsset describes the hosted file behind a gallery image.
type ImageAsset struct {
	URL      string `json:"url" gorm:"type:text;not null"`
	PublicID string `json:"publicId" gorm:"type:text;not null"`
	Alt      string `json:"alt" gorm:"type:varchar(255)"`
	Width    int    `json:"width,omitempty" gorm:"type:integer"`
	Height   int    `json:"height,omitempty" gorm:"type:integer"`
	Format   string `json:"format,omitempty" gorm:"type:varchar(16)"`
	Size     int64  `json:"size,omitempty" gorm:"type:bigint"`
}

// InstagramData is copied from the linked Instagram post and never computed here.
type InstagramData struct {
	PostID   string   `json:"postId,omitempty"`
	Likes    int      `json:"likes"`
	Comments int      `json:"comments"`
	Caption  string   `json:"caption,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

type GalleryImage struct {
	ID              uuid.UUID                          `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title           string                             `json:"title" db:"title" gorm:"type:varchar(100);not null"`
	Description     string                             `json:"description,omitempty" db:"description" gorm:"type:varchar(500)"`
	Image           ImageAsset                         `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	Category        GalleryCategory                    `json:"category" db:"category" gorm:"type:varchar(20);not null;default:other;index:idx_gallery_category_active,priority:1"`
	Tags            datatypes.JSONSlice[string]        `json:"tags" db:"tags" gorm:"type:jsonb"`
	IsInstagramPost bool                               `json:"isInstagramPost" db:"is_instagram_post" gorm:"not null;default:false;index:idx_gallery_instagram_active,priority:1"`
	InstagramData   *datatypes.JSONType[InstagramData] `json:"instagramData,omitempty" db:"instagram_data" gorm:"type:jsonb"`
	UploadedBy      uuid.UUID                          `json:"uploadedBy" db:"uploaded_by" gorm:"type:uuid;not null"`
	IsActive        bool                               `json:"isActive" db:"is_active" gorm:"not null;index:idx_gallery_active_sort,priority:1;index:idx_gallery_category_active,priority:2;index:idx_gallery_instagram_active,priority:2"`
	SortOrder       int                                `json:"sortOrder" db:"sort_order" gorm:"type:integer;not null;default:0;index:idx_gallery_active_sort,priority:2"`
	Views           int64                              `json:"views" db:"views" gorm:"type:bigint;not null;default:0"`
	CreatedAt       time.Time                          `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                          `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	LikeCount int64 `json:"likeCount" gorm:"->;-:migration"`
}

// DefaultGalleryTitle is used when an image is uploaded without a title.
func DefaultGalleryTitle(now time.Time) string {
	return DefaultImageAlt + " " + now.Format("1/2/2006")
}

// ApplyDefaults fills the title and alt text the way an upload expects.
func (g *GalleryImage) ApplyDefaults(now time.Time) {
	if g.Title == "" {
		g.Title = DefaultGalleryTitle(now)
	}
	if g.Image.Alt == "" || g.Image.Alt == DefaultImageAlt {
		g.Image.Alt = g.Title
	}
	if g.Category == "" {
		g.Category = GalleryOther
	}
}

func ValidGalleryCategory(c GalleryCategory) bool {
	for _, known := range GalleryCategories {
		if c == known {
			return true
		}
	}
	return false
}
