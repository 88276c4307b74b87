package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SettingsID is the primary key of the only settings row.
const SettingsID = 1

var DefaultSEOKeywords = []string{"model", "content creator", "photography", "lifestyle", "stories"}

type HostedAsset struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"publicId,omitempty"`
}

type SiteSettings struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Logo        HostedAsset `json:"logo"`
	Favicon     HostedAsset `json:"favicon"`
}

type SocialLink struct {
	URL         string `json:"url,omitempty"`
	Username    string `json:"username,omitempty"`
	PageID      string `json:"pageId,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
}

type SocialMediaSettings struct {
	Facebook  SocialLink `json:"facebook"`
	Instagram SocialLink `json:"instagram"`
	Telegram  SocialLink `json:"telegram"`
	Twitter   SocialLink `json:"twitter"`
}

type ContentSettings struct {
	StoriesPerPage       int  `json:"storiesPerPage"`
	GalleryImagesPerPage int  `json:"galleryImagesPerPage"`
	EnableComments       bool `json:"enableComments"`
	EnableLikes          bool `json:"enableLikes"`
	EnableSharing        bool `json:"enableSharing"`
	ModerateComments     bool `json:"moderateComments"`
	AllowGuestComments   bool `json:"allowGuestComments"`
}

type EmailNotificationSettings struct {
	Enabled      bool `json:"enabled"`
	NewComment   bool `json:"newComment"`
	NewLike      bool `json:"newLike"`
	NewStoryView bool `json:"newStoryView"`
}

type NotificationSettings struct {
	Email      EmailNotificationSettings `json:"email"`
	AdminEmail string                    `json:"adminEmail"`
}

type SecuritySettings struct {
	RequireLoginForStories bool `json:"requireLoginForStories"`
	EnableCaptcha          bool `json:"enableCaptcha"`
	SessionTimeout         int  `json:"sessionTimeout"`
	MaxLoginAttempts       int  `json:"maxLoginAttempts"`
	LockoutDuration        int  `json:"lockoutDuration"`
}

// Lockout returns LockoutDuration, stored in minutes, as a duration.
func (s SecuritySettings) Lockout() time.Duration {
	return time.Duration(s.LockoutDuration) * time.Minute
}

type ThemeSettings struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	FontFamily     string `json:"fontFamily"`
	BorderRadius   string `json:"borderRadius"`
}

type SEOSettings struct {
	MetaTitle       string      `json:"metaTitle"`
	MetaDescription string      `json:"metaDescription"`
	Keywords        []string    `json:"keywords"`
	OGImage         HostedAsset `json:"ogImage"`
	TwitterCard     string      `json:"twitterCard"`
}

type AnalyticsSettings struct {
	GoogleAnalyticsID string `json:"googleAnalyticsId,omitempty"`
	FacebookPixelID   string `json:"facebookPixelId,omitempty"`
	EnableTracking    bool   `json:"enableTracking"`
}

type PerformanceSettings struct {
	EnableCaching     bool  `json:"enableCaching"`
	CacheTimeout      int   `json:"cacheTimeout"`
	EnableCompression bool  `json:"enableCompression"`
	MaxImageSize      int64 `json:"maxImageSize"`
}

type MaintenanceSettings struct {
	Enabled    bool     `json:"enabled"`
	Message    string   `json:"message"`
	AllowedIPs []string `json:"allowedIPs"`
}

// Settings is the site wide configuration. Exactly one row exists, with ID SettingsID.
type Settings struct {
	ID            uint                 `json:"-" db:"id" gorm:"primaryKey;autoIncrement:false"`
	Site          SiteSettings         `json:"site" db:"site" gorm:"type:jsonb;serializer:json;not null"`
	SocialMedia   SocialMediaSettings  `json:"socialMedia" db:"social_media" gorm:"type:jsonb;serializer:json;not null"`
	Content       ContentSettings      `json:"content" db:"content" gorm:"type:jsonb;serializer:json;not null"`
	Notifications NotificationSettings `json:"notifications" db:"notifications" gorm:"type:jsonb;serializer:json;not null"`
	Security      SecuritySettings     `json:"security" db:"security" gorm:"type:jsonb;serializer:json;not null"`
	Theme         ThemeSettings        `json:"theme" db:"theme" gorm:"type:jsonb;serializer:json;not null"`
	SEO           SEOSettings          `json:"seo" db:"seo" gorm:"type:jsonb;serializer:json;not null"`
	Analytics     AnalyticsSettings    `json:"analytics" db:"analytics" gorm:"type:jsonb;serializer:json;not null"`
	Performance   PerformanceSettings  `json:"performance" db:"performance" gorm:"type:jsonb;serializer:json;not null"`
	Maintenance   MaintenanceSettings  `json:"maintenance" db:"maintenance" gorm:"type:jsonb;serializer:json;not null"`
	LastUpdatedBy *uuid.UUID           `json:"lastUpdatedBy,omitempty" db:"last_updated_by" gorm:"type:uuid"`
	CreatedAt     time.Time            `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time            `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// PublicSettings is the subset of Settings safe to hand to anonymous visitors.
type PublicSettings struct {
	Site        SiteSettings        `json:"site"`
	SocialMedia SocialMediaSettings `json:"socialMedia"`
	Content     PublicContent       `json:"content"`
	Theme       ThemeSettings       `json:"theme"`
	SEO         SEOSettings         `json:"seo"`
	Analytics   PublicAnalytics     `json:"analytics"`
	Maintenance MaintenanceSettings `json:"maintenance"`
}

type PublicContent struct {
	StoriesPerPage       int  `json:"storiesPerPage"`
	GalleryImagesPerPage int  `json:"galleryImagesPerPage"`
	EnableComments       bool `json:"enableComments"`
	EnableLikes          bool `json:"enableLikes"`
	EnableSharing        bool `json:"enableSharing"`
}

type PublicAnalytics struct {
	GoogleAnalyticsID string `json:"googleAnalyticsId,omitempty"`
	EnableTracking    bool   `json:"enableTracking"`
}

// DefaultSettings returns the record created on first access.
func DefaultSettings() Settings {
	return Settings{
		ID: SettingsID,
		Site: SiteSettings{
			Name:        "Portfolio",
			Description: "Stories, photography and behind the scenes",
			URL:         "http://localhost:3000",
		},
		Content: ContentSettings{
			StoriesPerPage:       6,
			GalleryImagesPerPage: 12,
			EnableComments:       true,
			EnableLikes:          true,
			EnableSharing:        true,
			ModerateComments:     false,
			AllowGuestComments:   true,
		},
		Notifications: NotificationSettings{
			Email: EmailNotificationSettings{
				Enabled:    true,
				NewComment: true,
			},
		},
		Security: SecuritySettings{
			SessionTimeout:   30,
			MaxLoginAttempts: 5,
			LockoutDuration:  30,
		},
		Theme: ThemeSettings{
			PrimaryColor:   "#8B5CF6",
			SecondaryColor: "#EC4899",
			AccentColor:    "#10B981",
			FontFamily:     "Inter, sans-serif",
			BorderRadius:   "0px",
		},
		SEO: SEOSettings{
			MetaTitle:       "Portfolio",
			MetaDescription: "Stories, experiences and behind the scenes content",
			Keywords:        append([]string(nil), DefaultSEOKeywords...),
			TwitterCard:     "summary_large_image",
		},
		Analytics: AnalyticsSettings{
			EnableTracking: true,
		},
		Performance: PerformanceSettings{
			EnableCaching:     true,
			CacheTimeout:      3600,
			EnableCompression: true,
			MaxImageSize:      5 * 1024 * 1024,
		},
		Maintenance: MaintenanceSettings{
			Message:    "Site is under maintenance. Please check back later.",
			AllowedIPs: []string{},
		},
	}
}

// NormalizeKeywords lowercases and trims the SEO keywords, dropping blanks, and
// restores the default list when nothing remains.
func (s *Settings) NormalizeKeywords() {
	keywords := make([]string, 0, len(s.SEO.Keywords))
	for _, k := range s.SEO.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		keywords = append(keywords, DefaultSEOKeywords...)
	}
	s.SEO.Keywords = keywords
}

func (s *Settings) Public() PublicSettings {
	return PublicSettings{
		Site:        s.Site,
		SocialMedia: s.SocialMedia,
		Content: PublicContent{
			StoriesPerPage:       s.Content.StoriesPerPage,
			GalleryImagesPerPage: s.Content.GalleryImagesPerPage,
			EnableComments:       s.Content.EnableComments,
			EnableLikes:          s.Content.EnableLikes,
			EnableSharing:        s.Content.EnableSharing,
		},
		Theme: s.Theme,
		SEO:   s.SEO,
		Analytics: PublicAnalytics{
			GoogleAnalyticsID: s.Analytics.GoogleAnalyticsID,
			EnableTracking:    s.Analytics.EnableTracking,
		},
		Maintenance: s.Maintenance,
	}
}
