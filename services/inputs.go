package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// StoryInput carries the writable fields of a story. Nil fields are left untouched on update.
type StoryInput struct {
	Title    *string               `json:"title"`
	Content  *string               `json:"content"`
	Preview  *string               `json:"preview"`
	Category *models.StoryCategory `json:"category"`
	Tags     []string              `json:"tags"`
	Status   *models.StoryStatus   `json:"status"`
	ReadTime *string               `json:"readTime"`
	SEO      *SEOInput             `json:"seo"`
}

type SEOInput struct {
	MetaTitle       *string  `json:"metaTitle"`
	MetaDescription *string  `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

func (in *SEOInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.MetaTitle, validation.RuneLength(0, metaTitleLimit).Error("Meta title cannot exceed 60 characters")),
		validation.Field(&in.MetaDescription, validation.RuneLength(0, metaDescriptionLimit).Error("Meta description cannot exceed 160 characters")),
	)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func (in *StoryInput) normalize() {
	trimPtr(in.Title)
	trimPtr(in.Preview)
	trimPtr(in.ReadTime)
	if in.SEO != nil {
		trimPtr(in.SEO.MetaTitle)
		trimPtr(in.SEO.MetaDescription)
	}
}

func (in *StoryInput) validate(creating bool) error {
	presence := validation.NilOrNotEmpty
	if creating {
		presence = validation.Required
	}
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title,
			presence.Error("Title is required"),
			validation.RuneLength(5, 200).Error("Title must be between 5 and 200 characters")),
		validation.Field(&in.Content,
			presence.Error("Content is required"),
			validation.RuneLength(50, 0).Error("Content must be at least 50 characters long")),
		validation.Field(&in.Preview, validation.RuneLength(0, 300).Error("Preview cannot exceed 300 characters")),
		validation.Field(&in.Category,
			validation.NilOrNotEmpty.Error("Category must be personal, work, or lifestyle"),
			validation.In(anyOf(models.StoryCategories)...).Error("Category must be personal, work, or lifestyle")),
		validation.Field(&in.Status,
			validation.NilOrNotEmpty.Error("Status must be draft, published, or archived"),
			validation.In(anyOf(models.StoryStatuses)...).Error("Status must be draft, published, or archived")),
		validation.Field(&in.SEO),
	))
}

// applyTo copies the supplied fields onto story.
func (in *StoryInput) applyTo(story *models.Story) {
	if in.Title != nil {
		story.Title = *in.Title
	}
	if in.Content != nil {
		story.Content = *in.Content
	}
	if in.Preview != nil {
		story.Preview = *in.Preview
	}
	if in.Category != nil {
		story.Category = *in.Category
	}
	if in.Tags != nil {
		story.Tags = normalizeTerms(in.Tags, 0)
	}
	if in.Status != nil {
		story.Status = *in.Status
	}
	if in.ReadTime != nil {
		story.ReadTime = *in.ReadTime
	}
	if in.SEO != nil {
		if in.SEO.MetaTitle != nil {
			story.SEO.MetaTitle = *in.SEO.MetaTitle
		}
		if in.SEO.MetaDescription != nil {
			story.SEO.MetaDescription = *in.SEO.MetaDescription
		}
		if in.SEO.Keywords != nil {
			story.SEO.Keywords = in.SEO.Keywords
		}
	}
}

// CommentInput is a visitor comment or reply.
type CommentInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"text"`
}

func (in *CommentInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Text = strings.TrimSpace(in.Text)
}

func (in *CommentInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.Required.Error("Name is required"),
			validation.RuneLength(2, 50).Error("Name must be between 2 and 50 characters")),
		validation.Field(&in.Email, is.EmailFormat.Error("Please provide a valid email")),
		validation.Field(&in.Text,
			validation.Required.Error("Comment text is required"),
			validation.RuneLength(5, 1000).Error("Comment must be between 5 and 1000 characters")),
	))
}

// Caller identifies whoever triggered a public write.
type Caller struct {
	Identifier    string
	Authenticated bool
}

// GalleryInput carries the writable metadata of a gallery image. Nil fields are left untouched on update.
type GalleryInput struct {
	Title           *string                 `json:"title"`
	Description     *string                 `json:"description"`
	Alt             *string                 `json:"alt"`
	Category        *models.GalleryCategory `json:"category"`
	Tags            []string                `json:"tags"`
	IsInstagramPost *bool                   `json:"isInstagramPost"`
	InstagramData   *models.InstagramData   `json:"instagramData"`
	IsActive        *bool                   `json:"isActive"`
	SortOrder       *int                    `json:"sortOrder"`
}

func (in *GalleryInput) normalize() {
	trimPtr(in.Title)
	trimPtr(in.Description)
	trimPtr(in.Alt)
}

func (in *GalleryInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.RuneLength(0, 100).Error("Title cannot exceed 100 characters")),
		validation.Field(&in.Description, validation.RuneLength(0, 500).Error("Description cannot exceed 500 characters")),
		validation.Field(&in.Alt, validation.RuneLength(0, 255).Error("Alt text cannot exceed 255 characters")),
		validation.Field(&in.Category,
			validation.NilOrNotEmpty.Error("Invalid gallery category"),
			validation.In(anyOf(models.GalleryCategories)...).Error("Invalid gallery category")),
		validation.Field(&in.SortOrder, validation.Min(0).Error("Sort order cannot be negative")),
	))
}

func (in *GalleryInput) applyTo(image *models.GalleryImage) {
	if in.Title != nil {
		image.Title = *in.Title
	}
	if in.Description != nil {
		image.Description = *in.Description
	}
	if in.Alt != nil {
		image.Image.Alt = *in.Alt
	}
	if in.Category != nil {
		image.Category = *in.Category
	}
	if in.Tags != nil {
		image.Tags = normalizeTerms(in.Tags, 0)
	}
	if in.IsInstagramPost != nil {
		image.IsInstagramPost = *in.IsInstagramPost
	}
	if in.IsActive != nil {
		image.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		image.SortOrder = *in.SortOrder
	}
	if in.InstagramData != nil && image.IsInstagramPost {
		data := *in.InstagramData
		data.Hashtags = normalizeTerms(data.Hashtags, 0)
		image.InstagramData = newInstagramData(data)
	}
	if !image.IsInstagramPost {
		image.InstagramData = nil
	}
}

// ModerationInput is an admin decision on a comment.
type ModerationInput struct {
	Action          ModerationAction `json:"action"`
	ModerationNotes *string          `json:"moderationNotes"`
}

// ListParams is a one-based page request.
type ListParams struct {
	Page  int
	Limit int
}

// offset normalizes the page and limit and returns the row offset.
func (p *ListParams) offset(defaultLimit, maxLimit int) int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return (p.Page - 1) * p.Limit
}

func pageCount(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
