package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadBytes  = 32 << 20
	multipartMemory = 8 << 20
	imageFormField  = "image"
)

type galleryHandler struct {
	responder  Responder
	logger     zerolog.Logger
	gallery    GalleryService
	engagement EngagementService
}

func newGalleryHandler(gallery GalleryService, engagement EngagementService, production bool) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()
	return galleryHandler{
		responder:  NewResponder(logger, production),
		logger:     logger,
		gallery:    gallery,
		engagement: engagement,
	}
}

func galleryListParams(r *http.Request) services.GalleryListParams {
	return services.GalleryListParams{
		ListParams:      listParams(r),
		Category:        r.URL.Query().Get("category"),
		IsInstagramPost: queryBool(r, "isInstagramPost"),
		IsActive:        queryBool(r, "isActive"),
	}
}

// listActive pages through active gallery images
// @Summary List gallery images
// @Tags Gallery
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size"
// @Param category query string false "Gallery category"
// @Param isInstagramPost query bool false "Only Instagram posts"
// @Success 200 {object} Envelope "Images and pagination"
// @Router /api/gallery [get]
func (h galleryHandler) listActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := galleryListParams(r)
		params.IsActive = nil
		page, err := h.gallery.ListActive(r.Context(), params)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", page)
	}
}

func (h galleryHandler) instagram() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := h.gallery.InstagramPosts(r.Context(), queryInt(r, "limit", services.DefaultInstagramLimit))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", images)
	}
}

func (h galleryHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		image, err := h.gallery.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", image)
	}
}

func (h galleryHandler) like() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		res, err := h.engagement.ToggleImageLike(r.Context(), id, callerFrom(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		message := "Image liked"
		if res.Action != models.ActionLiked {
			message = "Image unliked"
		}
		h.responder.WriteJSON(w, message, res)
	}
}

func (h galleryHandler) listAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.gallery.ListAdmin(r.Context(), galleryListParams(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "", page)
	}
}

// readUpload pulls the image part and the metadata fields out of a multipart form.
func readUpload(w http.ResponseWriter, r *http.Request) (services.UploadFile, services.GalleryInput, error) {
	var (
		file services.UploadFile
		in   services.GalleryInput
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return file, in, errs.NewMaxBodySizeError(maxUploadBytes)
		}
		return file, in, errs.BadRequest("Expected a multipart form upload")
	}

	part, header, err := r.FormFile(imageFormField)
	if err != nil {
		return file, in, errs.BadRequest("No image file provided")
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return file, in, errs.BadRequest("Failed to read image file")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	file = services.UploadFile{Filename: header.Filename, ContentType: contentType, Data: data}

	if v, ok := formValue(r, "title"); ok {
		in.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		in.Description = &v
	}
	if v, ok := formValue(r, "alt"); ok {
		in.Alt = &v
	}
	if v, ok := formValue(r, "category"); ok && v != "" {
		category := models.GalleryCategory(v)
		in.Category = &category
	}
	if v, ok := formValue(r, "tags"); ok {
		in.Tags = splitTags(v)
	}
	if v, ok := formValue(r, "isInstagramPost"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return file, in, errs.NewValidationError("isInstagramPost", "isInstagramPost must be a boolean")
		}
		in.IsInstagramPost = &b
	}
	if v, ok := formValue(r, "isActive"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return file, in, errs.NewValidationError("isActive", "isActive must be a boolean")
		}
		in.IsActive = &b
	}
	if v, ok := formValue(r, "instagramData"); ok && v != "" {
		var data models.InstagramData
		if err := json.Unmarshal([]byte(v), &data); err != nil {
			return file, in, errs.NewValidationError("instagramData", "instagramData must be a JSON object")
		}
		in.InstagramData = &data
	}
	if v, ok := formValue(r, "sortOrder"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return file, in, errs.NewValidationError("sortOrder", "sortOrder must be an integer")
		}
		in.SortOrder = &n
	}
	return file, in, nil
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

// splitTags accepts either a JSON array or a comma separated list.
func splitTags(raw string) []string {
	var tags []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &tags) == nil {
		return tags
	}
	tags = []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// upload stores a new gallery image
// @Summary Upload gallery image
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} Envelope "Created image"
// @Failure 400 {object} Envelope "No image file provided"
// @Failure 413 {object} Envelope "Image too large"
// @Failure 415 {object} Envelope "Not an image"
// @Failure 503 {object} Envelope "Image hosting disabled"
// @Router /api/gallery/upload [post]
func (h galleryHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploaderID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, in, err := readUpload(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		image, err := h.gallery.Upload(r.Context(), uploaderID, file, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("imageID", image.ID.String()).Int("bytes", len(file.Data)).Msg("gallery image uploaded")
		h.responder.WriteCreated(w, "Image uploaded successfully", image)
	}
}

type ReorderRequest struct {
	ImageIDs []uuid.UUID `json:"imageIds"`
}

func (h galleryHandler) reorder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if err := decodeJSON(w, r, "reorder request", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.gallery.Reorder(r.Context(), req.ImageIDs); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Gallery reordered successfully", nil)
	}
}

func (h galleryHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.GalleryInput
		if err := decodeJSON(w, r, "gallery image", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		image, err := h.gallery.Update(r.Context(), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Image updated successfully", image)
	}
}

func (h galleryHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.gallery.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, "Image deleted successfully", nil)
	}
}
