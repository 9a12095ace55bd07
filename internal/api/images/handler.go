package images

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"portfolio-app/internal/api/apierror"
	"portfolio-app/internal/catalog"
	"portfolio-app/internal/domain/portfolio"
	"portfolio-app/internal/ingest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ObjectRemover interface {
	Remove(ctx context.Context, keys []string) error
}

type Handler struct {
	repo     *catalog.Repository
	uploader *ingest.Uploader
	store    ObjectRemover
	defaults ingest.Options
	logger   *slog.Logger
}

func NewHandler(repo *catalog.Repository, uploader *ingest.Uploader, store ObjectRemover, defaults ingest.Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:     repo,
		uploader: uploader,
		store:    store,
		defaults: defaults,
		logger:   logger.With(slog.String("component", "images")),
	}
}

type ReorderRequest struct {
	ImageIDs []string `json:"image_ids" binding:"required"`
}

// ExternalImageRequest registers an image hosted outside object storage.
type ExternalImageRequest struct {
	PublicURL  string `json:"public_url" binding:"required"`
	AltText    string `json:"alt_text"`
	Caption    string `json:"caption"`
	Width      int    `json:"width" binding:"gte=0"`
	Height     int    `json:"height" binding:"gte=0"`
	IsCover    bool   `json:"is_cover"`
	OrderIndex *int   `json:"order_index"`
}

type UpdateImageRequest struct {
	AltText *string `json:"alt_text"`
	Caption *string `json:"caption"`
}

// uploadOptions overlays the optional form fields on the configured defaults.
func (h *Handler) uploadOptions(c *gin.Context) (ingest.Options, error) {
	opts := h.defaults

	if v := c.PostForm("compress"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("compress must be a boolean")
		}
		opts.Compress = b
	}
	if v := c.PostForm("max_width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New("max_width must be a positive integer")
		}
		opts.MaxWidth = n
	}
	if v := c.PostForm("quality"); v != "" {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil || q <= 0 || q > 1 {
			return opts, errors.New("quality must be in (0, 1]")
		}
		opts.Quality = q
	}
	return opts, nil
}

// removeStored deletes objects written by a request that did not make it
// into the catalog.
func (h *Handler) removeStored(ctx context.Context, results []ingest.Result) {
	if len(results) == 0 {
		return
	}
	keys := make([]string, len(results))
	for i, r := range results {
		keys[i] = r.StoragePath
	}
	if err := h.store.Remove(context.WithoutCancel(ctx), keys); err != nil {
		h.logger.Warn("could not remove uploaded objects", slog.Int("count", len(keys)), slog.Any("error", err))
	}
}

// ------------------------------
// POST /admin/projects/:id/images  (multipart "files")
// ------------------------------
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	project, err := h.repo.GetProjectByID(ctx, c.Param("id"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart form data", "details": err.Error()})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	opts, err := h.uploadOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := ingest.FromMultipart(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload", "file": fh.Filename})
			return
		}
		files = append(files, f)
	}

	results, err := h.uploader.UploadMany(ctx, files, project.Slug, opts, func(p ingest.Progress) {
		h.logger.Debug("upload progress",
			slog.String("project", project.Slug),
			slog.Int("current", p.Current),
			slog.Int("total", p.Total))
	})
	if err != nil {
		h.removeStored(ctx, results)

		status, msg := apierror.Status(err)
		body := gin.H{"error": msg}
		var be *ingest.BatchError
		if errors.As(err, &be) {
			body["file"] = be.File
			body["index"] = be.Index
		}
		if status >= http.StatusInternalServerError {
			h.logger.Error("upload failed", slog.String("project", project.Slug), slog.Any("error", err))
		}
		c.JSON(status, body)
		return
	}

	created, err := h.repo.AttachUploads(ctx, project.ID, results, c.PostForm("alt_prefix"))
	if err != nil {
		h.removeStored(ctx, results)
		apierror.Respond(c, err)
		return
	}

	h.logger.Info("images uploaded", slog.String("project", project.Slug), slog.Int("count", len(created)))
	c.JSON(http.StatusCreated, gin.H{"images": created})
}

// ------------------------------
// POST /admin/projects/:id/images/external
// Rows get an "external/" storage path that no stored object ever uses, so
// deletes and the reconcile sweep leave them alone.
// ------------------------------
func (h *Handler) AddExternal(c *gin.Context) {
	ctx := c.Request.Context()

	var req ExternalImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.repo.GetProjectByID(ctx, c.Param("id"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	next := 0
	if n := len(project.Images); n > 0 {
		next = project.Images[n-1].OrderIndex + 1
	}

	img := portfolio.ProjectImage{
		ProjectID:   project.ID,
		StoragePath: "external/" + project.Slug + "/" + uuid.NewString(),
		PublicURL:   req.PublicURL,
		AltText:     req.AltText,
		Caption:     req.Caption,
		Width:       req.Width,
		Height:      req.Height,
		IsCover:     req.IsCover || len(project.Images) == 0,
		OrderIndex:  next,
	}
	if !img.HasDisplayableURL() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "public_url must be an http(s) or site-relative URL"})
		return
	}
	if req.OrderIndex != nil {
		img.OrderIndex = *req.OrderIndex
	}
	if img.Width > 0 && img.Height > 0 {
		img.AspectRatio = float64(img.Width) / float64(img.Height)
	}

	if err := h.repo.InsertImage(ctx, &img); err != nil {
		apierror.Respond(c, err)
		return
	}

	h.logger.Info("external image added", slog.String("project", project.Slug), slog.String("id", img.ID))
	c.JSON(http.StatusCreated, img)
}

// ------------------------------
// PUT /admin/projects/:id/images/reorder
// ------------------------------
func (h *Handler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.ReorderImages(c.Request.Context(), c.Param("id"), req.ImageIDs); err != nil {
		apierror.Respond(c, err)
		return
	}

	list, err := h.repo.ListImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": list})
}

// ------------------------------
// PUT /admin/projects/:id/images/:imageId/cover
// ------------------------------
func (h *Handler) SetCover(c *gin.Context) {
	if err := h.repo.SetCover(c.Request.Context(), c.Param("id"), c.Param("imageId")); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cover updated", "image_id": c.Param("imageId")})
}

// ------------------------------
// PUT /admin/images/:imageId
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	var req UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := h.repo.UpdateImage(c.Request.Context(), c.Param("imageId"), catalog.ImagePatch{
		AltText: req.AltText,
		Caption: req.Caption,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// ------------------------------
// DELETE /admin/images/:imageId
// The stored object goes first; the row is kept if that fails so the
// image can be retried.
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	img, err := h.repo.GetImage(ctx, c.Param("imageId"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	if err := h.store.Remove(ctx, []string{img.StoragePath}); err != nil {
		h.logger.Error("remove stored image", slog.String("key", img.StoragePath), slog.Any("error", err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Storage is unavailable"})
		return
	}

	if _, err := h.repo.DeleteImage(ctx, img.ID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}
