package projects

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"portfolio-app/internal/api/apierror"
	"portfolio-app/internal/catalog"
	"portfolio-app/internal/domain/portfolio"

	"github.com/gin-gonic/gin"
)

// ObjectRemover deletes stored image objects.
type ObjectRemover interface {
	Remove(ctx context.Context, keys []string) error
}

type Handler struct {
	repo   *catalog.Repository
	store  ObjectRemover
	logger *slog.Logger
}

func NewHandler(repo *catalog.Repository, store ObjectRemover, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{repo: repo, store: store, logger: logger.With(slog.String("component", "projects"))}
}

func parseBool(c *gin.Context, key string) (*bool, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + " parameter"})
		return nil, false
	}
	return &v, true
}

func parseCategory(c *gin.Context) (portfolio.Category, bool) {
	raw := c.Query("category")
	if raw == "" {
		return "", true
	}
	cat, err := portfolio.ParseCategory(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category parameter"})
		return "", false
	}
	return cat, true
}

// ------------------------------
// GET /projects?category=&featured=
// ------------------------------
func (h *Handler) ListPublished(c *gin.Context) {
	featured, ok := parseBool(c, "featured")
	if !ok {
		return
	}
	category, ok := parseCategory(c)
	if !ok {
		return
	}
	published := true

	list, err := h.repo.ListProjects(c.Request.Context(), catalog.Filter{
		Category:  category,
		Published: &published,
		Featured:  featured,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	out := make([]ProjectDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectDTO(p, true))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

// ------------------------------
// GET /projects/:slug
// ------------------------------
func (h *Handler) GetPublished(c *gin.Context) {
	p, err := h.repo.GetProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	if !p.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, toProjectDTO(*p, true))
}

// ------------------------------
// POST /projects/:slug/views
// ------------------------------
func (h *Handler) TrackView(c *gin.Context) {
	p, err := h.repo.GetProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	if !p.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.repo.TrackView(c.Request.Context(), p.ID, c.Request.UserAgent(), c.Request.Referer()); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ------------------------------
// GET /admin/projects
// ------------------------------
func (h *Handler) ListAll(c *gin.Context) {
	published, ok := parseBool(c, "published")
	if !ok {
		return
	}
	featured, ok := parseBool(c, "featured")
	if !ok {
		return
	}
	category, ok := parseCategory(c)
	if !ok {
		return
	}

	list, err := h.repo.ListProjects(c.Request.Context(), catalog.Filter{
		Category:  category,
		Published: published,
		Featured:  featured,
	})
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	out := make([]ProjectDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectDTO(p, false))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

// ------------------------------
// GET /admin/projects/:id
// Includes the tracked view count.
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.repo.GetProjectByID(ctx, c.Param("id"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	views, err := h.repo.ViewCount(ctx, p.ID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	out := toProjectDTO(*p, false)
	out.Views = &views
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// POST /admin/projects
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := req.toProject()
	if err := h.repo.InsertProject(c.Request.Context(), &p); err != nil {
		apierror.Respond(c, err)
		return
	}

	h.logger.Info("project created", slog.String("id", p.ID), slog.String("slug", p.Slug))
	c.JSON(http.StatusCreated, toProjectDTO(p, false))
}

// ------------------------------
// PUT /admin/projects/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.repo.UpdateProject(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectDTO(*p, false))
}

// ------------------------------
// DELETE /admin/projects/:id
// Rows go first; stored objects are removed afterwards and leftovers are
// picked up by `reconcile`.
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	paths, err := h.repo.DeleteProject(c.Request.Context(), id)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	removedObjects := true
	if len(paths) > 0 {
		if err := h.store.Remove(c.Request.Context(), paths); err != nil {
			removedObjects = false
			h.logger.Warn("stored images left behind",
				slog.String("project_id", id),
				slog.Int("count", len(paths)),
				slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Project deleted",
		"images_deleted":  len(paths),
		"storage_cleaned": removedObjects,
	})
}
