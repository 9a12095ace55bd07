package routes

import (
	"log/slog"
	"net/http"

	adminapi "portfolio-app/internal/api/admin"
	authapi "portfolio-app/internal/api/auth"
	imagesapi "portfolio-app/internal/api/images"
	projectsapi "portfolio-app/internal/api/projects"
	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/catalog"
	"portfolio-app/internal/infra/metrics"
	"portfolio-app/internal/infra/storage"
	"portfolio-app/internal/ingest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Repo           *catalog.Repository
	Store          storage.ObjectStorage
	Uploader       *ingest.Uploader
	UploadDefaults ingest.Options
	Logger         *slog.Logger

	// FilesDir is served under /files when images live on local disk.
	FilesDir string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	projects := projectsapi.NewHandler(d.Repo, d.Store, d.Logger)
	images := imagesapi.NewHandler(d.Repo, d.Uploader, d.Store, d.UploadDefaults, d.Logger)
	stats := adminapi.NewHandler(d.Repo)

	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.FilesDir != "" {
		r.Static("/files", d.FilesDir)
	}

	// Credentials are compared byte for byte, so login skips the sanitizer.
	r.POST("/auth/login", authapi.Login)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.GET("/projects", projects.ListPublished)
	public.GET("/projects/:slug", projects.GetPublished)
	public.POST("/projects/:slug/views", projects.TrackView)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.Use(middleware.SanitizeAndCleanInputMiddleware())

	admin.GET("/me", adminapi.Me)
	admin.GET("/stats", stats.Stats)

	admin.GET("/projects", projects.ListAll)
	admin.POST("/projects", projects.Create)
	admin.GET("/projects/:id", projects.Get)
	admin.PUT("/projects/:id", projects.Update)
	admin.DELETE("/projects/:id", projects.Delete)

	admin.POST("/projects/:id/images", images.Upload)
	admin.POST("/projects/:id/images/external", images.AddExternal)
	admin.PUT("/projects/:id/images/reorder", images.Reorder)
	admin.PUT("/projects/:id/images/:imageId/cover", images.SetCover)

	admin.PUT("/images/:imageId", images.Update)
	admin.DELETE("/images/:imageId", images.Delete)
}
