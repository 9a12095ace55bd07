package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio-app/config"
	"portfolio-app/database"
	routes "portfolio-app/internal/app/http"
	"portfolio-app/internal/infra/storage"
	"portfolio-app/internal/ingest"
	"portfolio-app/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var autoMigrate bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "run database migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := openCatalog()
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
	}

	store, err := openStorage()
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Repo:     repo,
		Store:    store,
		Uploader: ingest.NewUploader(store, logger.Get()),
		UploadDefaults: ingest.Options{
			Compress: config.UPLOAD_COMPRESS,
			MaxWidth: config.UPLOAD_MAX_WIDTH,
			Quality:  config.UPLOAD_QUALITY,
		},
		Logger: logger.Get(),
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		deps.FilesDir = local.BasePath()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 64 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
