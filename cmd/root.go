// Package cmd holds the portfolio server's command line.
package cmd

import (
	"fmt"
	"log/slog"

	"portfolio-app/config"
	"portfolio-app/database"
	"portfolio-app/internal/catalog"
	"portfolio-app/internal/infra/storage"
	"portfolio-app/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio backend: project catalog and image ingestion",
	Long: `portfolio serves the public project catalog and the admin API used to
upload and manage project images.

Example usage:
  portfolio serve                     # Start the HTTP server (default)
  portfolio migrate                   # Create or update the database tables
  portfolio reconcile --dry-run       # List stored images no project references`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
		logger.Init(config.APP_ENV)
	},
	RunE: runServe,
}

// Execute runs the command line; without a subcommand it serves HTTP.
func Execute() error {
	return rootCmd.Execute()
}

func storageConfig() storage.Config {
	cfg := storage.Config{
		Driver:    config.STORAGE_DRIVER,
		BasePath:  config.LOCAL_STORAGE_PATH,
		BaseURL:   config.LOCAL_STORAGE_URL,
		Bucket:    config.S3_BUCKET,
		Region:    config.S3_REGION,
		Endpoint:  config.S3_ENDPOINT,
		AccessKey: config.S3_ACCESS_KEY,
		SecretKey: config.S3_SECRET_KEY,
	}
	if cfg.Driver == "s3" {
		cfg.BaseURL = config.S3_PUBLIC_BASE_URL
	}
	return cfg
}

// openCatalog connects to the database and returns the repository.
func openCatalog() (*catalog.Repository, error) {
	if err := database.InitDB(config.DB_URL); err != nil {
		return nil, err
	}
	return catalog.New(database.DB), nil
}

func openStorage() (storage.ObjectStorage, error) {
	store, err := storage.New(storageConfig())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	slog.Info("storage ready", slog.String("driver", config.STORAGE_DRIVER))
	return store, nil
}
