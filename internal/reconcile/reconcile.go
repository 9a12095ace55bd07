package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"portfolio-app/internal/infra/metrics"
	"portfolio-app/internal/infra/storage"
)

// Prefix is where the uploader places project images.
const Prefix = "projects/"

type Lister interface {
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Remove(ctx context.Context, keys []string) error
}

type Catalog interface {
	StoragePaths(ctx context.Context) (map[string]struct{}, error)
}

type Options struct {
	// Grace skips objects younger than this; an upload may still be
	// waiting for its catalog row.
	Grace  time.Duration
	DryRun bool
}

type Report struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
	Removed int      `json:"removed"`
	Skipped int      `json:"skipped"`
	DryRun  bool     `json:"dry_run"`
}

type Sweeper struct {
	store   Lister
	catalog Catalog
	logger  *slog.Logger
	now     func() time.Time
}

func NewSweeper(store Lister, catalog Catalog, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{store: store, catalog: catalog, logger: logger, now: time.Now}
}

// Run removes stored objects under Prefix that no image row references.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*Report, error) {
	objects, err := s.store.List(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	known, err := s.catalog.StoragePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("load storage paths: %w", err)
	}

	report := &Report{Scanned: len(objects), DryRun: opts.DryRun}
	cutoff := s.now().Add(-opts.Grace)

	for _, obj := range objects {
		if _, ok := known[obj.Key]; ok {
			continue
		}
		if !obj.LastModified.IsZero() && obj.LastModified.After(cutoff) {
			report.Skipped++
			continue
		}
		report.Orphans = append(report.Orphans, obj.Key)
	}
	sort.Strings(report.Orphans)

	if len(report.Orphans) == 0 || opts.DryRun {
		s.logger.Info("reconcile finished",
			slog.Int("scanned", report.Scanned),
			slog.Int("orphans", len(report.Orphans)),
			slog.Bool("dry_run", opts.DryRun))
		return report, nil
	}

	if err := s.store.Remove(ctx, report.Orphans); err != nil {
		return report, fmt.Errorf("remove orphans: %w", err)
	}
	report.Removed = len(report.Orphans)
	metrics.OrphansRemoved(report.Removed)

	s.logger.Info("reconcile finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("removed", report.Removed),
		slog.Int("skipped", report.Skipped))
	return report, nil
}
