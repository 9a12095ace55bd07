package catalog

import (
	"context"

	"portfolio-app/internal/domain/portfolio"
)

func (r *Repository) TrackView(ctx context.Context, projectID, userAgent, referrer string) error {
	return r.db.WithContext(ctx).Create(&portfolio.ProjectView{
		ProjectID: projectID,
		UserAgent: userAgent,
		Referrer:  referrer,
	}).Error
}

func (r *Repository) ViewCount(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&portfolio.ProjectView{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// StoragePaths returns every storage path referenced by an image row.
func (r *Repository) StoragePaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	if err := r.db.WithContext(ctx).
		Model(&portfolio.ProjectImage{}).
		Pluck("storage_path", &paths).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}
