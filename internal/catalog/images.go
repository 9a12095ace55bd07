package catalog

import (
	"context"
	"fmt"
	"strings"

	"portfolio-app/internal/domain/portfolio"
	"portfolio-app/internal/ingest"

	"gorm.io/gorm"
)

type ImagePatch struct {
	AltText *string
	Caption *string
}

func (r *Repository) ListImages(ctx context.Context, projectID string) ([]portfolio.ProjectImage, error) {
	var images []portfolio.ProjectImage
	err := imagesByOrder(r.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (r *Repository) GetImage(ctx context.Context, id string) (*portfolio.ProjectImage, error) {
	var img portfolio.ProjectImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}

func projectExists(tx *gorm.DB, projectID string) error {
	var count int64
	if err := tx.Model(&portfolio.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertImage records a single image row. A row flagged as cover takes the
// flag from every other image of the project.
func (r *Repository) InsertImage(ctx context.Context, img *portfolio.ProjectImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectExists(tx, img.ProjectID); err != nil {
			return err
		}
		if img.IsCover {
			if err := tx.Model(&portfolio.ProjectImage{}).
				Where("project_id = ? AND is_cover = ?", img.ProjectID, true).
				Update("is_cover", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(img).Error; err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
		return nil
	})
}

// AttachUploads records stored uploads as images of the project. New images
// are appended after the existing ones; the first becomes the cover when the
// project has none yet.
func (r *Repository) AttachUploads(ctx context.Context, projectID string, results []ingest.Result, altPrefix string) ([]portfolio.ProjectImage, error) {
	created := make([]portfolio.ProjectImage, 0, len(results))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectExists(tx, projectID); err != nil {
			return err
		}

		var next int
		if err := tx.Model(&portfolio.ProjectImage{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(order_index) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}

		var covers int64
		if err := tx.Model(&portfolio.ProjectImage{}).
			Where("project_id = ? AND is_cover = ?", projectID, true).
			Count(&covers).Error; err != nil {
			return err
		}

		for i, res := range results {
			img := portfolio.ProjectImage{
				ProjectID:   projectID,
				StoragePath: res.StoragePath,
				PublicURL:   res.PublicURL,
				BlurDataURL: res.BlurDataURL,
				AltText:     altText(altPrefix, next+i),
				Width:       res.Width,
				Height:      res.Height,
				AspectRatio: res.AspectRatio,
				FileSize:    res.FileSize,
				Format:      res.Format,
				IsCover:     covers == 0 && i == 0,
				OrderIndex:  next + i,
			}
			if err := tx.Create(&img).Error; err != nil {
				return fmt.Errorf("insert image %s: %w", res.StoragePath, err)
			}
			created = append(created, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func altText(prefix string, order int) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return fmt.Sprintf("Project image %d", order+1)
	}
	return fmt.Sprintf("%s - Image %d", prefix, order+1)
}

func (r *Repository) UpdateImage(ctx context.Context, id string, patch ImagePatch) (*portfolio.ProjectImage, error) {
	updates := map[string]interface{}{}
	if patch.AltText != nil {
		updates["alt_text"] = strings.TrimSpace(*patch.AltText)
	}
	if patch.Caption != nil {
		updates["caption"] = strings.TrimSpace(*patch.Caption)
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&portfolio.ProjectImage{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update image: %w", res.Error)
		}
	}
	return r.GetImage(ctx, id)
}

// DeleteImage removes the image row and returns it. The stored object is the
// caller's responsibility and is expected to be gone already.
func (r *Repository) DeleteImage(ctx context.Context, id string) (*portfolio.ProjectImage, error) {
	var img portfolio.ProjectImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&img, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&portfolio.ProjectImage{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// SetCover makes imageID the only cover of the project in one UPDATE.
func (r *Repository) SetCover(ctx context.Context, projectID, imageID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img portfolio.ProjectImage
		if err := tx.Select("id", "project_id").First(&img, "id = ?", imageID).Error; err != nil {
			return notFound(err)
		}
		if img.ProjectID != projectID {
			return ErrImageNotInProject
		}

		return tx.Model(&portfolio.ProjectImage{}).
			Where("project_id = ?", projectID).
			Update("is_cover", gorm.Expr("(id = ?)", imageID)).Error
	})
}

// ReorderImages rewrites order_index so the project's images follow ids.
func (r *Repository) ReorderImages(ctx context.Context, projectID string, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectExists(tx, projectID); err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&portfolio.ProjectImage{}).
			Where("project_id = ?", projectID).
			Pluck("id", &existing).Error; err != nil {
			return err
		}
		if !samePermutation(existing, ids) {
			return ErrInvalidOrder
		}

		for i, id := range ids {
			if err := tx.Model(&portfolio.ProjectImage{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func samePermutation(existing, ids []string) bool {
	if len(existing) != len(ids) {
		return false
	}
	seen := make(map[string]bool, len(existing))
	for _, id := range existing {
		seen[id] = false
	}
	for _, id := range ids {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
