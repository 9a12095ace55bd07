package catalog

import (
	"context"
	"fmt"
	"strings"

	"portfolio-app/internal/domain/portfolio"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Filter struct {
	Category  portfolio.Category
	Published *bool
	Featured  *bool
}

// ProjectPatch carries the editable fields of a project. The slug is not
// editable. Empty Client and zero Year clear the column.
type ProjectPatch struct {
	Title           *string
	Description     *string
	LongDescription *string
	Category        *portfolio.Category
	Client          *string
	Year            *int
	Featured        *bool
	Published       *bool
	OrderIndex      *int
	Tags            *[]string
	SEOTitle        *string
	SEODescription  *string
}

func imagesByOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("created_at ASC")
}

func (r *Repository) ListProjects(ctx context.Context, f Filter) ([]portfolio.Project, error) {
	q := r.db.WithContext(ctx).Model(&portfolio.Project{})

	if f.Category != "" && f.Category != portfolio.CategoryAll {
		if !f.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		q = q.Where("category IN ?", []string{string(f.Category), string(portfolio.CategoryAll)})
	}
	if f.Published != nil {
		q = q.Where("published = ?", *f.Published)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	var projects []portfolio.Project
	err := q.Preload("Images", imagesByOrder).
		Order("order_index ASC").
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *Repository) GetProjectByID(ctx context.Context, id string) (*portfolio.Project, error) {
	var p portfolio.Project
	err := r.db.WithContext(ctx).
		Preload("Images", imagesByOrder).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *Repository) GetProjectBySlug(ctx context.Context, slug string) (*portfolio.Project, error) {
	var p portfolio.Project
	err := r.db.WithContext(ctx).
		Preload("Images", imagesByOrder).
		First(&p, "slug = ?", slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// InsertProject stores p. An empty slug is derived from the title; a taken
// slug gets a numeric suffix.
func (r *Repository) InsertProject(ctx context.Context, p *portfolio.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.Category == "" {
		p.Category = portfolio.CategoryInterfaceDesign
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}

	base := p.Slug
	if base == "" {
		base = portfolio.MakeSlug(p.Title)
	}
	if !portfolio.IsValidSlug(base) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, base)
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, base)
		if err != nil {
			return err
		}
		p.Slug = slug
		p.Images = nil
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return nil
	})
}

func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&portfolio.Project{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (r *Repository) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*portfolio.Project, error) {
	updates := map[string]interface{}{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.LongDescription != nil {
		updates["long_description"] = *patch.LongDescription
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		updates["category"] = *patch.Category
	}
	if patch.Client != nil {
		if strings.TrimSpace(*patch.Client) == "" {
			updates["client"] = nil
		} else {
			updates["client"] = strings.TrimSpace(*patch.Client)
		}
	}
	if patch.Year != nil {
		if *patch.Year == 0 {
			updates["year"] = nil
		} else {
			updates["year"] = *patch.Year
		}
	}
	if patch.Featured != nil {
		updates["featured"] = *patch.Featured
	}
	if patch.Published != nil {
		updates["published"] = *patch.Published
	}
	if patch.OrderIndex != nil {
		updates["order_index"] = *patch.OrderIndex
	}
	if patch.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*patch.Tags)
	}
	if patch.SEOTitle != nil {
		updates["seo_title"] = *patch.SEOTitle
	}
	if patch.SEODescription != nil {
		updates["seo_description"] = *patch.SEODescription
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&portfolio.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&portfolio.Project{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetProjectByID(ctx, id)
}

// DeleteProject removes the project and its image rows, returning the storage
// paths the caller must remove from the bucket.
func (r *Repository) DeleteProject(ctx context.Context, id string) ([]string, error) {
	var paths []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p portfolio.Project
		if err := tx.Select("id").First(&p, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&portfolio.ProjectImage{}).
			Where("project_id = ?", id).
			Pluck("storage_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&portfolio.ProjectImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&portfolio.ProjectView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&portfolio.Project{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
