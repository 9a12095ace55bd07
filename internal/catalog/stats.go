package catalog

import (
	"context"

	"portfolio-app/internal/domain/portfolio"
)

type Stats struct {
	TotalProjects           int64 `json:"total_projects"`
	PublishedProjects       int64 `json:"published_projects"`
	FeaturedProjects        int64 `json:"featured_projects"`
	InterfaceDesignProjects int64 `json:"interface_design_projects"`
	DrawingsProjects        int64 `json:"drawings_projects"`
	TotalImages             int64 `json:"total_images"`
	TotalViews              int64 `json:"total_views"`
}

func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	db := r.db.WithContext(ctx)
	var s Stats

	counts := []struct {
		dst   *int64
		model interface{}
		where []interface{}
	}{
		{&s.TotalProjects, &portfolio.Project{}, nil},
		{&s.PublishedProjects, &portfolio.Project{}, []interface{}{"published = ?", true}},
		{&s.FeaturedProjects, &portfolio.Project{}, []interface{}{"featured = ?", true}},
		{&s.InterfaceDesignProjects, &portfolio.Project{}, []interface{}{"category = ?", string(portfolio.CategoryInterfaceDesign)}},
		{&s.DrawingsProjects, &portfolio.Project{}, []interface{}{"category = ?", string(portfolio.CategoryDrawings)}},
		{&s.TotalImages, &portfolio.ProjectImage{}, nil},
		{&s.TotalViews, &portfolio.ProjectView{}, nil},
	}

	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}
