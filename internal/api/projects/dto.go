package projects

import (
	"time"

	"portfolio-app/internal/catalog"
	"portfolio-app/internal/domain/portfolio"
)

// ---------- requests

// CreateProjectRequest has no slug: it is always derived from the title.
type CreateProjectRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Category        string   `json:"category"`
	Client          *string  `json:"client"`
	Year            *int     `json:"year"`
	Featured        bool     `json:"featured"`
	Published       *bool    `json:"published"` // defaults to true
	OrderIndex      int      `json:"order_index"`
	Tags            []string `json:"tags"`
	SEOTitle        string   `json:"seo_title"`
	SEODescription  string   `json:"seo_description"`
}

type UpdateProjectRequest struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	LongDescription *string   `json:"long_description"`
	Category        *string   `json:"category"`
	Client          *string   `json:"client"`
	Year            *int      `json:"year"`
	Featured        *bool     `json:"featured"`
	Published       *bool     `json:"published"`
	OrderIndex      *int      `json:"order_index"`
	Tags            *[]string `json:"tags"`
	SEOTitle        *string   `json:"seo_title"`
	SEODescription  *string   `json:"seo_description"`
}

func (r CreateProjectRequest) toProject() portfolio.Project {
	published := true
	if r.Published != nil {
		published = *r.Published
	}
	p := portfolio.Project{
		Title:           r.Title,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Category:        portfolio.Category(r.Category),
		Client:          r.Client,
		Year:            r.Year,
		Featured:        r.Featured,
		Published:       published,
		OrderIndex:      r.OrderIndex,
		Tags:            r.Tags,
		SEOTitle:        r.SEOTitle,
		SEODescription:  r.SEODescription,
	}
	return p
}

func (r UpdateProjectRequest) toPatch() catalog.ProjectPatch {
	patch := catalog.ProjectPatch{
		Title:           r.Title,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Client:          r.Client,
		Year:            r.Year,
		Featured:        r.Featured,
		Published:       r.Published,
		OrderIndex:      r.OrderIndex,
		Tags:            r.Tags,
		SEOTitle:        r.SEOTitle,
		SEODescription:  r.SEODescription,
	}
	if r.Category != nil {
		c := portfolio.Category(*r.Category)
		patch.Category = &c
	}
	return patch
}

// ---------- responses

type ImageDTO struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	BlurDataURL string  `json:"blur_data_url,omitempty"`
	AltText     string  `json:"alt_text"`
	Caption     string  `json:"caption,omitempty"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio,omitempty"`
	IsCover     bool    `json:"is_cover"`
	OrderIndex  int     `json:"order_index"`
}

type ProjectDTO struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	LongDescription string     `json:"long_description,omitempty"`
	Category        string     `json:"category"`
	Client          *string    `json:"client,omitempty"`
	Year            *int       `json:"year,omitempty"`
	Featured        bool       `json:"featured"`
	Published       bool       `json:"published"`
	OrderIndex      int        `json:"order_index"`
	Tags            []string   `json:"tags"`
	SEOTitle        string     `json:"seo_title,omitempty"`
	SEODescription  string     `json:"seo_description,omitempty"`
	Cover           *ImageDTO  `json:"cover,omitempty"`
	Images          []ImageDTO `json:"images"`
	Views           *int64     `json:"views,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toImageDTO(img portfolio.ProjectImage) ImageDTO {
	return ImageDTO{
		ID:          img.ID,
		URL:         img.PublicURL,
		BlurDataURL: img.BlurDataURL,
		AltText:     img.AltText,
		Caption:     img.Caption,
		Width:       img.Width,
		Height:      img.Height,
		AspectRatio: img.AspectRatio,
		IsCover:     img.IsCover,
		OrderIndex:  img.OrderIndex,
	}
}

// toProjectDTO maps a project for output. Public views drop images whose URL
// the frontend cannot render.
func toProjectDTO(p portfolio.Project, public bool) ProjectDTO {
	images := p.Images
	if public {
		images = make([]portfolio.ProjectImage, 0, len(p.Images))
		for _, img := range p.Images {
			if img.HasDisplayableURL() {
				images = append(images, img)
			}
		}
	}

	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}

	out := ProjectDTO{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Category:        string(p.Category),
		Client:          p.Client,
		Year:            p.Year,
		Featured:        p.Featured,
		Published:       p.Published,
		OrderIndex:      p.OrderIndex,
		Tags:            tags,
		SEOTitle:        p.SEOTitle,
		SEODescription:  p.SEODescription,
		Images:          make([]ImageDTO, 0, len(images)),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, img := range images {
		out.Images = append(out.Images, toImageDTO(img))
	}

	filtered := portfolio.Project{Images: images}
	if cover := filtered.Cover(); cover != nil {
		dto := toImageDTO(*cover)
		out.Cover = &dto
	}
	return out
}
