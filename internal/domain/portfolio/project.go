package portfolio

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Slug string `gorm:"not null;uniqueIndex" json:"slug"`

	Title           string `gorm:"not null" json:"title"`
	Description     string `json:"description,omitempty"`
	LongDescription string `json:"long_description,omitempty"`

	Category Category `gorm:"type:text;not null;default:'interface-design';index:idx_projects_category_order,priority:1" json:"category"`
	Client   *string  `json:"client,omitempty"`
	Year     *int     `json:"year,omitempty"`

	Featured   bool `gorm:"not null;default:false" json:"featured"`
	Published  bool `gorm:"not null;default:false;index" json:"published"`
	OrderIndex int  `gorm:"not null;default:0;index:idx_projects_category_order,priority:2" json:"order_index"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	SEOTitle       string `gorm:"column:seo_title" json:"seo_title,omitempty"`
	SEODescription string `gorm:"column:seo_description" json:"seo_description,omitempty"`

	Images []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Cover returns the image flagged as cover, or the first image by order when
// none is flagged.
func (p *Project) Cover() *ProjectImage {
	for i := range p.Images {
		if p.Images[i].IsCover {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}
