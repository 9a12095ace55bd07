package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectImage struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index:idx_project_images_order,priority:1" json:"project_id"`

	StoragePath string `gorm:"not null" json:"storage_path"`
	PublicURL   string `gorm:"column:public_url;not null" json:"public_url"`
	BlurDataURL string `gorm:"column:blur_data_url;type:text" json:"blur_data_url,omitempty"`

	AltText string `json:"alt_text"`
	Caption string `json:"caption,omitempty"`

	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio,omitempty"`
	FileSize    int64   `json:"file_size,omitempty"`
	Format      string  `json:"format,omitempty"`

	IsCover    bool `gorm:"not null;default:false" json:"is_cover"`
	OrderIndex int  `gorm:"not null;default:0;index:idx_project_images_order,priority:2" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}

func (img *ProjectImage) BeforeCreate(tx *gorm.DB) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	return nil
}

// HasDisplayableURL reports whether the public URL can be rendered by the
// frontend: absolute http(s) or site-relative.
func (img ProjectImage) HasDisplayableURL() bool {
	u := strings.TrimSpace(img.PublicURL)
	return strings.HasPrefix(u, "http") || strings.HasPrefix(u, "/")
}
