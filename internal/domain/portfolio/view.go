package portfolio

import "time"

type ProjectView struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`
	UserAgent string `json:"user_agent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
