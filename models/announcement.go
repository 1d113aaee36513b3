package models

import "time"

// AnnouncementStatus indicates the publishing status of an announcement
type AnnouncementStatus string

const (
	AnnouncementDraft     AnnouncementStatus = "draft"
	AnnouncementScheduled AnnouncementStatus = "scheduled"
	AnnouncementPublished AnnouncementStatus = "published"
)

type Announcement struct {
	ID          string             `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string             `gorm:"index;not null" json:"tenant_id"`
	Title       string             `gorm:"not null" json:"title"`
	Body        string             `gorm:"type:text" json:"body"`
	ImagePath   string             `gorm:"type:text" json:"image_path"`
	Status      AnnouncementStatus `gorm:"not null;default:'draft';index" json:"status"`
	PublishAt   *time.Time         `json:"publish_at,omitempty"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
	CreatedByID string             `json:"created_by_id"`

	Timestamps
}
