package services

import (
	"context"
	"time"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnnouncementService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Push   *PushService
}

func NewAnnouncementService(db *gorm.DB, logger *zap.Logger, push *PushService) *AnnouncementService {
	return &AnnouncementService{DB: db, Logger: logger, Push: push}
}

type AnnouncementInput struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body" validate:"required,max=10000"`
	ImagePath string     `json:"image_path"`
	PublishAt *time.Time `json:"publish_at"`
	// Publish immediately when true and publish_at is unset.
	Publish bool `json:"publish"`
}

func (s *AnnouncementService) Create(tenantID, createdByID string, in AnnouncementInput) (*models.Announcement, error) {
	ann := models.Announcement{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Title:       in.Title,
		Body:        in.Body,
		ImagePath:   in.ImagePath,
		Status:      models.AnnouncementDraft,
		CreatedByID: createdByID,
	}
	switch {
	case in.PublishAt != nil:
		ann.Status = models.AnnouncementScheduled
		ann.PublishAt = in.PublishAt
	case in.Publish:
		now := time.Now()
		ann.Status = models.AnnouncementPublished
		ann.PublishedAt = &now
	}

	if err := s.DB.Create(&ann).Error; err != nil {
		return nil, err
	}

	if ann.Status == models.AnnouncementPublished {
		s.notify(&ann)
	}
	return &ann, nil
}

func (s *AnnouncementService) List(tenantID string, publishedOnly bool) ([]models.Announcement, error) {
	q := s.DB.Where("tenant_id = ?", tenantID)
	if publishedOnly {
		q = q.Where("status = ?", models.AnnouncementPublished)
	}
	var anns []models.Announcement
	err := q.Order("created_at DESC").Find(&anns).Error
	return anns, err
}

// Publish flips a draft or scheduled announcement live now.
func (s *AnnouncementService) Publish(tenantID, announcementID string) (*models.Announcement, error) {
	var ann models.Announcement
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, announcementID).First(&ann).Error; err != nil {
		return nil, err
	}
	if ann.Status == models.AnnouncementPublished {
		return &ann, nil
	}
	now := time.Now()
	ann.Status = models.AnnouncementPublished
	ann.PublishAt = nil
	ann.PublishedAt = &now
	if err := s.DB.Save(&ann).Error; err != nil {
		return nil, err
	}
	s.notify(&ann)
	return &ann, nil
}

// notify fans the announcement out as a push notification. Best effort:
// delivery failures never affect the publishing write.
func (s *AnnouncementService) notify(ann *models.Announcement) {
	if s.Push == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	_, _, err := s.Push.NotifyTenant(ctx, ann.TenantID, ann.Title, ann.Body, map[string]interface{}{
		"type":            "announcement",
		"announcement_id": ann.ID,
	})
	if err != nil {
		s.Logger.Warn("announcement push fan-out failed",
			zap.String("announcement_id", ann.ID), zap.Error(err))
	}
}
