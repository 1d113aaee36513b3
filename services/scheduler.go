// services/scheduler.go
package services

import (
	"time"

	"dzemat-platform/models"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartPublishScheduler publishes scheduled announcements whose publish
// time has passed. Runs every minute across all tenants; each row is
// published (and fanned out) independently so one failure doesn't block
// the rest.
func (s *AnnouncementService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var anns []models.Announcement
			now := time.Now()
			err := s.DB.Where("status = ? AND publish_at <= ?", models.AnnouncementScheduled, now).
				Find(&anns).Error
			if err != nil {
				s.Logger.Error("scheduler: query failed", zap.Error(err))
				return
			}

			for _, a := range anns {
				if _, err := s.Publish(a.TenantID, a.ID); err != nil {
					s.Logger.Error("scheduler: failed to publish announcement",
						zap.String("announcement_id", a.ID), zap.Error(err))
				} else {
					s.Logger.Info("✅ auto-published announcement",
						zap.String("tenant_id", a.TenantID),
						zap.String("title", a.Title))
				}
			}
		}),
	)
}
