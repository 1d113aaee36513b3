package services

import (
	"errors"
	"fmt"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PointsService owns the activity log and the per-tenant conversion
// settings. A user's total is never stored: it is SUM(points) over the
// log at read time, so concurrent appends cannot drift a counter.
type PointsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Badges *BadgeService
}

func NewPointsService(db *gorm.DB, logger *zap.Logger, badges *BadgeService) *PointsService {
	return &PointsService{DB: db, Logger: logger, Badges: badges}
}

// EnsureSettings returns the tenant's point settings, creating the row
// with defaults on first use (idempotent).
func (s *PointsService) EnsureSettings(tenantID string) (*models.PointSettings, error) {
	var settings models.PointSettings
	err := s.DB.Where("tenant_id = ?", tenantID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.PointSettings{
			ID:             uuid.NewString(),
			TenantID:       tenantID,
			PointsPerChf:   1,
			PointsPerTask:  20,
			PointsPerEvent: 10,
		}
		if err := s.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type PointSettingsInput struct {
	PointsPerChf   int64 `json:"pointsPerChf" validate:"min=0,max=1000"`
	PointsPerTask  int64 `json:"pointsPerTask" validate:"min=0,max=10000"`
	PointsPerEvent int64 `json:"pointsPerEvent" validate:"min=0,max=10000"`
}

func (s *PointsService) UpdateSettings(tenantID, id string, in PointSettingsInput) (*models.PointSettings, error) {
	var settings models.PointSettings
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, id).First(&settings).Error; err != nil {
		return nil, err
	}
	settings.PointsPerChf = in.PointsPerChf
	settings.PointsPerTask = in.PointsPerTask
	settings.PointsPerEvent = in.PointsPerEvent
	if err := s.DB.Save(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// TotalPoints recomputes the user's running total from the log.
func (s *PointsService) TotalPoints(tenantID, userID string) (int64, error) {
	var total int64
	err := s.DB.Model(&models.ActivityLog{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

// RecordActivity appends one log entry and re-evaluates the user's badges
// in the same transaction: either the entry and the resulting badge set
// both land, or neither does.
func (s *PointsService) RecordActivity(tenantID, userID, activityType string, points int64, description string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.appendTx(tx, tenantID, userID, activityType, points, description); err != nil {
			return err
		}
		_, _, err := s.Badges.evaluateTx(tx, tenantID, userID)
		return err
	})
}

// appendTx is the only write path into activity_logs.
func (s *PointsService) appendTx(tx *gorm.DB, tenantID, userID, activityType string, points int64, description string) error {
	entry := models.ActivityLog{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		UserID:       userID,
		ActivityType: activityType,
		Points:       points,
		Description:  description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	s.Logger.Info("🎮 activity recorded",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.String("type", activityType),
		zap.Int64("points", points))
	return nil
}

// ManualBonus lets an admin grant (or, with negative points, claw back)
// points directly. Reversals are compensating entries, never edits.
func (s *PointsService) ManualBonus(tenantID, adminID, userID string, points int64, reason string) error {
	if points == 0 {
		return errors.New("bonus points must be non-zero")
	}
	activityType := models.ActivityManualBonus
	if points < 0 {
		activityType = models.ActivityReversal
	}
	desc := reason
	if desc == "" {
		desc = fmt.Sprintf("manual adjustment by %s", adminID)
	}
	return s.RecordActivity(tenantID, userID, activityType, points, desc)
}

// UserActivity returns the newest log entries for a user.
func (s *PointsService) UserActivity(tenantID, userID string, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var entries []models.ActivityLog
	err := s.DB.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
