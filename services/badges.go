package services

import (
	"errors"
	"fmt"
	"math"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewBadgeService(db *gorm.DB, logger *zap.Logger) *BadgeService {
	return &BadgeService{DB: db, Logger: logger}
}

// List returns the tenant's badge definitions.
func (s *BadgeService) List(tenantID string) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&badges).Error
	return badges, err
}

type BadgeInput struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=500"`
	Icon          string `json:"icon" validate:"max=100"`
	CriteriaType  string `json:"criteria_type" validate:"required"`
	CriteriaValue int64  `json:"criteria_value" validate:"required,min=1"`
}

func validCriteriaType(t string) bool {
	switch t {
	case models.CriteriaPointsTotal, models.CriteriaTasksCompleted,
		models.CriteriaContributions, models.CriteriaEventsAttended:
		return true
	}
	return false
}

func (s *BadgeService) Create(tenantID string, in BadgeInput) (*models.Badge, error) {
	criteria := models.NormalizeCriteriaType(in.CriteriaType)
	if !validCriteriaType(criteria) {
		return nil, fmt.Errorf("unknown criteria type %q", in.CriteriaType)
	}

	badge := models.Badge{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		Name:          in.Name,
		Description:   in.Description,
		Icon:          in.Icon,
		CriteriaType:  criteria,
		CriteriaValue: in.CriteriaValue,
	}
	if err := s.DB.Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (s *BadgeService) Update(tenantID, badgeID string, in BadgeInput) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, badgeID).First(&badge).Error; err != nil {
		return nil, err
	}

	criteria := models.NormalizeCriteriaType(in.CriteriaType)
	if !validCriteriaType(criteria) {
		return nil, fmt.Errorf("unknown criteria type %q", in.CriteriaType)
	}

	badge.Name = in.Name
	badge.Description = in.Description
	badge.Icon = in.Icon
	badge.CriteriaType = criteria
	badge.CriteriaValue = in.CriteriaValue
	if err := s.DB.Save(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// Delete removes a badge definition and any grants of it.
func (s *BadgeService) Delete(tenantID, badgeID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ? AND id = ?", tenantID, badgeID).Delete(&models.Badge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("tenant_id = ? AND badge_id = ?", tenantID, badgeID).
			Delete(&models.UserBadge{}).Error
	})
}

// UserBadges returns the badges a user currently holds, with definitions.
func (s *BadgeService) UserBadges(tenantID, userID string) ([]models.UserBadge, error) {
	var grants []models.UserBadge
	err := s.DB.Preload("Badge").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("earned_at DESC").
		Find(&grants).Error
	return grants, err
}

// EvaluateForUser recomputes all badge metrics for one user from the
// source-of-truth tables and diffs the result against user_badges:
// missing earned badges are granted, held badges whose metric dropped
// below the threshold are revoked. The whole pass commits atomically,
// and re-running it without intervening writes changes nothing.
func (s *BadgeService) EvaluateForUser(tenantID, userID string) (granted, revoked []string, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		granted, revoked, err = s.evaluateTx(tx, tenantID, userID)
		return err
	})
	return granted, revoked, err
}

func (s *BadgeService) evaluateTx(tx *gorm.DB, tenantID, userID string) (granted, revoked []string, err error) {
	var badges []models.Badge
	if err := tx.Where("tenant_id = ?", tenantID).Find(&badges).Error; err != nil {
		return nil, nil, err
	}
	if len(badges) == 0 {
		return nil, nil, nil
	}

	var held []models.UserBadge
	if err := tx.Where("tenant_id = ? AND user_id = ?", tenantID, userID).Find(&held).Error; err != nil {
		return nil, nil, err
	}
	heldByBadge := make(map[string]models.UserBadge, len(held))
	for _, g := range held {
		heldByBadge[g.BadgeID] = g
	}

	// One metric computation per criteria type, not per badge.
	metrics := make(map[string]int64)
	for _, b := range badges {
		if _, done := metrics[b.CriteriaType]; done {
			continue
		}
		v, err := s.metricTx(tx, tenantID, userID, b.CriteriaType)
		if err != nil {
			return nil, nil, err
		}
		metrics[b.CriteriaType] = v
	}

	for _, b := range badges {
		earned := metrics[b.CriteriaType] >= b.CriteriaValue
		grant, holds := heldByBadge[b.ID]

		switch {
		case earned && !holds:
			ub := models.UserBadge{
				ID:       uuid.NewString(),
				TenantID: tenantID,
				UserID:   userID,
				BadgeID:  b.ID,
			}
			if err := tx.Create(&ub).Error; err != nil {
				return nil, nil, err
			}
			granted = append(granted, b.Name)
			s.Logger.Info("🎖️ badge granted",
				zap.String("tenant_id", tenantID),
				zap.String("user_id", userID),
				zap.String("badge", b.Name))
		case !earned && holds:
			if err := tx.Where("id = ?", grant.ID).Delete(&models.UserBadge{}).Error; err != nil {
				return nil, nil, err
			}
			revoked = append(revoked, b.Name)
			s.Logger.Info("badge revoked",
				zap.String("tenant_id", tenantID),
				zap.String("user_id", userID),
				zap.String("badge", b.Name))
		}
	}

	return granted, revoked, nil
}

// metricTx computes the user's current value for one criteria type,
// always from the source tables.
func (s *BadgeService) metricTx(tx *gorm.DB, tenantID, userID, criteriaType string) (int64, error) {
	switch criteriaType {
	case models.CriteriaPointsTotal:
		var total int64
		err := tx.Model(&models.ActivityLog{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&total).Error
		return total, err

	case models.CriteriaTasksCompleted:
		var count int64
		err := tx.Model(&models.Task{}).
			Where("tenant_id = ? AND assignee_id = ? AND status = ?", tenantID, userID, models.TaskApproved).
			Count(&count).Error
		return count, err

	case models.CriteriaContributions:
		var sum float64
		err := tx.Model(&models.Contribution{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&sum).Error
		return int64(math.Floor(sum)), err

	case models.CriteriaEventsAttended:
		var count int64
		err := tx.Model(&models.EventCheckIn{}).
			Where("tenant_id = ? AND user_id = ?", tenantID, userID).
			Count(&count).Error
		return count, err
	}
	return 0, errors.New("unknown badge criteria type: " + criteriaType)
}
