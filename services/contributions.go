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

type ContributionService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Points *PointsService
}

func NewContributionService(db *gorm.DB, logger *zap.Logger, points *PointsService) *ContributionService {
	return &ContributionService{DB: db, Logger: logger, Points: points}
}

type ContributionInput struct {
	UserID  string  `json:"user_id" validate:"required,uuid"`
	Amount  float64 `json:"amount" validate:"required"`
	Purpose string  `json:"purpose" validate:"max=200"`
	Note    string  `json:"note" validate:"max=1000"`
}

// Record books a contribution and its point value in one transaction.
// Negative amounts are reversals: they append a compensating negative
// entry, and badge re-evaluation revokes whatever no longer qualifies.
func (s *ContributionService) Record(tenantID, recordedByID string, in ContributionInput) (*models.Contribution, error) {
	if in.Amount == 0 {
		return nil, errors.New("amount must be non-zero")
	}

	var count int64
	s.DB.Model(&models.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, in.UserID).
		Count(&count)
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	settings, err := s.Points.EnsureSettings(tenantID)
	if err != nil {
		return nil, err
	}

	contribution := models.Contribution{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		UserID:       in.UserID,
		Amount:       in.Amount,
		Purpose:      in.Purpose,
		Note:         in.Note,
		RecordedByID: recordedByID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contribution).Error; err != nil {
			return err
		}

		points := contributionPoints(in.Amount, settings.PointsPerChf)
		if points != 0 {
			activityType := models.ActivityContribution
			desc := fmt.Sprintf("Contribution of %.2f CHF", in.Amount)
			if in.Amount < 0 {
				activityType = models.ActivityReversal
				desc = fmt.Sprintf("Contribution reversal of %.2f CHF", -in.Amount)
			}
			if err := s.Points.appendTx(tx, tenantID, in.UserID, activityType, points, desc); err != nil {
				return err
			}
		}

		_, _, err := s.Points.Badges.evaluateTx(tx, tenantID, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

// contributionPoints converts an amount in CHF to points, truncating
// toward zero so a reversal mirrors the original award exactly.
func contributionPoints(amount float64, pointsPerChf int64) int64 {
	return int64(math.Trunc(amount * float64(pointsPerChf)))
}

func (s *ContributionService) ListForUser(tenantID, userID string) ([]models.Contribution, error) {
	var contributions []models.Contribution
	err := s.DB.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("contributed_at DESC").
		Find(&contributions).Error
	return contributions, err
}

// TotalForUser is the user's net contribution sum.
func (s *ContributionService) TotalForUser(tenantID, userID string) (float64, error) {
	var sum float64
	err := s.DB.Model(&models.Contribution{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
