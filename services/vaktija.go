package services

import (
	"errors"
	"time"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VaktijaService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewVaktijaService(db *gorm.DB, logger *zap.Logger) *VaktijaService {
	return &VaktijaService{DB: db, Logger: logger}
}

type VaktijaInput struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Fajr    string `json:"fajr" validate:"required,datetime=15:04"`
	Sunrise string `json:"sunrise" validate:"required,datetime=15:04"`
	Dhuhr   string `json:"dhuhr" validate:"required,datetime=15:04"`
	Asr     string `json:"asr" validate:"required,datetime=15:04"`
	Maghrib string `json:"maghrib" validate:"required,datetime=15:04"`
	Isha    string `json:"isha" validate:"required,datetime=15:04"`
}

// Upsert writes one day's schedule, replacing any existing row for that
// date.
func (s *VaktijaService) Upsert(tenantID string, in VaktijaInput) (*models.Vaktija, error) {
	var v models.Vaktija
	err := s.DB.Where("tenant_id = ? AND date = ?", tenantID, in.Date).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		v = models.Vaktija{ID: uuid.NewString(), TenantID: tenantID, Date: in.Date}
	} else if err != nil {
		return nil, err
	}

	v.Fajr = in.Fajr
	v.Sunrise = in.Sunrise
	v.Dhuhr = in.Dhuhr
	v.Asr = in.Asr
	v.Maghrib = in.Maghrib
	v.Isha = in.Isha

	if err := s.DB.Save(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ForDate returns the schedule for a YYYY-MM-DD date.
func (s *VaktijaService) ForDate(tenantID, date string) (*models.Vaktija, error) {
	var v models.Vaktija
	if err := s.DB.Where("tenant_id = ? AND date = ?", tenantID, date).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Today returns the current day's schedule.
func (s *VaktijaService) Today(tenantID string) (*models.Vaktija, error) {
	return s.ForDate(tenantID, time.Now().Format("2006-01-02"))
}
