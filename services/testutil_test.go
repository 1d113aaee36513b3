package services

import (
	"testing"

	"dzemat-platform/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test so tests never
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.ActivityLog{},
		&models.PointSettings{},
		&models.Badge{},
		&models.UserBadge{},
		&models.CertificateTemplate{},
		&models.UserCertificate{},
		&models.Event{},
		&models.EventRSVP{},
		&models.EventCheckIn{},
		&models.WorkGroup{},
		&models.WorkGroupMember{},
		&models.Task{},
		&models.Contribution{},
		&models.Announcement{},
		&models.Listing{},
		&models.Vaktija{},
		&models.Message{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, subdomain string) models.Tenant {
	t.Helper()
	tenant := models.Tenant{
		ID:        uuid.NewString(),
		Name:      "Džemat " + subdomain,
		Subdomain: subdomain,
		Active:    true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return tenant
}

func seedUser(t *testing.T, db *gorm.DB, tenantID, email string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Amir",
		LastName:     "Hodžić",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newPointsStack(t *testing.T, db *gorm.DB) (*BadgeService, *PointsService) {
	t.Helper()
	badges := NewBadgeService(db, zap.NewNop())
	points := NewPointsService(db, zap.NewNop(), badges)
	return badges, points
}
