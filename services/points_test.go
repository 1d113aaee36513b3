package services

import (
	"testing"

	"dzemat-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPointsIsSumOfLog(t *testing.T) {
	db := newTestDB(t)
	_, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityTaskApproved, 20, "first"))
	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityEventCheckIn, 10, "second"))
	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityReversal, -5, "correction"))

	total, err := points.TotalPoints(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	var rows int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Where("tenant_id = ?", tenant.ID).Count(&rows).Error)
	assert.Equal(t, int64(3), rows, "corrections append, never edit")
}

func TestTotalPointsIgnoresOtherTenants(t *testing.T) {
	db := newTestDB(t)
	_, points := newPointsStack(t, db)
	tenantA := seedTenant(t, db, "sarajevo")
	tenantB := seedTenant(t, db, "zenica")
	userA := seedUser(t, db, tenantA.ID, "amir@example.com")
	userB := seedUser(t, db, tenantB.ID, "amir@example.com")

	require.NoError(t, points.RecordActivity(tenantA.ID, userA.ID, models.ActivityManualBonus, 40, ""))
	require.NoError(t, points.RecordActivity(tenantB.ID, userB.ID, models.ActivityManualBonus, 7, ""))

	total, err := points.TotalPoints(tenantA.ID, userA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
}

func TestEnsureSettingsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")

	first, err := points.EnsureSettings(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.PointsPerChf)
	assert.Equal(t, int64(20), first.PointsPerTask)
	assert.Equal(t, int64(10), first.PointsPerEvent)

	second, err := points.EnsureSettings(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.PointSettings{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBadgeGrantedWhenThresholdCrossed(t *testing.T) {
	db := newTestDB(t)
	badges, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	_, err := badges.Create(tenant.ID, BadgeInput{
		Name:          "Vrijedan član",
		CriteriaType:  "points",
		CriteriaValue: 30,
	})
	require.NoError(t, err)

	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityTaskApproved, 20, ""))
	held, err := badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, held)

	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityTaskApproved, 20, ""))
	held, err = badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "Vrijedan član", held[0].Badge.Name)
}

func TestEvaluateWithoutNewActivityChangesNothing(t *testing.T) {
	db := newTestDB(t)
	badges, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	_, err := badges.Create(tenant.ID, BadgeInput{
		Name:          "Vrijedan član",
		CriteriaType:  models.CriteriaPointsTotal,
		CriteriaValue: 10,
	})
	require.NoError(t, err)
	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityManualBonus, 15, ""))

	granted, revoked, err := badges.EvaluateForUser(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Empty(t, revoked)

	held, err := badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestClawbackRevokesBadge(t *testing.T) {
	db := newTestDB(t)
	badges, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	admin := seedUser(t, db, tenant.ID, "imam@example.com")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	_, err := badges.Create(tenant.ID, BadgeInput{
		Name:          "Vrijedan član",
		CriteriaType:  models.CriteriaPointsTotal,
		CriteriaValue: 30,
	})
	require.NoError(t, err)

	require.NoError(t, points.ManualBonus(tenant.ID, admin.ID, user.ID, 35, "cleanup help"))
	held, err := badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)

	require.NoError(t, points.ManualBonus(tenant.ID, admin.ID, user.ID, -10, "entered twice"))

	held, err = badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, held, "metric dropped below threshold")

	total, err := points.TotalPoints(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	var entry models.ActivityLog
	require.NoError(t, db.Where("tenant_id = ? AND points < 0", tenant.ID).First(&entry).Error)
	assert.Equal(t, models.ActivityReversal, entry.ActivityType)
}

func TestManualBonusRejectsZero(t *testing.T) {
	db := newTestDB(t)
	_, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	assert.Error(t, points.ManualBonus(tenant.ID, "admin", user.ID, 0, ""))
}

func TestBadgeCreateRejectsUnknownCriteria(t *testing.T) {
	db := newTestDB(t)
	badges, _ := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")

	_, err := badges.Create(tenant.ID, BadgeInput{
		Name:          "Broken",
		CriteriaType:  "steps_walked",
		CriteriaValue: 1,
	})
	assert.Error(t, err)
}

func TestBadgeDeleteRemovesGrants(t *testing.T) {
	db := newTestDB(t)
	badges, points := newPointsStack(t, db)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	badge, err := badges.Create(tenant.ID, BadgeInput{
		Name:          "Vrijedan član",
		CriteriaType:  models.CriteriaPointsTotal,
		CriteriaValue: 5,
	})
	require.NoError(t, err)
	require.NoError(t, points.RecordActivity(tenant.ID, user.ID, models.ActivityManualBonus, 10, ""))

	require.NoError(t, badges.Delete(tenant.ID, badge.ID))

	held, err := badges.UserBadges(tenant.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, held)
}
