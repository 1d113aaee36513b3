package services

import (
	"testing"

	"dzemat-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTaskStack(t *testing.T) (*TaskService, *BadgeService, *PointsService, string, string) {
	t.Helper()
	db := newTestDB(t)
	badges, points := newPointsStack(t, db)
	tasks := NewTaskService(db, zap.NewNop(), points)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")
	return tasks, badges, points, tenant.ID, user.ID
}

func TestApproveAwardsTaskPoints(t *testing.T) {
	tasks, _, points, tenantID, userID := newTaskStack(t)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Postaviti stolice", PointsValue: 15, AssigneeID: &userID})
	require.NoError(t, err)

	_, err = tasks.Submit(tenantID, task.ID, userID)
	require.NoError(t, err)

	approved, err := tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)
	assert.Equal(t, models.TaskApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	total, err := points.TotalPoints(tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
}

func TestApproveFallsBackToSettingsRate(t *testing.T) {
	tasks, _, points, tenantID, userID := newTaskStack(t)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Pomoć u kuhinji", AssigneeID: &userID})
	require.NoError(t, err)
	_, err = tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)

	total, err := points.TotalPoints(tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), total, "default points_per_task")
}

func TestApproveTwiceAwardsOnce(t *testing.T) {
	tasks, _, points, tenantID, userID := newTaskStack(t)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Postaviti stolice", PointsValue: 15, AssigneeID: &userID})
	require.NoError(t, err)

	_, err = tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)
	_, err = tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)

	total, err := points.TotalPoints(tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
}

func TestApproveGrantsTasksCompletedBadge(t *testing.T) {
	tasks, badges, _, tenantID, userID := newTaskStack(t)

	_, err := badges.Create(tenantID, BadgeInput{
		Name:          "Prvi zadatak",
		CriteriaType:  models.CriteriaTasksCompleted,
		CriteriaValue: 1,
	})
	require.NoError(t, err)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Postaviti stolice", AssigneeID: &userID})
	require.NoError(t, err)
	_, err = tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)

	held, err := badges.UserBadges(tenantID, userID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "Prvi zadatak", held[0].Badge.Name)
}

func TestRejectApprovedTaskFails(t *testing.T) {
	tasks, _, _, tenantID, userID := newTaskStack(t)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Postaviti stolice", AssigneeID: &userID})
	require.NoError(t, err)
	_, err = tasks.Approve(tenantID, task.ID, "imam-id")
	require.NoError(t, err)

	_, err = tasks.Reject(tenantID, task.ID)
	assert.Error(t, err)
}

func TestSubmitClaimsUnassignedTask(t *testing.T) {
	tasks, _, _, tenantID, userID := newTaskStack(t)

	task, err := tasks.Create(tenantID, TaskInput{Title: "Pokositi travu"})
	require.NoError(t, err)

	submitted, err := tasks.Submit(tenantID, task.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, submitted.AssigneeID)
	assert.Equal(t, userID, *submitted.AssigneeID)
	assert.Equal(t, models.TaskSubmitted, submitted.Status)

	_, err = tasks.Submit(tenantID, task.ID, "someone-else")
	assert.Error(t, err, "claimed tasks cannot be submitted by others")
}

func TestJoinWorkGroupIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, points := newPointsStack(t, db)
	tasks := NewTaskService(db, zap.NewNop(), points)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	wg, err := tasks.CreateWorkGroup(tenant.ID, "Omladina", "")
	require.NoError(t, err)

	require.NoError(t, tasks.JoinWorkGroup(tenant.ID, wg.ID, user.ID))
	require.NoError(t, tasks.JoinWorkGroup(tenant.ID, wg.ID, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.WorkGroupMember{}).
		Where("tenant_id = ? AND work_group_id = ?", tenant.ID, wg.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
