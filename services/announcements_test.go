package services

import (
	"testing"
	"time"

	"dzemat-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnnouncementStack(t *testing.T) (*AnnouncementService, string) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAnnouncementService(db, zap.NewNop(), nil)
	tenant := seedTenant(t, db, "sarajevo")
	return svc, tenant.ID
}

func TestCreateDraftByDefault(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	ann, err := svc.Create(tenantID, "imam-id", AnnouncementInput{Title: "Obavijest", Body: "..."})
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementDraft, ann.Status)
	assert.Nil(t, ann.PublishedAt)
}

func TestCreateScheduled(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	at := time.Now().Add(2 * time.Hour)
	ann, err := svc.Create(tenantID, "imam-id", AnnouncementInput{
		Title: "Ramazanski raspored", Body: "...", PublishAt: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementScheduled, ann.Status)
	require.NotNil(t, ann.PublishAt)
}

func TestCreatePublishImmediately(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	ann, err := svc.Create(tenantID, "imam-id", AnnouncementInput{
		Title: "Hitno", Body: "...", Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementPublished, ann.Status)
	require.NotNil(t, ann.PublishedAt)
}

func TestPublishIsIdempotent(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	ann, err := svc.Create(tenantID, "imam-id", AnnouncementInput{Title: "Obavijest", Body: "..."})
	require.NoError(t, err)

	published, err := svc.Publish(tenantID, ann.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublishedAt := *published.PublishedAt

	again, err := svc.Publish(tenantID, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, firstPublishedAt.Unix(), again.PublishedAt.Unix(),
		"re-publishing must not move the timestamp")
}

func TestPublishClearsSchedule(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	at := time.Now().Add(2 * time.Hour)
	ann, err := svc.Create(tenantID, "imam-id", AnnouncementInput{
		Title: "Ramazanski raspored", Body: "...", PublishAt: &at,
	})
	require.NoError(t, err)

	published, err := svc.Publish(tenantID, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementPublished, published.Status)
	assert.Nil(t, published.PublishAt, "publishing now cancels the schedule")
}

func TestMemberListSeesPublishedOnly(t *testing.T) {
	svc, tenantID := newAnnouncementStack(t)

	_, err := svc.Create(tenantID, "imam-id", AnnouncementInput{Title: "Nacrt", Body: "..."})
	require.NoError(t, err)
	_, err = svc.Create(tenantID, "imam-id", AnnouncementInput{Title: "Hitno", Body: "...", Publish: true})
	require.NoError(t, err)

	memberView, err := svc.List(tenantID, true)
	require.NoError(t, err)
	require.Len(t, memberView, 1)
	assert.Equal(t, "Hitno", memberView[0].Title)

	adminView, err := svc.List(tenantID, false)
	require.NoError(t, err)
	assert.Len(t, adminView, 2)
}
