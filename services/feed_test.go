package services

import (
	"context"
	"testing"
	"time"

	"dzemat-platform/cache"
	"dzemat-platform/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestInitials(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"two names", "Amir Hodžić", "A. H."},
		{"single name", "Amir", "A."},
		{"three names keeps first and last", "Amir ef. Hodžić", "A. H."},
		{"non-latin script", "Žana Đurić", "Ž. Đ."},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Initials(tc.in))
		})
	}
}

func TestDisplayMetaCoversAllTypes(t *testing.T) {
	types := []FeedItemType{
		FeedNewMember, FeedBadgeAwarded, FeedCertificateIssued,
		FeedAnnouncement, FeedEvent, FeedShopListing, FeedTaskCompleted,
	}
	seen := map[string]bool{}
	for _, ft := range types {
		icon, color := DisplayMeta(ft)
		assert.NotEmpty(t, icon)
		assert.NotEmpty(t, color)
		assert.False(t, seen[icon], "icon reused for %s", ft)
		seen[icon] = true
	}
}

func TestIsClickable(t *testing.T) {
	assert.False(t, IsClickable(FeedNewMember))
	assert.False(t, IsClickable(FeedBadgeAwarded))
	assert.True(t, IsClickable(FeedAnnouncement))
	assert.True(t, IsClickable(FeedEvent))
	assert.True(t, IsClickable(FeedShopListing))
}

func seedFeedFixtures(t *testing.T, db *gorm.DB, tenantID string, base time.Time) {
	t.Helper()
	published := base.Add(-1 * time.Hour)
	require.NoError(t, db.Create(&models.Announcement{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Title:       "Ramazanski raspored",
		Body:        "Teravija počinje u 21:30",
		Status:      models.AnnouncementPublished,
		PublishedAt: &published,
		Timestamps:  models.Timestamps{CreatedAt: published},
	}).Error)

	require.NoError(t, db.Create(&models.Event{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Title:      "Iftar",
		StartsAt:   base.Add(24 * time.Hour),
		Timestamps: models.Timestamps{CreatedAt: base.Add(-2 * time.Hour)},
	}).Error)

	require.NoError(t, db.Create(&models.Listing{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		SellerID:   uuid.NewString(),
		Title:      "Polovni bicikl",
		Price:      80,
		Status:     models.ListingActive,
		Timestamps: models.Timestamps{CreatedAt: base.Add(-30 * time.Minute)},
	}).Error)
}

func TestAggregateMergesAndSortsSources(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, cache.NewMemory(), zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")
	base := time.Now()
	seedFeedFixtures(t, db, tenant.ID, base)

	items, err := feed.Aggregate(context.Background(), tenant.ID, 50)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i-1].CreatedAt.Before(items[i].CreatedAt),
			"feed must be reverse-chronological")
	}
	assert.Equal(t, FeedShopListing, items[0].Type)
	assert.Equal(t, FeedAnnouncement, items[1].Type)
	assert.Equal(t, FeedEvent, items[2].Type)
}

func TestAggregateSkipsDraftsAndRemovedListings(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, cache.NewMemory(), zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")

	require.NoError(t, db.Create(&models.Announcement{
		ID:       uuid.NewString(),
		TenantID: tenant.ID,
		Title:    "Nacrt",
		Status:   models.AnnouncementDraft,
	}).Error)
	require.NoError(t, db.Create(&models.Listing{
		ID:       uuid.NewString(),
		TenantID: tenant.ID,
		SellerID: uuid.NewString(),
		Title:    "Prodano",
		Status:   models.ListingSold,
	}).Error)

	items, err := feed.Aggregate(context.Background(), tenant.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAggregateIsTenantScoped(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, cache.NewMemory(), zap.NewNop())
	tenantA := seedTenant(t, db, "sarajevo")
	tenantB := seedTenant(t, db, "zenica")
	seedFeedFixtures(t, db, tenantB.ID, time.Now())

	items, err := feed.Aggregate(context.Background(), tenantA.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAggregateServesCachedProjection(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, cache.NewMemory(), zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")
	seedFeedFixtures(t, db, tenant.ID, time.Now())

	first, err := feed.Aggregate(context.Background(), tenant.ID, 50)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// A write inside the TTL window is invisible until the cache expires.
	require.NoError(t, db.Create(&models.Event{
		ID:       uuid.NewString(),
		TenantID: tenant.ID,
		Title:    "Naknadni događaj",
		StartsAt: time.Now().Add(time.Hour),
	}).Error)

	second, err := feed.Aggregate(context.Background(), tenant.ID, 50)
	require.NoError(t, err)
	assert.Len(t, second, 3)
}

func TestAggregateHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, cache.NewMemory(), zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")
	seedFeedFixtures(t, db, tenant.ID, time.Now())

	items, err := feed.Aggregate(context.Background(), tenant.ID, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
