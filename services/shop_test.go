package services

import (
	"testing"

	"dzemat-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListingLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewShopService(db, zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")
	seller := seedUser(t, db, tenant.ID, "amir@example.com")

	listing, err := svc.Create(tenant.ID, seller.ID, ListingInput{
		Title: "Polovni bicikl", Price: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingActive, listing.Status)
	assert.Equal(t, "polovni-bicikl", listing.Slug)

	sold, err := svc.UpdateStatus(tenant.ID, listing.ID, seller.ID, false, models.ListingSold)
	require.NoError(t, err)
	assert.Equal(t, models.ListingSold, sold.Status)

	active, err := svc.List(tenant.ID, models.ListingActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdateStatusSellerOrAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewShopService(db, zap.NewNop())
	tenant := seedTenant(t, db, "sarajevo")
	seller := seedUser(t, db, tenant.ID, "amir@example.com")
	other := seedUser(t, db, tenant.ID, "mina@example.com")

	listing, err := svc.Create(tenant.ID, seller.ID, ListingInput{Title: "Ćilim", Price: 120})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(tenant.ID, listing.ID, other.ID, false, models.ListingRemoved)
	assert.ErrorIs(t, err, ErrNotSeller)

	removed, err := svc.UpdateStatus(tenant.ID, listing.ID, other.ID, true, models.ListingRemoved)
	require.NoError(t, err)
	assert.Equal(t, models.ListingRemoved, removed.Status)

	_, err = svc.UpdateStatus(tenant.ID, listing.ID, seller.ID, false, "archived")
	assert.Error(t, err)
}
