package models

// PointSettings holds the per-tenant conversion rates from activity to
// points. One row per tenant, created lazily with defaults.
type PointSettings struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID       string `gorm:"uniqueIndex;not null" json:"tenant_id"`
	PointsPerChf   int64  `gorm:"default:1" json:"pointsPerChf"`
	PointsPerTask  int64  `gorm:"default:20" json:"pointsPerTask"`
	PointsPerEvent int64  `gorm:"default:10" json:"pointsPerEvent"`

	Timestamps
}
