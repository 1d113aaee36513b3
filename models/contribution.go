package models

import "time"

// Contribution is a dues/donation record in CHF. Negative amounts are
// reversals of earlier records; the running total is always the sum.
type Contribution struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID      string    `gorm:"index:idx_contrib_tenant_user;not null" json:"tenant_id"`
	UserID        string    `gorm:"index:idx_contrib_tenant_user;not null" json:"user_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Purpose       string    `json:"purpose"`
	Note          string    `gorm:"type:text" json:"note"`
	RecordedByID  string    `gorm:"not null" json:"recorded_by_id"`
	ContributedAt time.Time `json:"contributed_at" gorm:"autoCreateTime"`
}
