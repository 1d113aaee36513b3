package models

import "time"

// Activity types written into the log. The log is the source of truth for
// point totals: rows are only ever appended, corrections are compensating
// entries with negative points.
const (
	ActivityTaskApproved = "task_approved"
	ActivityEventCheckIn = "event_checkin"
	ActivityContribution = "contribution"
	ActivityManualBonus  = "manual_bonus"
	ActivityReversal     = "reversal"
)

// ActivityLog is one append-only ledger entry. No service exposes an
// update or delete on this table.
type ActivityLog struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID     string    `gorm:"index:idx_activity_tenant_user;not null" json:"tenant_id"`
	UserID       string    `gorm:"index:idx_activity_tenant_user;not null" json:"user_id"`
	ActivityType string    `gorm:"not null" json:"activity_type"`
	Points       int64     `gorm:"not null" json:"points"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
