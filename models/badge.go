package models

import "time"

// Badge criteria. A badge is earned while the user's metric for its
// CriteriaType is >= CriteriaValue, and revoked once it falls below.
const (
	CriteriaPointsTotal    = "points_total"
	CriteriaTasksCompleted = "tasks_completed"
	CriteriaContributions  = "contributions_amount"
	CriteriaEventsAttended = "events_attended"
)

// NormalizeCriteriaType maps the legacy aliases the mobile client still
// sends onto the canonical criteria names. Unknown values pass through
// unchanged so validation can reject them.
func NormalizeCriteriaType(t string) string {
	switch t {
	case "points":
		return CriteriaPointsTotal
	case "donation_total":
		return CriteriaContributions
	default:
		return t
	}
}

// Badge is a per-tenant, admin-managed threshold rule.
type Badge struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID      string `gorm:"index;not null" json:"tenant_id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	Icon          string `json:"icon"`
	CriteriaType  string `gorm:"not null" json:"criteria_type"`
	CriteriaValue int64  `gorm:"not null" json:"criteria_value"`

	Timestamps
}

// UserBadge records that a user met a badge's criterion. Created and
// deleted only by the points engine, never by handlers directly.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID string    `gorm:"index:idx_user_badges_tenant_user;not null" json:"tenant_id"`
	UserID   string    `gorm:"index:idx_user_badges_tenant_user;not null" json:"user_id"`
	BadgeID  string    `gorm:"index;not null" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at" gorm:"autoCreateTime"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}
