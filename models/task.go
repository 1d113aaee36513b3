package models

import "time"

// Task statuses. Approval is the only point-earning transition.
const (
	TaskOpen      = "open"
	TaskSubmitted = "submitted"
	TaskApproved  = "approved"
	TaskRejected  = "rejected"
)

// WorkGroup is a named crew within a tenant (maintenance, kitchen, youth…).
type WorkGroup struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string `gorm:"index;not null" json:"tenant_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Timestamps
}

type WorkGroupMember struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string    `gorm:"not null;uniqueIndex:idx_wg_members" json:"tenant_id"`
	WorkGroupID string    `gorm:"not null;uniqueIndex:idx_wg_members" json:"work_group_id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_wg_members" json:"user_id"`
	JoinedAt    time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

type Task struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string  `gorm:"index;not null" json:"tenant_id"`
	WorkGroupID *string `gorm:"index" json:"work_group_id,omitempty"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	// Points for completing this task. Zero means "use points_per_task".
	PointsValue  int64      `gorm:"default:0" json:"points_value"`
	Status       string     `gorm:"default:'open';index" json:"status"`
	AssigneeID   *string    `gorm:"index" json:"assignee_id,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	ApprovedByID *string    `json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	Timestamps
}
