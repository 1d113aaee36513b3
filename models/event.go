package models

import "time"

// RSVP statuses
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPDeclined = "declined"
)

type Event struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string     `gorm:"index;not null" json:"tenant_id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"index" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `gorm:"index;not null" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	// Points awarded per member check-in. Zero means "use the tenant's
	// points_per_event setting".
	PointsValue int64  `gorm:"default:0" json:"points_value"`
	ImagePath   string `gorm:"type:text" json:"image_path"`
	CreatedByID string `json:"created_by_id"`

	Timestamps
}

type EventRSVP struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID string `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"tenant_id"`
	EventID  string `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"event_id"`
	UserID   string `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"user_id"`
	Status   string `gorm:"not null" json:"status"`

	Timestamps
}

// EventCheckIn records attendance once per user per event. Guests check in
// by name only: UserID stays nil and no points are awarded. The unique
// index enforces once-per-member even under concurrent scans; NULL UserID
// rows never conflict, so guests are unconstrained.
type EventCheckIn struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID      string    `gorm:"not null;uniqueIndex:idx_checkin_event_user" json:"tenant_id"`
	EventID       string    `gorm:"not null;index;uniqueIndex:idx_checkin_event_user" json:"event_id"`
	UserID        *string   `gorm:"uniqueIndex:idx_checkin_event_user" json:"user_id,omitempty"`
	GuestName     *string   `json:"guest_name,omitempty"`
	PointsAwarded int64     `gorm:"default:0" json:"points_awarded"`
	CheckedInAt   time.Time `json:"checked_in_at" gorm:"autoCreateTime"`
}
