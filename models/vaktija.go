package models

// Vaktija is one day's prayer-time schedule for a tenant. Times are kept
// as "HH:MM" strings, the format the published schedules use.
type Vaktija struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID string `gorm:"not null;uniqueIndex:idx_vaktija_tenant_date" json:"tenant_id"`
	// Date in YYYY-MM-DD.
	Date    string `gorm:"not null;uniqueIndex:idx_vaktija_tenant_date" json:"date"`
	Fajr    string `gorm:"not null" json:"fajr"`
	Sunrise string `gorm:"not null" json:"sunrise"`
	Dhuhr   string `gorm:"not null" json:"dhuhr"`
	Asr     string `gorm:"not null" json:"asr"`
	Maghrib string `gorm:"not null" json:"maghrib"`
	Isha    string `gorm:"not null" json:"isha"`

	Timestamps
}
