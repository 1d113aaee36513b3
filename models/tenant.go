package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant is a single džemat (community) sharing the schema with all others.
// Every tenant-owned table below carries TenantID; nothing crosses that line.
type Tenant struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Subdomain string         `gorm:"uniqueIndex;not null" json:"subdomain"`
	LogoPath  string         `gorm:"type:text" json:"logo_path"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
