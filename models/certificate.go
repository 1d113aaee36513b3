package models

import "time"

// Text alignment options for certificate templates.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// CertificateTemplate is the admin-configured background plus text layout
// used by the compositor. FontPath points at a TTF on disk; a missing font
// or image fails the issuing request outright.
type CertificateTemplate struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID  string `gorm:"index;not null" json:"tenant_id"`
	Name      string `gorm:"not null" json:"name"`
	ImagePath string `gorm:"type:text;not null" json:"image_path"`
	FontPath  string `gorm:"type:text;not null" json:"font_path"`
	TextX     int    `gorm:"not null" json:"text_x"`
	TextY     int    `gorm:"not null" json:"text_y"`
	FontSize  int    `gorm:"default:48" json:"font_size"`
	Color     string `gorm:"default:'#000000'" json:"color"`
	Alignment string `gorm:"default:'center'" json:"alignment"`

	Timestamps
}

// UserCertificate is an issued certificate artifact. Viewed flips true on
// first client view and never back.
type UserCertificate struct {
	ID                   string    `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID             string    `gorm:"index:idx_certs_tenant_user;not null" json:"tenant_id"`
	UserID               string    `gorm:"index:idx_certs_tenant_user;not null" json:"user_id"`
	TemplateID           string    `gorm:"index;not null" json:"template_id"`
	RecipientName        string    `gorm:"not null" json:"recipient_name"`
	CertificateImagePath string    `gorm:"type:text;not null" json:"certificate_image_path"`
	Message              string    `gorm:"type:text" json:"message"`
	IssuedByID           string    `gorm:"not null" json:"issued_by_id"`
	IssuedAt             time.Time `json:"issued_at" gorm:"autoCreateTime"`
	Viewed               bool      `gorm:"default:false;index" json:"viewed"`
}
