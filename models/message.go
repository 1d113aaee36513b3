package models

import "time"

// Message is a direct message between two members of the same tenant.
// ReadAt flips once, when the recipient opens the thread.
type Message struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string     `gorm:"index;not null" json:"tenant_id"`
	SenderID    string     `gorm:"index;not null" json:"sender_id"`
	RecipientID string     `gorm:"index;not null" json:"recipient_id"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}
