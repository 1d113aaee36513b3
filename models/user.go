package models

// User is a member of exactly one tenant. Users are soft-deleted only:
// once they own activity history the row has to stay referencable.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID     string  `gorm:"not null;uniqueIndex:idx_users_tenant_email" json:"tenant_id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        string  `json:"phone,omitempty"`
	IsAdmin      bool    `gorm:"default:false" json:"is_admin"`
	PushToken    *string `json:"push_token,omitempty"`
	AvatarPath   string  `gorm:"type:text" json:"avatar_path,omitempty"`

	Timestamps
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
