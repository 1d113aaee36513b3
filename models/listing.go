package models

// ListingStatus indicates the marketplace status of a listing
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingRemoved ListingStatus = "removed"
)

// Listing is a small-shop/marketplace entry owned by a member.
type Listing struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID    string        `gorm:"index;not null" json:"tenant_id"`
	SellerID    string        `gorm:"index;not null" json:"seller_id"`
	Title       string        `gorm:"not null" json:"title"`
	Slug        string        `gorm:"index" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	ImagePath   string        `gorm:"type:text" json:"image_path"`
	Status      ListingStatus `gorm:"not null;default:'active';index" json:"status"`

	Timestamps
}
