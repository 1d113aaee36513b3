package services

import (
	"errors"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotSeller is returned when someone other than the seller (or an
// admin) tries to mutate a listing.
var ErrNotSeller = errors.New("listing belongs to another member")

type ShopService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewShopService(db *gorm.DB, logger *zap.Logger) *ShopService {
	return &ShopService{DB: db, Logger: logger}
}

type ListingInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"min=0"`
	ImagePath   string  `json:"image_path"`
}

func (s *ShopService) Create(tenantID, sellerID string, in ListingInput) (*models.Listing, error) {
	listing := models.Listing{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		SellerID:    sellerID,
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Price:       in.Price,
		ImagePath:   in.ImagePath,
		Status:      models.ListingActive,
	}
	if err := s.DB.Create(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *ShopService) List(tenantID string, status models.ListingStatus) ([]models.Listing, error) {
	q := s.DB.Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var listings []models.Listing
	err := q.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *ShopService) Get(tenantID, listingID string) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, listingID).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateStatus moves a listing through its lifecycle. Seller or admin only.
func (s *ShopService) UpdateStatus(tenantID, listingID, actorID string, actorIsAdmin bool, status models.ListingStatus) (*models.Listing, error) {
	switch status {
	case models.ListingActive, models.ListingSold, models.ListingRemoved:
	default:
		return nil, errors.New("invalid listing status")
	}

	listing, err := s.Get(tenantID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actorID && !actorIsAdmin {
		return nil, ErrNotSeller
	}

	listing.Status = status
	if err := s.DB.Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}
