package services

import (
	"errors"
	"strings"
	"time"

	"dzemat-platform/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Secret []byte
}

func NewAuthService(db *gorm.DB, logger *zap.Logger, secret []byte) *AuthService {
	return &AuthService{DB: db, Logger: logger, Secret: secret}
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// Register creates a member within the tenant. Emails are unique per
// tenant, not globally: the same person may belong to two džemats.
func (s *AuthService) Register(tenantID string, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	s.DB.Model(&models.User{}).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		Count(&count)
	if count > 0 {
		return nil, errors.New("email is already registered in this džemat")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	s.Logger.Info("👤 member registered",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", user.ID))
	return &user, nil
}

// Login verifies credentials and issues a tenant-bound token.
func (s *AuthService) Login(tenantID, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.DB.Where("tenant_id = ? AND email = ?", tenantID, email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"tenant_id": user.TenantID,
		"is_admin":  user.IsAdmin,
		"iat":       now.Unix(),
		"exp":       now.Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// GetUser loads a member, tenant-scoped.
func (s *AuthService) GetUser(tenantID, userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMembers returns the tenant roster.
func (s *AuthService) ListMembers(tenantID string) ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&users).Error
	return users, err
}

type ProfileUpdate struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	AvatarPath *string `json:"avatar_path"`
}

func (s *AuthService) UpdateProfile(tenantID, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(tenantID, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.AvatarPath != nil {
		user.AvatarPath = *in.AvatarPath
	}
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetPushToken registers (or clears) the member's Expo push token.
func (s *AuthService) SetPushToken(tenantID, userID string, token *string) error {
	user, err := s.GetUser(tenantID, userID)
	if err != nil {
		return err
	}
	user.PushToken = token
	return s.DB.Save(user).Error
}
