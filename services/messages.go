package services

import (
	"time"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MessageService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewMessageService(db *gorm.DB, logger *zap.Logger) *MessageService {
	return &MessageService{DB: db, Logger: logger}
}

// Send delivers a direct message to another member of the same tenant.
func (s *MessageService) Send(tenantID, senderID, recipientID, body string) (*models.Message, error) {
	var count int64
	s.DB.Model(&models.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, recipientID).
		Count(&count)
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	msg := models.Message{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Inbox returns messages addressed to the user, newest first.
func (s *MessageService) Inbox(tenantID, userID string, limit int) ([]models.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var msgs []models.Message
	err := s.DB.Where("tenant_id = ? AND recipient_id = ?", tenantID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// Thread returns the two-way conversation between the user and a peer.
func (s *MessageService) Thread(tenantID, userID, peerID string, limit int) ([]models.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 100
	}
	var msgs []models.Message
	err := s.DB.Where("tenant_id = ?", tenantID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// MarkRead stamps every unread message from peer to user. One-way.
func (s *MessageService) MarkRead(tenantID, userID, peerID string) error {
	now := time.Now()
	return s.DB.Model(&models.Message{}).
		Where("tenant_id = ? AND recipient_id = ? AND sender_id = ? AND read_at IS NULL",
			tenantID, userID, peerID).
		Update("read_at", &now).Error
}
