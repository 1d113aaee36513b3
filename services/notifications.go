package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dzemat-platform/models"
	"dzemat-platform/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// PushService fans push notifications out to every member of a tenant
// who registered an Expo token. Delivery is best effort: recipients are
// walked sequentially and each failure is counted, never retried, and
// never aborts the batch.
type PushService struct {
	DB      *gorm.DB
	Logger  *zap.Logger
	Client  *http.Client
	PushURL string
}

func NewPushService(db *gorm.DB, logger *zap.Logger) *PushService {
	return &PushService{
		DB:      db,
		Logger:  logger,
		Client:  utils.HTTPClient,
		PushURL: defaultExpoPushURL,
	}
}

type expoPushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// NotifyTenant sends title/body to all members with a push token and
// returns how many deliveries succeeded and failed.
func (s *PushService) NotifyTenant(ctx context.Context, tenantID, title, body string, data map[string]interface{}) (sent, failed int, err error) {
	var users []models.User
	if err := s.DB.Where("tenant_id = ? AND push_token IS NOT NULL", tenantID).Find(&users).Error; err != nil {
		return 0, 0, err
	}

	for _, u := range users {
		if u.PushToken == nil || *u.PushToken == "" {
			continue
		}
		if err := s.send(ctx, *u.PushToken, title, body, data); err != nil {
			failed++
			s.Logger.Warn("push delivery failed",
				zap.String("tenant_id", tenantID),
				zap.String("user_id", u.ID),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.Logger.Info("📣 push batch done",
		zap.String("tenant_id", tenantID),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	return sent, failed, nil
}

func (s *PushService) send(ctx context.Context, token, title, body string, data map[string]interface{}) error {
	payload, err := json.Marshal(expoPushMessage{To: token, Title: title, Body: body, Data: data})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.PushURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("expo push returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
