package services

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"dzemat-platform/utils"

	"github.com/cenkalti/backoff/v4"
	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"
)

// Mailer sends transactional mail (invites, certificate notices). The
// Resend HTTP API is preferred when RESEND_API_KEY is set; otherwise it
// falls back to plain SMTP. Transient failures are retried with
// exponential backoff before giving up.
type Mailer struct {
	Logger    *zap.Logger
	FromEmail string

	resendAPIKey string
	resendURL    string

	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
}

func NewMailer(logger *zap.Logger) *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &Mailer{
		Logger:       logger,
		FromEmail:    os.Getenv("MAIL_FROM"),
		resendAPIKey: os.Getenv("RESEND_API_KEY"),
		resendURL:    "https://api.resend.com/emails",
		smtpHost:     os.Getenv("SMTP_HOST"),
		smtpPort:     port,
		smtpUser:     os.Getenv("SMTP_USER"),
		smtpPass:     os.Getenv("SMTP_PASS"),
	}
}

// Send delivers one HTML email, retrying transient failures.
func (m *Mailer) Send(to, subject, html string) error {
	if m.FromEmail == "" {
		return fmt.Errorf("mailer not configured (MAIL_FROM)")
	}

	op := func() error {
		if m.resendAPIKey != "" {
			return m.sendViaResend(to, subject, html)
		}
		return m.sendViaSMTP(to, subject, html)
	}

	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		m.Logger.Error("mail delivery failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) sendViaResend(to, subject, html string) error {
	body, err := json.Marshal(resendRequest{
		From:    m.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequest(http.MethodPost, m.resendURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.resendAPIKey)

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("resend API rejected message: status %d", resp.StatusCode))
	}
}

func (m *Mailer) sendViaSMTP(to, subject, html string) error {
	if m.smtpHost == "" {
		return backoff.Permanent(fmt.Errorf("smtp not configured (SMTP_HOST)"))
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.FromEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.smtpHost, m.smtpPort, m.smtpUser, m.smtpPass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{ServerName: m.smtpHost}

	return d.DialAndSend(msg)
}
