package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"dzemat-platform/models"
	"dzemat-platform/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

// ErrNotViewable is returned when someone other than the recipient tries
// to flip the viewed flag.
var ErrNotViewable = errors.New("certificate belongs to another member")

type CertificateService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Mailer *Mailer
}

func NewCertificateService(db *gorm.DB, logger *zap.Logger, mailer *Mailer) *CertificateService {
	return &CertificateService{DB: db, Logger: logger, Mailer: mailer}
}

// TextOptions positions the recipient name on the template.
type TextOptions struct {
	X         int
	Y         int
	FontSize  int
	Color     string
	Alignment string
}

// ComposeCertificate renders the recipient name onto the template image:
// the template is decoded for its dimensions, the name is rasterized onto
// a same-sized transparent layer at the configured position/alignment,
// and the layer is composited over the template at the origin. Output is
// lossless PNG and byte-for-byte deterministic for identical inputs.
// A missing template or font fails the whole operation; a certificate
// without its recipient's name is worse than no certificate.
func (s *CertificateService) ComposeCertificate(templatePath, fontPath, recipientName string, opts TextOptions) ([]byte, error) {
	tplFile, err := os.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer tplFile.Close()

	template, _, err := image.Decode(tplFile)
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	bounds := template.Bounds()

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("open font: %w", err)
	}
	parsedFont, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	size := opts.FontSize
	if size <= 0 {
		size = 48
	}
	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	defer face.Close()

	textColor, err := parseHexColor(opts.Color)
	if err != nil {
		return nil, err
	}

	textLayer := image.NewRGBA(bounds)
	drawer := &font.Drawer{
		Dst:  textLayer,
		Src:  image.NewUniform(textColor),
		Face: face,
	}
	advance := drawer.MeasureString(recipientName)
	drawer.Dot = fixed.Point26_6{
		X: anchorX(opts.Alignment, fixed.I(opts.X), advance),
		Y: fixed.I(opts.Y),
	}
	drawer.DrawString(recipientName)

	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, template, bounds.Min, draw.Src)
	draw.Draw(out, bounds, textLayer, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// anchorX maps the template's horizontal alignment onto the drawer's
// start position: left anchors the string's start at x, center its
// midpoint, right its end.
func anchorX(alignment string, x, advance fixed.Int26_6) fixed.Int26_6 {
	switch alignment {
	case models.AlignCenter:
		return x - advance/2
	case models.AlignRight:
		return x - advance
	default:
		return x
	}
}

// parseHexColor parses "#rrggbb" (empty means black).
func parseHexColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{A: 0xff}, nil
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// --- Templates ---

type TemplateInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	ImagePath string `json:"image_path" validate:"required"`
	FontPath  string `json:"font_path" validate:"required"`
	TextX     int    `json:"text_x" validate:"min=0"`
	TextY     int    `json:"text_y" validate:"min=0"`
	FontSize  int    `json:"font_size" validate:"min=8,max=400"`
	Color     string `json:"color" validate:"max=7"`
	Alignment string `json:"alignment" validate:"omitempty,oneof=left center right"`
}

func (s *CertificateService) CreateTemplate(tenantID string, in TemplateInput) (*models.CertificateTemplate, error) {
	alignment := in.Alignment
	if alignment == "" {
		alignment = models.AlignCenter
	}
	tpl := models.CertificateTemplate{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      in.Name,
		ImagePath: in.ImagePath,
		FontPath:  in.FontPath,
		TextX:     in.TextX,
		TextY:     in.TextY,
		FontSize:  in.FontSize,
		Color:     in.Color,
		Alignment: alignment,
	}
	if err := s.DB.Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *CertificateService) ListTemplates(tenantID string) ([]models.CertificateTemplate, error) {
	var templates []models.CertificateTemplate
	err := s.DB.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&templates).Error
	return templates, err
}

func (s *CertificateService) UpdateTemplate(tenantID, templateID string, in TemplateInput) (*models.CertificateTemplate, error) {
	var tpl models.CertificateTemplate
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, templateID).First(&tpl).Error; err != nil {
		return nil, err
	}
	tpl.Name = in.Name
	tpl.ImagePath = in.ImagePath
	tpl.FontPath = in.FontPath
	tpl.TextX = in.TextX
	tpl.TextY = in.TextY
	tpl.FontSize = in.FontSize
	tpl.Color = in.Color
	if in.Alignment != "" {
		tpl.Alignment = in.Alignment
	}
	if err := s.DB.Save(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// DeleteTemplate removes a template. Certificates already issued from it
// keep their rendered artifacts.
func (s *CertificateService) DeleteTemplate(tenantID, templateID string) error {
	res := s.DB.Where("tenant_id = ? AND id = ?", tenantID, templateID).Delete(&models.CertificateTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Issuing ---

type IssueInput struct {
	TemplateID    string `json:"template_id" validate:"required,uuid"`
	UserID        string `json:"user_id" validate:"required,uuid"`
	RecipientName string `json:"recipient_name" validate:"max=200"`
	Message       string `json:"message" validate:"max=1000"`
}

// Issue composes the artifact, persists it under the tenant's upload
// tree and records the certificate. The recipient name defaults to the
// member's full name.
func (s *CertificateService) Issue(tenantID, issuedByID string, in IssueInput) (*models.UserCertificate, error) {
	var tpl models.CertificateTemplate
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, in.TemplateID).First(&tpl).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, in.UserID).First(&user).Error; err != nil {
		return nil, err
	}

	recipientName := in.RecipientName
	if recipientName == "" {
		recipientName = user.FullName()
	}

	artifact, err := s.ComposeCertificate(tpl.ImagePath, tpl.FontPath, recipientName, TextOptions{
		X:         tpl.TextX,
		Y:         tpl.TextY,
		FontSize:  tpl.FontSize,
		Color:     tpl.Color,
		Alignment: tpl.Alignment,
	})
	if err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ".png"
	destPath := utils.TenantUploadPath(tenantID, "certificates", "generated", filename)
	if err := utils.WriteFile(destPath, artifact); err != nil {
		return nil, fmt.Errorf("save certificate: %w", err)
	}

	if utils.R2Enabled() {
		key := fmt.Sprintf("%s/certificates/generated/%s", tenantID, filename)
		if _, err := utils.UploadBytesToR2(key, "image/png", artifact); err != nil {
			s.Logger.Warn("certificate R2 offload failed", zap.Error(err))
		}
	}

	cert := models.UserCertificate{
		ID:                   uuid.NewString(),
		TenantID:             tenantID,
		UserID:               in.UserID,
		TemplateID:           tpl.ID,
		RecipientName:        recipientName,
		CertificateImagePath: "/" + destPath,
		Message:              in.Message,
		IssuedByID:           issuedByID,
	}
	if err := s.DB.Create(&cert).Error; err != nil {
		// Nothing references the artifact without its row.
		if rmErr := os.Remove(destPath); rmErr != nil {
			s.Logger.Warn("failed to remove orphaned certificate artifact",
				zap.String("path", destPath),
				zap.Error(rmErr))
		}
		return nil, err
	}

	s.Logger.Info("🎓 certificate issued",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", in.UserID),
		zap.String("recipient", recipientName))

	if s.Mailer != nil && user.Email != "" {
		// Mail is best effort and retried with backoff, so it runs off
		// the request path.
		go func(to, name string) {
			body := fmt.Sprintf("<p>Selam %s,</p><p>A new certificate has been issued to you. Open the app to view it.</p>", name)
			if err := s.Mailer.Send(to, "You received a certificate", body); err != nil {
				s.Logger.Warn("certificate mail notice failed", zap.Error(err))
			}
		}(user.Email, recipientName)
	}
	return &cert, nil
}

func (s *CertificateService) ListForUser(tenantID, userID string) ([]models.UserCertificate, error) {
	var certs []models.UserCertificate
	err := s.DB.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// MarkViewed flips the viewed flag, once, for the recipient only.
func (s *CertificateService) MarkViewed(tenantID, certID, userID string) (*models.UserCertificate, error) {
	var cert models.UserCertificate
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, certID).First(&cert).Error; err != nil {
		return nil, err
	}
	if cert.UserID != userID {
		return nil, ErrNotViewable
	}
	if cert.Viewed {
		return &cert, nil
	}
	cert.Viewed = true
	if err := s.DB.Save(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}
