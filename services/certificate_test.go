package services

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"dzemat-platform/models"
	"dzemat-platform/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

func TestAnchorX(t *testing.T) {
	x := fixed.I(600)
	advance := fixed.I(200)

	assert.Equal(t, fixed.I(600), anchorX(models.AlignLeft, x, advance))
	assert.Equal(t, fixed.I(500), anchorX(models.AlignCenter, x, advance))
	assert.Equal(t, fixed.I(400), anchorX(models.AlignRight, x, advance))
	assert.Equal(t, fixed.I(600), anchorX("", x, advance), "unknown alignment anchors left")
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}, c)

	c, err = parseHexColor("")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0xff}, c, "empty color defaults to black")

	_, err = parseHexColor("gold")
	assert.Error(t, err)
}

// writeTestTemplate renders a plain white background to disk.
func writeTestTemplate(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, "template.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeTestFont(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "font.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	return path
}

func TestComposeCertificateIsDeterministic(t *testing.T) {
	svc := NewCertificateService(nil, zap.NewNop(), nil)
	dir := t.TempDir()
	template := writeTestTemplate(t, dir)
	fontPath := writeTestFont(t, dir)

	opts := TextOptions{X: 300, Y: 200, FontSize: 36, Color: "#1a2b3c", Alignment: models.AlignCenter}

	first, err := svc.ComposeCertificate(template, fontPath, "Amir Hodžić", opts)
	require.NoError(t, err)
	second, err := svc.ComposeCertificate(template, fontPath, "Amir Hodžić", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same inputs must produce identical bytes")
}

func TestComposeCertificateRendersName(t *testing.T) {
	svc := NewCertificateService(nil, zap.NewNop(), nil)
	dir := t.TempDir()
	template := writeTestTemplate(t, dir)
	fontPath := writeTestFont(t, dir)

	opts := TextOptions{X: 300, Y: 200, FontSize: 36, Color: "#000000", Alignment: models.AlignCenter}
	out, err := svc.ComposeCertificate(template, fontPath, "O'Brien & Co.", opts)
	require.NoError(t, err)

	blank, err := svc.ComposeCertificate(template, fontPath, "", opts)
	require.NoError(t, err)
	assert.NotEqual(t, blank, out, "drawn text must change the pixels")
}

func TestComposeCertificateAlignmentMoves(t *testing.T) {
	svc := NewCertificateService(nil, zap.NewNop(), nil)
	dir := t.TempDir()
	template := writeTestTemplate(t, dir)
	fontPath := writeTestFont(t, dir)

	left, err := svc.ComposeCertificate(template, fontPath, "Amir",
		TextOptions{X: 300, Y: 200, FontSize: 36, Alignment: models.AlignLeft})
	require.NoError(t, err)
	right, err := svc.ComposeCertificate(template, fontPath, "Amir",
		TextOptions{X: 300, Y: 200, FontSize: 36, Alignment: models.AlignRight})
	require.NoError(t, err)
	assert.NotEqual(t, left, right)
}

func TestComposeCertificateMissingInputs(t *testing.T) {
	svc := NewCertificateService(nil, zap.NewNop(), nil)
	dir := t.TempDir()
	template := writeTestTemplate(t, dir)
	fontPath := writeTestFont(t, dir)

	_, err := svc.ComposeCertificate(filepath.Join(dir, "nope.png"), fontPath, "Amir", TextOptions{})
	assert.ErrorContains(t, err, "open template")

	_, err = svc.ComposeCertificate(template, filepath.Join(dir, "nope.ttf"), "Amir", TextOptions{})
	assert.ErrorContains(t, err, "open font")

	_, err = svc.ComposeCertificate(template, fontPath, "Amir", TextOptions{Color: "gold"})
	assert.Error(t, err)
}

func TestIssueUnknownTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db, zap.NewNop(), nil)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	_, err := svc.Issue(tenant.ID, "imam-id", IssueInput{
		TemplateID: uuid.NewString(),
		UserID:     user.ID,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIssueRemovesArtifactWhenInsertFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db, zap.NewNop(), nil)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")

	dir := t.TempDir()
	prev := utils.UploadsRoot
	utils.UploadsRoot = filepath.Join(dir, "uploads")
	t.Cleanup(func() { utils.UploadsRoot = prev })

	tpl, err := svc.CreateTemplate(tenant.ID, TemplateInput{
		Name:      "Zahvalnica",
		ImagePath: writeTestTemplate(t, dir),
		FontPath:  writeTestFont(t, dir),
		TextX:     300,
		TextY:     200,
		FontSize:  36,
	})
	require.NoError(t, err)

	// Composition and the disk write succeed; only the row insert fails.
	require.NoError(t, db.Migrator().DropTable(&models.UserCertificate{}))

	_, err = svc.Issue(tenant.ID, "imam-id", IssueInput{TemplateID: tpl.ID, UserID: user.ID})
	require.Error(t, err)

	generated := filepath.Join(utils.UploadsRoot, tenant.ID, "certificates", "generated")
	entries, readErr := os.ReadDir(generated)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed issue must not leave an artifact behind")
}

func TestMarkViewedIsOwnerOnlyAndOneWay(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db, zap.NewNop(), nil)
	tenant := seedTenant(t, db, "sarajevo")
	user := seedUser(t, db, tenant.ID, "amir@example.com")
	other := seedUser(t, db, tenant.ID, "mina@example.com")

	cert := models.UserCertificate{
		ID:                   uuid.NewString(),
		TenantID:             tenant.ID,
		UserID:               user.ID,
		TemplateID:           uuid.NewString(),
		RecipientName:        "Amir Hodžić",
		CertificateImagePath: "/uploads/x.png",
		IssuedByID:           "imam-id",
	}
	require.NoError(t, db.Create(&cert).Error)

	_, err := svc.MarkViewed(tenant.ID, cert.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotViewable)

	viewed, err := svc.MarkViewed(tenant.ID, cert.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, viewed.Viewed)

	again, err := svc.MarkViewed(tenant.ID, cert.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, again.Viewed)
}
