package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"dzemat-platform/utils"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidPurpose(t *testing.T) {
	for _, p := range []string{"event", "announcement", "shop", "profile", "logo", "thumbnail", "certificate"} {
		assert.True(t, ValidPurpose(p), p)
	}
	assert.False(t, ValidPurpose("banner"))
	assert.False(t, ValidPurpose(""))
}

// uploadedPNG fakes a browser multipart upload of a generated image.
func uploadedPNG(t *testing.T, w, h int) *multipart.FileHeader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 0xff})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestNormalizeProducesWebpAtPurposeSize(t *testing.T) {
	prev := utils.UploadsRoot
	utils.UploadsRoot = t.TempDir()
	t.Cleanup(func() { utils.UploadsRoot = prev })

	svc := NewUploadService(zap.NewNop())
	path, err := svc.Normalize(uploadedPNG(t, 1600, 900), "tenant-1", "shop")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/"))
	assert.True(t, strings.HasSuffix(path, ".webp"))
	assert.Contains(t, path, filepath.Join("tenant-1", "shop"))

	out, err := imaging.Open(strings.TrimPrefix(path, "/"))
	require.NoError(t, err)
	assert.Equal(t, 800, out.Bounds().Dx())
	assert.Equal(t, 800, out.Bounds().Dy())
}

func TestNormalizeRejectsUnknownPurposeAndGarbage(t *testing.T) {
	prev := utils.UploadsRoot
	utils.UploadsRoot = t.TempDir()
	t.Cleanup(func() { utils.UploadsRoot = prev })

	svc := NewUploadService(zap.NewNop())

	_, err := svc.Normalize(uploadedPNG(t, 10, 10), "tenant-1", "banner")
	assert.Error(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "not-an-image.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	_, err = svc.Normalize(form.File["file"][0], "tenant-1", "profile")
	assert.ErrorContains(t, err, "decode upload")
}
