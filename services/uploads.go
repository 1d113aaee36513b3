package services

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"dzemat-platform/utils"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload purposes and their fixed output dimensions. Every uploaded image
// is normalized to webp at exactly these sizes.
type uploadDims struct{ W, H int }

var purposeDims = map[string]uploadDims{
	"event":        {1200, 675},
	"announcement": {1200, 675},
	"shop":         {800, 800},
	"profile":      {400, 400},
	"logo":         {400, 400},
	"thumbnail":    {300, 169},
	"certificate":  {1200, 800},
}

type UploadService struct {
	Logger *zap.Logger
}

func NewUploadService(logger *zap.Logger) *UploadService {
	return &UploadService{Logger: logger}
}

// ValidPurpose reports whether the purpose has a configured size.
func ValidPurpose(purpose string) bool {
	_, ok := purposeDims[purpose]
	return ok
}

// Normalize decodes the uploaded image, center-crops it to the purpose's
// aspect ratio at the fixed dimensions, re-encodes as webp and stores it
// under the tenant's upload tree. Returns the public path.
func (s *UploadService) Normalize(fileHeader *multipart.FileHeader, tenantID, purpose string) (string, error) {
	dims, ok := purposeDims[purpose]
	if !ok {
		return "", fmt.Errorf("unknown upload purpose %q", purpose)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode upload: %w", err)
	}

	resized := imaging.Fill(img, dims.W, dims.H, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: 82}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	filename := uuid.NewString() + ".webp"
	destPath := utils.TenantUploadPath(tenantID, purpose, filename)
	if err := utils.WriteFile(destPath, buf.Bytes()); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	if utils.R2Enabled() {
		key := fmt.Sprintf("%s/%s/%s", tenantID, purpose, filename)
		if _, err := utils.UploadBytesToR2(key, "image/webp", buf.Bytes()); err != nil {
			s.Logger.Warn("upload R2 offload failed", zap.Error(err))
		}
	}

	return "/" + destPath, nil
}
