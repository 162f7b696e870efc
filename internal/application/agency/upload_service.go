package agency

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// logoExtensions maps accepted image content types to file extensions
var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Logo kinds
const (
	LogoKindAgency     = "agency"
	LogoKindSubAccount = "subaccount"
)

// PresignLogoInput asks for an upload URL for a logo
type PresignLogoInput struct {
	Kind        string
	ContentType string
}

// UploadService hands out presigned logo uploads
type UploadService struct {
	uploader storage.Uploader
	logger   *zap.Logger
}

// NewUploadService creates an UploadService
func NewUploadService(uploader storage.Uploader, logger *zap.Logger) *UploadService {
	return &UploadService{uploader: uploader, logger: logger}
}

// PresignLogo returns a one-shot upload target under
// logos/<kind>/<user id>/<random><ext>
func (s *UploadService) PresignLogo(ctx context.Context, actorID uuid.UUID, in PresignLogoInput) (*storage.PresignedUpload, error) {
	if in.Kind != LogoKindAgency && in.Kind != LogoKindSubAccount {
		return nil, shared.NewDomainError("INVALID_INPUT", "kind must be agency or subaccount")
	}
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Logo must be a PNG, JPEG, GIF, WebP or SVG image")
	}

	key := path.Join("logos", in.Kind, actorID.String(), uuid.NewString()+ext)
	upload, err := s.uploader.PresignUpload(ctx, key, contentType)
	if err != nil {
		s.logger.Error("Failed to presign logo upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return upload, nil
}
