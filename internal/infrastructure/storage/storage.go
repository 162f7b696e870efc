// Package storage issues presigned upload URLs for agency and sub-account
// logos.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyKey is returned when an object key is missing
var ErrEmptyKey = errors.New("storage key is required")

// PresignedUpload is a one-shot PUT target plus the URL the object will be
// served from once uploaded
type PresignedUpload struct {
	UploadURL string
	PublicURL string
	Key       string
	ExpiresAt time.Time
}

// Uploader issues presigned uploads
type Uploader interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
