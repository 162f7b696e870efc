package storage

import (
	"context"
	"net/url"
	"time"
)

// LocalStorage hands out unsigned URLs on a local base URL. It is used in
// development when no bucket is configured.
type LocalStorage struct {
	BaseURL string
	Expiry  time.Duration
}

// NewLocalStorage creates a LocalStorage
func NewLocalStorage(baseURL string, expiry time.Duration) *LocalStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}
	return &LocalStorage{BaseURL: baseURL, Expiry: expiry}
}

func (s *LocalStorage) PresignUpload(_ context.Context, key, contentType string) (*PresignedUpload, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	expiresAt := time.Now().Add(s.Expiry)
	q := url.Values{}
	q.Set("contentType", contentType)
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return &PresignedUpload{
		UploadURL: joinURL(s.BaseURL, "upload/"+key) + "?" + q.Encode(),
		PublicURL: joinURL(s.BaseURL, key),
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

var _ Uploader = (*LocalStorage)(nil)
