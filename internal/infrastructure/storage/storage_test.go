package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:        "lumio-logos",
		Region:        "us-east-1",
		Endpoint:      "http://localhost:9000",
		UsePathStyle:  true,
		AccessKey:     "test-key",
		SecretKey:     "test-secret",
		PresignExpiry: 10 * time.Minute,
	}
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{Region: "us-east-1"}, "bucket is required"},
		{"half credentials", &config.StorageConfig{Bucket: "b", Region: "us-east-1", AccessKey: "k"}, "must be set together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Storage(ctx, tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestS3Storage_PresignUpload(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testConfig(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "lumio-logos", s.Bucket())

	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	up, err := s.PresignUpload(context.Background(), "logos/agency/a.png", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/lumio-logos/logos/agency/a.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.True(t, strings.Contains(u.Query().Get("X-Amz-Credential"), "test-key"))

	assert.Equal(t, "http://localhost:9000/lumio-logos/logos/agency/a.png", up.PublicURL)
	assert.Equal(t, fixed.Add(10*time.Minute), up.ExpiresAt)

	_, err = s.PresignUpload(context.Background(), "", "image/png")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestS3Storage_Options(t *testing.T) {
	cfg := testConfig()
	cfg.PresignExpiry = 0
	cfg.PublicBaseURL = "https://cdn.lumio.io/"

	s, err := NewS3Storage(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.expiry)

	s, err = NewS3Storage(context.Background(), cfg, WithPresignExpiry(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.expiry)

	up, err := s.PresignUpload(context.Background(), "logos/x.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.lumio.io/logos/x.png", up.PublicURL)
}

func TestDefaultPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com",
		defaultPublicBaseURL(&config.StorageConfig{Bucket: "b", Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/b",
		defaultPublicBaseURL(&config.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000/"}))
}

func TestLocalStorage_PresignUpload(t *testing.T) {
	s := NewLocalStorage("", 5*time.Minute)

	up, err := s.PresignUpload(context.Background(), "logos/a.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.UploadURL, "http://localhost:8080/static/upload/logos/a.png?"))
	assert.Contains(t, up.UploadURL, "contentType=image%2Fpng")
	assert.Equal(t, "http://localhost:8080/static/logos/a.png", up.PublicURL)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), up.ExpiresAt, time.Second)

	_, err = s.PresignUpload(context.Background(), "", "image/png")
	assert.ErrorIs(t, err, ErrEmptyKey)
}
