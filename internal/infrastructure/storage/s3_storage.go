package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lumio/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3Storage presigns uploads against S3 or an S3-compatible endpoint
type S3Storage struct {
	presign       *s3.PresignClient
	bucket        string
	publicBaseURL string
	expiry        time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// S3Option configures S3Storage
type S3Option func(*S3Storage)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3Storage) { s.logger = logger }
}

// WithPresignExpiry overrides the configured expiry
func WithPresignExpiry(d time.Duration) S3Option {
	return func(s *S3Storage) { s.expiry = d }
}

// NewS3Storage builds the S3 client from configuration. Static credentials
// are used when configured, otherwise the default AWS chain.
func NewS3Storage(ctx context.Context, cfg *config.StorageConfig, opts ...S3Option) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	s := &S3Storage{
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
		expiry:        cfg.PresignExpiry,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.expiry <= 0 {
		s.expiry = 15 * time.Minute
	}
	if s.publicBaseURL == "" {
		s.publicBaseURL = defaultPublicBaseURL(cfg)
	}
	return s, nil
}

func defaultPublicBaseURL(cfg *config.StorageConfig) string {
	if cfg.Endpoint != "" {
		return joinURL(cfg.Endpoint, cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// PresignUpload returns a presigned PUT URL for key
func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	s.logger.Debug("Presigned logo upload", zap.String("bucket", s.bucket), zap.String("key", key))

	return &PresignedUpload{
		UploadURL: req.URL,
		PublicURL: joinURL(s.publicBaseURL, key),
		Key:       key,
		ExpiresAt: s.now().Add(s.expiry),
	}, nil
}

// Bucket returns the bucket name
func (s *S3Storage) Bucket() string {
	return s.bucket
}

var _ Uploader = (*S3Storage)(nil)
