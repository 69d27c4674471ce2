// Package storage archives generated files in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/parcelco/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3Archive stores generated documents and exports in a bucket. It works
// with AWS S3 and compatible servers such as MinIO.
type S3Archive struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ArchiveOption is a functional option for configuring S3Archive
type S3ArchiveOption func(*S3Archive)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ArchiveOption {
	return func(s *S3Archive) {
		s.logger = logger
	}
}

// NewS3Archive creates an archive from configuration. Without static keys
// the default AWS credential chain is used.
func NewS3Archive(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	a := &S3Archive{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.presignExpiration <= 0 {
		a.presignExpiration = 15 * time.Minute
	}
	return a, nil
}

// normalizeEndpoint returns "" for AWS itself and a URL with scheme otherwise
func normalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive uploads body under key
func (s *S3Archive) Archive(ctx context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	s.logger.Debug("Archived object", zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

// DownloadURL returns a presigned GET URL for an archived object
func (s *S3Archive) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(s.presignExpiration), nil
}

// Bucket returns the bucket name
func (s *S3Archive) Bucket() string {
	return s.bucket
}
