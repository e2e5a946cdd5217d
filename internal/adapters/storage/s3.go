// internal/adapters/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// S3Storage archives report files in an S3 bucket
type S3Storage struct {
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
	bucket   string
	region   string
	logger   *slog.Logger
}

var _ ports.FileStorage = (*S3Storage)(nil)

// S3Config holds S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // MinIO/LocalStack
	UsePathStyle    bool
}

// NewS3Storage creates a new S3 storage client and makes sure the bucket exists
func NewS3Storage(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*S3Storage, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	storage := &S3Storage{
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		logger:   logger.With(slog.String("storage", "s3")),
	}

	if err := storage.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	logger.Info("S3 storage initialized",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region))

	return storage, nil
}

func buildAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		)
	}
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	// us-east-1 rejects an explicit location constraint
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, createErr := s.client.CreateBucket(ctx, input); createErr != nil {
		return fmt.Errorf("bucket %s does not exist and could not be created: %w", s.bucket, createErr)
	}

	s.logger.Info("created S3 bucket", slog.String("bucket", s.bucket))
	return nil
}

// Upload stores an object and returns its location
func (s *S3Storage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(ContentType(key, contentType)),
		Metadata: map[string]string{
			"uploaded-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.InfoContext(ctx, "file uploaded",
		slog.String("key", key),
		slog.String("location", result.Location))

	return result.Location, nil
}

// GetPresignedURL generates a time-limited download URL
func (s *S3Storage) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to create presigned URL: %w", err)
	}
	return request.URL, nil
}

// ContentType returns contentType, or a type guessed from the key's extension
func ContentType(key, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
