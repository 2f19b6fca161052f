package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 blob store.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// s3PutAPI is the S3 surface used by the store. Narrowed for test fakes.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads reflection blobs to S3 (or an S3-compatible provider).
type S3Store struct {
	config S3Config
	client s3PutAPI
}

// NewS3Store creates an S3 blob store.
// Uses the AWS SDK default credential chain (env vars, shared config,
// IAM role).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		config: cfg,
		client: s3.NewFromConfig(awsConfig, s3Opts...),
	}, nil
}

// NewS3StoreWithClient creates a store over an existing client.
// Used by tests to inject a fake.
func NewS3StoreWithClient(cfg S3Config, client s3PutAPI) (*S3Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("S3 client is required")
	}
	return &S3Store{config: cfg, client: client}, nil
}

// Put uploads the blob and returns an s3://bucket/key reference.
func (s *S3Store) Put(ctx context.Context, key string, blob *Blob) (string, error) {
	if blob == nil || len(blob.Data) == 0 {
		return "", errors.New("empty blob")
	}

	fullKey := key
	if s.config.Prefix != "" {
		fullKey = strings.TrimRight(s.config.Prefix, "/") + "/" + key
	}

	contentType := blob.MIME
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         &fullKey,
		Body:        bytes.NewReader(blob.Data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", fullKey, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, fullKey), nil
}

// Close is a no-op; the SDK client holds no long-lived resources.
func (s *S3Store) Close() error { return nil }

var _ BlobStore = (*S3Store)(nil)
