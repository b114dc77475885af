package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3MappingRepository implements mapping.Repository
var _ mapping.Repository = (*S3MappingRepository)(nil)

const mappingContentType = "application/json"

// S3API is the subset of the S3 client used by S3MappingRepository
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3MappingRepository stores the mapping as a single object in an
// S3-compatible bucket (AWS S3, MinIO, RustFS, etc.). PutObject replaces the
// object whole, so readers never observe a partial document.
type S3MappingRepository struct {
	client S3API
	bucket string
	key    string
	logger *zap.Logger
}

// S3MappingRepositoryOption is a functional option for S3MappingRepository
type S3MappingRepositoryOption func(*S3MappingRepository)

// WithS3Logger sets the logger for S3MappingRepository
func WithS3Logger(logger *zap.Logger) S3MappingRepositoryOption {
	return func(r *S3MappingRepository) {
		r.logger = logger
	}
}

// NewS3MappingRepository creates a repository from storage configuration
func NewS3MappingRepository(cfg *config.StorageConfig, key string, opts ...S3MappingRepositoryOption) (*S3MappingRepository, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	client, err := newS3Client(cfg)
	if err != nil {
		return nil, err
	}
	return NewS3MappingRepositoryWithClient(client, cfg.Bucket, key, opts...)
}

// NewS3MappingRepositoryWithClient creates a repository over an existing client
func NewS3MappingRepositoryWithClient(client S3API, bucket, key string, opts ...S3MappingRepositoryOption) (*S3MappingRepository, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if key == "" {
		return nil, errors.New("mapping object key is required")
	}

	r := &S3MappingRepository{
		client: client,
		bucket: bucket,
		key:    key,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func newS3Client(cfg *config.StorageConfig) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// Without static keys the default chain (env, shared config, IAM role) applies
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errors.New("storage access key and secret key must be set together")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// normalizeEndpoint adds a scheme to a bare host. Empty means AWS itself.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// Get downloads and decodes the mapping object. A missing object is not an error.
func (r *S3MappingRepository) Get(ctx context.Context) (*mapping.Config, bool, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get mapping object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read mapping object: %w", err)
	}

	cfg, err := mapping.Decode(data)
	if err != nil {
		r.logger.Error("Mapping object is corrupt",
			zap.String("bucket", r.bucket),
			zap.String("key", r.key),
			zap.Error(err),
		)
		return nil, true, fmt.Errorf("s3://%s/%s: %w", r.bucket, r.key, err)
	}
	return cfg, true, nil
}

// Put uploads the encoded mapping, replacing the object
func (r *S3MappingRepository) Put(ctx context.Context, cfg *mapping.Config) error {
	data, err := mapping.Encode(cfg)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mappingContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload mapping object: %w", err)
	}

	r.logger.Debug("Mapping object uploaded",
		zap.String("bucket", r.bucket),
		zap.String("key", r.key),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	// Some S3-compatible services answer a missing key with a bare 404
	var respErr interface{ HTTPStatusCode() int }
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
