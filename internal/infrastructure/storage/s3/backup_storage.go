package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/pkg/config"
)

type URLMode string

const (
	URLModePresigned URLMode = "presigned"
	URLModePublic    URLMode = "public"
)

// BackupStorage хранит JSON-выгрузки портфеля в S3-совместимом хранилище
type BackupStorage struct {
	client       *s3.Client
	presign      *s3.PresignClient
	bucket       string
	endpoint     string
	usePathStyle bool
	urlMode      URLMode
	presignedTTL time.Duration
}

func NewBackupStorage(ctx context.Context, cfg config.S3Config) (*BackupStorage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}
	mode := URLMode(cfg.URLMode)
	if mode == "" {
		mode = URLModePresigned
	}
	if mode != URLModePresigned && mode != URLModePublic {
		return nil, fmt.Errorf("unsupported s3 url mode: %s", cfg.URLMode)
	}
	if mode == URLModePublic && strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("s3 endpoint is required for public url mode")
	}
	if cfg.PresignedTTL <= 0 {
		cfg.PresignedTTL = 15 * time.Minute
	}

	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// без ключей используется стандартная цепочка (env, профиль, IAM роль)
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
		options.UsePathStyle = cfg.UsePathStyle
	})

	return &BackupStorage{
		client:       client,
		presign:      s3.NewPresignClient(client),
		bucket:       strings.TrimSpace(cfg.Bucket),
		endpoint:     endpoint,
		usePathStyle: cfg.UsePathStyle,
		urlMode:      mode,
		presignedTTL: cfg.PresignedTTL,
	}, nil
}

func (s *BackupStorage) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("object key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(body),
		ContentType:   &contentType,
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object failed: %w", err)
	}

	return s.GetObjectURL(ctx, key)
}

func (s *BackupStorage) ListObjects(ctx context.Context, prefix string, limit int) ([]port.BackupObject, error) {
	normalizedPrefix := strings.TrimSpace(prefix)
	if normalizedPrefix == "" {
		return nil, fmt.Errorf("prefix is required")
	}
	if limit <= 0 {
		limit = 24
	}
	if limit > 200 {
		limit = 200
	}

	maxKeys := int32(limit)
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  &s.bucket,
		Prefix:  &normalizedPrefix,
		MaxKeys: &maxKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("list objects failed: %w", err)
	}

	objects := make([]port.BackupObject, 0, len(output.Contents))
	for _, object := range output.Contents {
		if object.Key == nil || strings.TrimSpace(*object.Key) == "" {
			continue
		}
		objects = append(objects, port.BackupObject{
			Key:          *object.Key,
			Size:         aws.ToInt64(object.Size),
			LastModified: valueTime(object.LastModified),
			URL:          s.readURLOrEmpty(ctx, *object.Key),
		})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	return objects, nil
}

func (s *BackupStorage) GetObjectURL(ctx context.Context, key string) (string, error) {
	normalizedKey := strings.TrimSpace(key)
	if normalizedKey == "" {
		return "", fmt.Errorf("object key is required")
	}

	if s.urlMode == URLModePublic {
		return s.publicURL(normalizedKey), nil
	}

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &normalizedKey,
	}, s3.WithPresignExpires(s.presignedTTL))
	if err != nil {
		return "", fmt.Errorf("presign failed: %w", err)
	}

	return request.URL, nil
}

func (s *BackupStorage) publicURL(key string) string {
	escapedKey := url.PathEscape(key)
	escapedKey = strings.ReplaceAll(escapedKey, "%2F", "/")
	if s.usePathStyle {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escapedKey)
	}
	endpoint := strings.TrimPrefix(s.endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, endpoint, escapedKey)
}

func (s *BackupStorage) readURLOrEmpty(ctx context.Context, key string) string {
	url, err := s.GetObjectURL(ctx, key)
	if err != nil {
		return ""
	}
	return url
}

func valueTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.UTC()
}
