package storage

import (
	"barefoot/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// bucketSettings describes an S3-compatible bucket. R2 reuses it.
type bucketSettings struct {
	Name            string
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

func (s bucketSettings) validate() error {
	switch {
	case s.Bucket == "":
		return fmt.Errorf("storage: missing %s bucket", s.Name)
	case s.Region == "":
		return fmt.Errorf("storage: missing %s region", s.Name)
	case s.AccessKeyID == "" || s.SecretAccessKey == "":
		return fmt.Errorf("storage: missing %s credentials", s.Name)
	}
	return nil
}

func s3Settings(cfg config.Config) bucketSettings {
	return bucketSettings{
		Name:            "S3",
		Bucket:          strings.TrimSpace(cfg.StorageS3Bucket),
		Prefix:          cfg.StorageS3Prefix,
		Region:          strings.TrimSpace(cfg.StorageS3Region),
		Endpoint:        strings.TrimSpace(cfg.StorageS3Endpoint),
		AccessKeyID:     strings.TrimSpace(cfg.StorageS3AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageS3SecretAccessKey),
		SessionToken:    strings.TrimSpace(cfg.StorageS3SessionToken),
		PathStyle:       cfg.StorageS3ForcePathStyle,
	}
}

// NewS3Storage 创建 Amazon S3 或兼容服务的存储后端。
func NewS3Storage(cfg config.Config) (Storage, error) {
	return newBucketStorage(s3Settings(cfg))
}

func newBucketStorage(settings bucketSettings) (Storage, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &objectStorage{
		backend: &s3Backend{client: newS3Client(settings), bucket: settings.Bucket},
		prefix:  trimPrefix(settings.Prefix),
	}, nil
}

func newS3Client(settings bucketSettings) *s3.Client {
	awsCfg := aws.Config{
		Region: settings.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, settings.SessionToken),
		),
	}

	endpoint := settings.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = settings.PathStyle
	})
}

type s3Backend struct {
	client *s3.Client
	bucket string
}

func (b *s3Backend) exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(b.bucket), Key: aws.String(key)})
	switch {
	case err == nil:
		return true, nil
	case isS3NotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (b *s3Backend) put(ctx context.Context, key string, data []byte, meta objectMeta) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(meta.ContentType),
	}
	if meta.CacheControl != "" {
		input.CacheControl = aws.String(meta.CacheControl)
	}
	_, err := b.client.PutObject(ctx, input)
	return err
}

var _ objectBackend = (*s3Backend)(nil)

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch strings.ToLower(apiErr.ErrorCode()) {
		case "notfound", "nosuchkey", "404":
			return true
		}
	}
	return false
}
