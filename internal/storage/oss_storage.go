package storage

import (
	"barefoot/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossBackend struct {
	bucket *oss.Bucket
}

// NewOSSStorage 创建阿里云 OSS 存储后端。
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &objectStorage{
		backend: &ossBackend{bucket: bucket},
		prefix:  trimPrefix(cfg.StorageOSSPrefix),
	}, nil
}

func (b *ossBackend) exists(ctx context.Context, key string) (bool, error) {
	return b.bucket.IsObjectExist(key, oss.WithContext(ctx))
}

func (b *ossBackend) put(ctx context.Context, key string, data []byte, meta objectMeta) error {
	options := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(meta.ContentType),
		oss.ContentLength(int64(len(data))),
	}
	if meta.CacheControl != "" {
		options = append(options, oss.CacheControl(meta.CacheControl))
	}
	return b.bucket.PutObject(key, bytes.NewReader(data), options...)
}

var _ objectBackend = (*ossBackend)(nil)
