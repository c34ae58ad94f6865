package storage

import (
	"barefoot/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type cosBackend struct {
	client *cos.Client
}

// NewCOSStorage 创建腾讯云 COS 存储后端。
func NewCOSStorage(cfg config.Config) (Storage, error) {
	baseURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}

	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	transport := &cos.AuthorizationTransport{
		SecretID:  secretID,
		SecretKey: secretKey,
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{Transport: transport})

	return &objectStorage{
		backend: &cosBackend{client: client},
		prefix:  trimPrefix(cfg.StorageCOSPrefix),
	}, nil
}

func closeBody(resp *cos.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

func (b *cosBackend) exists(ctx context.Context, key string) (bool, error) {
	resp, err := b.client.Object.Head(ctx, key, nil)
	closeBody(resp)
	if err == nil {
		return true, nil
	}
	if cos.IsNotFoundError(err) {
		return false, nil
	}
	return false, err
}

func (b *cosBackend) put(ctx context.Context, key string, data []byte, meta objectMeta) error {
	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   meta.ContentType,
			ContentLength: int64(len(data)),
			CacheControl:  meta.CacheControl,
		},
	}
	resp, err := b.client.Object.Put(ctx, key, bytes.NewReader(data), options)
	closeBody(resp)
	return err
}

var _ objectBackend = (*cosBackend)(nil)
