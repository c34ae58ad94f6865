// Package storage keeps uploaded profile and facility images on the local disk
// or in an object store.
package storage

import (
	"barefoot/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
	TypeOSS   = "oss"
	TypeCOS   = "cos"
	TypeR2    = "r2"
)

const (
	// CategoryProfile 存放用户头像。
	CategoryProfile = "profiles"
	// CategoryFacility 存放住宿设施图片。
	CategoryFacility = "facilities"
)

// SaveOptions 控制图片的存放位置。
//
// Immutable marks BaseName as a content hash: an existing object under the
// same key is reused and remote copies are cached indefinitely.
type SaveOptions struct {
	Category  string
	Extension string
	BaseName  string
	Immutable bool
}

// Storage 持久化图片并返回对象键（本地存储为相对路径）。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends whose files can be served
// straight from disk.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// objectBackend is the slice of a cloud SDK the image store needs.
type objectBackend interface {
	exists(ctx context.Context, key string) (bool, error)
	put(ctx context.Context, key string, data []byte, meta objectMeta) error
}

// objectStorage implements Storage on top of a bucket, with one key layout for
// every provider.
type objectStorage struct {
	backend objectBackend
	prefix  string
}

func checkPayload(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return errors.New("storage: empty payload")
	}
	return ctx.Err()
}

func (s *objectStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if err := checkPayload(ctx, data); err != nil {
		return "", err
	}
	key, meta, err := objectKey(opts)
	if err != nil {
		return "", err
	}
	key = joinPrefix(s.prefix, key)

	if opts.Immutable {
		exists, err := s.backend.exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check object: %w", err)
		}
		if exists {
			return key, nil
		}
	}

	if err := s.backend.put(ctx, key, data, meta); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

var _ Storage = (*objectStorage)(nil)
