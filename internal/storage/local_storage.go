package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps images on the local filesystem. The server exposes the
// directory under the storage public base URL.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates the directory when missing.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/images"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) LocalBaseDir() string {
	return s.baseDir
}

// Save writes the image and returns its slash-separated path relative to the
// base directory. Files appear atomically so a concurrent reader never sees a
// partial image.
func (s *LocalStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if err := checkPayload(ctx, data); err != nil {
		return "", err
	}
	key, _, err := objectKey(opts)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if opts.Immutable {
		if _, err := os.Stat(target); err == nil {
			return key, nil
		}
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move file: %w", err)
	}
	return key, nil
}

var (
	_ Storage              = (*LocalStorage)(nil)
	_ LocalBaseDirProvider = (*LocalStorage)(nil)
)
