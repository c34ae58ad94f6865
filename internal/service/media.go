package service

import (
	"barefoot/internal/storage"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// imageStore persists images under content-addressed names and resolves their public URL.
type imageStore struct {
	storage    storage.Storage
	publicBase string
}

// computeImageBaseName 以内容哈希命名，相同图片只保存一次
func computeImageBaseName(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}

func (s imageStore) save(ctx context.Context, category string, data []byte, ext string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("storage not configured")
	}
	key, err := s.storage.Save(ctx, data, storage.SaveOptions{
		Category:  category,
		Extension: ext,
		BaseName:  computeImageBaseName(data),
		Immutable: true,
	})
	if err != nil {
		return "", err
	}
	return storage.PublicURL(s.publicBase, key), nil
}
