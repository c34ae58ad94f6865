package storage

import (
	"barefoot/internal/config"
	"fmt"
	"strings"
)

func r2Settings(cfg config.Config) bucketSettings {
	settings := bucketSettings{
		Name:            "R2",
		Bucket:          strings.TrimSpace(cfg.StorageR2Bucket),
		Prefix:          cfg.StorageR2Prefix,
		Region:          strings.TrimSpace(cfg.StorageR2Region),
		Endpoint:        strings.TrimSpace(cfg.StorageR2Endpoint),
		AccessKeyID:     strings.TrimSpace(cfg.StorageR2AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageR2SecretAccessKey),
		PathStyle:       true,
	}
	if settings.Region == "" {
		settings.Region = "auto"
	}
	if accountID := strings.TrimSpace(cfg.StorageR2AccountID); settings.Endpoint == "" && accountID != "" {
		settings.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}
	return settings
}

// NewR2Storage 通过 S3 兼容接口访问 Cloudflare R2。
func NewR2Storage(cfg config.Config) (Storage, error) {
	settings := r2Settings(cfg)
	if settings.Bucket != "" && settings.Endpoint == "" {
		return nil, fmt.Errorf("storage: missing R2 endpoint or account id")
	}
	return newBucketStorage(settings)
}
