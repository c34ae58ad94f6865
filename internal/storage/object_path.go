package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for extensions that are not served as images.
var ErrUnsupportedType = errors.New("storage: unsupported image type")

// immutableCacheControl is attached to content-addressed objects.
const immutableCacheControl = "public, max-age=31536000, immutable"

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// objectMeta describes how a backend should store one object.
type objectMeta struct {
	ContentType  string
	CacheControl string
}

func sanitizePathSegment(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-_")
}

func imageExtension(ext string) (string, string, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	contentType, ok := imageContentTypes[normalized]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if normalized == "jpeg" {
		normalized = "jpg"
	}
	return normalized, contentType, nil
}

// objectKey lays images out as category/xx/name.ext, where xx is the first two
// characters of the name. Unnamed objects get a random name.
func objectKey(opts SaveOptions) (string, objectMeta, error) {
	ext, contentType, err := imageExtension(opts.Extension)
	if err != nil {
		return "", objectMeta{}, err
	}
	category := sanitizePathSegment(opts.Category)
	if category == "" {
		category = "misc"
	}
	name := sanitizePathSegment(opts.BaseName)
	if name == "" {
		name = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	shard := name
	if len(shard) > 2 {
		shard = shard[:2]
	}

	meta := objectMeta{ContentType: contentType}
	if opts.Immutable {
		meta.CacheControl = immutableCacheControl
	}
	return path.Join(category, shard, name+"."+ext), meta, nil
}

func joinPrefix(prefix, key string) string {
	prefix = trimPrefix(prefix)
	key = strings.TrimLeft(key, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// PublicURL joins a stored object key onto the public base URL. Absolute URLs
// are returned unchanged.
func PublicURL(base, key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	if base = strings.TrimSpace(base); base == "" {
		base = "/files"
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(trimmed, "/")
}
