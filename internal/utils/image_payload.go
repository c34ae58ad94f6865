package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// MaxImageBytes bounds uploaded profile and facility images.
const MaxImageBytes = 5 << 20

var (
	// ErrNotImage is returned when the payload is not a supported image format.
	ErrNotImage = errors.New("payload is not a supported image")
	// ErrImageTooLarge is returned when the payload exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

// ReadImageFile reads an uploaded multipart file and returns its bytes and extension.
// The content is sniffed, the client supplied content type is ignored.
func ReadImageFile(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh == nil {
		return nil, "", errors.New("no file uploaded")
	}
	if fh.Size > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return classifyImage(data)
}

// DecodeImagePayload decodes an inline base64 or data URL image and returns
// the raw bytes together with its extension.
func DecodeImagePayload(payload string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, "", fmt.Errorf("empty image payload")
	}

	_, base64Payload := SplitDataURL(trimmed)
	base64Payload = strings.TrimSpace(base64Payload)
	if base64Payload == "" {
		return nil, "", fmt.Errorf("empty base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(base64Payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return classifyImage(data)
}

func classifyImage(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", ErrNotImage
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}
	ext := ExtensionFromMime(http.DetectContentType(data))
	if ext == "" {
		return nil, "", ErrNotImage
	}
	return data, ext, nil
}

// SplitDataURL separates a data URL into its media type and base64 payload.
// Bare base64 is returned with an empty media type.
func SplitDataURL(value string) (string, string) {
	if !strings.HasPrefix(value, "data:") {
		return "", value
	}

	value = strings.TrimPrefix(value, "data:")
	parts := strings.SplitN(value, ";base64,", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// ExtensionFromMime maps an image media type to a file extension.
func ExtensionFromMime(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	default:
		return ""
	}
}
