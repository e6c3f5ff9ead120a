package objectstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrObjectNotFound = errors.New("object not found")

// Store is the narrow object storage surface the recap pipeline needs.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

func NormalizeKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// JoinURL joins a public base and an object key with exactly one slash.
func JoinURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	key = NormalizeKey(key)
	if base == "" {
		return key
	}
	if key == "" {
		return base
	}
	return base + "/" + key
}
