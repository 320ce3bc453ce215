// Package storage talks to the S3-compatible bucket holding uploaded documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"contracts-app/internal/textfold"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Store is what handlers and the extraction job need from object storage.
type Store interface {
	PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error)
	PresignGet(ctx context.Context, key, fileName string, expiry time.Duration) (*url.URL, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Read(ctx context.Context, key string, maxBytes int64) ([]byte, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName keeps a recognizable, URL-safe file name.
// Example: "Contrato Peña (final).pdf" -> "Contrato_Pena_final_.pdf"
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := unsafeName.ReplaceAllString(textfold.StripAccents(name), "_")
	clean = strings.Trim(clean, "._")
	if clean == "" {
		clean = "file"
	}
	if len(clean) > 120 {
		ext := path.Ext(clean)
		if len(ext) > 10 {
			ext = ""
		}
		clean = clean[:120-len(ext)] + ext
	}
	return clean
}

// BuildKey returns <prefix><uuid>/<sanitized file name>. prefix is the
// tenant prefix and ends with a slash.
func BuildKey(prefix, fileName string) string {
	return fmt.Sprintf("%s%s/%s", prefix, uuid.NewString(), SanitizeFileName(fileName))
}
