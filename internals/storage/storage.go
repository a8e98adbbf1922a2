// Package storage keeps uploaded files on local disk or in an Aliyun OSS
// bucket and validates uploads against the per-kind limits.
package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"schoolku_backend/internals/configs"
)

// Backend stores objects by key and serves them under a public URL.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(publicURL string) (string, bool)
}

// NewBackend picks OSS when its credentials are configured, local disk otherwise.
func NewBackend(cfg *configs.Config, logger zerolog.Logger) (Backend, error) {
	if cfg.OSS.Enabled() {
		b, err := NewOSSBackend(cfg.OSS)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("bucket", cfg.OSS.Bucket).Msg("☁️ Upload storage: Aliyun OSS")
		return b, nil
	}
	logger.Info().Str("dir", cfg.Upload.Dir).Msg("💾 Upload storage: local disk")
	return NewLocalBackend(cfg.Upload.Dir, cfg.Upload.PublicBaseURL)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// ✅ Buat nama unik
func sanitizeFilename(filename string) string {
	return unsafeChars.ReplaceAllString(filename, "_")
}

// ObjectKey builds "<folder>/<yyyymmdd>-<uuid>-<safe name>".
func ObjectKey(folder, originalFilename string) string {
	folder = strings.Trim(folder, "/")
	return fmt.Sprintf("%s/%s-%s-%s",
		folder,
		time.Now().Format("20060102"),
		uuid.New().String(),
		sanitizeFilename(originalFilename),
	)
}
