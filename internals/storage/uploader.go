package storage

import (
	"bytes"
	"context"
	"fmt"
	_ "image/gif"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/helpers/apperror"
)

const (
	photoMaxW    = 1200
	photoMaxH    = 1200
	photoQuality = 80
)

// Uploaded describes a stored file.
type Uploaded struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Uploader struct {
	backend Backend
	limits  configs.UploadConfig
	log     zerolog.Logger
}

func NewUploader(backend Backend, limits configs.UploadConfig, logger zerolog.Logger) *Uploader {
	return &Uploader{
		backend: backend,
		limits:  limits,
		log:     logger.With().Str("component", "storage").Logger(),
	}
}

// MaxBytes is the size limit of kind.
func (u *Uploader) MaxBytes(kind constants.UploadKind) int64 {
	mb := 0
	switch kind {
	case constants.UploadImage:
		mb = u.limits.MaxImageMB
	case constants.UploadDocument:
		mb = u.limits.MaxDocumentMB
	case constants.UploadAssignment:
		mb = u.limits.MaxAssignmentMB
	}
	return int64(mb) * 1024 * 1024
}

// Validate checks presence, extension allow-list and size.
func (u *Uploader) Validate(fh *multipart.FileHeader, kind constants.UploadKind) error {
	if fh == nil || fh.Size == 0 || strings.TrimSpace(fh.Filename) == "" {
		return apperror.ValidationField("file", "File is required")
	}
	if !constants.ExtensionAllowed(kind, fh.Filename) {
		return apperror.ValidationField("file", fmt.Sprintf(
			"File type not allowed. Allowed: %s", strings.Join(constants.AllowedExtensions(kind), ", ")))
	}
	if limit := u.MaxBytes(kind); fh.Size > limit {
		return apperror.ValidationField("file", fmt.Sprintf(
			"File size exceeds the %dMB limit", limit/(1024*1024)))
	}
	return nil
}

// Save validates and stores fh under folder. Photos are re-encoded to WebP
// when enabled.
func (u *Uploader) Save(ctx context.Context, fh *multipart.FileHeader, kind constants.UploadKind, folder string) (*Uploaded, error) {
	if err := u.Validate(fh, kind); err != nil {
		return nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(err, "gagal membuka file")
	}
	defer src.Close()

	name := fh.Filename
	contentType := detectContentType(fh)
	var body io.Reader = src
	size := fh.Size

	if kind == constants.UploadImage && u.limits.ConvertPhotoWebP && !strings.EqualFold(filepath.Ext(name), ".gif") {
		data, err := ToWebP(src)
		if err != nil {
			return nil, apperror.ValidationField("file", "Unsupported or corrupt image")
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
		contentType = "image/webp"
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	key := ObjectKey(folder, name)
	if err := u.backend.Put(ctx, key, body, contentType); err != nil {
		return nil, apperror.Internal(err, "upload gagal")
	}
	u.log.Info().Str("key", key).Int64("size", size).Str("kind", kind.String()).Msg("📦 File uploaded")

	return &Uploaded{
		URL:         u.backend.PublicURL(key),
		Key:         key,
		FileName:    fh.Filename,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Remove deletes a previously stored file by its public URL; unknown URLs
// and failures are logged only.
func (u *Uploader) Remove(ctx context.Context, publicURL string) {
	if strings.TrimSpace(publicURL) == "" {
		return
	}
	key, ok := u.backend.KeyFromURL(publicURL)
	if !ok {
		return
	}
	if err := u.backend.Delete(ctx, key); err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("⚠️ Gagal hapus file lama")
	}
}

// ToWebP decodes jpeg/png/gif/webp, fits it in the photo box and encodes WebP.
func ToWebP(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > photoMaxW || b.Dy() > photoMaxH {
		img = imaging.Fit(img, photoMaxW, photoMaxH, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: photoQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func detectContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
