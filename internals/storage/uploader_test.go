package storage_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/storage"
)

func limits() configs.UploadConfig {
	return configs.UploadConfig{
		MaxImageMB:       5,
		MaxDocumentMB:    10,
		MaxAssignmentMB:  20,
		ConvertPhotoWebP: true,
	}
}

// fileHeader builds a real multipart header so Open works.
func fileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&body, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploader(t *testing.T) (*storage.Uploader, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.NewLocalBackend(dir, "/uploads")
	require.NoError(t, err)
	return storage.NewUploader(backend, limits(), zerolog.Nop()), dir
}

func TestValidate_Extensions(t *testing.T) {
	u, _ := newUploader(t)

	err := u.Validate(fileHeader(t, "cv.exe", "application/octet-stream", []byte("x")), constants.UploadDocument)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	assert.NoError(t, u.Validate(fileHeader(t, "cv.PDF", "application/pdf", []byte("x")), constants.UploadDocument))
	assert.NoError(t, u.Validate(fileHeader(t, "work.zip", "application/zip", []byte("x")), constants.UploadAssignment))
	assert.Error(t, u.Validate(fileHeader(t, "work.zip", "application/zip", []byte("x")), constants.UploadImage))
}

func TestValidate_Size(t *testing.T) {
	u, _ := newUploader(t)

	fh := &multipart.FileHeader{Filename: "photo.jpg", Size: 5*1024*1024 + 1}
	err := u.Validate(fh, constants.UploadImage)
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields["file"][0], "5MB")

	fh = &multipart.FileHeader{Filename: "thesis.pdf", Size: 20 * 1024 * 1024}
	assert.NoError(t, u.Validate(fh, constants.UploadAssignment))
	assert.Error(t, u.Validate(fh, constants.UploadDocument))
}

func TestValidate_MissingFile(t *testing.T) {
	u, _ := newUploader(t)
	assert.Error(t, u.Validate(nil, constants.UploadImage))
}

func TestSave_DocumentStoredAsIs(t *testing.T) {
	u, dir := newUploader(t)
	fh := fileHeader(t, "report card.pdf", "application/pdf", []byte("%PDF-1.4"))

	up, err := u.Save(context.Background(), fh, constants.UploadDocument, "students/documents")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.URL, "/uploads/students/documents/"))
	assert.True(t, strings.HasSuffix(up.Key, "report_card.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(up.Key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	u.Remove(context.Background(), up.URL)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(up.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_PhotoConvertedToWebP(t *testing.T) {
	u, _ := newUploader(t)
	fh := fileHeader(t, "me.png", "image/png", pngBytes(t, 1600, 900))

	up, err := u.Save(context.Background(), fh, constants.UploadImage, "teachers/photos")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", up.ContentType)
	assert.True(t, strings.HasSuffix(up.Key, "me.webp"))
	assert.Equal(t, "me.png", up.FileName)
}

func TestSave_CorruptPhotoRejected(t *testing.T) {
	u, _ := newUploader(t)
	fh := fileHeader(t, "me.jpg", "image/jpeg", []byte("not an image"))

	_, err := u.Save(context.Background(), fh, constants.UploadImage, "teachers/photos")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
