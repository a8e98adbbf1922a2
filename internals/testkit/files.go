package testkit

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/storage"
)

// Uploader stores files under a per-test temp dir. WebP conversion is off
// so plain bytes can stand in for images.
func Uploader(t *testing.T) (*storage.Uploader, *storage.LocalBackend) {
	t.Helper()
	backend, err := storage.NewLocalBackend(t.TempDir(), "/uploads")
	require.NoError(t, err)
	limits := configs.UploadConfig{MaxImageMB: 5, MaxDocumentMB: 10, MaxAssignmentMB: 20}
	return storage.NewUploader(backend, limits, zerolog.Nop()), backend
}

// FileHeader builds a multipart file part the way fiber hands it to handlers.
func FileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	fhs := req.MultipartForm.File["file"]
	require.Len(t, fhs, 1)
	return fhs[0]
}
