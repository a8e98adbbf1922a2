package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalBackend writes under Dir; files are served statically at BaseURL.
type LocalBackend struct {
	Dir     string
	BaseURL string
}

func NewLocalBackend(dir, baseURL string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &LocalBackend{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *LocalBackend) path(key string) (string, error) {
	p := filepath.Join(l.Dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.Dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Errorf("invalid object key %q", key)
	}
	return p, nil
}

func (l *LocalBackend) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create folder")
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return errors.Wrap(err, "write file")
	}
	return f.Close()
}

func (l *LocalBackend) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove file")
	}
	return nil
}

func (l *LocalBackend) PublicURL(key string) string {
	return l.BaseURL + "/" + key
}

func (l *LocalBackend) KeyFromURL(publicURL string) (string, bool) {
	prefix := l.BaseURL + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(publicURL, prefix), true
}
