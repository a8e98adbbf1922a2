package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"

	"schoolku_backend/internals/configs"
)

type OSSBackend struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

func NewOSSBackend(cfg configs.OSSConfig) (*OSSBackend, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}
	return &OSSBackend{
		bucket:     bkt,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}, nil
}

func (o *OSSBackend) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	return o.bucket.PutObject(key, r, opts...)
}

func (o *OSSBackend) Delete(ctx context.Context, key string) error {
	return o.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (o *OSSBackend) PublicURL(key string) string {
	if o.publicBase != "" {
		return o.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(o.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", o.bucketName, end, key)
}

func (o *OSSBackend) KeyFromURL(publicURL string) (string, bool) {
	if o.publicBase != "" && strings.HasPrefix(publicURL, o.publicBase+"/") {
		return strings.TrimPrefix(publicURL, o.publicBase+"/"), true
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], true
	}
	return "", false
}
