// Package oss uploads user-submitted images to an object store and
// returns the public URL the database rows reference.
package oss

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"clubhub/internal/config"
	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader is the capability handlers need: store bytes, get a URL back.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type Client struct {
	bucket        *alioss.Bucket
	publicBaseURL string
}

func NewClient(cfg config.OSSConfig) (*Client, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss endpoint and bucket are required")
	}

	client, err := alioss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, strings.TrimPrefix(cfg.Endpoint, "https://"))
	}

	return &Client{bucket: bucket, publicBaseURL: baseURL}, nil
}

// Upload stores the bytes under a random key that keeps the original
// extension and returns the public URL. The write is synchronous: the
// caller only persists the URL after this returns.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	key := "thumbnails/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	opts := []alioss.Option{alioss.WithContext(ctx)}
	if ct := contentTypeFor(filename); ct != "" {
		opts = append(opts, alioss.ContentType(ct))
	}

	if err := c.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put object: %w", err)
	}

	return c.publicBaseURL + "/" + key, nil
}

// Disabled rejects every upload. Used when no object store is
// configured so the rest of the API still works.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, []byte) (string, error) {
	return "", fmt.Errorf("object store not configured")
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return ""
}
