// Package storage is the photo storage collaborator: given bytes and a
// path it returns a durable URL. The core never touches blobs beyond this.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pfcmatch/backend/internal/config"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// MinioUploader stores photos in an S3-compatible bucket.
type MinioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioUploader(cfg *config.Config) (*MinioUploader, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init storage client: %w", err)
	}

	baseURL := cfg.Storage.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.Storage.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Storage.Endpoint, cfg.Storage.Bucket)
	}

	return &MinioUploader{
		client:  client,
		bucket:  cfg.Storage.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (u *MinioUploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, u.bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return u.baseURL + "/" + path, nil
}

// MemoryUploader is an in-process Uploader for tests.
type MemoryUploader struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{Objects: make(map[string][]byte)}
}

func (u *MemoryUploader) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Objects[path] = data
	return "mem://" + path, nil
}
