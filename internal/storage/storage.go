package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrDuplicateKey reports an upload to a key that already holds an object.
	ErrDuplicateKey = errors.New("an object with this key already exists")

	// ErrObjectNotFound reports a read of a key with no object behind it.
	ErrObjectNotFound = errors.New("object not found in blob storage")

	// ErrNotSupported reports an operation the backend cannot perform,
	// e.g. signed URLs on local disk.
	ErrNotSupported = errors.New("operation not supported by this storage backend")
)

type UploadOptions struct {
	ContentType string
}

// BlobStore is the narrow contract the rest of the application consumes.
// Keys are constructed by callers as "{ownerID}/{filename}"; the store never
// interprets them.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, data io.Reader, opts UploadOptions) error
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

type Config struct {
	Type      string
	Bucket    string
	Region    string
	LocalPath string
}

func New(ctx context.Context, cfg Config) (BlobStore, error) {
	switch cfg.Type {
	case "local":
		return NewLocalBlobStore(cfg.LocalPath)
	case "s3":
		return NewS3BlobStore(ctx, cfg.Region)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
