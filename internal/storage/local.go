package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalBlobStore keeps blobs on local disk under basePath/bucket/key. It is
// the development and test backend; signed URLs are not available here, so
// the HTTP layer streams file bytes itself.
type LocalBlobStore struct {
	basePath string
}

func NewLocalBlobStore(basePath string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalBlobStore{basePath: basePath}, nil
}

func (ls *LocalBlobStore) pathFor(bucket, key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return filepath.Join(ls.basePath, bucket, filepath.FromSlash(key)), nil
}

func (ls *LocalBlobStore) Upload(ctx context.Context, bucket, key string, data io.Reader, opts UploadOptions) error {
	path, err := ls.pathFor(bucket, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	// O_EXCL gives the same duplicate-key semantics as the S3 conditional write.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrDuplicateKey
		}
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (ls *LocalBlobStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	path, err := ls.pathFor(bucket, key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalBlobStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "", ErrNotSupported
}

// Delete is idempotent: removing a missing object is not an error.
func (ls *LocalBlobStore) Delete(ctx context.Context, bucket, key string) error {
	path, err := ls.pathFor(bucket, key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
