package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewLocalBlobStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewLocalBlobStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.Equal(t, tempDir, store.basePath)

	_, err = os.Stat(tempDir)
	require.NoError(t, err, "Base directory should be created")
}

func TestLocalBlobStore_UploadOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	key := "7/report.pdf"
	content := "Hello, world!"

	err = store.Upload(ctx, "files", key, strings.NewReader(content), UploadOptions{ContentType: "application/pdf"})
	require.NoError(t, err)

	expectedPath := filepath.Join(store.basePath, "files", "7", "report.pdf")
	fileInfo, err := os.Stat(expectedPath)
	require.NoError(t, err, "File should exist after upload")
	require.Equal(t, int64(len(content)), fileInfo.Size())

	readCloser, err := store.Open(ctx, "files", key)
	require.NoError(t, err)
	retrieved, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, content, string(retrieved))

	err = store.Delete(ctx, "files", key)
	require.NoError(t, err)

	_, err = os.Stat(expectedPath)
	require.True(t, os.IsNotExist(err), "File should not exist after delete")
}

func TestLocalBlobStore_UploadDuplicateKey(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	key := "7/twice.txt"
	err = store.Upload(ctx, "files", key, strings.NewReader("first"), UploadOptions{})
	require.NoError(t, err)

	err = store.Upload(ctx, "files", key, strings.NewReader("second"), UploadOptions{})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// The original bytes survive the rejected write.
	readCloser, err := store.Open(ctx, "files", key)
	require.NoError(t, err)
	content, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, "first", string(content))
}

func TestLocalBlobStore_OpenNonExistent(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "files", "7/missing.txt")
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalBlobStore_DeleteNonExistent(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "files", "7/missing.txt")
	require.NoError(t, err)
}

func TestLocalBlobStore_SignedURLNotSupported(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.SignedURL(context.Background(), "files", "7/any.txt", time.Minute)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestLocalBlobStore_RejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "files", "../escape.txt", strings.NewReader("nope"), UploadOptions{})
	require.Error(t, err)

	_, err = store.Open(ctx, "files", "../../etc/passwd")
	require.Error(t, err)
}
