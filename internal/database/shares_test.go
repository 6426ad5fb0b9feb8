package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/columk1/file-uploader/internal/models"
)

func TestCreateShareGrant(t *testing.T) {
	ownerID := createTestOwner(t, "user_create_grant")
	folder := createTestEntity(t, CreateEntityParams{ID: "grant_folder", OwnerID: ownerID, Name: "shared", Type: models.EntityTypeFolder})

	params := CreateShareGrantParams{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		FolderID:  folder.ID,
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}

	grant, err := testStore.CreateShareGrant(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, grant)
	require.Equal(t, params.ID, grant.ID)
	require.Equal(t, ownerID, grant.OwnerID)
	require.Equal(t, folder.ID, grant.FolderID)
	require.WithinDuration(t, params.ExpiresAt, grant.ExpiresAt, time.Second)
	require.NotZero(t, grant.CreatedAt)
}

func TestGetShareGrantByID(t *testing.T) {
	ownerID := createTestOwner(t, "user_get_grant")
	folder := createTestEntity(t, CreateEntityParams{ID: "get_grant_folder", OwnerID: ownerID, Name: "shared", Type: models.EntityTypeFolder})

	// Rows stay readable past their expiry; callers check expires_at.
	expired, err := testStore.CreateShareGrant(context.Background(), CreateShareGrantParams{
		ID: uuid.NewString(), OwnerID: ownerID, FolderID: folder.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	found, err := testStore.GetShareGrantByID(context.Background(), expired.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.True(t, found.ExpiresAt.Before(time.Now()))

	missing, err := testStore.GetShareGrantByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestShareGrantRemovedWithFolder(t *testing.T) {
	ownerID := createTestOwner(t, "user_grant_cascade")
	folder := createTestEntity(t, CreateEntityParams{ID: "grant_cascade_folder", OwnerID: ownerID, Name: "doomed", Type: models.EntityTypeFolder})

	grant, err := testStore.CreateShareGrant(context.Background(), CreateShareGrantParams{
		ID: uuid.NewString(), OwnerID: ownerID, FolderID: folder.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	deleted, err := testStore.DeleteEntity(context.Background(), folder.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	found, err := testStore.GetShareGrantByID(context.Background(), grant.ID)
	require.NoError(t, err)
	require.Nil(t, found)
}
