package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := testStore.CreateUser(context.Background(), "new_user", "hashed_secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "new_user", user.Username)
	require.Equal(t, "hashed_secret", user.PasswordHash)
	require.NotZero(t, user.ID)
	require.NotZero(t, user.CreatedAt)

	_, err = testStore.CreateUser(context.Background(), "new_user", "another_hash")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetUserByUsername(t *testing.T) {
	created, err := testStore.CreateUser(context.Background(), "lookup_user", "hash")
	require.NoError(t, err)

	found, err := testStore.GetUserByUsername(context.Background(), "lookup_user")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)
	require.NotEmpty(t, found.PasswordHash)

	missing, err := testStore.GetUserByUsername(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Nil(t, missing)
}
