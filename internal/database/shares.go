package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/columk1/file-uploader/internal/models"
)

type CreateShareGrantParams struct {
	ID        string
	OwnerID   int64
	FolderID  string
	ExpiresAt time.Time
}

func (q *Queries) CreateShareGrant(ctx context.Context, arg CreateShareGrantParams) (*models.ShareGrant, error) {
	query := `
		INSERT INTO share_grants (id, owner_id, folder_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, folder_id, expires_at, created_at
	`
	row := q.db.QueryRow(ctx, query, arg.ID, arg.OwnerID, arg.FolderID, arg.ExpiresAt)

	var grant models.ShareGrant
	err := row.Scan(
		&grant.ID,
		&grant.OwnerID,
		&grant.FolderID,
		&grant.ExpiresAt,
		&grant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &grant, nil
}

// GetShareGrantByID returns (nil, nil) when the token has never existed.
// Expiry is the caller's concern: rows persist after their expires_at.
func (q *Queries) GetShareGrantByID(ctx context.Context, id string) (*models.ShareGrant, error) {
	query := `
		SELECT id, owner_id, folder_id, expires_at, created_at
		FROM share_grants
		WHERE id = $1
	`
	var grant models.ShareGrant
	err := q.db.QueryRow(ctx, query, id).Scan(
		&grant.ID,
		&grant.OwnerID,
		&grant.FolderID,
		&grant.ExpiresAt,
		&grant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &grant, nil
}
