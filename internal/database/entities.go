package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/columk1/file-uploader/internal/models"
)

const entityColumns = "id, owner_id, parent_id, name, entity_type, size_bytes, mime_type, created_at"

func scanEntity(row pgx.Row) (*models.Entity, error) {
	var e models.Entity
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.ParentID,
		&e.Name,
		&e.Type,
		&e.SizeBytes,
		&e.MimeType,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEntities(rows pgx.Rows) ([]models.Entity, error) {
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if entities == nil {
		return []models.Entity{}, nil
	}

	return entities, nil
}

type CreateEntityParams struct {
	ID        string
	OwnerID   int64
	ParentID  *string
	Name      string
	Type      string
	SizeBytes *int64
	MimeType  *string
}

func (q *Queries) CreateEntity(ctx context.Context, arg CreateEntityParams) (*models.Entity, error) {
	query := `
		INSERT INTO entities (id, owner_id, parent_id, name, entity_type, size_bytes, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entityColumns

	row := q.db.QueryRow(ctx, query,
		arg.ID,
		arg.OwnerID,
		arg.ParentID,
		arg.Name,
		arg.Type,
		arg.SizeBytes,
		arg.MimeType,
		time.Now(),
	)

	return scanEntity(row)
}

// GetEntityByID looks a node up without an owner filter; callers decide what
// the requester may see. Returns (nil, nil) when the row is absent.
func (q *Queries) GetEntityByID(ctx context.Context, id string) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = $1`

	entity, err := scanEntity(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entity, nil
}

// ListChildren returns the direct children of parentID (root level when nil),
// folders first, then ordered by the caller's allow-listed sort fields.
func (q *Queries) ListChildren(ctx context.Context, ownerID int64, parentID *string, sort []SortField) ([]models.Entity, error) {
	var rows pgx.Rows
	var err error

	if parentID == nil {
		query := `SELECT ` + entityColumns + `
				  FROM entities
				  WHERE owner_id = $1 AND parent_id IS NULL ` + orderByClause(sort)
		rows, err = q.db.Query(ctx, query, ownerID)
	} else {
		query := `SELECT ` + entityColumns + `
				  FROM entities
				  WHERE owner_id = $1 AND parent_id = $2 ` + orderByClause(sort)
		rows, err = q.db.Query(ctx, query, ownerID, *parentID)
	}

	if err != nil {
		return nil, err
	}

	return collectEntities(rows)
}

// ListFolders fetches every folder row an owner has in one query. The tree
// builder groups them by parent in memory instead of re-querying per node.
func (q *Queries) ListFolders(ctx context.Context, ownerID int64) ([]models.Entity, error) {
	query := `SELECT ` + entityColumns + `
			  FROM entities
			  WHERE owner_id = $1 AND entity_type = 'folder'
			  ORDER BY name`

	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return collectEntities(rows)
}

// DeleteEntity removes exactly one row. The schema's ON DELETE CASCADE takes
// the descendants with it in the same statement.
func (q *Queries) DeleteEntity(ctx context.Context, id string) (bool, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) EntityExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM entities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
