package models

import "time"

const (
	EntityTypeFile   = "file"
	EntityTypeFolder = "folder"
)

// Entity is a single node in a user's file tree. ParentID is nil for
// root-level nodes; SizeBytes and MimeType are set for files only.
type Entity struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SizeBytes *int64    `json:"size_bytes"`
	MimeType  *string   `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *Entity) IsFolder() bool {
	return e.Type == EntityTypeFolder
}
