package models

import "time"

// ShareGrant exposes one folder's subtree to anonymous visitors until it
// expires. The ID doubles as the public URL token, so it must be unguessable.
// Grants are immutable; they are never renewed or revoked, only outlived.
type ShareGrant struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	FolderID  string    `json:"folder_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
