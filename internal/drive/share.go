package drive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/models"
)

// DefaultShareTTL applies when a caller does not pick a duration.
const DefaultShareTTL = 72 * time.Hour

// ShareManager issues time-limited share grants over folders and decides,
// per request, whether an anonymous visitor holding a token may see a node.
type ShareManager struct {
	store    *database.Store
	resolver *PathResolver
	now      func() time.Time
}

func NewShareManager(store *database.Store, resolver *PathResolver) *ShareManager {
	return &ShareManager{
		store:    store,
		resolver: resolver,
		now:      time.Now,
	}
}

// CreateShare grants public access to folderID's subtree for ttl
// (DefaultShareTTL when ttl <= 0). The folder must exist, be a folder, and
// belong to ownerID.
func (m *ShareManager) CreateShare(ctx context.Context, ownerID int64, folderID string, ttl time.Duration) (*models.ShareGrant, error) {
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}

	folder, err := m.store.GetEntityByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || !folder.IsFolder() {
		return nil, ErrNotFound
	}
	if folder.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}

	return m.store.CreateShareGrant(ctx, database.CreateShareGrantParams{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		FolderID:  folderID,
		ExpiresAt: m.now().Add(ttl),
	})
}

// Validate resolves a token. A token that never existed is ErrNotFound; one
// past its expiry is ErrExpired, so callers can tell "link expired" apart
// from "link invalid". Expiry is a wall-clock comparison at call time.
func (m *ShareManager) Validate(ctx context.Context, token string) (*models.ShareGrant, error) {
	grant, err := m.store.GetShareGrantByID(ctx, token)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, ErrNotFound
	}
	if !m.now().Before(grant.ExpiresAt) {
		return nil, ErrExpired
	}
	return grant, nil
}

// IsDescendantOf reports whether nodeID sits inside ancestorID's subtree.
// It is reflexive: a node is a descendant of itself, so sharing a folder
// grants access to the folder too.
func (m *ShareManager) IsDescendantOf(ctx context.Context, ancestorID, nodeID string) (bool, error) {
	if ancestorID == nodeID {
		return true, nil
	}

	segments, err := m.resolver.PathSegments(ctx, nodeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	for _, segment := range segments {
		if segment.ID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// Authorize is the single gate for anonymous access to nodeID under token.
// It is evaluated on every request; a prior grant decision is never cached.
// A node outside the shared subtree looks exactly like a missing one.
func (m *ShareManager) Authorize(ctx context.Context, token, nodeID string) (*models.ShareGrant, error) {
	grant, err := m.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	ok, err := m.IsDescendantOf(ctx, grant.FolderID, nodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return grant, nil
}
