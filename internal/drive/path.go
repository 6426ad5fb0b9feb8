package drive

import (
	"context"

	"github.com/columk1/file-uploader/internal/database"
)

// PathSegment is one breadcrumb entry.
type PathSegment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PathResolver reconstructs a node's ancestor chain by walking parent
// pointers toward the root.
type PathResolver struct {
	store *database.Store
}

func NewPathResolver(store *database.Store) *PathResolver {
	return &PathResolver{store: store}
}

// PathSegments returns the chain from the root ancestor down to and including
// entityID. The first segment is always a root-level node, the last is the
// entity itself. A dangling parent pointer or a revisited id stops the walk
// with ErrInconsistent instead of looping.
func (r *PathResolver) PathSegments(ctx context.Context, entityID string) ([]PathSegment, error) {
	entity, err := r.store.GetEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}

	var segments []PathSegment
	visited := make(map[string]bool)

	for {
		if visited[entity.ID] {
			return nil, ErrInconsistent
		}
		visited[entity.ID] = true

		segments = append([]PathSegment{{ID: entity.ID, Name: entity.Name}}, segments...)

		if entity.ParentID == nil {
			return segments, nil
		}

		parent, err := r.store.GetEntityByID(ctx, *entity.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrInconsistent
		}
		entity = parent
	}
}
