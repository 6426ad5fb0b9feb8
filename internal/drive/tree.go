package drive

import (
	"context"

	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/models"
)

// FolderNode is one folder in the navigation tree. Files never appear here.
type FolderNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Children []FolderNode `json:"children"`
}

// TreeBuilder assembles the folder-only tree for an owner. It fetches every
// folder row once and groups by parent in memory, so building the tree costs
// a single query regardless of depth.
type TreeBuilder struct {
	store *database.Store
}

func NewTreeBuilder(store *database.Store) *TreeBuilder {
	return &TreeBuilder{store: store}
}

// FolderTree returns the subtree below rootID (the owner's top level when
// nil). Siblings are ordered by name.
func (b *TreeBuilder) FolderTree(ctx context.Context, ownerID int64, rootID *string) ([]FolderNode, error) {
	folders, err := b.store.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]models.Entity)
	for _, f := range folders {
		key := ""
		if f.ParentID != nil {
			key = *f.ParentID
		}
		byParent[key] = append(byParent[key], f)
	}

	start := ""
	if rootID != nil {
		start = *rootID
	}

	return buildSubtree(byParent, start), nil
}

func buildSubtree(byParent map[string][]models.Entity, parentID string) []FolderNode {
	children := byParent[parentID]
	nodes := make([]FolderNode, 0, len(children))
	for _, child := range children {
		nodes = append(nodes, FolderNode{
			ID:       child.ID,
			Name:     child.Name,
			Children: buildSubtree(byParent, child.ID),
		})
	}
	return nodes
}
