package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/drive"
	"github.com/columk1/file-uploader/internal/models"
)

type PublicFolderResponse struct {
	FolderID     string              `json:"folder_id"`
	RootFolder   drive.PathSegment   `json:"root_folder"`
	Files        []models.Entity     `json:"files"`
	Folders      []drive.FolderNode  `json:"folders"`
	PathSegments []drive.PathSegment `json:"path_segments"`
}

func (s *Server) shareError(w http.ResponseWriter, err error, token string) {
	switch {
	case errors.Is(err, drive.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, drive.ErrExpired):
		http.Error(w, "This link has expired", http.StatusGone)
	default:
		s.log.WithError(err).WithField("token", token).Error("share resolution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// PublicFolderHandler lists a folder inside a shared subtree for an
// anonymous visitor. Authorization is re-evaluated on every request: the
// token must resolve to a live grant and the target folder must be the
// shared folder itself or one of its descendants.
func (s *Server) PublicFolderHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	sort, err := database.ParseSortQuery(r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var grant *models.ShareGrant
	folderID := chi.URLParam(r, "folderId")
	if folderID == "" {
		grant, err = s.shares.Validate(r.Context(), token)
		if err == nil {
			folderID = grant.FolderID
		}
	} else {
		grant, err = s.shares.Authorize(r.Context(), token, folderID)
	}
	if err != nil {
		s.shareError(w, err, token)
		return
	}

	folder, err := s.store.GetEntityByID(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if folder == nil || !folder.IsFolder() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	files, err := s.store.ListChildren(r.Context(), grant.OwnerID, &folderID, sort)
	if err != nil {
		http.Error(w, "Failed to list folder contents", http.StatusInternalServerError)
		return
	}

	// The tree is rooted at the shared folder so nothing above it is visible.
	folders, err := s.trees.FolderTree(r.Context(), grant.OwnerID, &grant.FolderID)
	if err != nil {
		http.Error(w, "Failed to build folder tree", http.StatusInternalServerError)
		return
	}

	segments, err := s.paths.PathSegments(r.Context(), folderID)
	if err != nil {
		s.log.WithError(err).WithField("folder_id", folderID).Error("path resolution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Breadcrumbs start at the shared root; ancestors above it stay private.
	for i, segment := range segments {
		if segment.ID == grant.FolderID {
			segments = segments[i:]
			break
		}
	}

	root, err := s.store.GetEntityByID(r.Context(), grant.FolderID)
	if err != nil || root == nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PublicFolderResponse{
		FolderID:     folderID,
		RootFolder:   drive.PathSegment{ID: root.ID, Name: root.Name},
		Files:        files,
		Folders:      folders,
		PathSegments: segments,
	})
}

// PublicDownloadHandler resolves a share-scoped download into blob bytes or
// a signed URL redirect.
func (s *Server) PublicDownloadHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	fileID := chi.URLParam(r, "fileId")

	grant, err := s.shares.Authorize(r.Context(), token, fileID)
	if err != nil {
		s.shareError(w, err, token)
		return
	}

	entity, err := s.store.GetEntityByID(r.Context(), fileID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if entity == nil || entity.IsFolder() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	s.serveBlob(w, r, blobKey(grant.OwnerID, entity.Name), entity.Name, entity.MimeType, entity.SizeBytes)
}
