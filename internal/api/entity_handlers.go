package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jaevor/go-nanoid"

	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/drive"
	"github.com/columk1/file-uploader/internal/storage"
)

const signedURLTTL = 60 * time.Second

type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (s *Server) generateUniqueID(ctx context.Context) (string, error) {
	maxRetries := 10

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		id := generateID()
		exists, err := s.store.EntityExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for entity existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

func blobKey(ownerID int64, filename string) string {
	return fmt.Sprintf("%d/%s", ownerID, filename)
}

// requireOwnedFolder verifies that parentID is a folder belonging to ownerID.
// A missing, foreign, or non-folder parent must all look the same to the
// requester, otherwise ids leak across tenants.
func (s *Server) requireOwnedFolder(ctx context.Context, ownerID int64, parentID string) (bool, error) {
	parent, err := s.store.GetEntityByID(ctx, parentID)
	if err != nil {
		return false, err
	}
	return parent != nil && parent.OwnerID == ownerID && parent.IsFolder(), nil
}

func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "Folder name cannot be empty", http.StatusBadRequest)
		return
	}

	if req.ParentID != nil {
		ok, err := s.requireOwnedFolder(r.Context(), claims.UserID, *req.ParentID)
		if err != nil {
			http.Error(w, "Failed to resolve parent folder", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "Parent folder not found", http.StatusNotFound)
			return
		}
	}

	entityID, err := s.generateUniqueID(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	params := database.CreateEntityParams{
		ID:       entityID,
		OwnerID:  claims.UserID,
		ParentID: req.ParentID,
		Name:     req.Name,
		Type:     "folder",
	}

	entity, err := s.store.CreateEntity(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			http.Error(w, "Parent folder does not exist", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create folder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entity)
}

func (s *Server) ListEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sort, err := database.ParseSortQuery(r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var parentID *string
	if parentIDStr := r.URL.Query().Get("parent_id"); parentIDStr != "" {
		parent, err := s.store.GetEntityByID(r.Context(), parentIDStr)
		if err != nil {
			http.Error(w, "Failed to resolve parent folder", http.StatusInternalServerError)
			return
		}
		if parent == nil || parent.OwnerID != claims.UserID || !parent.IsFolder() {
			http.Error(w, "Folder not found", http.StatusNotFound)
			return
		}
		parentID = &parentIDStr
	}

	entities, err := s.store.ListChildren(r.Context(), claims.UserID, parentID, sort)
	if err != nil {
		http.Error(w, "Failed to list entities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entities)
}

func (s *Server) FolderTreeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	tree, err := s.trees.FolderTree(r.Context(), claims.UserID, nil)
	if err != nil {
		http.Error(w, "Failed to build folder tree", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tree)
}

func (s *Server) PathSegmentsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	entityID := chi.URLParam(r, "entityId")

	entity, err := s.store.GetEntityByID(r.Context(), entityID)
	if err != nil {
		http.Error(w, "Failed to resolve entity", http.StatusInternalServerError)
		return
	}
	if entity == nil || entity.OwnerID != claims.UserID {
		http.Error(w, "Entity not found", http.StatusNotFound)
		return
	}

	segments, err := s.paths.PathSegments(r.Context(), entityID)
	if err != nil {
		if errors.Is(err, drive.ErrNotFound) {
			http.Error(w, "Entity not found", http.StatusNotFound)
			return
		}
		s.log.WithError(err).WithField("entity_id", entityID).Error("path resolution failed")
		http.Error(w, "Failed to resolve path", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(segments)
}

func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var parentID *string
	if parentIDStr := r.FormValue("parent_id"); parentIDStr != "" {
		ok, err := s.requireOwnedFolder(r.Context(), claims.UserID, parentIDStr)
		if err != nil {
			http.Error(w, "Failed to resolve parent folder", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "Parent folder not found", http.StatusNotFound)
			return
		}
		parentID = &parentIDStr
	}

	// Client filenames can carry path separators; only the last element may
	// reach the blob key, which is flat per owner.
	filename := filepath.Base(filepath.FromSlash(handler.Filename))
	if filename == "." || filename == ".." || filename == string(filepath.Separator) {
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	entityID, err := s.generateUniqueID(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	key := blobKey(claims.UserID, filename)
	mimeType := handler.Header.Get("Content-Type")

	err = s.blobs.Upload(r.Context(), s.config.Storage.Bucket, key, file, storage.UploadOptions{ContentType: mimeType})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			http.Error(w, "A file with this name already exists", http.StatusConflict)
			return
		}
		s.log.WithError(err).WithField("key", key).Error("blob upload failed")
		http.Error(w, "Failed to store file", http.StatusServiceUnavailable)
		return
	}

	sizeBytes := handler.Size

	params := database.CreateEntityParams{
		ID:        entityID,
		OwnerID:   claims.UserID,
		ParentID:  parentID,
		Name:      filename,
		Type:      "file",
		SizeBytes: &sizeBytes,
		MimeType:  &mimeType,
	}

	entity, err := s.store.CreateEntity(r.Context(), params)
	if err != nil {
		// Undo the blob write so a failed insert does not strand bytes.
		if delErr := s.blobs.Delete(r.Context(), s.config.Storage.Bucket, key); delErr != nil {
			s.log.WithError(delErr).WithField("key", key).Warn("failed to clean up blob after insert failure")
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			http.Error(w, "Parent folder does not exist", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create file record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entity)
}

func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	entityID := chi.URLParam(r, "entityId")

	entity, err := s.store.GetEntityByID(r.Context(), entityID)
	if err != nil {
		http.Error(w, "Failed to retrieve file metadata", http.StatusInternalServerError)
		return
	}
	if entity == nil || entity.OwnerID != claims.UserID {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if entity.IsFolder() {
		http.Error(w, "Cannot download a folder", http.StatusBadRequest)
		return
	}

	s.serveBlob(w, r, blobKey(entity.OwnerID, entity.Name), entity.Name, entity.MimeType, entity.SizeBytes)
}

// serveBlob redirects to a signed URL when the backend can mint one, and
// falls back to streaming the bytes itself otherwise (local storage).
func (s *Server) serveBlob(w http.ResponseWriter, r *http.Request, key, filename string, mimeType *string, sizeBytes *int64) {
	url, err := s.blobs.SignedURL(r.Context(), s.config.Storage.Bucket, key, signedURLTTL)
	if err == nil {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	if !errors.Is(err, storage.ErrNotSupported) {
		s.log.WithError(err).WithField("key", key).Error("failed to sign download URL")
		http.Error(w, "Storage unavailable", http.StatusServiceUnavailable)
		return
	}

	stream, err := s.blobs.Open(r.Context(), s.config.Storage.Bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			http.Error(w, "File not found on storage", http.StatusNotFound)
			return
		}
		http.Error(w, "Storage unavailable", http.StatusServiceUnavailable)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	if mimeType != nil && *mimeType != "" {
		w.Header().Set("Content-Type", *mimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if sizeBytes != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *sizeBytes))
	}

	io.Copy(w, stream)
}

func (s *Server) DeleteEntityHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	entityID := chi.URLParam(r, "entityId")

	err := s.deleter.Delete(r.Context(), entityID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, drive.ErrNotFound):
			http.Error(w, "Entity not found", http.StatusNotFound)
		case errors.Is(err, drive.ErrUnauthorized):
			http.Error(w, "You do not own this entity", http.StatusForbidden)
		default:
			s.log.WithError(err).WithField("entity_id", entityID).Error("delete failed")
			http.Error(w, "Failed to delete entity", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
