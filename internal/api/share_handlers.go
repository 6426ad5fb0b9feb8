package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/columk1/file-uploader/internal/drive"
)

type ShareResponse struct {
	Token     string    `json:"token"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateShareHandler exposes a folder's subtree through a public link. The
// optional "hours" query sets the lifetime; it defaults to three days.
func (s *Server) CreateShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	folderID := chi.URLParam(r, "entityId")

	var ttl time.Duration
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours <= 0 {
			http.Error(w, "Invalid hours value", http.StatusBadRequest)
			return
		}
		ttl = time.Duration(hours) * time.Hour
	}

	grant, err := s.shares.CreateShare(r.Context(), claims.UserID, folderID, ttl)
	if err != nil {
		switch {
		case errors.Is(err, drive.ErrNotFound):
			http.Error(w, "Folder not found", http.StatusNotFound)
		case errors.Is(err, drive.ErrUnauthorized):
			http.Error(w, "You do not own this folder", http.StatusForbidden)
		default:
			s.log.WithError(err).WithField("folder_id", folderID).Error("share creation failed")
			http.Error(w, "Failed to create share", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ShareResponse{
		Token:     grant.ID,
		PublicURL: fmt.Sprintf("/public/%s", grant.ID),
		ExpiresAt: grant.ExpiresAt,
	})
}
