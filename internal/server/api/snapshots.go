package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// SnapshotsHandler handles HTTP requests for snapshot resources.
type SnapshotsHandler struct {
	store *store.Store
}

// NewSnapshotsHandler creates a new SnapshotsHandler with the given store.
func NewSnapshotsHandler(s *store.Store) *SnapshotsHandler {
	return &SnapshotsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SnapshotsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/snapshots, /api/snapshots/{id} or
	// /api/snapshots/{id}/image
	path := strings.TrimPrefix(r.URL.Path, "/api/snapshots")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/snapshots
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/image"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.image(w, r, id)
		return
	}

	// Item endpoint: /api/snapshots/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type snapshotResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	CreatedAt string  `json:"created_at"`
}

type listSnapshotsResponse struct {
	Snapshots []snapshotResponse `json:"snapshots"`
}

// toSnapshotResponse converts a store.Snapshot to a snapshotResponse.
func toSnapshotResponse(sn *store.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:        sn.ID,
		Label:     sn.Label,
		Score:     sn.Score,
		Width:     sn.Width,
		Height:    sn.Height,
		CreatedAt: sn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/snapshots, optionally filtered by ?label=.
func (h *SnapshotsHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		snapshots []*store.Snapshot
		err       error
	)

	if label := r.URL.Query().Get("label"); label != "" {
		snapshots, err = h.store.Snapshots().ListByLabel(label)
	} else {
		snapshots, err = h.store.Snapshots().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	response := listSnapshotsResponse{
		Snapshots: make([]snapshotResponse, 0, len(snapshots)),
	}
	for _, sn := range snapshots {
		response.Snapshots = append(response.Snapshots, toSnapshotResponse(sn))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/snapshots/{id} and returns snapshot metadata.
func (h *SnapshotsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sn, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}

	writeJSON(w, http.StatusOK, toSnapshotResponse(sn))
}

// image handles GET /api/snapshots/{id}/image and serves the WebP file.
func (h *SnapshotsHandler) image(w http.ResponseWriter, r *http.Request, id string) {
	sn, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	http.ServeFile(w, r, sn.Path)
}

// delete handles DELETE /api/snapshots/{id}, removing both the metadata
// and the image file.
func (h *SnapshotsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	sn, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}

	if err := h.store.Snapshots().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	// Best effort: the metadata row is already gone.
	if err := os.Remove(sn.Path); err != nil && !os.IsNotExist(err) {
		writeError(w, http.StatusInternalServerError, "Failed to delete snapshot file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
