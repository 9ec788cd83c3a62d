// Package api provides HTTP API handlers for the Mudra spatial
// interaction engine.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/engine"
)

// PanelSource is the synchronized view of the live panel layout. Reads
// return copies and updates are serialized against the pipeline tick, so
// the handler never touches panel geometry the engine is mutating.
type PanelSource interface {
	PanelLayouts() []engine.Panel
	UpdatePanel(id string, patch engine.PanelPatch) (engine.Panel, bool)
}

// PanelsHandler handles HTTP requests for HUD panel resources.
type PanelsHandler struct {
	panels PanelSource
}

// NewPanelsHandler creates a new PanelsHandler over the given panel
// source.
func NewPanelsHandler(panels PanelSource) *PanelsHandler {
	return &PanelsHandler{panels: panels}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PanelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/panels or /api/panels/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/panels")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/panels
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/panels/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type updatePanelRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type listPanelsResponse struct {
	Panels []engine.Panel `json:"panels"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/panels and returns every panel, bottom of the
// stack first.
func (h *PanelsHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listPanelsResponse{Panels: h.panels.PanelLayouts()})
}

// get handles GET /api/panels/{id} and returns a single panel.
func (h *PanelsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	for _, p := range h.panels.PanelLayouts() {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Panel not found")
}

// update handles PUT /api/panels/{id} and moves or resizes a panel.
// The new geometry is clamped the same way gesture-driven moves are.
func (h *PanelsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updatePanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, ok := h.panels.UpdatePanel(id, engine.PanelPatch{
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Panel not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
