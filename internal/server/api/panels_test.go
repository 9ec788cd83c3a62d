package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/engine"
)

// fakePanelSource serves a PanelSet the way the app does, minus the
// locking the single-goroutine tests don't need.
type fakePanelSource struct {
	panels *engine.PanelSet
}

func (f *fakePanelSource) PanelLayouts() []engine.Panel {
	panels := f.panels.Panels()
	out := make([]engine.Panel, 0, len(panels))
	for _, p := range panels {
		out = append(out, *p)
	}
	return out
}

func (f *fakePanelSource) UpdatePanel(id string, patch engine.PanelPatch) (engine.Panel, bool) {
	return f.panels.Apply(id, patch)
}

func newTestPanelSource(t *testing.T) *fakePanelSource {
	t.Helper()

	panels := engine.NewPanelSet(engine.DefaultPanelSetConfig())
	panels.SetViewport(1280, 720)
	panels.Add(&engine.Panel{ID: "hud", X: 100, Y: 100, Width: 300, Height: 200})
	return &fakePanelSource{panels: panels}
}

func TestPanelsHandler_List(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	req := httptest.NewRequest(http.MethodGet, "/api/panels", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response listPanelsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(response.Panels))
	}
	if response.Panels[0].ID != "hud" {
		t.Errorf("expected panel ID 'hud', got %q", response.Panels[0].ID)
	}
}

func TestPanelsHandler_Get(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	req := httptest.NewRequest(http.MethodGet, "/api/panels/hud", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var p engine.Panel
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if p.ID != "hud" || p.X != 100 {
		t.Errorf("panel = %+v", p)
	}
}

func TestPanelsHandler_Get_NotFound(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	req := httptest.NewRequest(http.MethodGet, "/api/panels/missing", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPanelsHandler_Update(t *testing.T) {
	source := newTestPanelSource(t)
	handler := NewPanelsHandler(source)

	body, _ := json.Marshal(map[string]float64{"x": 400, "y": 250})
	req := httptest.NewRequest(http.MethodPut, "/api/panels/hud", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	p := source.panels.Get("hud")
	if p.X != 400 || p.Y != 250 {
		t.Errorf("panel at (%f, %f), want (400, 250)", p.X, p.Y)
	}
	// Unspecified fields are untouched.
	if p.Width != 300 || p.Height != 200 {
		t.Errorf("panel size changed: (%f, %f)", p.Width, p.Height)
	}
}

func TestPanelsHandler_Update_Clamped(t *testing.T) {
	source := newTestPanelSource(t)
	handler := NewPanelsHandler(source)

	// Off-screen position and an oversized width are clamped like
	// gesture-driven moves.
	body, _ := json.Marshal(map[string]float64{"x": -500, "width": 9999})
	req := httptest.NewRequest(http.MethodPut, "/api/panels/hud", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	cfg := source.panels.Config()
	p := source.panels.Get("hud")
	if p.X != cfg.Margin {
		t.Errorf("panel X = %f, want clamped to %f", p.X, cfg.Margin)
	}
	if p.Width != cfg.MaxWidth {
		t.Errorf("panel width = %f, want clamped to %f", p.Width, cfg.MaxWidth)
	}
}

func TestPanelsHandler_Update_NotFound(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	body, _ := json.Marshal(map[string]float64{"x": 400})
	req := httptest.NewRequest(http.MethodPut, "/api/panels/missing", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPanelsHandler_Update_InvalidJSON(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	req := httptest.NewRequest(http.MethodPut, "/api/panels/hud", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPanelsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewPanelsHandler(newTestPanelSource(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/panels/hud", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
