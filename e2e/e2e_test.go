package e2e

import (
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

// stateResponse mirrors the /api/state payload.
type stateResponse struct {
	Labels []struct {
		Text string `json:"text"`
	} `json:"labels"`
	Panels []struct {
		ID string `json:"id"`
		X  float64
		Y  float64
	} `json:"panels"`
	SelectedLabel string  `json:"selected_label"`
	HUDScale      float64 `json:"hud_scale"`
}

// poll retries fn until it returns true or the deadline passes.
func poll(t *testing.T, timeout time.Duration, fn func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return false
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Replace the hardware pieces with mocks playing a synthetic scene.
	frame := testdata.SolidFrame(1280, 720, 32, 32, 32)
	defer frame.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{frame}, true)

	application := app.New(app.Config{
		Store:        s,
		DataDir:      tmpDir,
		MotionThresh: 0.05,
		Camera:       cam,
	})

	hands := detector.NewMockHandDetector()
	objects := detector.NewMockObjectDetector()
	application.SetHandDetector(hands)
	application.SetObjectDetector(objects)

	// One detection sitting mid-frame, wide enough to contain both the
	// pointing fingertip and the later pinch position.
	objects.SetObjects([]detector.Object{
		{Box: image.Rect(500, 200, 800, 420), Label: "cup", Score: 0.92},
	})

	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	getState := func() stateResponse {
		resp, err := client.Get(ts.URL + "/api/state")
		if err != nil {
			t.Fatalf("GET /api/state error = %v", err)
		}
		defer resp.Body.Close()
		var st stateResponse
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return st
	}

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d", resp.StatusCode)
		}
	})

	t.Run("StateShowsDetections", func(t *testing.T) {
		ok := poll(t, 3*time.Second, func() bool {
			st := getState()
			return len(st.Labels) == 1 && st.Labels[0].Text == "cup"
		})
		if !ok {
			t.Fatalf("state never showed the detection: %+v", getState())
		}
	})

	t.Run("PointSelectsDetection", func(t *testing.T) {
		// Pointing up with the index fingertip inside the detection box.
		hands.SetHands([]detector.HandLandmarks{detector.PointUpLandmarks()})

		ok := poll(t, 3*time.Second, func() bool {
			return getState().SelectedLabel == "cup"
		})
		if !ok {
			t.Fatal("pointing never selected the detection")
		}
	})

	t.Run("PinchOnSelectedSavesSnapshot", func(t *testing.T) {
		hands.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})

		ok := poll(t, 3*time.Second, func() bool {
			snaps, err := s.Snapshots().List()
			return err == nil && len(snaps) >= 1
		})
		if !ok {
			t.Fatal("pinch on selected detection saved no snapshot")
		}

		snaps, _ := s.Snapshots().List()
		if snaps[0].Label != "cup" {
			t.Errorf("snapshot label = %q, want cup", snaps[0].Label)
		}

		// The snapshot is served over the API.
		resp, err := client.Get(fmt.Sprintf("%s/api/snapshots/%s/image", ts.URL, snaps[0].ID))
		if err != nil {
			t.Fatalf("GET snapshot image error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("snapshot image status = %d", resp.StatusCode)
		}
	})

	t.Run("PanelsAPI", func(t *testing.T) {
		st := getState()
		if len(st.Panels) == 0 {
			t.Fatal("no panels in state")
		}

		resp, err := client.Get(ts.URL + "/api/panels")
		if err != nil {
			t.Fatalf("GET /api/panels error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("panels status = %d", resp.StatusCode)
		}

		var panels struct {
			Panels []struct {
				ID string `json:"id"`
			} `json:"panels"`
		}
		json.NewDecoder(resp.Body).Decode(&panels)
		if len(panels.Panels) == 0 || panels.Panels[0].ID != "hud" {
			t.Errorf("panels = %+v, want default hud panel", panels.Panels)
		}
	})
}

func TestE2E_LayoutPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	frame := testdata.SolidFrame(1280, 720, 32, 32, 32)
	defer frame.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{frame}, true)

	application := app.New(app.Config{Store: s, DataDir: tmpDir, Camera: cam})
	application.SetHandDetector(detector.NewMockHandDetector())
	application.SetObjectDetector(detector.NewMockObjectDetector())

	if err := application.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}

	x, y := 500.0, 400.0
	if _, ok := application.UpdatePanel("hud", engine.PanelPatch{X: &x, Y: &y}); !ok {
		t.Fatal("default panel missing")
	}
	application.Stop()

	saved, err := s.Layouts().GetByID("hud")
	if err != nil {
		t.Fatalf("layout not persisted: %v", err)
	}
	if saved.X != 500 || saved.Y != 400 {
		t.Errorf("saved layout at (%f, %f), want (500, 400)", saved.X, saved.Y)
	}
}
