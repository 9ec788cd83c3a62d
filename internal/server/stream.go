package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameSource provides the latest camera frame as JPEG bytes.
type FrameSource interface {
	FrameJPEG() []byte
}

// StreamHandler serves the camera feed as an MJPEG stream.
type StreamHandler struct {
	frames FrameSource
}

// NewStreamHandler creates a new StreamHandler with the given frame source.
func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		buf := h.frames.FrameJPEG()
		if buf == nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
		w.Write(buf)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
