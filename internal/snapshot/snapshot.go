// Package snapshot crops detection regions out of camera frames and
// saves them as WebP files on disk.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Config holds snapshot writer settings
type Config struct {
	// Dir is the directory snapshots are written to
	Dir string
	// Quality is the WebP encoding quality (0-100)
	Quality int
	// MaxDim caps the longest side of a saved snapshot in pixels
	MaxDim int
	// Margin is the fraction of the region's size added as padding on
	// each side before cropping
	Margin float64
}

// DefaultConfig returns the default snapshot configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:     dir,
		Quality: 90,
		MaxDim:  512,
		Margin:  0.15,
	}
}

// Snapshot describes a saved crop.
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	Path      string    `json:"path"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// Writer crops frames and writes WebP snapshots.
type Writer struct {
	config Config
}

// NewWriter creates a Writer, ensuring the snapshot directory exists.
func NewWriter(config Config) (*Writer, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("snapshot directory not set")
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Writer{config: config}, nil
}

// Capture crops region out of frame, pads it by the configured margin,
// downscales it to MaxDim if needed and writes it as a WebP file.
// The region is in frame pixel coordinates.
func (w *Writer) Capture(frame image.Image, region image.Rectangle, label string, score float64) (*Snapshot, error) {
	if frame == nil {
		return nil, fmt.Errorf("nil frame")
	}

	rect := w.padRegion(region).Intersect(frame.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("crop region %v is outside the frame", region)
	}

	cropped := imaging.Crop(frame, rect)

	if w.config.MaxDim > 0 {
		b := cropped.Bounds()
		if b.Dx() > w.config.MaxDim || b.Dy() > w.config.MaxDim {
			if b.Dx() >= b.Dy() {
				cropped = imaging.Resize(cropped, w.config.MaxDim, 0, imaging.Lanczos)
			} else {
				cropped = imaging.Resize(cropped, 0, w.config.MaxDim, imaging.Lanczos)
			}
		}
	}

	id := uuid.New().String()
	path := filepath.Join(w.config.Dir, id+".webp")

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	opts := &webp.Options{Quality: float32(w.config.Quality)}
	if err := webp.Encode(f, cropped, opts); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	bounds := cropped.Bounds()
	return &Snapshot{
		ID:        id,
		Label:     label,
		Score:     score,
		Path:      path,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		CreatedAt: time.Now(),
	}, nil
}

// Load reads a saved snapshot back as an image.
func (w *Writer) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return webp.Decode(f)
}

// Remove deletes a snapshot file from disk. A missing file is not an
// error.
func (w *Writer) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (w *Writer) padRegion(r image.Rectangle) image.Rectangle {
	if w.config.Margin <= 0 {
		return r
	}
	padX := int(float64(r.Dx()) * w.config.Margin)
	padY := int(float64(r.Dy()) * w.config.Margin)
	return image.Rect(r.Min.X-padX, r.Min.Y-padY, r.Max.X+padX, r.Max.Y+padY)
}
