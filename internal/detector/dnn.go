package detector

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// DNNObjectDetector implements ObjectDetector using OpenCV's DNN module
// with a YOLO-style network.
type DNNObjectDetector struct {
	config     ObjectConfig
	net        gocv.Net
	classNames []string
	mu         sync.Mutex
	closed     bool
}

// NewDNNObjectDetector loads the network and class names described by the
// configuration.
func NewDNNObjectDetector(config ObjectConfig) (*DNNObjectDetector, error) {
	if config.InputSize <= 0 {
		config.InputSize = DefaultObjectConfig().InputSize
	}
	if config.MinScore <= 0 {
		config.MinScore = DefaultObjectConfig().MinScore
	}

	net := gocv.ReadNet(config.WeightsPath, config.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("load network from %s and %s", config.WeightsPath, config.ConfigPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	namesBytes, err := os.ReadFile(config.NamesPath)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("read class names: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(namesBytes), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}

	return &DNNObjectDetector{
		config:     config,
		net:        net,
		classNames: names,
	}, nil
}

// DetectObjects runs one forward pass and converts the network output to
// Objects in source-frame pixel space.
func (d *DNNObjectDetector) DetectObjects(frame *gocv.Mat) ([]Object, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("detector is closed")
	}
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	size := d.config.InputSize
	blob := gocv.BlobFromImage(*frame, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	frameW := float64(frame.Cols())
	frameH := float64(frame.Rows())

	var objects []Object
	for i := 0; i < output.Rows(); i++ {
		row := output.RowRange(i, i+1)
		data := row.Clone()

		scores := data.ColRange(5, data.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(scores)
		classID := maxLoc.X
		score := float64(maxVal)

		if score >= d.config.MinScore && classID < len(d.classNames) {
			cx := float64(data.GetFloatAt(0, 0)) * frameW
			cy := float64(data.GetFloatAt(0, 1)) * frameH
			w := float64(data.GetFloatAt(0, 2)) * frameW
			h := float64(data.GetFloatAt(0, 3)) * frameH

			left := int(cx - w/2)
			top := int(cy - h/2)
			objects = append(objects, Object{
				Box:   image.Rect(left, top, left+int(w), top+int(h)),
				Label: d.classNames[classID],
				Score: score,
			})
		}

		scores.Close()
		data.Close()
		row.Close()
	}

	return objects, nil
}

// Close releases the network.
func (d *DNNObjectDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.net.Close()
}
