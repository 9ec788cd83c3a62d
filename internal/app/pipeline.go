package app

import (
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
)

// runPipeline is the main loop that drives the interaction engine from
// camera frames.
//
// Pipeline logic:
//  1. Read a frame at the camera frame rate and keep a JPEG copy for the
//     MJPEG stream
//  2. Sample the motion gate; a moving scene runs object detection at the
//     active cadence, a still scene at the idle cadence
//  3. Run hand detection every frame
//  4. Tick the engine with the frame's hand, fresh detections when the
//     object detector ran, and nil otherwise
//  5. Publish the resulting interaction state to subscribers
//
// done is closed on exit so Stop can wait for the loop to finish.
func (a *App) runPipeline(stopCh, done chan struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	activeMode := false
	lastMotionTime := time.Now()
	var lastDetectionTime time.Time
	detectionInterval := IdleDetectionInterval

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.storeFrameJPEG(frame)

			// Skip interaction processing if disabled
			if !a.IsEnabled() {
				frame.Close()
				continue
			}

			now := time.Now()

			// Step 1: Motion gating for the detection cadence
			moving, _ := a.motion.Sample(frame)
			if moving {
				lastMotionTime = now
				if !activeMode {
					activeMode = true
					detectionInterval = ActiveDetectionInterval
					log.Println("Switched to active detection cadence")
				}
			} else if activeMode && now.Sub(lastMotionTime) > IdleTimeout {
				activeMode = false
				detectionInterval = IdleDetectionInterval
				log.Println("Switched to idle detection cadence")
			}

			// Step 2: Hand detection, every frame
			var hand *detector.HandLandmarks
			hands, err := a.handDetector().Detect(frame)
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
			} else if len(hands) > 0 {
				hand = &hands[0]
			}

			// Step 3: Object detection, throttled. A nil slice tells the
			// engine the detector produced no new result this tick.
			var detections []engine.Detection
			if now.Sub(lastDetectionTime) >= detectionInterval {
				lastDetectionTime = now
				objects, err := a.objectDetector().DetectObjects(frame)
				if err != nil {
					log.Printf("Error detecting objects: %v", err)
				} else {
					detections = make([]engine.Detection, 0, len(objects))
					for _, o := range objects {
						detections = append(detections, engine.Detection{
							Box:   rectFromImage(o.Box),
							Label: o.Label,
							Score: o.Score,
						})
					}
				}
			}

			// Step 4: Engine tick, under the mutex: the tick mutates
			// panel geometry that UpdatePanel writes and PanelLayouts
			// reads from other goroutines. The frame stays open so the
			// snapshot action can crop it.
			a.mu.Lock()
			a.currentFrame = frame
			out := a.engine.Tick(engine.TickInput{
				Now:             now,
				ContainerWidth:  a.config.ViewportWidth,
				ContainerHeight: a.config.ViewportHeight,
				SourceWidth:     float64(frame.Cols()),
				SourceHeight:    float64(frame.Rows()),
				Mirrored:        a.config.Mirror,
				Detections:      detections,
				Hand:            hand,
			})
			a.currentFrame = nil
			a.mu.Unlock()
			frame.Close()

			// Step 5: Publish
			a.publishState(out, now)
		}
	}
}

// storeFrameJPEG keeps a JPEG copy of the latest frame for the MJPEG
// stream endpoint.
func (a *App) storeFrameJPEG(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	a.mu.Lock()
	a.frameJPEG = append(a.frameJPEG[:0], buf.GetBytes()...)
	a.mu.Unlock()
}

func (a *App) handDetector() detector.HandDetector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hands
}

func (a *App) objectDetector() detector.ObjectDetector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.objects
}

func rectFromImage(r image.Rectangle) engine.Rect {
	return engine.Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
