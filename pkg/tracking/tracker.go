package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TechWebSid/testcam/internal/log"
	"github.com/TechWebSid/testcam/pkg/debug"
	"github.com/TechWebSid/testcam/pkg/detection"
)

// FrameSource interface for capturing frames
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
}

// StateUpdater interface for updating dashboard state
type StateUpdater interface {
	UpdateTracking(warning string, state State, faceFound bool)
	UpdateStatus(status string)
	PublishFrame(jpeg []byte)
	AddLog(logType, message string)
}

// Annotator draws overlay instructions onto a frame
type Annotator interface {
	Annotate(jpeg []byte, overlay Overlay) ([]byte, error)
}

// Tracker runs the per-frame movement tracking loop: capture a frame, detect
// faces, compare the reference point against the previous frame, surface the
// warning and annotated frame, then schedule the next frame.
type Tracker struct {
	mu     sync.RWMutex
	config Config

	detector  detection.Detector
	source    FrameSource
	state     StateUpdater
	annotator Annotator

	// Counters, guarded by mu
	framesProcessed uint64
	facesDetected   uint64
	detectErrors    uint64

	isRunning bool
}

// New creates a new movement tracker.
func New(config Config, detector detection.Detector, source FrameSource) *Tracker {
	return &Tracker{
		config:   config,
		detector: detector,
		source:   source,
	}
}

// SetStateUpdater sets the dashboard state updater
func (t *Tracker) SetStateUpdater(state StateUpdater) {
	t.state = state
}

// SetAnnotator sets the overlay renderer for published frames
func (t *Tracker) SetAnnotator(a Annotator) {
	t.annotator = a
}

// Config returns the current tracking configuration.
func (t *Tracker) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// SetConfig replaces the tracking configuration after validating it.
func (t *Tracker) SetConfig(cfg Config) error {
	if errors := cfg.Validate(); len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	t.mu.Lock()
	t.config = cfg
	t.mu.Unlock()
	return nil
}

// UpdateConfig updates specific fields of the configuration.
// Accepts a map of field names to values.
func (t *Tracker) UpdateConfig(params map[string]interface{}) error {
	cfg := t.Config()

	for key, value := range params {
		switch key {
		case "move_threshold":
			if v, ok := toFloat(value); ok {
				cfg.MoveThreshold = v
			}
		case "left_eye_index":
			if v, ok := toInt(value); ok {
				cfg.LeftEyeIndex = v
			}
		case "right_eye_index":
			if v, ok := toInt(value); ok {
				cfg.RightEyeIndex = v
			}
		case "frame_interval_ms":
			if v, ok := toInt(value); ok {
				cfg.FrameInterval = time.Duration(v) * time.Millisecond
			}
		case "warning_prefix":
			if v, ok := value.(string); ok {
				cfg.WarningPrefix = v
			}
		}
	}

	return t.SetConfig(cfg)
}

// Stats returns the frame, face and detection-error counters.
func (t *Tracker) Stats() (frames, faces, detectErrors uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.framesProcessed, t.facesDetected, t.detectErrors
}

// IsRunning reports whether the tracking loop is active.
func (t *Tracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isRunning
}

// Run starts the tracking loop and blocks until ctx is cancelled.
//
// The loop is self-chaining: the timer for the next frame is only armed
// after the current frame finishes, so there is at most one in-flight
// detection at a time. Per-frame failures are logged and surfaced as status
// text, never fatal to the loop.
func (t *Tracker) Run(ctx context.Context) {
	cfg := t.Config()

	log.Info("movement tracker started",
		"threshold_px", cfg.MoveThreshold,
		"interval", cfg.FrameInterval,
		"landmarks", fmt.Sprintf("%d/%d", cfg.LeftEyeIndex, cfg.RightEyeIndex))

	t.mu.Lock()
	t.isRunning = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.isRunning = false
		t.mu.Unlock()
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	// All cross-frame memory lives here and flows through Step.
	state := State{}

	for {
		select {
		case <-ctx.Done():
			log.Info("movement tracker stopped")
			return

		case <-timer.C:
			state = t.processFrame(state)
			timer.Reset(t.Config().FrameInterval)
		}
	}
}

// processFrame handles one frame end to end and returns the state to carry
// into the next frame.
func (t *Tracker) processFrame(prev State) State {
	frame, err := t.source.CaptureJPEG()
	if err != nil {
		log.Warn("frame capture failed", "err", err)
		t.updateStatus(fmt.Sprintf("camera error: %v", err))
		return prev
	}

	dets, err := t.detector.Detect(frame)
	if err != nil {
		// Transient: surface and keep going on the next frame.
		log.Warn("detection failed", "err", err)
		t.mu.Lock()
		t.detectErrors++
		t.mu.Unlock()
		if t.state != nil {
			t.state.AddLog("error", fmt.Sprintf("detection error: %v", err))
		}
		t.updateStatus(fmt.Sprintf("detection error: %v", err))
		return prev
	}

	res := Step(t.Config(), prev, dets)

	t.mu.Lock()
	t.framesProcessed++
	if res.FaceFound {
		t.facesDetected++
	}
	t.mu.Unlock()

	t.publishFrame(frame, res)

	if t.state != nil {
		t.state.UpdateTracking(res.Warning, res.State, res.FaceFound)
		if res.Warning != "" && res.Warning != NoFaceWarning {
			t.state.AddLog("movement", res.Warning)
		}
	}

	switch {
	case !res.FaceFound:
		t.updateStatus(NoFaceWarning)
	default:
		t.updateStatus("tracking")
	}

	if res.FaceFound {
		debug.TrackLog("ref=(%.1f,%.1f) warning=%q\n",
			res.State.Ref.X, res.State.Ref.Y, res.Warning)
	}

	return res.State
}

// publishFrame sends the (annotated, when possible) frame to the dashboard.
func (t *Tracker) publishFrame(frame []byte, res Result) {
	if t.state == nil {
		return
	}

	out := frame
	if t.annotator != nil && !res.Overlay.Empty() {
		annotated, err := t.annotator.Annotate(frame, res.Overlay)
		if err != nil {
			// Drawing failure is cosmetic, ship the raw frame.
			log.Debug("annotate failed", "err", err)
		} else {
			out = annotated
		}
	}

	t.state.PublishFrame(out)
}

func (t *Tracker) updateStatus(status string) {
	if t.state != nil {
		t.state.UpdateStatus(status)
	}
}

// Helper functions for type conversion

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		if err == nil {
			return int(i), true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
