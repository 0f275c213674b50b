package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TechWebSid/testcam/pkg/detection"
)

// mockSource returns a fixed frame, or an error when failing is set.
type mockSource struct {
	mu      sync.Mutex
	failing bool
	frames  int
}

func (m *mockSource) CaptureJPEG() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
	if m.failing {
		return nil, errors.New("device busy")
	}
	return []byte{0xFF, 0xD8, 0xFF}, nil
}

// mockDetector returns a scripted sequence of detection results.
type mockDetector struct {
	mu      sync.Mutex
	results [][]detection.Detection
	err     error
	calls   int
}

func (m *mockDetector) Detect(jpeg []byte) ([]detection.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return nil, nil
	}
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res, nil
}

func (m *mockDetector) Close() error { return nil }

// mockUpdater records everything the tracker pushes to the dashboard.
type mockUpdater struct {
	mu       sync.Mutex
	warnings []string
	statuses []string
	frames   int
	logs     []string
}

func (m *mockUpdater) UpdateTracking(warning string, state State, faceFound bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, warning)
}

func (m *mockUpdater) UpdateStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *mockUpdater) PublishFrame(jpeg []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
}

func (m *mockUpdater) AddLog(logType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, logType+": "+message)
}

func (m *mockUpdater) lastWarning() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.warnings) == 0 {
		return "", false
	}
	return m.warnings[len(m.warnings)-1], true
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameInterval = time.Millisecond
	return cfg
}

func TestTracker_ProcessFrame_MovementWarning(t *testing.T) {
	det := &mockDetector{results: [][]detection.Detection{
		{faceAt(100, 100)},
		{faceAt(108, 100)},
	}}
	updater := &mockUpdater{}

	tr := New(fastConfig(), det, &mockSource{})
	tr.SetStateUpdater(updater)

	state := tr.processFrame(State{}) // baseline
	state = tr.processFrame(state)    // moved right by 8

	if !state.HasRef {
		t.Fatal("tracker should hold a reference point")
	}

	warning, ok := updater.lastWarning()
	if !ok {
		t.Fatal("no tracking updates recorded")
	}
	if warning != DefaultWarningPrefix+"right" {
		t.Errorf("warning: got %q, want %q", warning, DefaultWarningPrefix+"right")
	}

	frames, faces, detectErrors := tr.Stats()
	if frames != 2 || faces != 2 || detectErrors != 0 {
		t.Errorf("stats: got frames=%d faces=%d errors=%d", frames, faces, detectErrors)
	}
}

func TestTracker_DetectionErrorIsNonFatal(t *testing.T) {
	det := &mockDetector{err: errors.New("inference failed")}
	updater := &mockUpdater{}

	tr := New(fastConfig(), det, &mockSource{})
	tr.SetStateUpdater(updater)

	prev := stateAt(50, 50)
	state := tr.processFrame(prev)

	// State carries through unchanged: the error is transient.
	if state != prev {
		t.Errorf("state should be unchanged on detection error, got %+v", state)
	}

	_, _, detectErrors := tr.Stats()
	if detectErrors != 1 {
		t.Errorf("detectErrors: got %d, want 1", detectErrors)
	}

	updater.mu.Lock()
	defer updater.mu.Unlock()
	if len(updater.statuses) == 0 || len(updater.logs) == 0 {
		t.Error("detection error should surface in the status line and logs")
	}
}

func TestTracker_CaptureErrorKeepsState(t *testing.T) {
	tr := New(fastConfig(), &mockDetector{}, &mockSource{failing: true})
	tr.SetStateUpdater(&mockUpdater{})

	prev := stateAt(10, 20)
	if state := tr.processFrame(prev); state != prev {
		t.Errorf("state should be unchanged on capture error, got %+v", state)
	}
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	det := &mockDetector{}
	source := &mockSource{}
	updater := &mockUpdater{}

	tr := New(fastConfig(), det, source)
	tr.SetStateUpdater(updater)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	if !tr.IsRunning() {
		t.Error("tracker should report running")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop after cancel")
	}

	if tr.IsRunning() {
		t.Error("tracker should report stopped after cancel")
	}

	frames, _, _ := tr.Stats()
	if frames == 0 {
		t.Error("tracker should have processed frames before cancel")
	}

	// No-face frames surface the warning to the dashboard.
	warning, ok := updater.lastWarning()
	if !ok || warning != NoFaceWarning {
		t.Errorf("expected %q warning on empty frames, got %q", NoFaceWarning, warning)
	}
}

func TestTracker_UpdateConfig(t *testing.T) {
	tr := New(DefaultConfig(), &mockDetector{}, &mockSource{})

	err := tr.UpdateConfig(map[string]interface{}{
		"move_threshold":    10.0,
		"frame_interval_ms": 50,
		"warning_prefix":    "moved ",
	})
	if err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg := tr.Config()
	if cfg.MoveThreshold != 10 {
		t.Errorf("MoveThreshold: got %v, want 10", cfg.MoveThreshold)
	}
	if cfg.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval: got %v, want 50ms", cfg.FrameInterval)
	}
	if cfg.WarningPrefix != "moved " {
		t.Errorf("WarningPrefix: got %q", cfg.WarningPrefix)
	}
}

func TestTracker_UpdateConfigRejectsInvalid(t *testing.T) {
	tr := New(DefaultConfig(), &mockDetector{}, &mockSource{})

	if err := tr.UpdateConfig(map[string]interface{}{"move_threshold": -1.0}); err == nil {
		t.Error("expected error for invalid threshold")
	}

	// Config unchanged after rejected update
	if tr.Config().MoveThreshold != 5 {
		t.Errorf("config should be unchanged, got threshold %v", tr.Config().MoveThreshold)
	}
}
