// Package web provides the real-time dashboard for testcam: annotated
// camera frames, the movement warning banner and status text, plus runtime
// tuning of camera and tracking parameters.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/TechWebSid/testcam/internal/log"
	"github.com/TechWebSid/testcam/pkg/camera"
	"github.com/TechWebSid/testcam/pkg/detection"
	"github.com/TechWebSid/testcam/pkg/hub"
	"github.com/TechWebSid/testcam/pkg/tracking"
)

// State represents the current monitor state for the dashboard.
type State struct {
	CameraReady   bool `json:"camera_ready"`
	DetectorReady bool `json:"detector_ready"`
	Tracking      bool `json:"tracking"`

	// InitError is non-empty when the camera or face model failed to
	// initialize. It is fatal for the session and shown as a blocking
	// overlay.
	InitError string `json:"init_error"`

	// Status is the transient status line (tracking, detection errors).
	Status string `json:"status"`

	// Warning is the current user-facing warning, empty when none.
	Warning string `json:"warning"`

	FaceDetected bool             `json:"face_detected"`
	Position     *detection.Point `json:"position,omitempty"`

	FramesProcessed uint64 `json:"frames_processed"`
	FacesDetected   uint64 `json:"faces_detected"`
	DetectErrors    uint64 `json:"detect_errors"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, movement, error
	Message string `json:"message"`
}

// Server is the web dashboard server. It implements tracking.StateUpdater.
type Server struct {
	app  *fiber.App
	port string

	// State
	state   State
	stateMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub

	// Runtime-tunable components, nil when init failed
	cameraMgr *camera.Manager
	tracker   *tracking.Tracker
}

// NewServer creates a new web dashboard server serving static files from
// webDir.
func NewServer(port, webDir string, cameraMgr *camera.Manager, tracker *tracking.Tracker) *Server {
	s := &Server{
		port:      port,
		logs:      make([]LogEntry, 0, 500),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		cameraHub: hub.New("camera"),
		cameraMgr: cameraMgr,
		tracker:   tracker,
	}

	app := fiber.New(fiber.Config{
		AppName:               "testcam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", webDir)

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/camera", s.handleGetCamera)
	api.Get("/camera/capabilities", s.handleCameraCapabilities)
	api.Patch("/camera", s.handleUpdateCamera)
	api.Get("/tracking", s.handleGetTracking)
	api.Patch("/tracking", s.handleUpdateTracking)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	// Start all hubs
	go s.statusHub.Run()
	go s.logHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server failed", "err", err)
		}
	}()
}

// UpdateState applies update to the state and broadcasts when it changed.
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	before := s.state
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	if !stateEqual(before, state) {
		s.statusHub.BroadcastJSON(state)
	}
}

// stateEqual compares states by value, including the pointed-to position.
func stateEqual(a, b State) bool {
	pa, pb := a.Position, b.Position
	a.Position, b.Position = nil, nil
	if a != b {
		return false
	}
	if (pa == nil) != (pb == nil) {
		return false
	}
	return pa == nil || *pa == *pb
}

// SetInitError marks the session as unusable: the dashboard shows a
// persistent blocking message and tracking never starts.
func (s *Server) SetInitError(msg string) {
	s.UpdateState(func(st *State) {
		st.InitError = msg
		st.Status = msg
		st.Tracking = false
	})
	s.AddLog("error", msg)
}

// SetReady records which collaborators initialized successfully.
func (s *Server) SetReady(cameraReady, detectorReady bool) {
	s.UpdateState(func(st *State) {
		st.CameraReady = cameraReady
		st.DetectorReady = detectorReady
	})
}

// --- tracking.StateUpdater ---

// UpdateTracking receives the per-frame tracking outcome.
func (s *Server) UpdateTracking(warning string, state tracking.State, faceFound bool) {
	var frames, faces, errors uint64
	if s.tracker != nil {
		frames, faces, errors = s.tracker.Stats()
	}

	s.UpdateState(func(st *State) {
		st.Tracking = true
		st.Warning = warning
		st.FaceDetected = faceFound
		if state.HasRef {
			p := state.Ref
			st.Position = &p
		} else {
			st.Position = nil
		}
		st.FramesProcessed = frames
		st.FacesDetected = faces
		st.DetectErrors = errors
	})
}

// UpdateStatus sets the transient status line.
func (s *Server) UpdateStatus(status string) {
	s.UpdateState(func(st *State) {
		st.Status = status
	})
}

// PublishFrame sends an annotated camera frame to all connected clients.
func (s *Server) PublishFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// AddLog adds a log entry and broadcasts it to clients.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
