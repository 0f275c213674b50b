package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/TechWebSid/testcam/pkg/camera"
	"github.com/TechWebSid/testcam/pkg/hub"
	"github.com/TechWebSid/testcam/pkg/tracking"
)

// handleStatus returns the current monitor state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleGetCamera returns the current camera configuration
func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.cameraMgr == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "camera not initialized",
		})
	}
	return c.JSON(s.cameraMgr.GetConfig())
}

// handleCameraCapabilities returns the supported capture limits and presets
func (s *Server) handleCameraCapabilities(c *fiber.Ctx) error {
	return c.JSON(camera.Capabilities())
}

// handleUpdateCamera applies a partial camera config update
func (s *Server) handleUpdateCamera(c *fiber.Ctx) error {
	if s.cameraMgr == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "camera not initialized",
		})
	}

	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.cameraMgr.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddLog("info", "camera config updated")
	return c.JSON(s.cameraMgr.GetConfig())
}

// handleGetTracking returns the current tracking configuration
func (s *Server) handleGetTracking(c *fiber.Ctx) error {
	if s.tracker == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "tracker not initialized",
		})
	}
	return c.JSON(trackingConfigJSON(s.tracker.Config()))
}

// handleUpdateTracking applies a partial tracking config update
func (s *Server) handleUpdateTracking(c *fiber.Ctx) error {
	if s.tracker == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "tracker not initialized",
		})
	}

	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.tracker.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddLog("info", "tracking config updated")
	return c.JSON(trackingConfigJSON(s.tracker.Config()))
}

// trackingConfigJSON flattens the config for the API; the frame interval is
// reported in milliseconds to match the PATCH parameter.
func trackingConfigJSON(cfg tracking.Config) fiber.Map {
	return fiber.Map{
		"move_threshold":    cfg.MoveThreshold,
		"left_eye_index":    cfg.LeftEyeIndex,
		"right_eye_index":   cfg.RightEyeIndex,
		"frame_interval_ms": cfg.FrameInterval.Milliseconds(),
		"warning_prefix":    cfg.WarningPrefix,
	}
}

// handleStatusWS streams state updates; sends the current state on connect
func (s *Server) handleStatusWS(c *websocket.Conn) {
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	hub.NewClient(s.statusHub, c).Run()
}

// handleCameraWS streams annotated JPEG frames as binary messages
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}

// handleLogsWS streams log entries; replays the buffer on connect
func (s *Server) handleLogsWS(c *websocket.Conn) {
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	hub.NewClient(s.logHub, c).Run()
}
