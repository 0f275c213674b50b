// Package camera provides runtime-configurable webcam capture for testcam.
// This follows the same pattern as pkg/tracking for tunable parameters.
package camera

// Facing mode hints. Local capture devices rarely report orientation, so
// this is informational and surfaced to the dashboard only.
const (
	FacingUser        = "user"
	FacingEnvironment = "environment"
)

// Config holds all camera configuration parameters.
// These can be modified via the camera API at runtime.
type Config struct {
	// === Resolution ===
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100

	// === Device ===
	// DeviceID is the OpenCV capture device index.
	DeviceID int `json:"device_id"`

	// FacingMode is the requested camera orientation ("user" or
	// "environment").
	FacingMode string `json:"facing_mode"`

	// FlipHorizontal mirrors frames so the preview behaves like a mirror,
	// which is what people expect from a user-facing camera.
	FlipHorizontal bool `json:"flip_horizontal"`
}

// Capture bounds for consumer webcams
const (
	MaxWidth     = 4096
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns the recommended configuration: 640x480 at 30fps,
// user-facing.
func DefaultConfig() Config {
	return Config{
		Width:          640,
		Height:         480,
		Framerate:      30,
		Quality:        85,
		DeviceID:       0,
		FacingMode:     FacingUser,
		FlipHorizontal: true,
	}
}

// HD720Config returns 720p HD configuration.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// HD1080Config returns 1080p Full HD configuration.
// More pixels per landmark, higher CPU usage.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	return cfg
}

// LowBandwidthConfig returns a reduced framerate and JPEG quality for
// constrained machines.
func LowBandwidthConfig() Config {
	cfg := DefaultConfig()
	cfg.Framerate = 15
	cfg.Quality = 60
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}
	if c.DeviceID < 0 {
		errors = append(errors, "device_id must not be negative")
	}

	validFacing := map[string]bool{FacingUser: true, FacingEnvironment: true}
	if c.FacingMode != "" && !validFacing[c.FacingMode] {
		errors = append(errors, "facing_mode must be user or environment")
	}

	return errors
}

// Capabilities returns the supported capture limits and modes.
func Capabilities() map[string]interface{} {
	return map[string]interface{}{
		"max_width":     MaxWidth,
		"max_height":    MaxHeight,
		"max_framerate": MaxFramerate,
		"facing_modes":  []string{FacingUser, FacingEnvironment},
		"presets":       PresetNames(),
	}
}
