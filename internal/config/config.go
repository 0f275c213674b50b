// Package config loads testcam service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process-level settings. Runtime-tunable parameters
// (camera controls, movement threshold) live in their own packages and are
// only seeded from here.
type Config struct {
	// HTTPPort is the dashboard listen port.
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CameraDevice is the capture device index passed to OpenCV.
	CameraDevice int `envconfig:"CAMERA_DEVICE" default:"0"`

	// ModelPath points at the YuNet face detection ONNX model.
	ModelPath string `envconfig:"MODEL_PATH" default:"models/face_detection_yunet.onnx"`

	// MoveThreshold overrides the head-movement warning threshold in pixels.
	// Zero keeps the tracking package default.
	MoveThreshold float64 `envconfig:"MOVE_THRESHOLD" default:"0"`

	// WebDir is the directory the static dashboard is served from.
	WebDir string `envconfig:"WEB_DIR" default:"./web"`
}

// Load reads the configuration from TESTCAM_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("testcam", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
