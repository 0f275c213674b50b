// Package tracking detects head movement between consecutive webcam frames
// and raises a user-facing warning when the tracked reference point moves
// beyond a pixel threshold.
package tracking

import "time"

// NoFaceWarning is the message shown when a frame contains no detected face.
const NoFaceWarning = "no face detected"

// DefaultWarningPrefix is prepended to directional movement warnings.
const DefaultWarningPrefix = "Warning: Head moved "

// Config holds all tunable parameters for movement tracking
type Config struct {
	// MoveThreshold is the per-axis displacement in pixels beyond which
	// movement is flagged. The check is strict: |delta| must exceed it.
	MoveThreshold float64 `json:"move_threshold"`

	// LeftEyeIndex and RightEyeIndex select the two landmark points whose
	// midpoint is tracked as the head reference point (approximates the
	// nose bridge). Kept configurable rather than hard-coded.
	LeftEyeIndex  int `json:"left_eye_index"`
	RightEyeIndex int `json:"right_eye_index"`

	// FrameInterval paces the tracking loop. The next frame is only
	// scheduled after the current one finishes processing.
	FrameInterval time.Duration `json:"frame_interval"`

	// WarningPrefix is the fixed label before the movement direction.
	WarningPrefix string `json:"warning_prefix"`
}

// DefaultConfig returns the recommended configuration: 5px threshold at a
// 30fps frame pacing hint.
func DefaultConfig() Config {
	return Config{
		MoveThreshold: 5,
		LeftEyeIndex:  2,
		RightEyeIndex: 3,
		FrameInterval: 33 * time.Millisecond, // ~30fps
		WarningPrefix: DefaultWarningPrefix,
	}
}

// RelaxedConfig tolerates more movement before warning.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.MoveThreshold = 12
	cfg.FrameInterval = 66 * time.Millisecond // ~15fps
	return cfg
}

// StrictConfig flags even small movements.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.MoveThreshold = 2
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.MoveThreshold <= 0 {
		errors = append(errors, "move_threshold must be positive")
	}
	if c.LeftEyeIndex < 0 {
		errors = append(errors, "left_eye_index must not be negative")
	}
	if c.RightEyeIndex < 0 {
		errors = append(errors, "right_eye_index must not be negative")
	}
	if c.FrameInterval < time.Millisecond || c.FrameInterval > time.Second {
		errors = append(errors, "frame_interval must be between 1ms and 1s")
	}

	return errors
}
