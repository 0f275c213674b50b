package camera

import (
	"errors"
	"testing"
)

func TestManager_GetSetConfig(t *testing.T) {
	m := NewManager(DefaultConfig())

	cfg := m.GetConfig()
	cfg.Width = 1280
	cfg.Height = 720

	if err := m.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if got := m.GetConfig(); got.Width != 1280 || got.Height != 720 {
		t.Errorf("config not applied: got %dx%d", got.Width, got.Height)
	}
}

func TestManager_SetConfigRejectsInvalid(t *testing.T) {
	m := NewManager(DefaultConfig())

	cfg := m.GetConfig()
	cfg.Quality = 0

	if err := m.SetConfig(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
	if m.GetConfig().Quality != DefaultConfig().Quality {
		t.Error("config should be unchanged after rejected update")
	}
}

func TestManager_UpdateConfig(t *testing.T) {
	m := NewManager(DefaultConfig())

	err := m.UpdateConfig(map[string]interface{}{
		"framerate":       float64(15), // JSON numbers decode as float64
		"quality":         60,
		"flip_horizontal": false,
	})
	if err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.Framerate != 15 {
		t.Errorf("Framerate: got %d, want 15", cfg.Framerate)
	}
	if cfg.Quality != 60 {
		t.Errorf("Quality: got %d, want 60", cfg.Quality)
	}
	if cfg.FlipHorizontal {
		t.Error("FlipHorizontal should be false")
	}
}

func TestManager_UpdateConfigPreset(t *testing.T) {
	m := NewManager(DefaultConfig())

	err := m.UpdateConfig(map[string]interface{}{
		"preset":  Preset720p,
		"quality": 70, // override on top of the preset
	})
	if err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("preset not applied: got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Quality != 70 {
		t.Errorf("override not applied: got quality %d", cfg.Quality)
	}
}

func TestManager_UpdateConfigUnknownPreset(t *testing.T) {
	m := NewManager(DefaultConfig())

	if err := m.UpdateConfig(map[string]interface{}{"preset": "8k"}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestManager_OnConfigChange(t *testing.T) {
	m := NewManager(DefaultConfig())

	var applied *Config
	m.OnConfigChange = func(cfg Config) error {
		applied = &cfg
		return nil
	}

	if err := m.UpdateConfig(map[string]interface{}{"quality": 50}); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	if applied == nil || applied.Quality != 50 {
		t.Error("OnConfigChange should receive the new config")
	}

	// Callback errors propagate to the caller
	m.OnConfigChange = func(cfg Config) error {
		return errors.New("device rejected settings")
	}
	if err := m.UpdateConfig(map[string]interface{}{"quality": 40}); err == nil {
		t.Error("expected callback error to propagate")
	}
}
