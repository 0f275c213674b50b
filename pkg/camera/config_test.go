package camera

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 640x480 at 30fps is the capture contract the tracker is tuned for
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Framerate != 30 {
		t.Errorf("Expected 30fps, got %d", cfg.Framerate)
	}
	if cfg.FacingMode != FacingUser {
		t.Errorf("Expected user-facing camera, got %q", cfg.FacingMode)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("DefaultConfig should validate, got %v", errs)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"width too small", func(c *Config) { c.Width = 100 }, true},
		{"width too large", func(c *Config) { c.Width = 9000 }, true},
		{"height too small", func(c *Config) { c.Height = 50 }, true},
		{"zero framerate", func(c *Config) { c.Framerate = 0 }, true},
		{"quality over 100", func(c *Config) { c.Quality = 150 }, true},
		{"negative device", func(c *Config) { c.DeviceID = -1 }, true},
		{"bad facing mode", func(c *Config) { c.FacingMode = "sideways" }, true},
		{"empty facing mode ok", func(c *Config) { c.FacingMode = "" }, false},
		{"environment facing ok", func(c *Config) { c.FacingMode = FacingEnvironment }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			errs := cfg.Validate()
			if tc.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tc.wantErr && len(errs) > 0 {
				t.Errorf("expected no validation errors, got %v", errs)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		preset := GetPreset(name)
		if preset == nil {
			t.Errorf("preset %q missing", name)
			continue
		}
		if errs := preset.Validate(); len(errs) > 0 {
			t.Errorf("preset %q should validate, got %v", name, errs)
		}
	}

	if GetPreset("nope") != nil {
		t.Error("unknown preset should return nil")
	}
}
