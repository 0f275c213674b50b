package camera

// Preset names for common configurations
const (
	PresetDefault      = "default"
	Preset720p         = "720p"
	Preset1080p        = "1080p"
	PresetLowBandwidth = "low-bandwidth"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault:      DefaultConfig(),
		Preset720p:         HD720Config(),
		Preset1080p:        HD1080Config(),
		PresetLowBandwidth: LowBandwidthConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		Preset720p,
		Preset1080p,
		PresetLowBandwidth,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}
