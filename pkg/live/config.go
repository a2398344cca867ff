package live

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "go.yaml.in/yaml/v2"
)

// Config carries the session's tunable knobs. The wire-level session
// shape (audio-only responses, transcription on both directions) is
// fixed and not configurable.
type Config struct {
	Model           string `yaml:"model" json:"model"`
	Voice           string `yaml:"voice" json:"voice"`
	Persona         string `yaml:"persona" json:"persona"`
	CaptureRate     int    `yaml:"capture_rate" json:"capture_rate"`
	FrameIntervalMs int    `yaml:"frame_interval_ms" json:"frame_interval_ms"`
	JPEGQuality     int    `yaml:"jpeg_quality" json:"jpeg_quality"`
}

// FrameInterval returns the frame sampler period, falling back to one
// second when unset.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// DefaultConfig returns the stock session configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: "models/gemini-2.0-flash-exp",
		Voice: "Aoede",
		Persona: "You are a serene mudra practice guide. Watch the user's hands, " +
			"name any mudra you recognize, and speak briefly about its meaning.",
		CaptureRate:     16000,
		FrameIntervalMs: 1000,
		JPEGQuality:     60,
	}
}

// LoadConfig loads session configuration from a YAML or JSON file.
// If path is empty, it attempts MUDRA_LIVE_CONFIG; if still empty,
// defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MUDRA_LIVE_CONFIG")
	}
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	ext := filepath.Ext(path)
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
		return cfg, nil
	}
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err == nil {
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err == nil {
		return cfg, nil
	}

	return nil, fmt.Errorf("unsupported config format: %s", ext)
}
