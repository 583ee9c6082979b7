// Package config loads user settings from a JSON file with environment
// overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultConfigPath = "~/.config/raw-editor-mcp/config.json"

	// EnvConfig names the config file path override.
	EnvConfig = "RAWEDIT_CONFIG"
	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "RAWEDIT_LOG_LEVEL"
	// EnvDecoder overrides decoder.backend.
	EnvDecoder = "RAWEDIT_DECODER"
)

// Config holds user-editable settings.
type Config struct {
	Editing  Editing  `json:"editing"`
	Export   Export   `json:"export"`
	Decoder  Decoder  `json:"decoder"`
	Metadata Metadata `json:"metadata"`
	Logging  Logging  `json:"logging"`
}

// Editing controls the interactive edit loop.
type Editing struct {
	PreviewScale float64 `json:"preview_scale"` // fraction of full size, (0,1]
	DebounceMs   int     `json:"debounce_ms"`   // quiet period before full-res commit
}

// Export controls written files.
type Export struct {
	JPEGQuality int `json:"jpeg_quality"` // 1-100
}

// Decoder selects and configures the RAW decoder backend.
type Decoder struct {
	Backend   string   `json:"backend"` // dcraw, image, imagick
	DcrawPath string   `json:"dcraw_path"`
	DcrawArgs []string `json:"dcraw_args"`
}

// Metadata configures EXIF extraction.
type Metadata struct {
	ExiftoolFallback bool   `json:"exiftool_fallback"`
	ExiftoolPath     string `json:"exiftool_path"`
}

// Logging controls logging verbosity and format.
type Logging struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
}

// Debounce returns the configured commit delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Editing.DebounceMs) * time.Millisecond
}

// Load reads configuration from disk, falling back to defaults, then applies
// environment overrides.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads configuration from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	expanded, err := expandUser(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", expanded, err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editing: Editing{
			PreviewScale: 0.25,
			DebounceMs:   300,
		},
		Export: Export{
			JPEGQuality: 95,
		},
		Decoder: Decoder{
			Backend:   "dcraw",
			DcrawPath: "dcraw",
			DcrawArgs: []string{"-w"},
		},
		Metadata: Metadata{
			ExiftoolFallback: true,
			ExiftoolPath:     "exiftool",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !(c.Editing.PreviewScale > 0 && c.Editing.PreviewScale <= 1) {
		return fmt.Errorf("editing.preview_scale %v outside (0,1]", c.Editing.PreviewScale)
	}
	if c.Editing.DebounceMs < 0 {
		return fmt.Errorf("editing.debounce_ms must not be negative, got %d", c.Editing.DebounceMs)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("export.jpeg_quality %d outside 1-100", c.Export.JPEGQuality)
	}
	if strings.TrimSpace(c.Decoder.Backend) == "" {
		return errors.New("decoder.backend is empty")
	}
	return nil
}

// ApplyEnv applies the RAWEDIT_LOG_LEVEL and RAWEDIT_DECODER overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvDecoder); v != "" {
		c.Decoder.Backend = v
	}
}

func expandUser(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
