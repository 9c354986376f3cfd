package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./prisonstep.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "PrisonStep")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PrisonStep")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "prisonstep")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "prisonstep")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelled setting does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks settings that would otherwise fail deep inside startup.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Content.Rig == "" {
		return errors.New("content.rig is empty")
	}
	if c.Content.Collision == "" {
		return errors.New("content.collision is empty")
	}
	if c.Camera.Pullback <= 0 {
		return fmt.Errorf("camera.pullback %v must be positive", c.Camera.Pullback)
	}
	if c.Camera.Step <= 0 {
		return fmt.Errorf("camera.step %v must be positive", c.Camera.Step)
	}

	seen := make(map[int]bool, len(c.Level.Doors))
	for _, d := range c.Level.Doors {
		if d.ID <= 0 {
			return fmt.Errorf("door id %d must be positive", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("door id %d listed twice", d.ID)
		}
		seen[d.ID] = true
		if d.Axis == [3]float32{} {
			return fmt.Errorf("door %d has a zero axis", d.ID)
		}
	}
	return nil
}
