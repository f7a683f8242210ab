// Package config loads pngtojpeg settings from an optional TOML file and
// merges command-line overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every setting the converter reads at startup
type Config struct {
	OutputDir string `toml:"output_dir"` // empty writes beside each input
	Jobs      int    `toml:"jobs"`       // 0 selects one worker per CPU
	Timeout   string `toml:"timeout"`    // Go duration, empty or "0" disables
	Logs      bool   `toml:"logs"`       // write a batch report
	DebugLog  string `toml:"debug_log"`  // path of the debug log, empty disables
}

// Overrides carries command-line values; zero values leave the file setting alone
type Overrides struct {
	OutputDir string
	Jobs      int
	Timeout   time.Duration
	Logs      bool
	DebugLog  string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pngtojpeg/config.toml")
}

// Load reads path (or the default location when path is empty), returning
// the config, the resolved path and whether a file was found there. A missing
// file is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	file, err := os.Open(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		if err := cfg.normalize(); err != nil {
			return nil, "", false, err
		}
		return &cfg, resolved, false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, true, nil
}

// Apply merges command-line overrides and re-normalizes paths.
func (c *Config) Apply(o Overrides) error {
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.Jobs != 0 {
		c.Jobs = o.Jobs
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout.String()
	}
	if o.Logs {
		c.Logs = true
	}
	if o.DebugLog != "" {
		c.DebugLog = o.DebugLog
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks values that cannot be normalized away.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs: must be 0 or more, got %d", c.Jobs)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.OutputDir != "" {
		info, err := os.Stat(c.OutputDir)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("output_dir: %s is not a directory", c.OutputDir)
		}
	}
	return nil
}

// TimeoutDuration parses Timeout; an empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout: must not be negative, got %s", d)
	}
	return d, nil
}

func (c *Config) normalize() error {
	var err error
	if c.OutputDir, err = absPath(c.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	if c.DebugLog, err = absPath(c.DebugLog); err != nil {
		return fmt.Errorf("debug_log: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return DefaultConfigPath()
	}
	return expandPath(path)
}

func absPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

func expandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
