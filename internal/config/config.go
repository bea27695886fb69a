// Package config loads libmpv player profiles from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/libgompv/internal/ffi"
)

const (
	DefaultLogLevel    = "warn"
	DefaultWaitTimeout = time.Second
)

// Config is a player profile.
type Config struct {
	// Library overrides the libmpv search path (same as LIBMPV_PATH).
	Library string `yaml:"library,omitempty"`

	// Options are passed to mpv_set_option_string before initialization.
	Options map[string]string `yaml:"options,omitempty"`

	// LogLevel is the minimum libmpv log level forwarded to the logger.
	LogLevel string `yaml:"log_level"`

	// Headless forces vo=null and ao=null.
	Headless bool `yaml:"headless"`

	// WaitTimeout bounds each mpv_wait_event call in event loops.
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Options:     map[string]string{},
		LogLevel:    DefaultLogLevel,
		WaitTimeout: DefaultWaitTimeout,
	}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Library = envVar("LIBMPV_PATH", c.Library)
	c.LogLevel = envVar("MPV_LOG_LEVEL", c.LogLevel)
	c.Headless = envVar("MPV_HEADLESS", c.Headless)
}

func envVar[T ~string | ~bool](key string, def T) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	switch any(def).(type) {
	case string:
		return any(v).(T)
	case bool:
		if b, err := strconv.ParseBool(v); err == nil {
			return any(b).(T)
		}
	}
	return def
}

// Validate checks the log level and timeout.
func (c *Config) Validate() error {
	if _, err := ffi.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() ffi.LogLevel {
	level, err := ffi.ParseLogLevel(c.LogLevel)
	if err != nil {
		return ffi.LogLevelWarn
	}
	return level
}

// WaitSeconds returns WaitTimeout in the unit mpv_wait_event takes.
func (c *Config) WaitSeconds() float64 {
	return c.WaitTimeout.Seconds()
}

// ExportLibraryPath publishes Library through LIBMPV_PATH so the next
// ffi.LoadLibrary picks it up.
func (c *Config) ExportLibraryPath() error {
	if c.Library == "" {
		return nil
	}
	if _, err := os.Stat(c.Library); err != nil {
		return fmt.Errorf("library: %w", err)
	}
	return os.Setenv("LIBMPV_PATH", c.Library)
}

// OptionList returns the options in the order ApplyOptions sets them:
// headless overrides first, then Options sorted by name.
func (c *Config) OptionList() [][2]string {
	var out [][2]string
	if c.Headless {
		out = append(out, [2]string{"vo", "null"}, [2]string{"ao", "null"})
	}
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		if c.Headless && (name == "vo" || name == "ao") {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		out = append(out, [2]string{name, c.Options[name]})
	}
	return out
}

// ApplyOptions sets every option on an uninitialized core. It stops at the
// first failure.
func (c *Config) ApplyOptions(h ffi.Handle) error {
	for _, opt := range c.OptionList() {
		if code := ffi.SetOptionString(h, opt[0], opt[1]); code < 0 {
			return ffi.OpError("set option "+opt[0], code)
		}
	}
	return nil
}
