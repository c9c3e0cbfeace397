// Package config defines the logger's configuration and how it is loaded.
//
// Conventions:
//   - New returns a Config with defaults; Load layers a YAML file and env on top.
//   - Referees and Events are nil unless configured; nil means built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/pkg/logger"
	"github.com/user/touch-ref-logger/tagging"
)

// RefereeConfig names the referee bound to a hotkey.
type RefereeConfig struct {
	Key  string `koanf:"key"`
	Name string `koanf:"name"`
}

// EventConfig binds an event label to a hotkey.
type EventConfig struct {
	Key   string `koanf:"key"`
	Label string `koanf:"label"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogDir is where interactive sessions write their log file.
	// Empty means the user cache directory.
	LogDir string `koanf:"log_dir"`

	// RequireReferee gates event logging on a selected referee.
	RequireReferee bool `koanf:"require_referee"`

	// Catalog is the built-in event preset: touch or sports.
	Catalog string `koanf:"catalog"`

	// Events replaces the preset with a custom ordered list.
	Events []EventConfig `koanf:"events"`

	// Referees sets the referee hotkeys and, optionally, their names.
	Referees []RefereeConfig `koanf:"referees"`

	// Output is the fixed-name CSV file the log is persisted to.
	Output string `koanf:"output"`

	// Autosave rewrites Output after every logged event.
	Autosave bool `koanf:"autosave"`

	// DescriptionColumn adds the Description column to CSV output.
	DescriptionColumn bool `koanf:"description_column"`

	// SampleInterval is how often the playback position is polled.
	SampleInterval time.Duration `koanf:"sample_interval"`

	// MpvSocket is the IPC socket path used to talk to mpv.
	MpvSocket string `koanf:"mpv_socket"`

	// MetricsFile, when set, receives a Prometheus textfile on exit.
	MetricsFile string `koanf:"metrics_file"`

	// LookupTimeout bounds the video metadata lookup.
	LookupTimeout time.Duration `koanf:"lookup_timeout"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		RequireReferee: true,
		Catalog:        tagging.PresetTouch,
		Output:         eventlog.DefaultFileName,
		Autosave:       true,
		SampleInterval: time.Second,
		MpvSocket:      "/tmp/touch-ref-logger-mpv.sock",
		LookupTimeout:  5 * time.Second,
	}
}

// Validate checks values that cannot be caught by decoding alone.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample_interval must be positive", ErrInvalidConfig)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("%w: lookup_timeout must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.MpvSocket) == "" {
		return fmt.Errorf("%w: mpv_socket must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Machine(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Columns returns the CSV columns selected by the config.
func (c *Config) Columns() eventlog.Columns {
	return eventlog.Columns{Description: c.DescriptionColumn}
}

// Machine builds the registry, catalog and state machine described by the config.
func (c *Config) Machine() (*tagging.Machine, error) {
	var keys []rune
	for _, r := range c.Referees {
		k, err := hotkey(r.Key)
		if err != nil {
			return nil, fmt.Errorf("referee %q: %w", r.Name, err)
		}
		keys = append(keys, k)
	}
	reg, err := tagging.NewRegistry(keys...)
	if err != nil {
		return nil, err
	}
	for _, r := range c.Referees {
		k, _ := hotkey(r.Key)
		if err := reg.SetName(k, strings.TrimSpace(r.Name)); err != nil {
			return nil, err
		}
	}

	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}
	return tagging.NewMachine(reg, cat, tagging.WithRequireReferee(c.RequireReferee))
}

func (c *Config) catalog() (*tagging.Catalog, error) {
	if len(c.Events) == 0 {
		return tagging.Preset(c.Catalog)
	}
	events := make([]tagging.EventType, 0, len(c.Events))
	for _, e := range c.Events {
		k, err := hotkey(e.Key)
		if err != nil {
			return nil, fmt.Errorf("event '%s': %w", e.Label, err)
		}
		events = append(events, tagging.EventType{Hotkey: k, Label: strings.TrimSpace(e.Label)})
	}
	return tagging.NewCatalog(events)
}

// Map returns the config as a flat key map, as written by the config command.
func (c *Config) Map() map[string]interface{} {
	referees := make([]map[string]interface{}, len(c.Referees))
	for i, r := range c.Referees {
		referees[i] = map[string]interface{}{"key": r.Key, "name": r.Name}
	}
	events := make([]map[string]interface{}, len(c.Events))
	for i, e := range c.Events {
		events[i] = map[string]interface{}{"key": e.Key, "label": e.Label}
	}
	return map[string]interface{}{
		"log_level":          c.LogLevel,
		"log_dir":            c.LogDir,
		"require_referee":    c.RequireReferee,
		"catalog":            c.Catalog,
		"events":             events,
		"referees":           referees,
		"output":             c.Output,
		"autosave":           c.Autosave,
		"description_column": c.DescriptionColumn,
		"sample_interval":    c.SampleInterval.String(),
		"mpv_socket":         c.MpvSocket,
		"metrics_file":       c.MetricsFile,
		"lookup_timeout":     c.LookupTimeout.String(),
	}
}

func hotkey(s string) (rune, error) {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) {
		return 0, fmt.Errorf("hotkey %q must be a single character: %w", s, tagging.ErrUnknownHotkey)
	}
	return r, nil
}
