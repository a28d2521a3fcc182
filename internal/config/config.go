// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/uikit/internal/modal"
	"github.com/jmylchreest/uikit/internal/model"
	"github.com/jmylchreest/uikit/internal/notify"
)

// AppName is used for the config and data directory names.
const AppName = "uikit"

// Default configuration values.
const (
	DefaultVolume = 80
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
// A value of "0" means the toast never expires.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Config represents the uikit configuration.
type Config struct {
	Notifications NotificationsConfig `toml:"notifications"`
	Modals        ModalsConfig        `toml:"modals"`
	Theme         ThemeConfig         `toml:"theme"`
	Daemon        DaemonConfig        `toml:"daemon"`
	Audio         AudioConfig         `toml:"audio"`
}

// NotificationsConfig holds toast defaults.
type NotificationsConfig struct {
	MaxNotifications int      `toml:"max_notifications"`
	DefaultDuration  Duration `toml:"default_duration"`
	Position         string   `toml:"position"` // top-start ... bottom-end
}

// ModalsConfig holds dialog defaults and the styling tokens renderers read.
type ModalsConfig struct {
	DefaultSize        string `toml:"default_size"`
	DefaultIntent      string `toml:"default_intent"`
	DefaultDismissible bool   `toml:"default_dismissible"`
	ConfirmText        string `toml:"confirm_text"`
	CancelText         string `toml:"cancel_text"`
	OverlayClass       string `toml:"overlay_class"`
	ModalClass         string `toml:"modal_class"`
	ModalBoxClass      string `toml:"modal_box_class"`
	ActionClass        string `toml:"action_class"`
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	Default string `toml:"default"` // Empty = follow the system preference
}

// DaemonConfig holds settings for the long-running `uikit run` process.
type DaemonConfig struct {
	ClaimNotifications    bool `toml:"claim_notifications"`    // Own org.freedesktop.Notifications
	MirrorNotifications   bool `toml:"mirror_notifications"`   // Observe it without claiming the name
	InternalNotifications bool `toml:"internal_notifications"` // Toast on config reloads and errors
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-type sound file paths.
type SoundConfig struct {
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Warning string `toml:"warning"`
	Info    string `toml:"info"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	nc := notify.DefaultConfig()
	mc := modal.DefaultConfig()

	return &Config{
		Notifications: NotificationsConfig{
			MaxNotifications: nc.MaxNotifications,
			DefaultDuration:  Duration(time.Duration(nc.DefaultDuration) * time.Millisecond),
			Position:         string(nc.Position),
		},
		Modals: ModalsConfig{
			DefaultSize:        string(mc.DefaultSize),
			DefaultIntent:      string(mc.DefaultIntent),
			DefaultDismissible: mc.DefaultDismissible,
			ConfirmText:        mc.ConfirmText,
			CancelText:         mc.CancelText,
			OverlayClass:       mc.OverlayClass,
			ModalClass:         mc.ModalClass,
			ModalBoxClass:      mc.ModalBoxClass,
			ActionClass:        mc.ActionClass,
		},
		Daemon: DaemonConfig{
			ClaimNotifications:    false,
			InternalNotifications: true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// StatePath returns the path to the key/value state file.
func StatePath() string {
	return filepath.Join(DataPath(), "state.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Notifications.MaxNotifications < 1 {
		return fmt.Errorf("max_notifications must be at least 1, got %d", c.Notifications.MaxNotifications)
	}
	if c.Notifications.DefaultDuration < 0 {
		return fmt.Errorf("default_duration must not be negative, got %s", time.Duration(c.Notifications.DefaultDuration))
	}
	if _, err := model.ParsePosition(c.Notifications.Position); err != nil {
		return fmt.Errorf("%w %q, must be one of: %v", model.ErrInvalidPosition, c.Notifications.Position, model.Positions)
	}
	if _, err := model.ParseModalSize(c.Modals.DefaultSize); err != nil {
		return fmt.Errorf("%w %q, must be one of: %v", model.ErrInvalidSize, c.Modals.DefaultSize, model.ModalSizes)
	}
	if _, err := model.ParseModalIntent(c.Modals.DefaultIntent); err != nil {
		return fmt.Errorf("%w %q, must be one of: %v", model.ErrInvalidIntent, c.Modals.DefaultIntent, model.ModalIntents)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// NotifyConfig converts the [notifications] section for the toast manager.
func (c *Config) NotifyConfig() notify.Config {
	return notify.Config{
		MaxNotifications: c.Notifications.MaxNotifications,
		DefaultDuration:  c.Notifications.DefaultDuration.Milliseconds(),
		Position:         model.Position(c.Notifications.Position),
	}
}

// ModalConfig converts the [modals] section for the dialog manager.
func (c *Config) ModalConfig() modal.Config {
	m := c.Modals
	return modal.Config{
		DefaultSize:        model.ModalSize(m.DefaultSize),
		DefaultIntent:      model.ModalIntent(m.DefaultIntent),
		DefaultDismissible: m.DefaultDismissible,
		ConfirmText:        m.ConfirmText,
		CancelText:         m.CancelText,
		OverlayClass:       m.OverlayClass,
		ModalClass:         m.ModalClass,
		ModalBoxClass:      m.ModalBoxClass,
		ActionClass:        m.ActionClass,
	}
}

// SoundFor returns the sound file path for the given toast type.
// Expands ~ to home directory.
func (c *Config) SoundFor(t model.NotificationType) string {
	var path string
	switch t {
	case model.TypeSuccess:
		path = c.Audio.Sounds.Success
	case model.TypeError:
		path = c.Audio.Sounds.Error
	case model.TypeWarning:
		path = c.Audio.Sounds.Warning
	default:
		path = c.Audio.Sounds.Info
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
