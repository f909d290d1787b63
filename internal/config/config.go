// Package config provides configuration management for cortexcam
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by all validation errors
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration
type Config struct {
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera"`
	Orbit   OrbitConfig   `mapstructure:"orbit" yaml:"orbit"`
	Fly     FlyConfig     `mapstructure:"fly" yaml:"fly"`
	Pick    PickConfig    `mapstructure:"pick" yaml:"pick"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// CameraConfig configures the camera manager
type CameraConfig struct {
	TransitionSpeed float64 `mapstructure:"transition_speed" yaml:"transition_speed"` // blend progress per second
	DefaultFOV      float64 `mapstructure:"default_fov" yaml:"default_fov"`           // degrees
}

// OrbitConfig configures the orbit controller
type OrbitConfig struct {
	RotateDamping float64 `mapstructure:"rotate_damping" yaml:"rotate_damping"`
	MoveDamping   float64 `mapstructure:"move_damping" yaml:"move_damping"`
	ZoomDamping   float64 `mapstructure:"zoom_damping" yaml:"zoom_damping"`
	PitchMin      float64 `mapstructure:"pitch_min" yaml:"pitch_min"`
	PitchMax      float64 `mapstructure:"pitch_max" yaml:"pitch_max"`
	ZoomMin       float64 `mapstructure:"zoom_min" yaml:"zoom_min"`
	ZoomMax       float64 `mapstructure:"zoom_max" yaml:"zoom_max"` // 0 = unbounded
}

// FlyConfig configures the fly controller
type FlyConfig struct {
	RotateDamping float64 `mapstructure:"rotate_damping" yaml:"rotate_damping"`
	MoveDamping   float64 `mapstructure:"move_damping" yaml:"move_damping"`
	PitchMin      float64 `mapstructure:"pitch_min" yaml:"pitch_min"`
	PitchMax      float64 `mapstructure:"pitch_max" yaml:"pitch_max"`
}

// PickConfig configures asynchronous pick handling
type PickConfig struct {
	DiscardStale bool          `mapstructure:"discard_stale" yaml:"discard_stale"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SessionConfig configures a viewing session
type SessionConfig struct {
	SettingsPath      string    `mapstructure:"settings_path" yaml:"settings_path"`
	ScenePath         string    `mapstructure:"scene_path" yaml:"scene_path"` // glTF used for bounds
	BoundsCenter      []float64 `mapstructure:"bounds_center" yaml:"bounds_center"`
	BoundsHalfExtents []float64 `mapstructure:"bounds_half_extents" yaml:"bounds_half_extents"`
	FrameRate         float64   `mapstructure:"frame_rate" yaml:"frame_rate"`
	WatchSettings     bool      `mapstructure:"watch_settings" yaml:"watch_settings"`
}

// RemoteConfig configures the websocket host bridge
type RemoteConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MetricsPath string `mapstructure:"metrics_path" yaml:"metrics_path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Dir     string `mapstructure:"dir" yaml:"dir"` // empty disables the log file
	Console bool   `mapstructure:"console" yaml:"console"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			TransitionSpeed: 2.0,
			DefaultFOV:      65,
		},
		Orbit: OrbitConfig{
			RotateDamping: 0.97,
			MoveDamping:   0.97,
			ZoomDamping:   0.97,
			PitchMin:      -90,
			PitchMax:      90,
			ZoomMin:       0.01,
			ZoomMax:       0,
		},
		Fly: FlyConfig{
			RotateDamping: 0.97,
			MoveDamping:   0.97,
			PitchMin:      -90,
			PitchMax:      90,
		},
		Pick: PickConfig{
			DiscardStale: false,
			Timeout:      2 * time.Second,
		},
		Session: SessionConfig{
			BoundsCenter:      []float64{0, 0, 0},
			BoundsHalfExtents: []float64{1, 1, 1},
			FrameRate:         60,
		},
		Remote: RemoteConfig{
			Enabled:     false,
			ListenAddr:  ":8765",
			MetricsPath: "/metrics",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from path (if it exists) and the environment.
// A missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("CORTEXCAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("read config: %w", err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("camera.transition_speed", cfg.Camera.TransitionSpeed)
	v.SetDefault("camera.default_fov", cfg.Camera.DefaultFOV)

	v.SetDefault("orbit.rotate_damping", cfg.Orbit.RotateDamping)
	v.SetDefault("orbit.move_damping", cfg.Orbit.MoveDamping)
	v.SetDefault("orbit.zoom_damping", cfg.Orbit.ZoomDamping)
	v.SetDefault("orbit.pitch_min", cfg.Orbit.PitchMin)
	v.SetDefault("orbit.pitch_max", cfg.Orbit.PitchMax)
	v.SetDefault("orbit.zoom_min", cfg.Orbit.ZoomMin)
	v.SetDefault("orbit.zoom_max", cfg.Orbit.ZoomMax)

	v.SetDefault("fly.rotate_damping", cfg.Fly.RotateDamping)
	v.SetDefault("fly.move_damping", cfg.Fly.MoveDamping)
	v.SetDefault("fly.pitch_min", cfg.Fly.PitchMin)
	v.SetDefault("fly.pitch_max", cfg.Fly.PitchMax)

	v.SetDefault("pick.discard_stale", cfg.Pick.DiscardStale)
	v.SetDefault("pick.timeout", cfg.Pick.Timeout)

	v.SetDefault("session.settings_path", cfg.Session.SettingsPath)
	v.SetDefault("session.scene_path", cfg.Session.ScenePath)
	v.SetDefault("session.bounds_center", cfg.Session.BoundsCenter)
	v.SetDefault("session.bounds_half_extents", cfg.Session.BoundsHalfExtents)
	v.SetDefault("session.frame_rate", cfg.Session.FrameRate)
	v.SetDefault("session.watch_settings", cfg.Session.WatchSettings)

	v.SetDefault("remote.enabled", cfg.Remote.Enabled)
	v.SetDefault("remote.listen_addr", cfg.Remote.ListenAddr)
	v.SetDefault("remote.metrics_path", cfg.Remote.MetricsPath)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.dir", cfg.Log.Dir)
	v.SetDefault("log.console", cfg.Log.Console)
}

// Validate rejects values the camera core cannot run with
func (c *Config) Validate() error {
	if c.Camera.TransitionSpeed <= 0 {
		return fmt.Errorf("%w: camera.transition_speed must be positive", ErrInvalidConfig)
	}
	if c.Camera.DefaultFOV <= 0 || c.Camera.DefaultFOV >= 180 {
		return fmt.Errorf("%w: camera.default_fov must be in (0, 180)", ErrInvalidConfig)
	}

	dampings := map[string]float64{
		"orbit.rotate_damping": c.Orbit.RotateDamping,
		"orbit.move_damping":   c.Orbit.MoveDamping,
		"orbit.zoom_damping":   c.Orbit.ZoomDamping,
		"fly.rotate_damping":   c.Fly.RotateDamping,
		"fly.move_damping":     c.Fly.MoveDamping,
	}
	for key, d := range dampings {
		if d <= 0 || d >= 1 {
			return fmt.Errorf("%w: %s must be in (0, 1)", ErrInvalidConfig, key)
		}
	}

	if c.Orbit.PitchMin > c.Orbit.PitchMax {
		return fmt.Errorf("%w: orbit.pitch_min exceeds orbit.pitch_max", ErrInvalidConfig)
	}
	if c.Fly.PitchMin > c.Fly.PitchMax {
		return fmt.Errorf("%w: fly.pitch_min exceeds fly.pitch_max", ErrInvalidConfig)
	}
	if c.Orbit.ZoomMax != 0 && c.Orbit.ZoomMax < c.Orbit.ZoomMin {
		return fmt.Errorf("%w: orbit.zoom_max below orbit.zoom_min", ErrInvalidConfig)
	}

	if c.Session.FrameRate <= 0 {
		return fmt.Errorf("%w: session.frame_rate must be positive", ErrInvalidConfig)
	}
	if len(c.Session.BoundsCenter) != 3 || len(c.Session.BoundsHalfExtents) != 3 {
		return fmt.Errorf("%w: session bounds need three components", ErrInvalidConfig)
	}
	if c.Pick.Timeout < 0 {
		return fmt.Errorf("%w: pick.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Save writes the configuration to path as YAML
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("camera", cfg.Camera)
	v.Set("orbit", cfg.Orbit)
	v.Set("fly", cfg.Fly)
	v.Set("pick", cfg.Pick)
	v.Set("session", cfg.Session)
	v.Set("remote", cfg.Remote)
	v.Set("log", cfg.Log)

	return v.WriteConfigAs(path)
}

// DefaultConfigPath returns ~/.cortexcam/config.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cortexcam", "config.yaml"), nil
}
