// Package config holds the viper-backed application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Mode selects how accepted invocations are carried out.
type Mode string

const (
	// ModeDisabled records invocations as ignored; nothing happens.
	ModeDisabled Mode = "disabled"
	// ModeLogical records invocations as executed and feeds mark rendering,
	// but produces no OS-level effect.
	ModeLogical Mode = "logical"
	// ModeEffectful performs the invocation through the platform input
	// injector in addition to recording it.
	ModeEffectful Mode = "effectful"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDisabled, ModeLogical, ModeEffectful:
		return Mode(s), nil
	}
	return "", fmt.Errorf("config: unknown execution mode %q (want disabled, logical or effectful)", s)
}

// Config is the root configuration document.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Execution ExecutionConfig `mapstructure:"execution" yaml:"execution"`
	Capture   CaptureConfig   `mapstructure:"capture" yaml:"capture"`
	Canvas    CanvasConfig    `mapstructure:"canvas" yaml:"canvas"`
	Overlay   OverlayConfig   `mapstructure:"overlay" yaml:"overlay"`
	RunDir    string          `mapstructure:"run_dir" yaml:"run_dir"`
}

// LoggerConfig configures the zap logger and its rotated file sink.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ExecutionConfig controls how the registry handles accepted invocations.
type ExecutionConfig struct {
	Mode Mode `mapstructure:"mode" yaml:"mode"`
	// OverlayDebug turns the overlay into an input-blocking isolation
	// surface. Effectful execution is forced down to logical while it is on.
	OverlayDebug bool `mapstructure:"overlay_debug" yaml:"overlay_debug"`
}

// EffectiveMode resolves the configured mode against the overlay-debug
// override: an input-blocking overlay makes effectful injection pointless
// and dangerous, so it degrades to logical.
func (e ExecutionConfig) EffectiveMode() Mode {
	if e.OverlayDebug && e.Mode == ModeEffectful {
		return ModeLogical
	}
	return e.Mode
}

// CaptureConfig tunes frame production.
type CaptureConfig struct {
	// Width/Height are the target frame resolution; zero means the source
	// resolution is kept.
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	// Delay is an extra wait before a live grab, for slow-to-render UI.
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
	// SettleDelay is the fixed wait after signaling the overlay, before the
	// screen is grabbed, so the redraw lands in the frame.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// SubprocessTimeout bounds the subordinate capture process.
	SubprocessTimeout time.Duration `mapstructure:"subprocess_timeout" yaml:"subprocess_timeout"`
}

// CanvasConfig controls the synthetic-canvas frame strategy.
type CanvasConfig struct {
	// Enabled selects the synthetic canvas instead of live capture. The
	// real display is never touched while this is on.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Width   int  `mapstructure:"width" yaml:"width"`
	Height  int  `mapstructure:"height" yaml:"height"`
}

// OverlayConfig configures the persistent overlay process and the sync
// protocol shared with it.
type OverlayConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	BlockInput   bool          `mapstructure:"block_input" yaml:"block_input"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	EventName    string        `mapstructure:"event_name" yaml:"event_name"`
}

// SetDefaults installs default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "marionette")
	v.SetDefault("logger.log_file", "marionette.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	v.SetDefault("execution.mode", string(ModeLogical))
	v.SetDefault("execution.overlay_debug", false)

	v.SetDefault("capture.width", 512)
	v.SetDefault("capture.height", 288)
	v.SetDefault("capture.delay", "1s")
	v.SetDefault("capture.settle_delay", "150ms")
	v.SetDefault("capture.subprocess_timeout", "60s")

	v.SetDefault("canvas.enabled", true)
	v.SetDefault("canvas.width", 1920)
	v.SetDefault("canvas.height", 1080)

	v.SetDefault("overlay.enabled", false)
	v.SetDefault("overlay.block_input", false)
	v.SetDefault("overlay.poll_interval", "2s")
	v.SetDefault("overlay.event_name", "MarionetteOverlayRefresh")

	v.SetDefault("run_dir", ".")
}

// NewDefaultConfig builds a configuration from defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults are static; this cannot fail unless they are broken.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if _, err := ParseMode(string(c.Execution.Mode)); err != nil {
		return err
	}
	if c.Capture.Width < 0 || c.Capture.Height < 0 {
		return fmt.Errorf("config: capture resolution must not be negative")
	}
	if c.Canvas.Enabled && (c.Canvas.Width <= 0 || c.Canvas.Height <= 0) {
		return fmt.Errorf("config: canvas resolution must be positive")
	}
	if c.Overlay.PollInterval <= 0 {
		return fmt.Errorf("config: overlay.poll_interval must be a positive duration")
	}
	if c.Capture.SubprocessTimeout <= 0 {
		return fmt.Errorf("config: capture.subprocess_timeout must be a positive duration")
	}
	if c.Overlay.EventName == "" {
		return fmt.Errorf("config: overlay.event_name must not be empty")
	}
	if c.RunDir == "" {
		return fmt.Errorf("config: run_dir must not be empty")
	}
	return nil
}
