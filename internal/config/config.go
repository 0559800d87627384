// Package config provides Viper-based configuration loading for the
// projection engine and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EngineConfig holds projection engine limits.
type EngineConfig struct {
	// MaxRange is the longest path a projection may trace.
	MaxRange int `mapstructure:"max_range"`
	// MaxGrids caps the affected-grid set of one projection.
	MaxGrids int `mapstructure:"max_grids"`
	// ArcMaxRadius caps the radius of arc projections.
	ArcMaxRadius int `mapstructure:"arc_max_radius"`
	// TeleportTries bounds the search for a teleport destination.
	TeleportTries int `mapstructure:"teleport_tries"`
	// Seed selects a deterministic dice source; 0 uses crypto randomness.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig holds the locations of YAML content and Lua scripts.
type ContentConfig struct {
	Races      string `mapstructure:"races"`
	Objects    string `mapstructure:"objects"`
	Conditions string `mapstructure:"conditions"`
	// Scripts is a directory of *.lua hooks. Empty disables scripting.
	Scripts string `mapstructure:"scripts"`
	// InstructionLimit bounds Lua opcodes per hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a list of sinks; "stderr", "stdout" or file paths.
	Output []string `mapstructure:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Content ContentConfig `mapstructure:"content"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.MaxRange < 1 || e.MaxRange > 255 {
		errs = append(errs, fmt.Sprintf("engine.max_range must be 1-255, got %d", e.MaxRange))
	}
	if e.MaxGrids < 1 {
		errs = append(errs, fmt.Sprintf("engine.max_grids must be >= 1, got %d", e.MaxGrids))
	}
	if e.ArcMaxRadius < 1 || e.ArcMaxRadius > 20 {
		errs = append(errs, fmt.Sprintf("engine.arc_max_radius must be 1-20, got %d", e.ArcMaxRadius))
	}
	if e.TeleportTries < 1 {
		errs = append(errs, fmt.Sprintf("engine.teleport_tries must be >= 1, got %d", e.TeleportTries))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Races == "" {
		errs = append(errs, "content.races must not be empty")
	}
	if c.Objects == "" {
		errs = append(errs, "content.objects must not be empty")
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if len(l.Output) == 0 {
		return errors.New("logging.output must name at least one sink")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SPELLCAST_ prefix
	v.SetEnvPrefix("SPELLCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.max_range", 20)
	v.SetDefault("engine.max_grids", 256)
	v.SetDefault("engine.arc_max_radius", 20)
	v.SetDefault("engine.teleport_tries", 500)
	v.SetDefault("engine.seed", 0)

	v.SetDefault("content.races", "content/races")
	v.SetDefault("content.objects", "content/objects")
	v.SetDefault("content.conditions", "")
	v.SetDefault("content.scripts", "content/scripts")
	v.SetDefault("content.instruction_limit", 100000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", []string{"stderr"})
}
