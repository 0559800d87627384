package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Engine: EngineConfig{
			MaxRange:      20,
			MaxGrids:      256,
			ArcMaxRadius:  20,
			TeleportTries: 500,
		},
		Content: ContentConfig{
			Races:            "content/races",
			Objects:          "content/objects",
			Scripts:          "content/scripts",
			InstructionLimit: 100000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: []string{"stderr"},
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
engine:
  max_range: 12
  max_grids: 64
  seed: 7
content:
  races: races.yaml
  objects: objects.yaml
  scripts: ""
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Engine.MaxRange)
	assert.Equal(t, 64, cfg.Engine.MaxGrids)
	assert.Equal(t, 20, cfg.Engine.ArcMaxRadius, "default survives a partial file")
	assert.Equal(t, uint64(7), cfg.Engine.Seed)
	assert.Equal(t, "races.yaml", cfg.Content.Races)
	assert.Empty(t, cfg.Content.Scripts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Logging.Output)
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Engine.MaxRange)
	assert.Equal(t, 256, cfg.Engine.MaxGrids)
	assert.Equal(t, 500, cfg.Engine.TeleportTries)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SPELLCAST_ENGINE_MAX_RANGE", "9")
	t.Setenv("SPELLCAST_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Engine.MaxRange)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("engine.max_grids", 32)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Engine.MaxGrids)

	v.Set("engine.max_grids", 0)
	_, err = LoadFromViper(v)
	assert.Error(t, err)
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.MaxRange = 0
	cfg.Content.Races = ""
	cfg.Logging.Level = "trace"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.max_range")
	assert.Contains(t, err.Error(), "content.races")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateArcMaxRadius(t *testing.T) {
	for _, r := range []int{1, 10, 20} {
		cfg := validConfig()
		cfg.Engine.ArcMaxRadius = r
		assert.NoError(t, cfg.Validate(), "radius %d should be valid", r)
	}
	for _, r := range []int{0, 21} {
		cfg := validConfig()
		cfg.Engine.ArcMaxRadius = r
		assert.Error(t, cfg.Validate(), "radius %d should be rejected", r)
	}
}

func TestValidateContent(t *testing.T) {
	cfg := validConfig()
	cfg.Content.Objects = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.InstructionLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.Scripts = ""
	assert.NoError(t, cfg.Validate(), "scripting is optional")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Output = nil
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidMaxRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.IntRange(1, 255).Draw(t, "max_range")
		cfg := validConfig()
		cfg.Engine.MaxRange = r
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid max_range %d rejected: %v", r, err)
		}
	})
}

func TestPropertyInvalidMaxRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(256, 10000),
		).Draw(t, "max_range")
		cfg := validConfig()
		cfg.Engine.MaxRange = r
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid max_range %d accepted", r)
		}
	})
}
