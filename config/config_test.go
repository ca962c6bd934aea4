package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/simon/audio"
	"github.com/lixenwraith/simon/engine"
	"github.com/lixenwraith/simon/score"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TestDefaultIsValid verifies the built-in configuration converts cleanly
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}

	p, err := cfg.EnginePacing()
	if err != nil {
		t.Fatalf("EnginePacing: %v", err)
	}
	if p != engine.DefaultPacing() {
		t.Errorf("Expected default pacing %+v, got %+v", engine.DefaultPacing(), p)
	}

	a, _ := cfg.AudioSettings()
	if a.Backend != audio.BackendBeep {
		t.Errorf("Expected beep backend, got %v", a.Backend)
	}
	s, _ := cfg.ScoreSettings()
	if s.Backend != score.BackendFile {
		t.Errorf("Expected file score backend, got %q", s.Backend)
	}
	if s.Redis.Timeout != 2*time.Second {
		t.Errorf("Expected 2s redis timeout, got %v", s.Redis.Timeout)
	}
}

// TestLoadFileOverridesDefaults verifies TOML sections decode over defaults
func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.toml", `
[pacing]
tone = 0.5
gap = 0.1

[audio]
backend = "none"
volume = 0.25

[score]
backend = "memory"

[display]
new_best = "strict"
`)

	cfg, err := Load(Options{Args: []string{"-config", path}, LookupEnv: noEnv, EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		// an explicit env file must exist
		t.Fatalf("Expected missing explicit env file error, got %v", err)
	}

	cfg, err = Load(Options{Args: []string{"-config", path}, LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Expected source %q, got %q", path, cfg.Source)
	}
	p, _ := cfg.EnginePacing()
	if p.Tone != 500*time.Millisecond || p.Gap != 100*time.Millisecond {
		t.Errorf("Expected tone 500ms gap 100ms, got %v %v", p.Tone, p.Gap)
	}
	if p.Press != engine.DefaultPacing().Press {
		t.Errorf("Expected untouched press duration, got %v", p.Press)
	}
	if cfg.Audio.Backend != "none" || cfg.Audio.Volume != 0.25 {
		t.Errorf("Expected audio none at 0.25, got %q at %v", cfg.Audio.Backend, cfg.Audio.Volume)
	}
	policy, _ := cfg.NewBestPolicy()
	if policy != engine.NewBestStrict {
		t.Errorf("Expected strict policy, got %v", policy)
	}
}

// TestLoadMissingExplicitConfig verifies a named config file must exist
func TestLoadMissingExplicitConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(Options{Args: []string{"-config", missing}, LookupEnv: noEnv}); err == nil {
		t.Error("Expected error for missing explicit config")
	}
}

// TestLoadMalformedConfig verifies decode errors wrap ErrInvalidConfig
func TestLoadMalformedConfig(t *testing.T) {
	path := writeFile(t, "bad.toml", "[pacing\ntone = ")
	_, err := Load(Options{Args: []string{"-config", path}, LookupEnv: noEnv})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

// TestLoadPrecedence verifies file < dotenv < environment < flags
func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "config.toml", `
[audio]
backend = "midi"
[score]
profile = "file"
redis_addr = "file:6379"
[metrics]
listen = "file:9000"
`)
	envFile := writeFile(t, "test.env", "SIMON_PROFILE=dotenv\nSIMON_REDIS_ADDR=dotenv:6379\nSIMON_METRICS_LISTEN=dotenv:9000\n")

	cfg, err := Load(Options{
		Args:      []string{"-config", path, "-env", envFile, "-metrics", "flag:9000"},
		LookupEnv: envMap(map[string]string{"SIMON_REDIS_ADDR": "env:6379", "SIMON_METRICS_LISTEN": "env:9000"}),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.Backend != "midi" {
		t.Errorf("Expected file value midi, got %q", cfg.Audio.Backend)
	}
	if cfg.Score.Profile != "dotenv" {
		t.Errorf("Expected dotenv profile, got %q", cfg.Score.Profile)
	}
	if cfg.Score.RedisAddr != "env:6379" {
		t.Errorf("Expected env redis addr, got %q", cfg.Score.RedisAddr)
	}
	if cfg.Metrics.Listen != "flag:9000" {
		t.Errorf("Expected flag metrics address, got %q", cfg.Metrics.Listen)
	}
}

// TestLoadConfigFromEnv verifies SIMON_CONFIG names the config file
func TestLoadConfigFromEnv(t *testing.T) {
	path := writeFile(t, "config.toml", "[engine]\nseed = 42\n")
	cfg, err := Load(Options{LookupEnv: envMap(map[string]string{"SIMON_CONFIG": path})})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Engine.Seed)
	}
}

// TestLoadUnsetFlagsKeepLowerLayers verifies defaults of unset flags never override
func TestLoadUnsetFlagsKeepLowerLayers(t *testing.T) {
	cfg, err := Load(Options{
		Args:      []string{"-debug"},
		LookupEnv: envMap(map[string]string{"SIMON_AUDIO_MUTED": "true", "SIMON_SEED": "7", "SIMON_CONFIG": writeFile(t, "c.toml", "")}),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Audio.Muted {
		t.Error("Expected muted from environment to survive unset -mute flag")
	}
	if cfg.Engine.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.Engine.Seed)
	}
	if !cfg.Log.Debug {
		t.Error("Expected -debug to enable debug logging")
	}
}

// TestLoadBadEnvValue verifies unparsable overrides are rejected
func TestLoadBadEnvValue(t *testing.T) {
	_, err := Load(Options{LookupEnv: envMap(map[string]string{
		"SIMON_CONFIG":       writeFile(t, "c.toml", ""),
		"SIMON_AUDIO_VOLUME": "loud",
	})})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

// TestValidateRejects covers out-of-range values
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero tone", func(c *Config) { c.Pacing.Tone = 0 }, ErrInvalidPacing},
		{"negative gap", func(c *Config) { c.Pacing.Gap = -1 }, ErrInvalidPacing},
		{"volume", func(c *Config) { c.Audio.Volume = 1.5 }, ErrInvalidConfig},
		{"midi channel", func(c *Config) { c.Audio.MIDIChannel = 16 }, ErrInvalidConfig},
		{"audio backend", func(c *Config) { c.Audio.Backend = "alsa" }, ErrInvalidConfig},
		{"score backend", func(c *Config) { c.Score.Backend = "sqlite" }, ErrInvalidConfig},
		{"policy", func(c *Config) { c.Display.NewBest = "always" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestLoadUnknownFlag verifies flag errors surface
func TestLoadUnknownFlag(t *testing.T) {
	if _, err := Load(Options{Args: []string{"-bogus"}, LookupEnv: noEnv}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}
