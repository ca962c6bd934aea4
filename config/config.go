// Package config layers settings from defaults, a TOML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/simon/audio"
	"github.com/lixenwraith/simon/constant"
	"github.com/lixenwraith/simon/engine"
	"github.com/lixenwraith/simon/score"
)

var (
	// ErrInvalidPacing rejects non-positive signal lengths and negative delays
	ErrInvalidPacing = engine.ErrInvalidPacing
	// ErrInvalidConfig wraps every other rejected value
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the complete runtime configuration
type Config struct {
	Pacing  PacingConfig  `toml:"pacing"`
	Audio   AudioConfig   `toml:"audio"`
	Score   ScoreConfig   `toml:"score"`
	Display DisplayConfig `toml:"display"`
	Engine  EngineConfig  `toml:"engine"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`

	// Source is the config file that was read, empty when none
	Source string `toml:"-"`
}

// PacingConfig holds durations in seconds
type PacingConfig struct {
	Tone          float64 `toml:"tone"`
	Gap           float64 `toml:"gap"`
	Press         float64 `toml:"press"`
	GameOverDelay float64 `toml:"game_over_delay"`
	RoundDelay    float64 `toml:"round_delay"`
	Settle        float64 `toml:"settle"`
	LeadIn        float64 `toml:"lead_in"`
	FlashTrim     float64 `toml:"flash_trim"`
}

type AudioConfig struct {
	Backend     string  `toml:"backend"`
	Wave        string  `toml:"wave"`
	Volume      float64 `toml:"volume"`
	SampleRate  int     `toml:"sample_rate"`
	MIDIPort    string  `toml:"midi_port"`
	MIDIChannel int     `toml:"midi_channel"`
	Muted       bool    `toml:"muted"`
}

type ScoreConfig struct {
	Backend       string  `toml:"backend"`
	Path          string  `toml:"path"`
	Profile       string  `toml:"profile"`
	RedisAddr     string  `toml:"redis_addr"`
	RedisPassword string  `toml:"redis_password"`
	RedisDB       int     `toml:"redis_db"`
	Timeout       float64 `toml:"timeout"`
}

type DisplayConfig struct {
	// NewBest is "tie" or "strict"
	NewBest string `toml:"new_best"`
}

type EngineConfig struct {
	Seed       int64  `toml:"seed"`
	PhaseGraph string `toml:"phase_graph"`
}

type LogConfig struct {
	Debug bool   `toml:"debug"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	// Listen enables /metrics on this address when set
	Listen string `toml:"listen"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Pacing: PacingConfig{
			Tone:          constant.ToneDuration.Seconds(),
			Gap:           constant.ToneGap.Seconds(),
			Press:         constant.PressDuration.Seconds(),
			GameOverDelay: constant.GameOverDelay.Seconds(),
			RoundDelay:    constant.RoundDelay.Seconds(),
			Settle:        constant.PlaybackSettle.Seconds(),
			LeadIn:        constant.PlaybackLeadIn.Seconds(),
			FlashTrim:     constant.FlashTrim.Seconds(),
		},
		Audio: AudioConfig{
			Backend:     audio.BackendBeep.String(),
			Wave:        audio.WaveSine.String(),
			Volume:      constant.ToneGain,
			SampleRate:  constant.AudioSampleRate,
			MIDIChannel: constant.MIDIChannel,
		},
		Score: ScoreConfig{
			Backend: score.BackendFile,
			Profile: "default",
			Timeout: 2,
		},
		Display: DisplayConfig{NewBest: engine.NewBestOnTie.String()},
		Log:     LogConfig{Level: "info"},
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// EnginePacing converts seconds to engine durations and validates them
func (c Config) EnginePacing() (engine.Pacing, error) {
	p := engine.Pacing{
		Tone:          seconds(c.Pacing.Tone),
		Gap:           seconds(c.Pacing.Gap),
		Press:         seconds(c.Pacing.Press),
		GameOverDelay: seconds(c.Pacing.GameOverDelay),
		RoundDelay:    seconds(c.Pacing.RoundDelay),
		Settle:        seconds(c.Pacing.Settle),
		LeadIn:        seconds(c.Pacing.LeadIn),
		FlashTrim:     seconds(c.Pacing.FlashTrim),
	}
	if err := p.Validate(); err != nil {
		return engine.Pacing{}, err
	}
	return p, nil
}

// AudioSettings builds the audio service configuration
func (c Config) AudioSettings() (audio.Config, error) {
	backend, err := audio.ParseBackend(c.Audio.Backend)
	if err != nil {
		return audio.Config{}, fmt.Errorf("%w: audio.backend: %v", ErrInvalidConfig, err)
	}
	wave, err := audio.ParseWave(c.Audio.Wave)
	if err != nil {
		return audio.Config{}, fmt.Errorf("%w: audio.wave: %v", ErrInvalidConfig, err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return audio.Config{}, fmt.Errorf("%w: audio.volume %.2f outside 0-1", ErrInvalidConfig, c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 {
		return audio.Config{}, fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	if c.Audio.MIDIChannel < 0 || c.Audio.MIDIChannel > 15 {
		return audio.Config{}, fmt.Errorf("%w: audio.midi_channel %d outside 0-15", ErrInvalidConfig, c.Audio.MIDIChannel)
	}

	cfg := audio.DefaultConfig()
	cfg.Backend = backend
	cfg.Wave = wave
	cfg.Volume = c.Audio.Volume
	cfg.SampleRate = c.Audio.SampleRate
	cfg.MIDIPort = c.Audio.MIDIPort
	cfg.MIDIChannel = uint8(c.Audio.MIDIChannel)
	return cfg, nil
}

// ScoreSettings builds the score service configuration
func (c Config) ScoreSettings() (score.Config, error) {
	switch c.Score.Backend {
	case score.BackendFile, score.BackendRedis, score.BackendMemory:
	default:
		return score.Config{}, fmt.Errorf("%w: score.backend %q", ErrInvalidConfig, c.Score.Backend)
	}
	return score.Config{
		Backend: c.Score.Backend,
		Path:    c.Score.Path,
		Redis: score.RedisOptions{
			Addr:     c.Score.RedisAddr,
			Password: c.Score.RedisPassword,
			DB:       c.Score.RedisDB,
			Profile:  c.Score.Profile,
			Timeout:  seconds(c.Score.Timeout),
		},
	}, nil
}

// NewBestPolicy resolves the display policy
func (c Config) NewBestPolicy() (engine.NewBestPolicy, error) {
	p, err := engine.ParseNewBestPolicy(c.Display.NewBest)
	if err != nil {
		return p, fmt.Errorf("%w: display.new_best: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// Validate checks every section that has a conversion
func (c Config) Validate() error {
	if _, err := c.EnginePacing(); err != nil {
		return err
	}
	if _, err := c.AudioSettings(); err != nil {
		return err
	}
	if _, err := c.ScoreSettings(); err != nil {
		return err
	}
	_, err := c.NewBestPolicy()
	return err
}
