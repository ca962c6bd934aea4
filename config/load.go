package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix starts every environment override
const EnvPrefix = "SIMON_"

// Options controls where Load looks
type Options struct {
	// Args are command-line arguments without the program name
	Args []string
	// EnvFile is read when present; empty means ".env"
	EnvFile string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)
	// Output receives flag usage and errors; nil discards
	Output io.Writer
}

// flagValues records command-line values before they are applied on top
type flagValues struct {
	config    string
	envFile   string
	debug     bool
	logLevel  string
	mute      bool
	audio     string
	midiPort  string
	scoreBack string
	scorePath string
	profile   string
	redisAddr string
	metrics   string
	seed      int64
	newBest   string
	graph     string
}

func newFlagSet(v *flagValues, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("simon", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&v.config, "config", "", "Config file (default: <user config dir>/simon/config.toml)")
	fs.StringVar(&v.envFile, "env", "", "Dotenv file with SIMON_* overrides (default: .env)")
	fs.BoolVar(&v.debug, "debug", false, "Write logs to logs/simon.log")
	fs.StringVar(&v.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&v.mute, "mute", false, "Start muted")
	fs.StringVar(&v.audio, "audio", "", "Audio backend: beep, midi, none")
	fs.StringVar(&v.midiPort, "midi-port", "", "MIDI output port name filter")
	fs.StringVar(&v.scoreBack, "score-backend", "", "Best score store: file, redis, memory")
	fs.StringVar(&v.scorePath, "score-path", "", "Best score file path")
	fs.StringVar(&v.profile, "profile", "", "Best score profile name")
	fs.StringVar(&v.redisAddr, "redis", "", "Redis address for the redis score store")
	fs.StringVar(&v.metrics, "metrics", "", "Serve Prometheus metrics on this address")
	fs.Int64Var(&v.seed, "seed", 0, "Sequence seed, 0 for random")
	fs.StringVar(&v.newBest, "new-best", "", "New best display policy: tie, strict")
	fs.StringVar(&v.graph, "phase-graph", "", "Custom phase graph TOML")
	return fs
}

// Load builds the configuration: defaults, file, dotenv and environment, then flags
func Load(opts Options) (Config, error) {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var fv flagValues
	fset := newFlagSet(&fv, out)
	if err := fset.Parse(opts.Args); err != nil {
		return Config{}, err
	}

	envFile := firstNonEmpty(fv.envFile, opts.EnvFile, ".env")
	dotenv, err := readDotenv(envFile, fv.envFile != "" || opts.EnvFile != "")
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()

	explicit, _ := env(EnvPrefix + "CONFIG")
	explicit = firstNonEmpty(fv.config, explicit)
	if err := cfg.readFile(explicit); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	fset.Visit(func(f *flag.Flag) { fv.apply(&cfg, f.Name) })

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns <user config dir>/simon/config.toml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "simon", "config.toml"), nil
}

// readFile decodes path over c; with no explicit path a missing default file is fine
func (c *Config) readFile(explicit string) error {
	path := explicit
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	c.Source = path
	return nil
}

func readDotenv(path string, required bool) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vals, nil
}

// envBinding maps one SIMON_* variable onto the config
type envBinding struct {
	key string
	set func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolean(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func float(dst func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

var envBindings = []envBinding{
	{"AUDIO_BACKEND", str(func(c *Config) *string { return &c.Audio.Backend })},
	{"AUDIO_WAVE", str(func(c *Config) *string { return &c.Audio.Wave })},
	{"AUDIO_VOLUME", float(func(c *Config) *float64 { return &c.Audio.Volume })},
	{"AUDIO_MUTED", boolean(func(c *Config) *bool { return &c.Audio.Muted })},
	{"MIDI_PORT", str(func(c *Config) *string { return &c.Audio.MIDIPort })},
	{"MIDI_CHANNEL", integer(func(c *Config) *int { return &c.Audio.MIDIChannel })},
	{"SCORE_BACKEND", str(func(c *Config) *string { return &c.Score.Backend })},
	{"SCORE_PATH", str(func(c *Config) *string { return &c.Score.Path })},
	{"PROFILE", str(func(c *Config) *string { return &c.Score.Profile })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Score.RedisAddr })},
	{"REDIS_PASSWORD", str(func(c *Config) *string { return &c.Score.RedisPassword })},
	{"REDIS_DB", integer(func(c *Config) *int { return &c.Score.RedisDB })},
	{"NEW_BEST", str(func(c *Config) *string { return &c.Display.NewBest })},
	{"PHASE_GRAPH", str(func(c *Config) *string { return &c.Engine.PhaseGraph })},
	{"SEED", func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Engine.Seed = n
		return nil
	}},
	{"LOG_DEBUG", boolean(func(c *Config) *bool { return &c.Log.Debug })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"METRICS_LISTEN", str(func(c *Config) *string { return &c.Metrics.Listen })},
	{"TONE", float(func(c *Config) *float64 { return &c.Pacing.Tone })},
	{"GAP", float(func(c *Config) *float64 { return &c.Pacing.Gap })},
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := env(EnvPrefix + b.key)
		if !ok || v == "" {
			continue
		}
		if err := b.set(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, b.key, v, err)
		}
	}
	return nil
}

// apply copies one explicitly set flag into c
func (v *flagValues) apply(c *Config, name string) {
	switch name {
	case "debug":
		c.Log.Debug = v.debug
	case "log-level":
		c.Log.Level = v.logLevel
	case "mute":
		c.Audio.Muted = v.mute
	case "audio":
		c.Audio.Backend = v.audio
	case "midi-port":
		c.Audio.MIDIPort = v.midiPort
	case "score-backend":
		c.Score.Backend = v.scoreBack
	case "score-path":
		c.Score.Path = v.scorePath
	case "profile":
		c.Score.Profile = v.profile
	case "redis":
		c.Score.RedisAddr = v.redisAddr
	case "metrics":
		c.Metrics.Listen = v.metrics
	case "seed":
		c.Engine.Seed = v.seed
	case "new-best":
		c.Display.NewBest = v.newBest
	case "phase-graph":
		c.Engine.PhaseGraph = v.graph
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
