package audio

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/status"
)

// Emitter is the tone output every backend provides
type Emitter interface {
	Emit(tone core.Tone) error
	Now() time.Duration
}

// AudioService wraps the configured emitter as a Service
// Handles graceful degradation when the chosen backend is unavailable
type AudioService struct {
	cfg      Config
	log      logrus.FieldLogger
	emitter  Emitter
	disabled atomic.Bool

	// Factories are swapped in tests to avoid real devices
	newTone func(Config) (Emitter, error)
	newMIDI func(Config) (Emitter, error)

	statBackend *status.AtomicString
	statFailed  *atomic.Bool
}

// NewService creates a new audio service; reg may be nil
func NewService(log logrus.FieldLogger, reg *status.Registry) *AudioService {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &AudioService{
		cfg: DefaultConfig(),
		log: log,
		newTone: func(c Config) (Emitter, error) {
			return NewToneEmitter(c)
		},
		newMIDI: func(c Config) (Emitter, error) {
			return NewMIDIEmitter(c)
		},
		statBackend: reg.Strings.Get("audio.backend"),
		statFailed:  reg.Bools.Get("audio.degraded"),
	}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return []string{"status"}
}

// Init implements Service
// args[0]: Config - backend selection and tone settings
// Opens the backend; on failure falls back to a silent emitter (no error returned)
func (s *AudioService) Init(args ...any) error {
	if len(args) > 0 {
		cfg, ok := args[0].(Config)
		if !ok {
			return fmt.Errorf("audio: expected Config, got %T", args[0])
		}
		s.cfg = cfg
	}

	var (
		em  Emitter
		err error
	)
	switch s.cfg.Backend {
	case BackendBeep:
		em, err = s.newTone(s.cfg)
	case BackendMIDI:
		em, err = s.newMIDI(s.cfg)
	case BackendNone:
		s.disabled.Store(true)
	default:
		err = ErrUnknownBackend
	}

	if err != nil {
		s.log.WithError(err).WithField("backend", s.cfg.Backend.String()).Warn("audio unavailable, continuing silent")
		s.disabled.Store(true)
		s.statFailed.Store(true)
	}
	if em == nil {
		em = NewSilentEmitter()
	}
	s.emitter = em
	s.statBackend.Store(s.Backend())
	return nil
}

// Start implements Service
func (s *AudioService) Start() error {
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if c, ok := s.emitter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// IsDisabled returns true if tones are not reaching any device
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Backend names the active backend, "none" when degraded
func (s *AudioService) Backend() string {
	if s.disabled.Load() {
		return BackendNone.String()
	}
	return s.cfg.Backend.String()
}

// Emitter returns the active emitter; never nil after Init
func (s *AudioService) Emitter() Emitter {
	return s.emitter
}
