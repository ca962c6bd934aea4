package score

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/simon/status"
)

// Backend names accepted in configuration
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config selects and configures the best-score store
type Config struct {
	Backend string
	Path    string // file backend; empty uses DefaultPath
	Redis   RedisOptions
}

// ScoreService wraps the configured Store as a Service
// An unreachable redis falls back to the file store, an unusable file path to memory
type ScoreService struct {
	cfg    Config
	log    logrus.FieldLogger
	store  Store
	active string

	statBackend *status.AtomicString
}

// NewService creates a score service; reg may be nil
func NewService(log logrus.FieldLogger, reg *status.Registry) *ScoreService {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &ScoreService{
		cfg:         Config{Backend: BackendFile},
		log:         log,
		statBackend: reg.Strings.Get("score.backend"),
	}
}

// Name implements Service
func (s *ScoreService) Name() string {
	return "score"
}

// Dependencies implements Service
func (s *ScoreService) Dependencies() []string {
	return []string{"status"}
}

// Init implements Service
// args[0]: Config
func (s *ScoreService) Init(args ...any) error {
	if len(args) > 0 {
		cfg, ok := args[0].(Config)
		if !ok {
			return fmt.Errorf("score: expected Config, got %T", args[0])
		}
		s.cfg = cfg
	}

	switch strings.ToLower(s.cfg.Backend) {
	case BackendRedis:
		rs := NewRedisStore(s.cfg.Redis)
		if err := rs.Ping(context.Background()); err != nil {
			rs.Close()
			s.log.WithError(err).WithField("addr", s.cfg.Redis.Addr).Warn("redis unreachable, using file store")
			s.useFile()
		} else {
			s.store, s.active = rs, BackendRedis
		}
	case "", BackendFile:
		s.useFile()
	case BackendMemory:
		s.store, s.active = NewMemoryStore(0), BackendMemory
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.cfg.Backend)
	}

	s.statBackend.Store(s.active)
	s.log.WithField("backend", s.active).Debug("score store ready")
	return nil
}

func (s *ScoreService) useFile() {
	path := s.cfg.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			s.log.WithError(err).Warn("no config dir, best score kept in memory")
			s.store, s.active = NewMemoryStore(0), BackendMemory
			return
		}
		path = p
	}
	s.store, s.active = NewFileStore(path), BackendFile
}

// Start implements Service
func (s *ScoreService) Start() error {
	return nil
}

// Stop implements Service
func (s *ScoreService) Stop() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Store returns the active store; nil before Init
func (s *ScoreService) Store() Store {
	return s.store
}

// Backend names the active backend after fallbacks
func (s *ScoreService) Backend() string {
	return s.active
}
