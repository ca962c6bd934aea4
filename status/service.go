package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/simon/core"
)

const shutdownTimeout = 2 * time.Second

// StatusService wraps Registry as a Service
// With a listen address it also serves the registry on /metrics
type StatusService struct {
	registry *Registry
	log      logrus.FieldLogger

	addr     string
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// NewService creates a new status service with initialized registry
func NewService(log logrus.FieldLogger) *StatusService {
	return &StatusService{
		registry: NewRegistry(),
		log:      log,
	}
}

// Name implements Service
func (s *StatusService) Name() string {
	return "status"
}

// Dependencies implements Service
func (s *StatusService) Dependencies() []string {
	return nil
}

// Init implements Service
// Optional first arg is the metrics listen address; empty disables the endpoint
func (s *StatusService) Init(args ...any) error {
	if len(args) == 0 {
		return nil
	}
	addr, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("status: listen address must be a string, got %T", args[0])
	}
	s.addr = addr
	return nil
}

// Start implements Service
func (s *StatusService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" || s.server != nil {
		return nil
	}

	promReg := prometheus.NewRegistry()
	if err := promReg.Register(NewCollector(s.registry)); err != nil {
		return fmt.Errorf("status: register collector: %w", err)
	}

	// The game runs without the endpoint when the address is unusable
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.log.WithError(err).WithField("addr", s.addr).Warn("metrics endpoint disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.listener = ln

	srv := s.server
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Warn("metrics endpoint stopped")
		}
	})
	s.log.WithField("addr", ln.Addr().String()).Info("metrics endpoint listening")
	return nil
}

// Stop implements Service
func (s *StatusService) Stop() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Addr returns the bound listen address, empty when not serving
func (s *StatusService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Registry returns the underlying metrics registry
func (s *StatusService) Registry() *Registry {
	return s.registry
}
