// Command simon is a terminal sound-memory game.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/simon/audio"
	"github.com/lixenwraith/simon/config"
	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/engine"
	"github.com/lixenwraith/simon/input"
	"github.com/lixenwraith/simon/render"
	"github.com/lixenwraith/simon/score"
	"github.com/lixenwraith/simon/service"
	"github.com/lixenwraith/simon/status"
)

func main() {
	// Panic Recovery: ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load(config.Options{Args: os.Args[1:], Output: os.Stderr})
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "simon: %v\n", err)
		os.Exit(2)
	}

	logger, logFile := setupLogging(cfg.Log.Debug, cfg.Log.Level)
	if logFile != nil {
		defer logFile.Close()
	}
	if cfg.Source != "" {
		logger.WithField("path", cfg.Source).Info("config loaded")
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("exiting")
		fmt.Fprintf(os.Stderr, "simon: %v\n", err)
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

// services are the environment-facing collaborators, owned by the hub
type services struct {
	hub    *service.Hub
	status *status.StatusService
	score  *score.ScoreService
	audio  *audio.AudioService
}

func startServices(cfg config.Config, logger logrus.FieldLogger) (*services, error) {
	audioCfg, err := cfg.AudioSettings()
	if err != nil {
		return nil, err
	}
	scoreCfg, err := cfg.ScoreSettings()
	if err != nil {
		return nil, err
	}

	s := &services{hub: service.NewHub()}
	s.status = status.NewService(logger.WithField("service", "status"))
	reg := s.status.Registry()
	s.score = score.NewService(logger.WithField("service", "score"), reg)
	s.audio = audio.NewService(logger.WithField("service", "audio"), reg)

	for _, entry := range []struct {
		svc  service.Service
		args []any
	}{
		{s.status, []any{cfg.Metrics.Listen}},
		{s.score, []any{scoreCfg}},
		{s.audio, []any{audioCfg}},
	} {
		if err := s.hub.Register(entry.svc, entry.args...); err != nil {
			return nil, err
		}
	}

	if err := s.hub.InitAll(); err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}
	if err := s.hub.StartAll(); err != nil {
		return nil, fmt.Errorf("start services: %w", err)
	}
	return s, nil
}

func newGame(cfg config.Config, s *services, logger logrus.FieldLogger) (*engine.Game, error) {
	pacing, err := cfg.EnginePacing()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.NewBestPolicy()
	if err != nil {
		return nil, err
	}

	game, err := engine.New(engine.Options{
		Pacing:     pacing,
		Emitter:    s.audio.Emitter(),
		Store:      s.score.Store(),
		Seed:       cfg.Engine.Seed,
		Policy:     policy,
		Logger:     logger.WithField("component", "engine"),
		Metrics:    s.status.Registry(),
		PhaseGraph: cfg.Engine.PhaseGraph,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Audio.Muted {
		game.ToggleMute()
	}
	return game, nil
}

func run(cfg config.Config, logger *logrus.Logger) error {
	svcs, err := startServices(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		counts := logrus.Fields{}
		for key, v := range svcs.status.Registry().CounterValues() {
			counts[key] = v
		}
		logger.WithFields(counts).Info("session totals")
		if err := svcs.hub.StopAll(); err != nil {
			logger.WithError(err).Warn("service shutdown")
		}
	}()

	logger.WithFields(logrus.Fields{
		"audio":   svcs.audio.Backend(),
		"score":   svcs.score.Backend(),
		"metrics": svcs.status.Addr(),
	}).Info("services ready")

	game, err := newGame(cfg, svcs, logger)
	if err != nil {
		return err
	}
	runner := engine.NewRunner(game)
	runner.Start()
	defer runner.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	return eventLoop(screen, runner, logger)
}

// eventLoop owns the renderer: screen events and engine snapshots meet here
func eventLoop(screen tcell.Screen, runner *engine.Runner, logger logrus.FieldLogger) error {
	renderer := render.NewTerminalRenderer(screen)
	machine := input.NewMachine(renderer)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)

	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	renderer.RenderFrame(runner.Latest())

	for {
		select {
		case ev := <-events:
			intent := machine.Process(ev)
			if intent == nil {
				continue
			}

			switch intent.Type {
			case input.IntentQuit:
				logger.Info("quit")
				return nil
			case input.IntentResize:
				w, h := screen.Size()
				renderer.UpdateDimensions(w, h)
				screen.Sync()
				renderer.RenderFrame(runner.Latest())
			default:
				if cmd, ok := intent.Command(); ok && !runner.Submit(cmd) {
					logger.WithField("intent", intent.Type).Debug("command dropped")
				}
			}

		case snap := <-runner.Snapshots():
			renderer.RenderFrame(snap)
		}
	}
}
