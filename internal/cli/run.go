// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeranaias/stemm-tui/internal/audio"
	"github.com/jeranaias/stemm-tui/internal/config"
	"github.com/jeranaias/stemm-tui/internal/logging"
	"github.com/jeranaias/stemm-tui/internal/reply"
	"github.com/jeranaias/stemm-tui/internal/typewriter"
	"github.com/jeranaias/stemm-tui/internal/ui/app"
	"github.com/rs/zerolog"
)

// =============================================================================
// TUI
// =============================================================================

// runTUI wires every component together and runs the terminal UI until the
// user quits.
func runTUI(parent context.Context, flags *Flags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadConfig(flags, os.Stderr)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger = logging.Nop()
	}
	defer logger.Close()
	log := logger.Component("cli")

	repo, err := loadFrames(cfg)
	if err != nil {
		return fmt.Errorf("loading frames: %w", err)
	}

	emitter, worker := newAudio(ctx, cfg, flags, logger.Component("audio"))
	if worker != nil {
		defer worker.Close()
	}

	machine, err := newMachine(cfg, repo, emitter, logger.Component("animation"))
	if err != nil {
		return err
	}

	responder, err := reply.New(reply.Config{
		Backend:      cfg.Reply.Backend,
		BaseURL:      cfg.Reply.OllamaURL,
		Model:        cfg.Reply.Model,
		SystemPrompt: cfg.Reply.SystemPrompt,
		Timeout:      cfg.Reply.Timeout(),
	}, logger.Component("reply"))
	if err != nil {
		return err
	}

	if o, ok := responder.(*reply.Ollama); ok {
		go func() {
			checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := o.CheckRunning(checkCtx); err != nil {
				log.Warn().Err(err).Str("model", o.Model()).Msg("ollama not reachable")
			}
		}()
	}

	opts := app.Options{
		Config:     cfg,
		Machine:    machine,
		Typewriter: typewriter.New(cfg.Typewriter.CharDelay()),
		Responder:  responder,
		Logger:     logger.Component("ui"),
		Context:    ctx,
	}
	if worker != nil {
		opts.Audio = worker
	}
	model, err := app.New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfgPath != "" {
		err := config.Watch(ctx, cfgPath,
			func(next *config.Config) {
				flags.apply(next)
				if err := next.Validate(); err != nil {
					p.Send(app.ConfigErrorMsg{Err: err})
					return
				}
				p.Send(app.ConfigReloadMsg{Config: next})
			},
			func(err error) { p.Send(app.ConfigErrorMsg{Err: err}) },
		)
		if err != nil {
			log.Warn().Err(err).Str("path", cfgPath).Msg("config hot reload disabled")
		}
	}

	log.Info().
		Str("version", Version).
		Str("backend", cfg.Reply.Backend).
		Strs("frames", repo.Names()).
		Bool("audio", worker != nil && cfg.Audio.Enabled).
		Msg("starting")

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running UI: %w", err)
	}
	ev := log.Info()
	if worker != nil {
		played, dropped := worker.Stats()
		ev = ev.Int64("tones_played", played).Int64("tones_dropped", dropped)
	}
	ev.Msg("exiting")
	return nil
}

// newAudio opens the sound device. It returns a silent emitter and a nil
// worker when audio is turned off by flag or the device cannot be opened.
func newAudio(ctx context.Context, cfg *config.Config, flags *Flags, log zerolog.Logger) (audio.Emitter, *audio.Worker) {
	if flags.NoAudio {
		return audio.Nop{}, nil
	}
	backend, err := audio.NewOtoBackend()
	if err != nil {
		log.Debug().Err(err).Msg("audio unavailable")
		return audio.Nop{}, nil
	}
	worker := audio.NewWorker(backend, audio.WorkerConfig{
		QueueSize: cfg.Audio.QueueSize,
		MaxVoices: cfg.Audio.MaxVoices,
		PerSecond: cfg.Audio.TonesPerSecond,
		Duration:  cfg.Audio.ToneDuration(),
	}, log)
	worker.SetVolume(cfg.Audio.Volume)
	worker.SetEnabled(cfg.Audio.Enabled)
	go worker.Run(ctx)
	return worker, worker
}
