// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// BACKEND
// =============================================================================

// Voice is a tone that is currently playing.
type Voice interface {
	IsPlaying() bool
	Close() error
}

// Backend turns PCM into sound.
type Backend interface {
	Start(pcm []byte, gain float64) (Voice, error)
}

// =============================================================================
// WORKER
// =============================================================================

// WorkerConfig holds the worker limits.
type WorkerConfig struct {
	QueueSize int           // pending tones before new ones are dropped (default: 16)
	MaxVoices int           // tones allowed to overlap (default: 4)
	PerSecond float64       // tone starts per second (default: 10)
	Duration  time.Duration // tone length (default: 200ms)
	Volume    float64       // master volume 0-1; zero means default (1), mute with SetEnabled
}

// DefaultWorkerConfig returns the default limits.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		QueueSize: 16,
		MaxVoices: 4,
		PerSecond: 10,
		Duration:  DefaultDuration,
		Volume:    1,
	}
}

// Worker owns the audio device and plays tones queued by Emit.
type Worker struct {
	backend  Backend
	tones    chan Tone
	limiter  *rate.Limiter
	max      int
	duration time.Duration
	log      zerolog.Logger

	enabled atomic.Bool
	volume  atomic.Uint64 // math.Float64bits

	dropped atomic.Int64
	played  atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a worker on backend. Call Run to start playback.
func NewWorker(backend Backend, cfg WorkerConfig, log zerolog.Logger) *Worker {
	def := DefaultWorkerConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = def.MaxVoices
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = def.PerSecond
	}
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Volume <= 0 {
		cfg.Volume = def.Volume
	}

	w := &Worker{
		backend:  backend,
		tones:    make(chan Tone, cfg.QueueSize),
		limiter:  rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.MaxVoices),
		max:      cfg.MaxVoices,
		duration: cfg.Duration,
		log:      log.With().Str("component", "audio").Logger(),
		stop:     make(chan struct{}),
	}
	w.enabled.Store(true)
	w.SetVolume(cfg.Volume)
	return w
}

// Emit queues a tone for amplitude without blocking. A full queue drops it.
func (w *Worker) Emit(amplitude float64) {
	if !w.enabled.Load() {
		return
	}
	select {
	case w.tones <- ToneFor(amplitude, w.duration):
	default:
		w.dropped.Add(1)
	}
}

// SetEnabled mutes or unmutes new tones.
func (w *Worker) SetEnabled(on bool) { w.enabled.Store(on) }

// Enabled reports whether new tones are accepted.
func (w *Worker) Enabled() bool { return w.enabled.Load() }

// SetVolume sets the master volume, clamped to [0, 1].
func (w *Worker) SetVolume(v float64) {
	v = math.Max(0, math.Min(1, v))
	w.volume.Store(math.Float64bits(v))
}

// Volume returns the master volume.
func (w *Worker) Volume() float64 { return math.Float64frombits(w.volume.Load()) }

// Stats returns how many tones were played and dropped.
func (w *Worker) Stats() (played, dropped int64) {
	return w.played.Load(), w.dropped.Load()
}

// Close stops Run. Safe to call more than once.
func (w *Worker) Close() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// Run plays queued tones until ctx is done or Close is called.
func (w *Worker) Run(ctx context.Context) {
	reap := time.NewTicker(50 * time.Millisecond)
	defer reap.Stop()

	var voices []Voice
	defer func() {
		for _, v := range voices {
			_ = v.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-reap.C:
			voices = reapVoices(voices)
		case t := <-w.tones:
			voices = reapVoices(voices)
			if len(voices) >= w.max || !w.limiter.Allow() {
				w.dropped.Add(1)
				continue
			}
			v, err := w.backend.Start(Synthesize(t), t.Gain*w.Volume())
			if err != nil {
				w.dropped.Add(1)
				w.log.Debug().Err(err).Float64("freq", t.Frequency).Msg("tone playback failed")
				continue
			}
			w.played.Add(1)
			voices = append(voices, v)
		}
	}
}

func reapVoices(voices []Voice) []Voice {
	live := voices[:0]
	for _, v := range voices {
		if v.IsPlaying() {
			live = append(live, v)
			continue
		}
		_ = v.Close()
	}
	return live
}
