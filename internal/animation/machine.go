// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package animation drives the avatar through its timed states.
//
// A Machine is owned by a single render loop. SetState carries requests from
// the host (the typewriter reveal and the "die" key), Render is called once per
// redraw with the panel size and the current time. Neither blocks: the only
// side effect that leaves the machine is an amplitude handed to an
// audio.Emitter, which must return immediately.
package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/jeranaias/stemm-tui/internal/audio"
	"github.com/jeranaias/stemm-tui/internal/compositor"
	"github.com/jeranaias/stemm-tui/internal/frames"
	"github.com/jeranaias/stemm-tui/internal/waveform"
	"github.com/rs/zerolog"
)

// Default timings.
const (
	DefaultTalkInterval  = 100 * time.Millisecond
	DefaultBlinkInterval = 50 * time.Millisecond
	DefaultBlinkChance   = 0.01
	DefaultDyingDuration = 3 * time.Second
)

// Frame is one rendered panel.
type Frame struct {
	Lines []string
	// State is the state after the render, which may differ from the state
	// before it (Idle starting a blink, a blink finishing).
	State State
	// Waveform is true when Lines hold a generated waveform rather than art.
	Waveform bool
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Machine.
type Option func(*Machine)

// WithRand sets the random source shared by blink draws and the waveform.
func WithRand(r waveform.Rand) Option {
	return func(m *Machine) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithEmitter sets where waveform amplitudes are sent.
func WithEmitter(e audio.Emitter) Option {
	return func(m *Machine) {
		if e != nil {
			m.emitter = e
		}
	}
}

// WithTalkInterval sets how often the waveform advances.
func WithTalkInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.talkInterval = d
		}
	}
}

// WithBlinkInterval sets the delay between blink frames.
func WithBlinkInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.blinkInterval = d
		}
	}
}

// WithBlinkChance sets the per-render probability that Idle starts a blink.
// Zero disables spontaneous blinking.
func WithBlinkChance(p float64) Option {
	return func(m *Machine) {
		if p >= 0 && p <= 1 {
			m.blinkChance = p
		}
	}
}

// WithDyingDuration sets how long Dying shows the waveform before settling on
// the dying art.
func WithDyingDuration(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.dyingDuration = d
		}
	}
}

// WithGlyphs sets the runes used to draw the waveform.
func WithGlyphs(g waveform.GlyphSet) Option {
	return func(m *Machine) {
		m.glyphs = g
	}
}

// WithTransitions replaces the transition policy.
func WithTransitions(t Transitions) Option {
	return func(m *Machine) {
		m.table = t
	}
}

// WithLogger sets the logger used for state changes.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine is the avatar state machine. It is not safe for concurrent use.
type Machine struct {
	table Transitions
	state State

	idle, blink, dying frames.FrameSet

	rng     waveform.Rand
	gen     *waveform.Generator
	emitter audio.Emitter
	glyphs  waveform.GlyphSet
	log     zerolog.Logger

	talkInterval  time.Duration
	blinkInterval time.Duration
	blinkChance   float64
	dyingDuration time.Duration

	// Blinking
	blinkIndex int
	lastBlink  time.Time

	// Talking and the waveform phase of Dying
	frameNumber int
	lastAdvance time.Time
	dirty       bool
	wave        []string
	waveW       int
	waveH       int

	// Dying
	dyingStart time.Time
}

// New creates a machine in the Idle state. repo must hold the idle, blinking
// and dying frame sets.
func New(repo *frames.Repository, opts ...Option) (*Machine, error) {
	if repo == nil {
		return nil, fmt.Errorf("animation: %w", frames.ErrNoFrames)
	}
	if err := repo.Require(frames.Required...); err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	idle, _ := repo.Get(frames.Idle)
	blink, _ := repo.Get(frames.Blinking)
	dying, _ := repo.Get(frames.Dying)

	m := &Machine{
		table:         DefaultTransitions,
		state:         Idle,
		idle:          idle,
		blink:         blink,
		dying:         dying,
		emitter:       audio.Nop{},
		glyphs:        waveform.DefaultGlyphs,
		log:           zerolog.Nop(),
		talkInterval:  DefaultTalkInterval,
		blinkInterval: DefaultBlinkInterval,
		blinkChance:   DefaultBlinkChance,
		dyingDuration: DefaultDyingDuration,
		waveW:         -1,
		waveH:         -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = waveform.NewRand(0)
	}
	m.gen = waveform.NewGenerator(m.rng)
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// FrameNumber returns the waveform phase counter.
func (m *Machine) FrameNumber() int { return m.frameNumber }

// SetState requests a state change and reports whether it happened. Requests
// made while the current state absorbs them are ignored without error.
func (m *Machine) SetState(requested State) bool {
	next := m.table.Next(m.state, requested)
	if next == m.state {
		return false
	}
	m.enter(next, time.Time{})
	return true
}

// enter switches to s and resets its timers. A zero now defers the timer
// start to the next Render.
func (m *Machine) enter(s State, now time.Time) {
	m.log.Debug().Str("from", m.state.String()).Str("to", s.String()).Msg("avatar state")
	m.state = s
	switch s {
	case Blinking:
		m.blinkIndex = 0
		m.lastBlink = now
	case Talking:
		m.lastAdvance = time.Time{}
	case Dying:
		m.lastAdvance = time.Time{}
		m.dyingStart = now
	}
}

// Render draws the avatar for a width x height panel at time now.
func (m *Machine) Render(width, height int, now time.Time) Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	switch m.state {
	case Idle:
		if m.rng.Float64() < m.blinkChance {
			m.enter(Blinking, now)
			return m.art(m.blink.At(0), width, height)
		}
		return m.art(m.idle.At(0), width, height)

	case Blinking:
		return m.renderBlink(width, height, now)

	case Talking:
		return m.renderWave(width, height, now)

	case Dying:
		if m.dyingStart.IsZero() {
			m.dyingStart = now
		}
		if now.Sub(m.dyingStart) < m.dyingDuration {
			return m.renderWave(width, height, now)
		}
		return m.art(m.dying.At(0), width, height)
	}

	return Frame{Lines: compositor.FitLines(nil, width, height), State: m.state}
}

func (m *Machine) renderBlink(width, height int, now time.Time) Frame {
	if m.lastBlink.IsZero() {
		m.lastBlink = now
	} else if now.Sub(m.lastBlink) >= m.blinkInterval {
		m.lastBlink = now
		m.blinkIndex++
	}
	if m.blinkIndex >= m.blink.Len() {
		m.blinkIndex = 0
		m.enter(Idle, now)
		return m.art(m.idle.At(0), width, height)
	}
	return m.art(m.blink.At(m.blinkIndex), width, height)
}

func (m *Machine) renderWave(width, height int, now time.Time) Frame {
	if m.lastAdvance.IsZero() || now.Sub(m.lastAdvance) >= m.talkInterval {
		m.lastAdvance = now
		m.frameNumber++
		m.dirty = true
	}
	if width != m.waveW || height != m.waveH {
		m.dirty = true
	}

	if m.dirty {
		s := m.gen.Generate(width, height, m.frameNumber)
		if s.Reseeded {
			m.frameNumber = s.FrameNumber
		}
		m.wave = s.Grid.Lines(m.glyphs)
		m.waveW, m.waveH = width, height
		m.dirty = false
		if math.Abs(s.Mean) > waveform.AudioThreshold {
			m.emitter.Emit(s.Mean)
		}
	}

	return Frame{
		Lines:    compositor.FitLines(m.wave, width, height),
		State:    m.state,
		Waveform: true,
	}
}

func (m *Machine) art(block string, width, height int) Frame {
	return Frame{Lines: compositor.Fit(block, width, height), State: m.state}
}
