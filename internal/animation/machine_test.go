// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package animation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/stemm-tui/internal/compositor"
	"github.com/jeranaias/stemm-tui/internal/frames"
	"github.com/jeranaias/stemm-tui/internal/waveform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countRand cycles through floats and counts draws.
type countRand struct {
	floats []float64
	draws  int
}

func (r *countRand) Float64() float64 {
	v := r.floats[r.draws%len(r.floats)]
	r.draws++
	return v
}

func (r *countRand) Intn(n int) int { return 0 }

type recordEmitter struct {
	amps []float64
}

func (e *recordEmitter) Emit(a float64) { e.amps = append(e.amps, a) }

func testRepo(t *testing.T) *frames.Repository {
	t.Helper()
	repo, err := frames.NewRepository(
		frames.NewFrameSet(frames.Idle, []string{"(o o)"}),
		frames.NewFrameSet(frames.Blinking, []string{"(- o)", "(- -)", "(o -)"}),
		frames.NewFrameSet(frames.Dying, []string{"(x x)"}),
	)
	require.NoError(t, err)
	return repo
}

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// =============================================================================
// STATE AND TRANSITIONS
// =============================================================================

func TestParseState(t *testing.T) {
	for s := Idle; s < stateCount; s++ {
		got, err := ParseState(strings.ToUpper(s.String()))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseState("sleeping")
	assert.Error(t, err)
	assert.Equal(t, "state(9)", State(9).String())
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		current, requested, want State
	}{
		{Idle, Talking, Talking},
		{Idle, Dying, Dying},
		{Idle, Blinking, Blinking},
		{Talking, Idle, Idle},
		{Talking, Dying, Dying},
		{Blinking, Idle, Blinking},
		{Blinking, Talking, Blinking},
		{Blinking, Dying, Blinking},
		{Dying, Idle, Dying},
		{Dying, Talking, Dying},
		{Dying, Blinking, Dying},
		{Idle, State(-1), Idle},
	}

	for _, tc := range tests {
		t.Run(tc.current.String()+"->"+tc.requested.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultTransitions.Next(tc.current, tc.requested))
		})
	}

	assert.True(t, DefaultTransitions.Absorbs(Dying))
	assert.True(t, DefaultTransitions.Absorbs(Blinking))
	assert.False(t, DefaultTransitions.Absorbs(Idle))
	assert.False(t, DefaultTransitions.Absorbs(Talking))
}

func TestNewRequiresFrameSets(t *testing.T) {
	repo, err := frames.NewRepository(
		frames.NewFrameSet(frames.Idle, []string{"idle"}),
		frames.NewFrameSet(frames.Blinking, []string{"blink"}),
	)
	require.NoError(t, err)

	_, err = New(repo)
	assert.True(t, errors.Is(err, frames.ErrNoFrames))

	_, err = New(nil)
	assert.True(t, errors.Is(err, frames.ErrNoFrames))
}

func TestSetStateReportsChange(t *testing.T) {
	m, err := New(testRepo(t))
	require.NoError(t, err)

	assert.False(t, m.SetState(Idle), "already idle")
	assert.True(t, m.SetState(Talking))
	assert.False(t, m.SetState(Talking))
	assert.True(t, m.SetState(Idle))
}

// =============================================================================
// STATE BEHAVIOR
// =============================================================================

func TestDyingAbsorbsEveryRequest(t *testing.T) {
	m, err := New(testRepo(t), WithRand(&countRand{floats: []float64{0.5}}))
	require.NoError(t, err)
	require.True(t, m.SetState(Dying))

	now := t0
	for i := 0; i < 20; i++ {
		for s := Idle; s < stateCount; s++ {
			assert.False(t, m.SetState(s))
			assert.Equal(t, Dying, m.State())
		}
		m.Render(20, 5, now)
		now = now.Add(500 * time.Millisecond)
	}
	assert.Equal(t, Dying, m.State())
}

func TestBlinkRunsFullPassThenIdles(t *testing.T) {
	m, err := New(testRepo(t), WithBlinkChance(0))
	require.NoError(t, err)
	require.True(t, m.SetState(Blinking))

	want := []string{"(- o)", "(- -)", "(o -)"}
	now := t0
	for i, art := range want {
		f := m.Render(5, 1, now)
		assert.Equal(t, Blinking, f.State, "frame %d", i)
		assert.Equal(t, []string{art}, f.Lines, "frame %d", i)
		assert.False(t, f.Waveform)

		// Requests are ignored mid-blink.
		assert.False(t, m.SetState(Talking))
		assert.False(t, m.SetState(Dying))

		// Renders before the cadence elapses hold the frame.
		f = m.Render(5, 1, now.Add(20*time.Millisecond))
		assert.Equal(t, []string{art}, f.Lines)

		now = now.Add(DefaultBlinkInterval)
	}

	f := m.Render(5, 1, now)
	assert.Equal(t, Idle, f.State)
	assert.Equal(t, []string{"(o o)"}, f.Lines, "the pass ends on the idle frame")
	assert.True(t, m.SetState(Talking), "requests are honored again")
}

func TestIdleStartsBlinkOnDraw(t *testing.T) {
	rng := &countRand{floats: []float64{0.5, 0.005}}
	m, err := New(testRepo(t), WithRand(rng))
	require.NoError(t, err)

	f := m.Render(5, 1, t0)
	assert.Equal(t, Idle, f.State)
	assert.Equal(t, []string{"(o o)"}, f.Lines)

	f = m.Render(5, 1, t0.Add(16*time.Millisecond))
	assert.Equal(t, Blinking, f.State)
	assert.Equal(t, []string{"(- o)"}, f.Lines, "the blink starts in the same call")
	assert.Equal(t, 2, rng.draws)
}

func TestTalkingAdvancesOnCadence(t *testing.T) {
	rng := &countRand{floats: []float64{0.5}}
	m, err := New(testRepo(t), WithRand(rng))
	require.NoError(t, err)
	require.True(t, m.SetState(Talking))

	f := m.Render(30, 7, t0)
	assert.True(t, f.Waveform)
	assert.Equal(t, 1, m.FrameNumber(), "first render after entering advances")
	draws := rng.draws

	// Redraws inside the cadence reuse the cached waveform.
	for ms := 16; ms < 100; ms += 16 {
		g := m.Render(30, 7, t0.Add(time.Duration(ms)*time.Millisecond))
		assert.Equal(t, f.Lines, g.Lines)
	}
	assert.Equal(t, 1, m.FrameNumber())
	assert.Equal(t, draws, rng.draws, "no regeneration without a new frame number")

	// A resize regenerates at the same frame number.
	g := m.Render(20, 5, t0.Add(96*time.Millisecond))
	assert.Equal(t, 1, m.FrameNumber())
	assert.Greater(t, rng.draws, draws)
	w, h := compositor.Measure(g.Lines)
	assert.Equal(t, 20, w)
	assert.Equal(t, 5, h)
}

func TestTalkingEmitsAboveThreshold(t *testing.T) {
	// Width 1 at frame 1: t = 0.15, raw = sin(t)*0.5 + sin(3t)*0.3.
	tt := 0.15
	raw := math.Sin(tt)*0.5 + math.Sin(3*tt)*0.3

	tests := []struct {
		name   string
		floats []float64 // silence draw, strength draw, jitter draw
		want   []float64
	}{
		// strength 1.0, jitter 0
		{"loud", []float64{0.5, 0.5, 0.5}, []float64{raw}},
		// strength 0.5, jitter -0.1 leaves the mean under the threshold
		{"quiet", []float64{0.5, 0, 0.25}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := &recordEmitter{}
			m, err := New(testRepo(t), WithRand(&countRand{floats: tc.floats}), WithEmitter(e))
			require.NoError(t, err)
			m.SetState(Talking)
			m.Render(1, 5, t0)

			require.Len(t, e.amps, len(tc.want))
			for i := range tc.want {
				assert.InDelta(t, tc.want[i], e.amps[i], 1e-9)
			}
		})
	}
}

func TestBlinkingNeverEmits(t *testing.T) {
	e := &recordEmitter{}
	m, err := New(testRepo(t), WithEmitter(e), WithBlinkChance(0))
	require.NoError(t, err)
	m.SetState(Blinking)

	now := t0
	for i := 0; i < 10; i++ {
		m.Render(10, 3, now)
		now = now.Add(DefaultBlinkInterval)
	}
	assert.Empty(t, e.amps)
}

func TestDegenerateGeometryNeverPanics(t *testing.T) {
	sizes := []struct{ w, h int }{{0, 0}, {-4, 3}, {3, -4}, {1, 1}, {0, 6}}

	for s := Idle; s < stateCount; s++ {
		for _, sz := range sizes {
			m, err := New(testRepo(t), WithRand(&countRand{floats: []float64{0.5}}))
			require.NoError(t, err)
			m.SetState(s)
			assert.NotPanics(t, func() {
				m.Render(sz.w, sz.h, t0)
				m.Render(sz.w, sz.h, t0.Add(time.Second))
			}, "%s at %dx%d", s, sz.w, sz.h)
		}
	}
}

// =============================================================================
// END TO END
// =============================================================================

func TestEndToEndScenario(t *testing.T) {
	repo, err := frames.Default()
	require.NoError(t, err)
	rng := &countRand{floats: []float64{0.5}}
	m, err := New(repo, WithRand(rng))
	require.NoError(t, err)

	// Idle, 40x10: the single idle frame centered with the floor/ceil split.
	idle, _ := repo.Get(frames.Idle)
	f := m.Render(40, 10, t0)
	require.Equal(t, Idle, f.State)
	require.Len(t, f.Lines, 10)

	natW, natH := compositor.Measure(strings.Split(idle.At(0), "\n"))
	top := (10 - natH) / 2
	left := (40 - natW) / 2
	for i, line := range f.Lines {
		w, _ := compositor.Measure([]string{line})
		assert.Equal(t, 40, w, "line %d", i)
	}
	firstArt := strings.Split(idle.At(0), "\n")[0]
	assert.Equal(t, strings.Repeat(" ", left)+firstArt, strings.TrimRight(f.Lines[top], " "))
	assert.Equal(t, compositor.Fit(idle.At(0), 40, 10), f.Lines)

	// Talking: five renders 100ms apart advance and regenerate five times.
	require.True(t, m.SetState(Talking))
	now := t0.Add(time.Second)
	start := m.FrameNumber()
	perGeneration := 2 + 40 // silence draw, strength draw, one jitter per column
	for i := 1; i <= 5; i++ {
		draws := rng.draws
		f = m.Render(40, 10, now)
		assert.True(t, f.Waveform)
		assert.Equal(t, start+i, m.FrameNumber())
		assert.Equal(t, perGeneration, rng.draws-draws, "render %d regenerates", i)
		now = now.Add(100 * time.Millisecond)
	}

	// Dying: the waveform plays until the budget runs out, then the art sticks.
	require.True(t, m.SetState(Dying))
	dyingStart := now
	f = m.Render(40, 10, dyingStart)
	assert.Equal(t, Dying, f.State)
	assert.True(t, f.Waveform)

	f = m.Render(40, 10, dyingStart.Add(DefaultDyingDuration-time.Millisecond))
	assert.True(t, f.Waveform)

	dying, _ := repo.Get(frames.Dying)
	want := compositor.Fit(dying.At(0), 40, 10)
	f = m.Render(40, 10, dyingStart.Add(DefaultDyingDuration))
	assert.False(t, f.Waveform)
	assert.Equal(t, want, f.Lines)

	assert.False(t, m.SetState(Idle))
	f = m.Render(40, 10, dyingStart.Add(time.Minute))
	assert.Equal(t, Dying, f.State)
	assert.Equal(t, want, f.Lines)
}

func TestWithGlyphsASCII(t *testing.T) {
	m, err := New(testRepo(t),
		WithRand(&countRand{floats: []float64{0.5}}),
		WithGlyphs(waveform.ASCIIGlyphs))
	require.NoError(t, err)
	m.SetState(Talking)

	f := m.Render(12, 5, t0)
	joined := strings.Join(f.Lines, "")
	assert.Contains(t, joined, "#")
	assert.NotContains(t, joined, "█")
}
