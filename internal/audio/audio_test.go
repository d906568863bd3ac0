// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneFor(t *testing.T) {
	tests := []struct {
		name     string
		amp      float64
		wantFreq float64
		wantGain float64
	}{
		{"silent", 0, 220, MinGain},
		{"quiet", 0.15, 265, 0.15},
		{"loud", 1, 520, MaxGain},
		{"negative", -0.2, 160, 0.2},
		{"very negative floors pitch", -1.2, MinFrequency, MaxGain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tone := ToneFor(tc.amp, 0)
			assert.InDelta(t, tc.wantFreq, tone.Frequency, 1e-9)
			assert.InDelta(t, tc.wantGain, tone.Gain, 1e-9)
			assert.Equal(t, DefaultDuration, tone.Duration)
		})
	}
}

func TestSynthesize(t *testing.T) {
	tone := Tone{Frequency: 440, Gain: 0.2, Duration: 100 * time.Millisecond}
	pcm := Synthesize(tone)

	n := SampleRate / 10
	require.Len(t, pcm, n*bytesPerFrame)

	sample := func(i int) float32 {
		o := i * bytesPerFrame
		bits := uint32(pcm[o]) | uint32(pcm[o+1])<<8 | uint32(pcm[o+2])<<16 | uint32(pcm[o+3])<<24
		return math.Float32frombits(bits)
	}
	assert.Equal(t, float32(0), sample(0), "attack starts from silence")
	assert.Equal(t, float32(0), sample(n-1), "release ends in silence")
	for i := 0; i < n; i++ {
		if s := sample(i); s < -1 || s > 1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, s)
		}
	}

	assert.Nil(t, Synthesize(Tone{Frequency: 440}))
}

// =============================================================================
// WORKER TESTS
// =============================================================================

type fakeVoice struct {
	mu      sync.Mutex
	playing bool
}

func (v *fakeVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *fakeVoice) Close() error { return nil }

func (v *fakeVoice) finish() {
	v.mu.Lock()
	v.playing = false
	v.mu.Unlock()
}

type fakeBackend struct {
	mu     sync.Mutex
	voices []*fakeVoice
	gains  []float64
	err    error
}

func (b *fakeBackend) Start(pcm []byte, gain float64) (Voice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	v := &fakeVoice{playing: true}
	b.voices = append(b.voices, v)
	b.gains = append(b.gains, gain)
	return v, nil
}

func (b *fakeBackend) started() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.voices)
}

func runWorker(t *testing.T, w *Worker) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWorkerPlaysQueuedTones(t *testing.T) {
	b := &fakeBackend{}
	w := NewWorker(b, WorkerConfig{Volume: 0.5}, zerolog.Nop())
	runWorker(t, w)

	w.Emit(0.3)

	require.Eventually(t, func() bool { return b.started() == 1 }, time.Second, 5*time.Millisecond)
	b.mu.Lock()
	assert.InDelta(t, 0.15, b.gains[0], 1e-9, "tone gain is scaled by master volume")
	b.mu.Unlock()
}

func TestWorkerEmitNeverBlocks(t *testing.T) {
	b := &fakeBackend{}
	w := NewWorker(b, WorkerConfig{QueueSize: 2}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			w.Emit(0.5)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked with no consumer")
	}

	_, dropped := w.Stats()
	assert.Equal(t, int64(98), dropped)
}

func TestWorkerCapsVoices(t *testing.T) {
	b := &fakeBackend{}
	w := NewWorker(b, WorkerConfig{MaxVoices: 2, PerSecond: 1000}, zerolog.Nop())
	runWorker(t, w)

	for i := 0; i < 5; i++ {
		w.Emit(0.5)
	}
	require.Eventually(t, func() bool {
		_, dropped := w.Stats()
		return dropped == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, b.started())

	// Once a voice finishes a new tone fits again.
	b.mu.Lock()
	b.voices[0].finish()
	b.mu.Unlock()
	w.Emit(0.5)
	require.Eventually(t, func() bool { return b.started() == 3 }, time.Second, 5*time.Millisecond)
}

func TestWorkerSwallowsBackendErrors(t *testing.T) {
	b := &fakeBackend{err: errors.New("no device")}
	w := NewWorker(b, WorkerConfig{}, zerolog.Nop())
	runWorker(t, w)

	w.Emit(0.5)
	require.Eventually(t, func() bool {
		_, dropped := w.Stats()
		return dropped == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWorkerDisabled(t *testing.T) {
	w := NewWorker(&fakeBackend{}, WorkerConfig{QueueSize: 1}, zerolog.Nop())
	w.SetEnabled(false)
	w.Emit(0.5)
	w.Emit(0.5)

	_, dropped := w.Stats()
	assert.Zero(t, dropped, "muted emits are ignored, not dropped")
	assert.False(t, w.Enabled())
}

func TestWorkerVolumeClamped(t *testing.T) {
	w := NewWorker(&fakeBackend{}, WorkerConfig{}, zerolog.Nop())
	w.SetVolume(3)
	assert.Equal(t, 1.0, w.Volume())
	w.SetVolume(-1)
	assert.Equal(t, 0.0, w.Volume())
}

func TestWorkerCloseStopsRun(t *testing.T) {
	w := NewWorker(&fakeBackend{}, WorkerConfig{}, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	w.Close()
	w.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}
