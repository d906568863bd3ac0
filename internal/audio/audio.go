// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio plays the short tones that accompany the talking avatar.
//
// Audio is cosmetic. Emit never blocks the render loop and never reports an
// error: tones are handed to a dedicated worker through a bounded queue, and
// a full queue, a missing device or a playback failure simply means silence.
package audio

import (
	"math"
	"time"
)

// Tone parameters.
const (
	BaseFrequency   = 220.0 // Hz at zero amplitude
	FrequencySpan   = 300.0 // Hz added per unit of amplitude
	MinFrequency    = 55.0
	MinGain         = 0.1
	MaxGain         = 0.3
	DefaultDuration = 200 * time.Millisecond
)

// Tone is a single fixed-length sine beep.
type Tone struct {
	Frequency float64
	Gain      float64
	Duration  time.Duration
}

// ToneFor maps a waveform mean amplitude to a tone.
func ToneFor(amplitude float64, d time.Duration) Tone {
	if d <= 0 {
		d = DefaultDuration
	}
	freq := BaseFrequency + amplitude*FrequencySpan
	if freq < MinFrequency {
		freq = MinFrequency
	}
	gain := math.Abs(amplitude)
	if gain < MinGain {
		gain = MinGain
	}
	if gain > MaxGain {
		gain = MaxGain
	}
	return Tone{Frequency: freq, Gain: gain, Duration: d}
}

// Emitter accepts amplitude cues from the render path.
type Emitter interface {
	Emit(amplitude float64)
}

// Nop discards every cue.
type Nop struct{}

// Emit does nothing.
func (Nop) Emit(float64) {}
