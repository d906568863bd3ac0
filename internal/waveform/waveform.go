// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package waveform synthesizes the avatar's "talking" visualization.
//
// The generator does not analyse real audio. It approximates speech cadence
// with a burst/silence model: most calls draw a burst of random strength and
// trace a two-harmonic sine across the panel, while roughly one call in five
// starts a short silence during which a flat line is drawn.
package waveform

import (
	"math"
	"math/rand"
	"time"
)

// Model constants.
const (
	SilenceChance  = 0.2 // probability a call starts a silence
	SilenceFrames  = 3   // flat frames drawn after a silence starts
	SilentStrength = 0.2 // burst strength of the call that starts a silence
	MinStrength    = 0.5
	MaxStrength    = 1.5
	Jitter         = 0.2  // per-column noise, uniform in [-Jitter, Jitter]
	PhaseStep      = 0.5  // phase advance per frame number
	Frequency      = 0.3  // radians per column
	AudioThreshold = 0.1  // |mean| above which a tone is worth playing
	ReseedRange    = 1000 // frame numbers are reseeded within [0, ReseedRange)
)

// Rand is the randomness the generator needs. *rand.Rand satisfies it, and
// tests can supply scripted sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Sample is the result of one Generate call.
type Sample struct {
	Grid Grid
	// Mean is the average raw amplitude across columns, roughly [-1.4, 1.4].
	Mean float64
	// Reseeded is true when a silence just ended and FrameNumber holds the new
	// phase the caller should continue from.
	Reseeded    bool
	FrameNumber int
}

// Generator carries the silence countdown and random source between calls.
// It is not safe for concurrent use.
type Generator struct {
	rng     Rand
	silence int
	offsets []int
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Generator{rng: rng}
}

// Offsets returns the per-column row offsets of the last burst.
func (g *Generator) Offsets() []int {
	cp := make([]int, len(g.offsets))
	copy(cp, g.offsets)
	return cp
}

// Generate produces a width x height waveform for frameNumber.
func (g *Generator) Generate(width, height, frameNumber int) Sample {
	if width <= 0 || height <= 0 {
		return Sample{Grid: Grid{}, FrameNumber: frameNumber}
	}

	center := height / 2

	if g.silence > 0 {
		grid := NewGrid(width, height)
		for x := range grid[center] {
			grid[center][x] = Filled
		}
		g.silence--
		s := Sample{Grid: grid, FrameNumber: frameNumber}
		if g.silence == 0 {
			s.Reseeded = true
			s.FrameNumber = g.rng.Intn(ReseedRange)
		}
		return s
	}

	var strength float64
	if g.rng.Float64() < SilenceChance {
		g.silence = SilenceFrames
		strength = SilentStrength
	} else {
		strength = MinStrength + g.rng.Float64()*(MaxStrength-MinStrength)
	}

	half := float64(height) / 2
	// The trace row center+offset must stay on the grid.
	lo, hi := -center, height-1-center
	if cap(g.offsets) < width {
		g.offsets = make([]int, width)
	}
	g.offsets = g.offsets[:width]

	var sum float64
	for x := 0; x < width; x++ {
		t := (float64(x) + float64(frameNumber)*PhaseStep) * Frequency
		a := (math.Sin(t)*0.5+math.Sin(3*t)*0.3)*strength + (g.rng.Float64()*2-1)*Jitter
		sum += a
		g.offsets[x] = clampInt(int(math.Round(a*half)), lo, hi)
	}

	grid := NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := y - center - g.offsets[x]
			if d < 0 {
				d = -d
			}
			switch d {
			case 0:
				grid[y][x] = Filled
			case 1:
				grid[y][x] = Half
			}
		}
	}

	return Sample{Grid: grid, Mean: sum / float64(width), FrameNumber: frameNumber}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
