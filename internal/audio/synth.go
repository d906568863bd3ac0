// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"math"
	"time"
)

// Output format shared by the synthesizer and the oto backend.
const (
	SampleRate    = 44100
	ChannelCount  = 2
	bytesPerFrame = 4 * ChannelCount // float32 per channel
)

const rampTime = 10 * time.Millisecond

// Synthesize renders t as interleaved stereo float32 little-endian PCM at
// unit amplitude. Gain is applied by the backend.
func Synthesize(t Tone) []byte {
	n := frames(t.Duration)
	if n <= 0 {
		return nil
	}
	ramp := frames(rampTime)
	if ramp*2 > n {
		ramp = n / 2
	}

	buf := make([]byte, n*bytesPerFrame)
	step := 2 * math.Pi * t.Frequency / SampleRate
	for i := 0; i < n; i++ {
		env := 1.0
		switch {
		case i < ramp:
			env = float64(i) / float64(ramp)
		case i >= n-ramp:
			env = float64(n-1-i) / float64(ramp)
		}
		putStereoF32(buf, i, math.Sin(step*float64(i))*env)
	}
	return buf
}

func frames(d time.Duration) int {
	return int(int64(d) * SampleRate / int64(time.Second))
}

// putStereoF32 writes sample to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	off := i * bytesPerFrame
	for ch := 0; ch < ChannelCount; ch++ {
		o := off + ch*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
