// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"bytes"
	"errors"

	"github.com/hajimehoshi/oto/v2"
)

// ErrNotReady is returned while the output device is still initializing.
var ErrNotReady = errors.New("audio device not ready")

// OtoBackend plays PCM through the system audio device.
type OtoBackend struct {
	ctx   *oto.Context
	ready chan struct{}
}

// NewOtoBackend opens the default output device. oto allows a single context
// per process, so create one backend and share it.
func NewOtoBackend() (*OtoBackend, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &OtoBackend{ctx: ctx, ready: ready}, nil
}

// Start begins playing pcm at gain and returns immediately.
func (b *OtoBackend) Start(pcm []byte, gain float64) (Voice, error) {
	select {
	case <-b.ready:
	default:
		return nil, ErrNotReady
	}
	p := b.ctx.NewPlayer(bytes.NewReader(pcm))
	p.SetVolume(gain)
	p.Play()
	return p, nil
}
