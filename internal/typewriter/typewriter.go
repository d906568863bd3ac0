// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter reveals replies one character at a time and reports
// whether the avatar should be talking while it does.
package typewriter

import (
	"time"

	"github.com/jeranaias/stemm-tui/internal/animation"
)

// DefaultCharDelay is the time between revealed characters.
const DefaultCharDelay = 75 * time.Millisecond

// =============================================================================
// TYPEWRITER
// =============================================================================

// Typewriter keeps the reply history and reveals the latest message.
//
// It is driven from the Bubble Tea update loop and is not safe for
// concurrent use.
type Typewriter struct {
	messages []string
	current  []rune
	visible  int
	lastChar time.Time
	delay    time.Duration
}

// New creates an empty typewriter. A non-positive delay uses
// DefaultCharDelay.
func New(delay time.Duration) *Typewriter {
	if delay <= 0 {
		delay = DefaultCharDelay
	}
	return &Typewriter{delay: delay}
}

// SetDelay changes the reveal speed for subsequent characters.
func (tw *Typewriter) SetDelay(d time.Duration) {
	if d > 0 {
		tw.delay = d
	}
}

// Delay returns the time between revealed characters.
func (tw *Typewriter) Delay() time.Duration { return tw.delay }

// AddMessage appends text to the history and starts revealing it from the
// first character.
func (tw *Typewriter) AddMessage(text string, now time.Time) {
	tw.messages = append(tw.messages, text)
	tw.current = []rune(text)
	tw.visible = 0
	tw.lastChar = now
}

// Update advances the reveal. The bool is false when the character delay has
// not elapsed yet, in which case the state carries no information.
// Otherwise the state is Talking if a character was revealed and Idle when
// nothing is left to reveal.
func (tw *Typewriter) Update(now time.Time) (animation.State, bool) {
	if len(tw.messages) == 0 {
		return animation.Idle, true
	}
	if now.Sub(tw.lastChar) < tw.delay {
		return animation.Idle, false
	}
	if tw.visible < len(tw.current) {
		tw.visible++
		tw.lastChar = now
		return animation.Talking, true
	}
	return animation.Idle, true
}

// Visible returns the revealed part of the latest message.
func (tw *Typewriter) Visible() string {
	return string(tw.current[:tw.visible])
}

// Done reports whether the latest message is fully revealed.
func (tw *Typewriter) Done() bool { return tw.visible >= len(tw.current) }

// Skip reveals the rest of the latest message at once.
func (tw *Typewriter) Skip() { tw.visible = len(tw.current) }
