// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package frames provides the pre-authored text frames used by the avatar.
package frames

import (
	"errors"
	"fmt"
	"sort"
)

// Frame set names, one per canned-art animation state.
const (
	Idle     = "idle"
	Blinking = "blinking"
	Dying    = "dying"
)

// ErrNoFrames is returned when a required state has no frames.
var ErrNoFrames = errors.New("no frames found")

// =============================================================================
// FRAME SET
// =============================================================================

// FrameSet is an ordered, immutable sequence of text blocks.
type FrameSet struct {
	name   string
	frames []string
}

// NewFrameSet copies frames into a new FrameSet.
func NewFrameSet(name string, frames []string) FrameSet {
	cp := make([]string, len(frames))
	copy(cp, frames)
	return FrameSet{name: name, frames: cp}
}

// Name returns the state name the set belongs to.
func (s FrameSet) Name() string { return s.name }

// Len returns the number of frames.
func (s FrameSet) Len() int { return len(s.frames) }

// At returns frame i. Out-of-range indexes wrap around so a caller holding a
// stale index never panics.
func (s FrameSet) At(i int) string {
	if len(s.frames) == 0 {
		return ""
	}
	i %= len(s.frames)
	if i < 0 {
		i += len(s.frames)
	}
	return s.frames[i]
}

// Frames returns a copy of all frames.
func (s FrameSet) Frames() []string {
	cp := make([]string, len(s.frames))
	copy(cp, s.frames)
	return cp
}

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository holds every FrameSet keyed by state name.
// It is read-only once built and safe to share.
type Repository struct {
	sets map[string]FrameSet
}

// NewRepository builds a repository from already-loaded sets.
// Sets with no frames are rejected.
func NewRepository(sets ...FrameSet) (*Repository, error) {
	r := &Repository{sets: make(map[string]FrameSet, len(sets))}
	for _, s := range sets {
		if s.Len() == 0 {
			return nil, fmt.Errorf("frame set %q: %w", s.name, ErrNoFrames)
		}
		r.sets[s.name] = s
	}
	return r, nil
}

// Get returns the set for name.
func (r *Repository) Get(name string) (FrameSet, bool) {
	s, ok := r.sets[name]
	return s, ok
}

// Names returns the set names in sorted order.
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require checks that every named set exists.
func (r *Repository) Require(names ...string) error {
	for _, name := range names {
		if _, ok := r.sets[name]; !ok {
			return fmt.Errorf("frame set %q: %w", name, ErrNoFrames)
		}
	}
	return nil
}
