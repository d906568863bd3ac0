// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package animation

import (
	"fmt"
	"strings"
)

// State is the avatar's current animation.
type State int

const (
	Idle State = iota
	Talking
	Blinking
	Dying

	stateCount
)

var stateNames = [stateCount]string{
	Idle:     "idle",
	Talking:  "talking",
	Blinking: "blinking",
	Dying:    "dying",
}

// String returns the lowercase state name.
func (s State) String() string {
	if s < 0 || s >= stateCount {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Valid reports whether s is a known state.
func (s State) Valid() bool { return s >= 0 && s < stateCount }

// ParseState converts a name such as "talking" to a State. Case-insensitive.
func ParseState(name string) (State, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == name {
			return State(s), nil
		}
	}
	return Idle, fmt.Errorf("unknown animation state %q", name)
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Transitions maps (current, requested) to the next state. A row whose every
// entry is the row's own state absorbs external requests.
type Transitions [stateCount][stateCount]State

// DefaultTransitions is the avatar policy. Dying is terminal and Blinking
// ignores requests until its own sequence finishes.
var DefaultTransitions = Transitions{
	Idle:     {Idle: Idle, Talking: Talking, Blinking: Blinking, Dying: Dying},
	Talking:  {Idle: Idle, Talking: Talking, Blinking: Blinking, Dying: Dying},
	Blinking: {Idle: Blinking, Talking: Blinking, Blinking: Blinking, Dying: Blinking},
	Dying:    {Idle: Dying, Talking: Dying, Blinking: Dying, Dying: Dying},
}

// Next returns the state after requesting requested while in current.
// Unknown states leave current unchanged.
func (t *Transitions) Next(current, requested State) State {
	if !current.Valid() || !requested.Valid() {
		return current
	}
	return t[current][requested]
}

// Absorbs reports whether current ignores every external request.
func (t *Transitions) Absorbs(current State) bool {
	if !current.Valid() {
		return false
	}
	for r := State(0); r < stateCount; r++ {
		if t[current][r] != current {
			return false
		}
	}
	return true
}
