// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestNewHeader(t *testing.T) {
	h := NewHeader(testTheme())
	require.NotNil(t, h)
	assert.Equal(t, "stemm", h.Title)
	assert.False(t, h.Editing)
}

func TestHeaderViewWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{"wide", 120},
		{"medium", 80},
		{"exactly compact limit", 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHeader(testTheme())
			h.SetWidth(tc.width)
			h.SetSubtitle("echo")
			out := h.View()
			assert.Equal(t, tc.width, lipgloss.Width(out))
			assert.Contains(t, out, "stemm")
			assert.Equal(t, 3, h.Height())
		})
	}
}

func TestHeaderHintsFollowMode(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)

	assert.Contains(t, h.View(), "quit")
	assert.NotContains(t, h.View(), "EDIT")

	h.SetEditing(true)
	out := h.View()
	assert.Contains(t, out, "EDIT")
	assert.Contains(t, out, "send")
}

func TestHeaderCompact(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(30)
	h.SetSubtitle("ollama a-very-long-model-name:latest")

	out := h.View()
	assert.Equal(t, 1, lipgloss.Height(out))
	assert.LessOrEqual(t, lipgloss.Width(out), 30)
}

// =============================================================================
// AVATAR PANEL TESTS
// =============================================================================

func TestAvatarPanelInterior(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{40, 10, 38, 8},
		{2, 2, 0, 0},
		{1, 5, 0, 3},
		{0, 0, 0, 0},
	}

	a := NewAvatarPanel(testTheme())
	for _, tc := range tests {
		a.SetSize(tc.w, tc.h)
		w, h := a.Interior()
		assert.Equal(t, tc.wantW, w, "width for %dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, h, "height for %dx%d", tc.w, tc.h)
	}
}

func TestAvatarPanelView(t *testing.T) {
	a := NewAvatarPanel(testTheme())
	a.SetSize(12, 5)
	a.SetFrame(animation.Frame{
		Lines: []string{"          ", "  (o o)   ", "          "},
		State: animation.Idle,
	})

	out := a.View()
	assert.Equal(t, 12, lipgloss.Width(out))
	assert.Equal(t, 5, lipgloss.Height(out))
	assert.Contains(t, out, "(o o)")
}

func TestAvatarPanelTooSmall(t *testing.T) {
	a := NewAvatarPanel(testTheme())
	a.SetSize(2, 2)
	assert.Empty(t, a.View())
}

// =============================================================================
// INPUT AND OUTPUT TESTS
// =============================================================================

func TestInputAreaFocusAndValue(t *testing.T) {
	in := NewInputArea(testTheme())
	in.SetSize(30, 3)
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())

	in.SetValue("hello")
	assert.Equal(t, "hello", in.Value())
	assert.Contains(t, in.View(), "hello")

	in.Reset()
	assert.Empty(t, in.Value())

	in.Blur()
	assert.False(t, in.Focused())
}

func TestOutputPanelKeepsTail(t *testing.T) {
	o := NewOutputPanel(testTheme(), nil)
	o.SetSize(20, 4)

	lines := []string{"one", "two", "three", "four"}
	o.SetText(strings.Join(lines, "\n"), false)

	out := o.View()
	assert.Equal(t, 4, lipgloss.Height(out))
	assert.Contains(t, out, "four")
	assert.Contains(t, out, "three")
	assert.NotContains(t, out, "one")
}

func TestOutputPanelShowsSpinner(t *testing.T) {
	theme := testTheme()
	s := NewThinkingSpinner(theme)
	o := NewOutputPanel(theme, s)
	o.SetSize(40, 5)
	o.SetText("previous reply", false)

	require.NotNil(t, s.Start(time.Now()))
	assert.True(t, s.Active())
	assert.Contains(t, o.View(), "Thinking")

	s.Stop()
	assert.Nil(t, s.Update(nil))
	assert.Contains(t, o.View(), "previous reply")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1.5s", formatElapsed(1500*time.Millisecond))
	assert.Equal(t, "2m05s", formatElapsed(125*time.Second))
}
