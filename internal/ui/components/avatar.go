// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
)

// =============================================================================
// AVATAR PANEL
// =============================================================================

// AvatarPanel frames the animated avatar in a bordered box. The host asks it
// for the interior size, renders the machine at that size, and hands the
// result back with SetFrame.
type AvatarPanel struct {
	width  int
	height int
	frame  animation.Frame
	theme  *styles.Theme
}

// NewAvatarPanel creates an empty panel.
func NewAvatarPanel(theme *styles.Theme) *AvatarPanel {
	return &AvatarPanel{theme: theme}
}

// SetSize sets the outer size, border included.
func (a *AvatarPanel) SetSize(width, height int) {
	a.width = width
	a.height = height
}

// Interior returns the size available to the avatar inside the border. Both
// values are zero for panels too small to hold a border.
func (a *AvatarPanel) Interior() (width, height int) {
	return max(a.width-2, 0), max(a.height-2, 0)
}

// SetFrame stores the most recent render.
func (a *AvatarPanel) SetFrame(f animation.Frame) {
	a.frame = f
}

// Frame returns the most recent render.
func (a *AvatarPanel) Frame() animation.Frame {
	return a.frame
}

// View renders the panel with the frame tinted by avatar state.
func (a *AvatarPanel) View() string {
	w, h := a.Interior()
	if w == 0 || h == 0 {
		return ""
	}

	// The frame was fitted to the interior already; only pad a stale frame
	// left over from before a resize.
	lines := make([]string, h)
	for i := range lines {
		if i < len(a.frame.Lines) {
			lines[i] = a.frame.Lines[i]
		}
	}

	tint := a.theme.Avatar(a.frame)
	body := tint.Render(strings.Join(lines, "\n"))
	return a.theme.Panel.
		Width(w).
		Height(h).
		MaxWidth(a.width).
		MaxHeight(a.height).
		Render(body)
}
