// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
	"github.com/jeranaias/stemm-tui/internal/util"
)

// =============================================================================
// OUTPUT PANEL
// =============================================================================

// OutputPanel shows the revealed part of the latest reply. Long replies keep
// their tail in view.
type OutputPanel struct {
	width    int
	height   int
	text     string
	isError  bool
	thinking *Spinner
	theme    *styles.Theme
}

// NewOutputPanel creates an empty panel.
func NewOutputPanel(theme *styles.Theme, thinking *Spinner) *OutputPanel {
	return &OutputPanel{theme: theme, thinking: thinking}
}

// SetSize sets the outer size, border included.
func (o *OutputPanel) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// SetText replaces the displayed text. Error text is tinted.
func (o *OutputPanel) SetText(text string, isError bool) {
	o.text = text
	o.isError = isError
}

// Text returns the displayed text.
func (o *OutputPanel) Text() string {
	return o.text
}

// View renders the panel.
func (o *OutputPanel) View() string {
	if o.width < 4 || o.height < 3 {
		return ""
	}
	innerW := o.width - 4
	innerH := o.height - 2

	style := o.theme.Output
	if o.isError {
		style = o.theme.OutputError
	}

	var body string
	if o.thinking != nil && o.thinking.Active() {
		body = o.thinking.View()
	} else {
		// Wrap first so the tail is measured in screen rows.
		body = util.TailLines(style.Width(innerW).Render(o.text), innerH)
	}

	return o.theme.Panel.
		Padding(0, 1).
		Width(o.width - 2).
		Height(innerH).
		MaxHeight(o.height).
		Render(body)
}
