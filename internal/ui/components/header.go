// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stemm TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
	"github.com/jeranaias/stemm-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// KeyHint is one key binding shown in the header.
type KeyHint struct {
	Key  string
	Desc string
}

// NormalHints are shown while the input is not focused.
var NormalHints = []KeyHint{
	{"e", "edit"},
	{"pgup", "die"},
	{"q", "quit"},
}

// EditHints are shown while typing.
var EditHints = []KeyHint{
	{"enter", "send"},
	{"esc", "done"},
	{"ctrl+c", "quit"},
}

// Header is the title bar: brand, subtitle and key hints.
type Header struct {
	Title    string
	Subtitle string // backend and model, e.g. "ollama qwen2:1.5b"
	Editing  bool
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "stemm",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSubtitle updates the text shown after the title.
func (h *Header) SetSubtitle(s string) {
	h.Subtitle = s
}

// SetEditing switches the key hints between normal and edit mode.
func (h *Header) SetEditing(editing bool) {
	h.Editing = editing
}

// Height is the number of rows View produces.
func (h *Header) Height() int {
	return lipgloss.Height(h.View())
}

// View renders the header. Narrow terminals get the compact variant.
func (h *Header) View() string {
	if h.Width < 60 {
		return h.ViewCompact()
	}

	// Border and padding take four columns.
	innerWidth := h.Width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}

	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" {
		left += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}
	if h.Editing {
		left += " " + h.theme.EditBadge.Render("EDIT")
	}
	right := h.hints()

	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	var content string
	if gap >= 1 {
		content = left + strings.Repeat(" ", gap) + right
	} else {
		content = util.TruncateWidth(h.Title+" "+h.Subtitle, innerWidth)
	}

	return h.theme.Header.Width(h.Width - 2).Render(content)
}

// ViewCompact renders a single unbordered line for narrow terminals.
func (h *Header) ViewCompact() string {
	line := h.theme.HeaderTitle.Render(h.Title)
	if h.Editing {
		line += " " + h.theme.EditBadge.Render("EDIT")
	}
	if h.Subtitle != "" {
		room := h.Width - lipgloss.Width(line) - 1
		if room > 0 {
			line += " " + h.theme.HeaderSubtitle.Render(util.TruncateWidth(h.Subtitle, room))
		}
	}
	return line
}

func (h *Header) hints() string {
	set := NormalHints
	if h.Editing {
		set = EditHints
	}
	parts := make([]string, 0, len(set))
	for _, k := range set {
		parts = append(parts, h.theme.HeaderKey.Render(k.Key)+" "+h.theme.HeaderKeyDesc.Render(k.Desc))
	}
	return strings.Join(parts, h.theme.HeaderKeyDesc.Render("  "))
}
