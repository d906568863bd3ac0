// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/lipgloss"
)

// minWidth and minHeight are the smallest screen the layout is drawn on.
const (
	minWidth  = 20
	minHeight = 8
)

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < minWidth || m.height < minHeight {
		return lipgloss.NewStyle().
			Width(m.width).
			Render("Terminal too small")
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.input.View(), m.output.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.avatar.View(), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), content)
}
