// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// DefaultCharLimit caps a single prompt.
const DefaultCharLimit = 4096

// InputArea is the single-line prompt editor in a bordered panel.
type InputArea struct {
	input  textinput.Model
	width  int
	height int
	theme  *styles.Theme
}

// NewInputArea creates an unfocused InputArea.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "press e to type, enter to send"
	ti.CharLimit = DefaultCharLimit
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.Placeholder
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &InputArea{
		input:  ti,
		width:  40,
		height: 3,
		theme:  theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.input.Blur()
}

// Focused reports whether keystrokes go to the input.
func (i *InputArea) Focused() bool {
	return i.input.Focused()
}

// SetSize sets the outer size of the panel, border included.
func (i *InputArea) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Border, padding, the prompt and the cursor cell.
	i.input.Width = max(width-5-lipgloss.Width(i.input.Prompt), 1)
}

// Value returns the current input value.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update forwards msg to the text input.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input panel.
func (i *InputArea) View() string {
	if i.width < 3 || i.height < 3 {
		return ""
	}
	panel := i.theme.Panel
	if i.input.Focused() {
		panel = i.theme.PanelFocused
	}
	return panel.
		Padding(0, 1).
		Width(i.width - 2).
		Height(i.height - 2).
		MaxHeight(i.height).
		Render(i.input.View())
}
