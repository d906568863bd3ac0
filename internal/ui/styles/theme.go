// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderKey      lipgloss.Style
	HeaderKeyDesc  lipgloss.Style
	EditBadge      lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// ==========================================================================
	// AVATAR TINTS
	// ==========================================================================

	AvatarIdle     lipgloss.Style
	AvatarWaveform lipgloss.Style
	AvatarDying    lipgloss.Style

	// ==========================================================================
	// INPUT AND OUTPUT
	// ==========================================================================

	InputPrompt lipgloss.Style
	InputText   lipgloss.Style
	Placeholder lipgloss.Style
	Output      lipgloss.Style
	OutputError lipgloss.Style
	Thinking    lipgloss.Style
}

// NewTheme creates a theme for mode ("dark", "light" or "auto"). Anything
// other than dark or light asks the terminal.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderKeyDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EditBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	// Panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim)

	t.PanelFocused = t.Panel.
		BorderForeground(Purple)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	// Avatar
	t.AvatarIdle = lipgloss.NewStyle().Foreground(Cyan)
	t.AvatarWaveform = lipgloss.NewStyle().Foreground(Emerald)
	t.AvatarDying = lipgloss.NewStyle().Foreground(Rose)

	// Input and output
	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Output = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.OutputError = lipgloss.NewStyle().
		Foreground(Rose)

	t.Thinking = lipgloss.NewStyle().
		Foreground(Purple)
}

// Avatar returns the tint for a rendered avatar frame. The waveform is green
// while talking and rose while dying; art is cyan except the dying face.
func (t *Theme) Avatar(f animation.Frame) lipgloss.Style {
	switch {
	case f.State == animation.Dying:
		return t.AvatarDying
	case f.Waveform:
		return t.AvatarWaveform
	default:
		return t.AvatarIdle
	}
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
