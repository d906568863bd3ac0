// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER
// =============================================================================

// Spinner shows that a reply is being generated.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	theme     *styles.Theme
}

// NewThinkingSpinner creates an inactive "Thinking" spinner with ASCII frames.
func NewThinkingSpinner(theme *styles.Theme) *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Thinking
	return &Spinner{
		spinner: s,
		message: "Thinking",
		theme:   theme,
	}
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start(now time.Time) tea.Cmd {
	s.isActive = true
	s.startTime = now
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.isActive
}

// Elapsed returns how long the spinner has been running.
func (s *Spinner) Elapsed(now time.Time) time.Duration {
	if !s.isActive {
		return 0
	}
	return now.Sub(s.startTime)
}

// Update advances the animation. Ticks that arrive after Stop are dropped,
// which ends the tick chain.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.isActive {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner and elapsed time.
func (s *Spinner) View() string {
	if !s.isActive {
		return ""
	}
	elapsed := formatElapsed(time.Since(s.startTime))
	return s.spinner.View() + " " +
		s.theme.PanelTitle.Render(s.message+"...") + " " +
		s.theme.HeaderKeyDesc.Render("("+elapsed+")")
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
