// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeranaias/stemm-tui/internal/config"
)

// TickMsg drives the typewriter and the avatar.
type TickMsg time.Time

// ReplyMsg carries a finished reply request back to the update loop.
type ReplyMsg struct {
	Prompt  string
	Text    string
	Err     error
	Elapsed time.Duration
}

// ConfigReloadMsg delivers a config that was changed on disk and validated.
type ConfigReloadMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a config file that failed to load or validate.
type ConfigErrorMsg struct {
	Err error
}

// tick schedules the next TickMsg.
func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
