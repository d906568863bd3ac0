// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea model of the stemm terminal assistant.
//
// One update loop owns every piece of mutable UI state. Each TickMsg advances
// the typewriter, forwards its verdict to the avatar machine, and renders the
// avatar at the interior size of its panel. Replies are fetched in a tea.Cmd
// and come back as ReplyMsg; config changes arrive as ConfigReloadMsg.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/jeranaias/stemm-tui/internal/config"
	"github.com/jeranaias/stemm-tui/internal/reply"
	"github.com/jeranaias/stemm-tui/internal/typewriter"
	"github.com/jeranaias/stemm-tui/internal/ui/components"
	"github.com/jeranaias/stemm-tui/internal/ui/styles"
	"github.com/rs/zerolog"
)

// AudioControl is the part of the audio worker the UI adjusts at runtime.
type AudioControl interface {
	SetEnabled(on bool)
	SetVolume(v float64)
}

// Options wires the model to its collaborators.
type Options struct {
	Config     *config.Config
	Machine    *animation.Machine
	Typewriter *typewriter.Typewriter
	Responder  reply.Responder
	// Audio may be nil when sound is unavailable.
	Audio  AudioControl
	Logger zerolog.Logger
	// Context bounds reply requests. Defaults to context.Background().
	Context context.Context
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	cfg       *config.Config
	keys      KeyMap
	theme     *styles.Theme
	machine   *animation.Machine
	tw        *typewriter.Typewriter
	responder reply.Responder
	audio     AudioControl
	log       zerolog.Logger

	header  *components.Header
	avatar  *components.AvatarPanel
	input   *components.InputArea
	output  *components.OutputPanel
	spinner *components.Spinner

	width    int
	height   int
	editing  bool
	pending  bool
	replyErr bool
}

// New creates the model. It starts in edit mode with the prompt focused.
func New(opts Options) (Model, error) {
	if opts.Machine == nil {
		return Model{}, errors.New("app: animation machine is required")
	}
	if opts.Responder == nil {
		return Model{}, errors.New("app: responder is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	tw := opts.Typewriter
	if tw == nil {
		tw = typewriter.New(cfg.Typewriter.CharDelay())
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	spin := components.NewThinkingSpinner(theme)

	m := Model{
		ctx:       ctx,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		theme:     theme,
		machine:   opts.Machine,
		tw:        tw,
		responder: opts.Responder,
		audio:     opts.Audio,
		log:       opts.Logger,
		header:    components.NewHeader(theme),
		avatar:    components.NewAvatarPanel(theme),
		input:     components.NewInputArea(theme),
		output:    components.NewOutputPanel(theme, spin),
		spinner:   spin,
		editing:   true,
	}
	m.header.SetSubtitle(subtitle(cfg))
	m.header.SetEditing(true)
	m.input.Focus()
	return m, nil
}

// Init starts the tick loop and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.cfg.UI.Tick()), textinput.Blink)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case ReplyMsg:
		return m.handleReply(msg)

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case ConfigErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("config reload rejected")
		return m, nil

	case spinner.TickMsg:
		return m, m.spinner.Update(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout()
	return m, nil
}

// layout splits the screen: header on top, avatar on the left half, input
// above output on the right half.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)

	contentH := max(m.height-m.header.Height(), 0)
	leftW := m.width / 2
	rightW := m.width - leftW
	inputH := contentH / 2

	m.avatar.SetSize(leftW, contentH)
	m.input.SetSize(rightW, inputH)
	m.output.SetSize(rightW, contentH-inputH)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Die):
		if m.machine.SetState(animation.Dying) {
			m.log.Info().Msg("avatar dying")
		}
		return m, nil
	case key.Matches(msg, m.keys.Skip):
		m.tw.Skip()
		m.output.SetText(m.tw.Visible(), m.replyErr)
		return m, nil
	}

	if !m.editing {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Edit):
			m.editing = true
			m.header.SetEditing(true)
			return m, m.input.Focus()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Leave):
		m.editing = false
		m.header.SetEditing(false)
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the prompt unless it is blank or a reply is already pending.
func (m Model) submit() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" || m.pending {
		return m, nil
	}
	m.input.Reset()
	m.pending = true
	m.log.Debug().Int("chars", len(prompt)).Msg("prompt submitted")
	return m, tea.Batch(m.spinner.Start(time.Now()), m.requestReply(prompt))
}

func (m Model) requestReply(prompt string) tea.Cmd {
	ctx, responder, timeout := m.ctx, m.responder, m.cfg.Reply.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		start := time.Now()
		text, err := responder.Reply(ctx, prompt)
		return ReplyMsg{Prompt: prompt, Text: text, Err: err, Elapsed: time.Since(start)}
	}
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	m.spinner.Stop()

	text := msg.Text
	m.replyErr = msg.Err != nil
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Dur("elapsed", msg.Elapsed).Msg("reply failed")
		text = reply.ErrorText(msg.Err)
	} else {
		m.log.Info().Int("chars", len(text)).Dur("elapsed", msg.Elapsed).Msg("reply received")
	}
	m.tw.AddMessage(text, time.Now())
	return m, nil
}

// handleTick is the animation heartbeat.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if state, ok := m.tw.Update(now); ok {
		m.machine.SetState(state)
	}
	w, h := m.avatar.Interior()
	m.avatar.SetFrame(m.machine.Render(w, h, now))
	m.output.SetText(m.tw.Visible(), m.replyErr)
	return m, tick(m.cfg.UI.Tick())
}

func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return m, nil
	}
	if m.audio != nil {
		m.audio.SetEnabled(cfg.Audio.Enabled)
		m.audio.SetVolume(cfg.Audio.Volume)
	}
	m.tw.SetDelay(cfg.Typewriter.CharDelay())
	m.cfg = cfg
	m.header.SetSubtitle(subtitle(cfg))
	m.log.Info().
		Bool("audio", cfg.Audio.Enabled).
		Float64("volume", cfg.Audio.Volume).
		Msg("config reloaded")
	return m, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Editing reports whether keystrokes go to the prompt.
func (m Model) Editing() bool { return m.editing }

// Pending reports whether a reply request is in flight.
func (m Model) Pending() bool { return m.pending }

// Config returns the active configuration.
func (m Model) Config() *config.Config { return m.cfg }

// Avatar returns the most recent avatar render.
func (m Model) Avatar() animation.Frame { return m.avatar.Frame() }

// Output returns the revealed reply text.
func (m Model) Output() string { return m.output.Text() }

func subtitle(cfg *config.Config) string {
	s := cfg.Reply.Backend
	if strings.EqualFold(cfg.Reply.Backend, reply.BackendOllama) {
		s += " " + cfg.Reply.Model
	}
	if !cfg.Audio.Enabled {
		s += " (muted)"
	}
	return s
}
