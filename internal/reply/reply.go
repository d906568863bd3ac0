// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reply produces the assistant's answer to a submitted prompt.
package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Backend names accepted by New.
const (
	BackendOllama = "ollama"
	BackendEcho   = "echo"
)

// DefaultSystemPrompt opens every conversation.
const DefaultSystemPrompt = "You are a helpful assistant."

// Responder answers prompts. Implementations may keep conversation history
// and must be safe to call from a goroutine other than the UI loop.
type Responder interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend      string
	BaseURL      string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// New returns the responder named by cfg.Backend.
func New(cfg Config, log zerolog.Logger) (Responder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendOllama, "":
		return NewOllama(cfg, log), nil
	case BackendEcho:
		return Echo{}, nil
	default:
		return nil, fmt.Errorf("unknown reply backend %q (want %s or %s)", cfg.Backend, BackendOllama, BackendEcho)
	}
}

// ErrorText is the reply shown in place of an answer when err is not nil.
func ErrorText(err error) string {
	switch {
	case IsNotRunning(err):
		return "Error: Ollama is not running. Start it with 'ollama serve'."
	case IsModelNotFound(err):
		return "Error: model not found. Pull it with 'ollama pull <model>'."
	case IsTimeout(err):
		return "Error: the reply timed out."
	default:
		return "Error: " + err.Error()
	}
}

// =============================================================================
// ECHO
// =============================================================================

// Echo repeats the prompt back. It needs no network and suits demos and
// tests of the avatar.
type Echo struct{}

// Reply returns prompt prefixed with "You said: ".
func (Echo) Reply(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	return "You said: " + prompt, nil
}
