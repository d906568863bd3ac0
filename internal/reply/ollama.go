// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ollama defaults.
const (
	DefaultBaseURL = "http://127.0.0.1:11434"
	DefaultModel   = "qwen2:1.5b"
	DefaultTimeout = 60 * time.Second
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message is a chat message in the conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Options are the sampling parameters sent with every request.
type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // max tokens to generate
}

// DefaultOptions keeps replies short enough to read as they are typed out.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, TopK: 50, TopP: 0.95, NumPredict: 256}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// =============================================================================
// OLLAMA RESPONDER
// =============================================================================

// Ollama talks to a local Ollama server over /api/chat and remembers the
// conversation so follow-up prompts have context.
//
// Reply calls are serialized; the responder is safe for concurrent use.
type Ollama struct {
	baseURL    string
	model      string
	options    Options
	httpClient *http.Client
	log        zerolog.Logger

	mu      sync.Mutex
	history []Message
}

// NewOllama creates a responder from cfg, filling in defaults for zero values.
func NewOllama(cfg Config, log zerolog.Logger) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Ollama{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		options:    DefaultOptions(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "reply").Logger(),
		history:    []Message{{Role: "system", Content: cfg.SystemPrompt}},
	}
}

// Model returns the model used for replies.
func (o *Ollama) Model() string { return o.model }

// History returns a copy of the conversation, system prompt first.
func (o *Ollama) History() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := make([]Message, len(o.history))
	copy(cp, o.history)
	return cp
}

// Reply sends prompt with the conversation so far and records the answer.
// A failed request leaves the history unchanged.
func (o *Ollama) Reply(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	id := uuid.NewString()
	start := time.Now()

	messages := append(append([]Message(nil), o.history...), Message{Role: "user", Content: prompt})
	answer, err := o.chat(ctx, messages)
	if err != nil {
		o.log.Warn().Err(err).Str("request_id", id).Msg("chat request failed")
		return "", err
	}

	o.history = append(messages, Message{Role: "assistant", Content: answer})
	o.log.Debug().
		Str("request_id", id).
		Str("model", o.model).
		Int("turns", len(o.history)).
		Dur("elapsed", time.Since(start)).
		Msg("chat reply")
	return answer, nil
}

// CheckRunning verifies that the server is reachable.
func (o *Ollama) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from Ollama: " + resp.Status,
		}
	}
	return nil
}

func (o *Ollama) chat(ctx context.Context, messages []Message) (string, error) {
	opts := o.options
	body, err := json.Marshal(chatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   false,
		Options:  &opts,
	})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", ErrTimeout
		}
		return "", ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrModelNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var oe ollamaError
		if err := json.NewDecoder(resp.Body).Decode(&oe); err == nil && oe.Error != "" {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: oe.Error}
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "chat request failed: " + resp.Status}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Message.Content, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
