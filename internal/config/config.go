// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/stemm-tui/internal/util"
	"github.com/rs/zerolog"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete stemm configuration.
type Config struct {
	// Animation timing for the avatar state machine
	Animation AnimationConfig `toml:"animation" json:"animation"`

	// Audio tones played while the avatar talks
	Audio AudioConfig `toml:"audio" json:"audio"`

	// Typewriter reveal of replies
	Typewriter TypewriterConfig `toml:"typewriter" json:"typewriter"`

	// Frames overrides the embedded avatar art
	Frames FramesConfig `toml:"frames" json:"frames"`

	// Reply backend configuration
	Reply ReplyConfig `toml:"reply" json:"reply"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// AnimationConfig contains avatar timing.
type AnimationConfig struct {
	// TalkIntervalMs is the waveform advance cadence
	TalkIntervalMs int `toml:"talk_interval_ms" json:"talk_interval_ms"`
	// BlinkIntervalMs is the delay between blink frames
	BlinkIntervalMs int `toml:"blink_interval_ms" json:"blink_interval_ms"`
	// BlinkChance is the per-redraw probability of a spontaneous blink (0-1)
	BlinkChance float64 `toml:"blink_chance" json:"blink_chance"`
	// DyingDurationMs is how long the dying waveform plays before the final frame
	DyingDurationMs int `toml:"dying_duration_ms" json:"dying_duration_ms"`
	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `toml:"seed" json:"seed"`
}

// AudioConfig contains tone playback settings.
type AudioConfig struct {
	// Enabled turns tones on or off; applied live on config reload
	Enabled bool `toml:"enabled" json:"enabled"`
	// Volume is the master volume (0-1); applied live on config reload
	Volume float64 `toml:"volume" json:"volume"`
	// ToneDurationMs is the length of each tone
	ToneDurationMs int `toml:"tone_duration_ms" json:"tone_duration_ms"`
	// QueueSize is the number of tones waiting before new ones are dropped
	QueueSize int `toml:"queue_size" json:"queue_size"`
	// MaxVoices is the number of tones allowed to overlap
	MaxVoices int `toml:"max_voices" json:"max_voices"`
	// TonesPerSecond caps how fast new tones start
	TonesPerSecond float64 `toml:"tones_per_second" json:"tones_per_second"`
}

// TypewriterConfig contains reveal settings.
type TypewriterConfig struct {
	// CharDelayMs is the time between revealed characters
	CharDelayMs int `toml:"char_delay_ms" json:"char_delay_ms"`
}

// FramesConfig points at custom avatar art.
type FramesConfig struct {
	// Dir holds idle/, blinking/ and dying/ directories of *.txt frames.
	// Empty uses the frames built into the binary.
	Dir string `toml:"dir" json:"dir"`
}

// ReplyConfig contains reply backend settings.
type ReplyConfig struct {
	// Backend is "ollama" or "echo"
	Backend string `toml:"backend" json:"backend"`
	// OllamaURL is the URL of the Ollama server
	OllamaURL string `toml:"ollama_url" json:"ollama_url"`
	// Model is the Ollama model used for replies
	Model string `toml:"model" json:"model"`
	// SystemPrompt opens every conversation
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`
	// TimeoutSecs bounds a single reply request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// TickMs is the redraw cadence
	TickMs int `toml:"tick_ms" json:"tick_ms"`
	// ASCIIGlyphs draws the waveform with '#' and '+' for terminals without
	// block characters
	ASCIIGlyphs bool `toml:"ascii_glyphs" json:"ascii_glyphs"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is a zerolog level name: "debug", "info", "warn", "error", "disabled"
	Level string `toml:"level" json:"level"`
	// File overrides the log file path (empty = ~/.stemm/logs/stemm_<date>.log)
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			TalkIntervalMs:  100,
			BlinkIntervalMs: 50,
			BlinkChance:     0.01,
			DyingDurationMs: 3000,
		},
		Audio: AudioConfig{
			Enabled:        true,
			Volume:         1.0,
			ToneDurationMs: 200,
			QueueSize:      16,
			MaxVoices:      4,
			TonesPerSecond: 10,
		},
		Typewriter: TypewriterConfig{
			CharDelayMs: 75,
		},
		Reply: ReplyConfig{
			Backend:      "ollama",
			OllamaURL:    "http://127.0.0.1:11434",
			Model:        "qwen2:1.5b",
			SystemPrompt: "You are a helpful assistant.",
			TimeoutSecs:  60,
		},
		UI: UIConfig{
			Theme:  "auto",
			TickMs: 16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Durations derived from the millisecond fields.

func (a AnimationConfig) TalkInterval() time.Duration {
	return time.Duration(a.TalkIntervalMs) * time.Millisecond
}

func (a AnimationConfig) BlinkInterval() time.Duration {
	return time.Duration(a.BlinkIntervalMs) * time.Millisecond
}

func (a AnimationConfig) DyingDuration() time.Duration {
	return time.Duration(a.DyingDurationMs) * time.Millisecond
}

func (a AudioConfig) ToneDuration() time.Duration {
	return time.Duration(a.ToneDurationMs) * time.Millisecond
}

func (t TypewriterConfig) CharDelay() time.Duration {
	return time.Duration(t.CharDelayMs) * time.Millisecond
}

func (r ReplyConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

func (u UIConfig) Tick() time.Duration {
	return time.Duration(u.TickMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the stemm configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".stemm"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultPath returns the config file Load would read: the TOML file unless
// only a JSON file exists.
func DefaultPath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if loadErr == nil {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				cfg, err := LoadFromPath(jsonPath)
				if err == nil {
					return cfg, nil
				}
				loadErr = err
			}
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid environment overrides: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults replaces zero values that are never meaningful with defaults.
func (c *Config) fillDefaults() {
	d := Default()

	if c.Animation.TalkIntervalMs == 0 {
		c.Animation.TalkIntervalMs = d.Animation.TalkIntervalMs
	}
	if c.Animation.BlinkIntervalMs == 0 {
		c.Animation.BlinkIntervalMs = d.Animation.BlinkIntervalMs
	}
	if c.Audio.ToneDurationMs == 0 {
		c.Audio.ToneDurationMs = d.Audio.ToneDurationMs
	}
	if c.Audio.QueueSize == 0 {
		c.Audio.QueueSize = d.Audio.QueueSize
	}
	if c.Audio.MaxVoices == 0 {
		c.Audio.MaxVoices = d.Audio.MaxVoices
	}
	if c.Audio.TonesPerSecond == 0 {
		c.Audio.TonesPerSecond = d.Audio.TonesPerSecond
	}
	if c.Typewriter.CharDelayMs == 0 {
		c.Typewriter.CharDelayMs = d.Typewriter.CharDelayMs
	}
	if c.Reply.Backend == "" {
		c.Reply.Backend = d.Reply.Backend
	}
	if c.Reply.OllamaURL == "" {
		c.Reply.OllamaURL = d.Reply.OllamaURL
	}
	if c.Reply.Model == "" {
		c.Reply.Model = d.Reply.Model
	}
	if c.Reply.SystemPrompt == "" {
		c.Reply.SystemPrompt = d.Reply.SystemPrompt
	}
	if c.Reply.TimeoutSecs == 0 {
		c.Reply.TimeoutSecs = d.Reply.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.TickMs == 0 {
		c.UI.TickMs = d.UI.TickMs
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// EncodeTOML renders cfg as a commented TOML document.
func EncodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# stemm configuration file\n")
	buf.WriteString("# Changes to [audio] apply while stemm is running.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	data, err := EncodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Animation
	if c.Animation.TalkIntervalMs <= 0 {
		add("animation.talk_interval_ms", "must be positive, got %d", c.Animation.TalkIntervalMs)
	}
	if c.Animation.BlinkIntervalMs <= 0 {
		add("animation.blink_interval_ms", "must be positive, got %d", c.Animation.BlinkIntervalMs)
	}
	if c.Animation.BlinkChance < 0 || c.Animation.BlinkChance > 1 {
		add("animation.blink_chance", "must be between 0 and 1, got %g", c.Animation.BlinkChance)
	}
	if c.Animation.DyingDurationMs < 0 {
		add("animation.dying_duration_ms", "cannot be negative")
	}

	// Audio
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		add("audio.volume", "must be between 0 and 1, got %g", c.Audio.Volume)
	}
	if c.Audio.ToneDurationMs <= 0 || c.Audio.ToneDurationMs > 5000 {
		add("audio.tone_duration_ms", "must be between 1 and 5000, got %d", c.Audio.ToneDurationMs)
	}
	if c.Audio.QueueSize <= 0 {
		add("audio.queue_size", "must be positive, got %d", c.Audio.QueueSize)
	}
	if c.Audio.MaxVoices <= 0 {
		add("audio.max_voices", "must be positive, got %d", c.Audio.MaxVoices)
	}
	if c.Audio.TonesPerSecond <= 0 {
		add("audio.tones_per_second", "must be positive, got %g", c.Audio.TonesPerSecond)
	}

	// Typewriter
	if c.Typewriter.CharDelayMs <= 0 {
		add("typewriter.char_delay_ms", "must be positive, got %d", c.Typewriter.CharDelayMs)
	}

	// Frames
	if c.Frames.Dir != "" {
		if info, err := os.Stat(c.Frames.Dir); err != nil {
			add("frames.dir", "cannot access %s: %v", c.Frames.Dir, err)
		} else if !info.IsDir() {
			add("frames.dir", "%s is not a directory", c.Frames.Dir)
		}
	}

	// Reply
	switch strings.ToLower(c.Reply.Backend) {
	case "ollama", "echo":
	default:
		add("reply.backend", "invalid backend '%s', must be one of: ollama, echo", c.Reply.Backend)
	}
	if u, err := url.Parse(c.Reply.OllamaURL); err != nil {
		add("reply.ollama_url", "invalid URL: %v", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("reply.ollama_url", "URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if c.Reply.TimeoutSecs <= 0 {
		add("reply.timeout_secs", "must be positive, got %d", c.Reply.TimeoutSecs)
	}

	// UI
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}
	if c.UI.TickMs <= 0 || c.UI.TickMs > 1000 {
		add("ui.tick_ms", "must be between 1 and 1000, got %d", c.UI.TickMs)
	}

	// Log
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		add("log.level", "invalid level '%s'", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - STEMM_BACKEND: overrides reply.backend
//   - STEMM_MODEL: overrides reply.model
//   - STEMM_OLLAMA_URL: overrides reply.ollama_url
//   - STEMM_FRAMES: overrides frames.dir
//   - STEMM_NO_AUDIO: set to "1" or "true" to disable audio
//   - STEMM_ASCII: set to "1" or "true" to draw the waveform in ASCII
//   - STEMM_SEED: overrides animation.seed
//   - STEMM_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if backend := os.Getenv("STEMM_BACKEND"); backend != "" {
		c.Reply.Backend = backend
	}
	if model := os.Getenv("STEMM_MODEL"); model != "" {
		c.Reply.Model = model
	}
	if u := os.Getenv("STEMM_OLLAMA_URL"); u != "" {
		c.Reply.OllamaURL = u
	}
	if dir := os.Getenv("STEMM_FRAMES"); dir != "" {
		c.Frames.Dir = dir
	}
	if v := os.Getenv("STEMM_NO_AUDIO"); v != "" {
		c.Audio.Enabled = !isTrue(v)
	}
	if v := os.Getenv("STEMM_ASCII"); v != "" {
		c.UI.ASCIIGlyphs = isTrue(v)
	}
	if v := os.Getenv("STEMM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Animation.Seed = seed
		}
	}
	if level := os.Getenv("STEMM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func isTrue(v string) bool {
	v = strings.ToLower(v)
	return v == "1" || v == "true" || v == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "audio.volume").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "audio.volume").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks key through the struct by TOML tag.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tagName(t.Field(i)) == strings.ToLower(name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(isTrue(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, tagName(section)+"."+tagName(section.Type.Field(j)))
		}
	}
	sort.Strings(keys)
	return keys
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
