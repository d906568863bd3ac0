// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"STEMM_BACKEND", "STEMM_MODEL", "STEMM_OLLAMA_URL", "STEMM_FRAMES",
		"STEMM_NO_AUDIO", "STEMM_ASCII", "STEMM_SEED", "STEMM_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return home
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100*time.Millisecond, cfg.Animation.TalkInterval())
	assert.Equal(t, 50*time.Millisecond, cfg.Animation.BlinkInterval())
	assert.Equal(t, 3*time.Second, cfg.Animation.DyingDuration())
	assert.Equal(t, 200*time.Millisecond, cfg.Audio.ToneDuration())
	assert.Equal(t, 75*time.Millisecond, cfg.Typewriter.CharDelay())
	assert.Equal(t, 16*time.Millisecond, cfg.UI.Tick())
	assert.Equal(t, time.Minute, cfg.Reply.Timeout())
	assert.True(t, cfg.Audio.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"blink chance above one", func(c *Config) { c.Animation.BlinkChance = 1.5 }, "animation.blink_chance"},
		{"negative dying duration", func(c *Config) { c.Animation.DyingDurationMs = -1 }, "animation.dying_duration_ms"},
		{"zero talk interval", func(c *Config) { c.Animation.TalkIntervalMs = 0 }, "animation.talk_interval_ms"},
		{"volume above one", func(c *Config) { c.Audio.Volume = 2 }, "audio.volume"},
		{"no voices", func(c *Config) { c.Audio.MaxVoices = 0 }, "audio.max_voices"},
		{"unknown backend", func(c *Config) { c.Reply.Backend = "gpt" }, "reply.backend"},
		{"bad ollama scheme", func(c *Config) { c.Reply.OllamaURL = "ftp://host" }, "reply.ollama_url"},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"tick too slow", func(c *Config) { c.UI.TickMs = 5000 }, "ui.tick_ms"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"missing frames dir", func(c *Config) { c.Frames.Dir = "/does/not/exist" }, "frames.dir"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)

			err := c.Validate()
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "want ValidateErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	c := Default()
	c.Audio.Volume = -1
	c.UI.Theme = "neon"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio.volume")
	assert.Contains(t, err.Error(), "ui.theme")
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

func TestLoadFromPath_PartialTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[audio]
enabled = false
volume = 0.5

[ui]
ascii_glyphs = true
`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 0.5, cfg.Audio.Volume)
	assert.True(t, cfg.UI.ASCIIGlyphs)
	assert.Equal(t, 4, cfg.Audio.MaxVoices, "missing keys keep defaults")
	assert.Equal(t, "ollama", cfg.Reply.Backend)
}

func TestLoadFromPath_JSON(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reply": {"backend": "echo"}, "typewriter": {"char_delay_ms": 20}}`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "echo", cfg.Reply.Backend)
	assert.Equal(t, 20*time.Millisecond, cfg.Typewriter.CharDelay())
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[audio\nvolume = "), 0644))
	_, err := LoadFromPath(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[audio]\nvolume = 3.0\n"), 0644))
	_, err = LoadFromPath(invalid)
	var verrs ValidateErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".stemm"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".stemm", "config.toml"), []byte("[audio\n"), 0644))
	cfg, err = Load()
	assert.Error(t, err, "a broken file is reported")
	assert.NotNil(t, cfg, "but defaults are still returned")
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Animation.Seed = 42
	cfg.Reply.Model = "llama3"
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STEMM_BACKEND", "echo")
	t.Setenv("STEMM_NO_AUDIO", "true")
	t.Setenv("STEMM_ASCII", "1")
	t.Setenv("STEMM_SEED", "7")
	t.Setenv("STEMM_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "echo", cfg.Reply.Backend)
	assert.False(t, cfg.Audio.Enabled)
	assert.True(t, cfg.UI.ASCIIGlyphs)
	assert.Equal(t, int64(7), cfg.Animation.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// =============================================================================
// DOT NOTATION
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("audio.volume", "0.4"))
	v, err := cfg.Get("audio.volume")
	require.NoError(t, err)
	assert.Equal(t, 0.4, v)

	require.NoError(t, cfg.Set("ui.ascii_glyphs", "yes"))
	assert.True(t, cfg.UI.ASCIIGlyphs)

	require.NoError(t, cfg.Set("animation.talk_interval_ms", 120))
	assert.Equal(t, 120, cfg.Animation.TalkIntervalMs)

	assert.Error(t, cfg.Set("audio.nope", "1"))
	assert.Error(t, cfg.Set("audio", "1"))
	assert.Error(t, cfg.Set("typewriter.char_delay_ms", "fast"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.True(t, sort.StringsAreSorted(keys))
	assert.Contains(t, keys, "ui.ascii_glyphs")
	assert.Contains(t, keys, "reply.system_prompt")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcherReloadsOnWrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nenabled = true\n"), 0644))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("[audio]\nenabled = false\nvolume = 0.3\n"), 0644))

	select {
	case c := <-changes:
		assert.False(t, c.Audio.Enabled)
		assert.Equal(t, 0.3, c.Audio.Volume)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	errs := make(chan error, 4)
	w, err := NewWatcher(path, func(*Config) { t.Error("invalid config delivered") }, func(err error) { errs <- err })
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0644))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "ui.theme")
	case <-time.After(3 * time.Second):
		t.Fatal("no error after invalid write")
	}
}
