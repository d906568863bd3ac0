// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for stemm.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, validation, and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - AnimationConfig: Avatar timing and random seed
//   - AudioConfig: Tone playback, applied live on reload
//   - ReplyConfig: Reply backend selection
//   - Watcher: fsnotify-based reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (STEMM_*)
//   - ~/.stemm/config.toml
//   - ~/.stemm/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Follow changes:
//
//	err := config.Watch(ctx, path, func(c *config.Config) {
//	    worker.SetEnabled(c.Audio.Enabled)
//	}, nil)
package config
