// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the stemm command tree.
//
// Running stemm with no subcommand starts the terminal UI. The other
// commands work without a terminal and suit scripts and CI.
//
// # Commands
//
//   - (none): Start the animated assistant
//   - frames: List the avatar frame sets, optionally printing each frame
//   - preview: Render frames of one avatar state on a simulated clock
//   - config: Show, get, set, reset or locate the config file
//   - version: Print build information
//
// # Flags
//
// Persistent flags override the config file and STEMM_* environment
// variables, including across hot reloads of the config file:
//
//	stemm --backend echo --no-audio
//	stemm preview --state dying --seed 7
//
// # Usage
//
//	os.Exit(cli.Execute())
package cli
