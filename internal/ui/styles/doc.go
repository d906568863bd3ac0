// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the stemm TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the same name renders
correctly on light and dark terminals:

	Cyan    - Brand color, idle and blinking avatar
	Emerald - Talking waveform
	Rose    - Errors, dying avatar
	Purple  - Header accent, focused panel border
	Amber   - Edit mode badge, warnings

# Theme System (theme.go)

A Theme bundles the styles used by the components. The avatar tint is picked
per rendered frame:

	theme := styles.NewTheme(cfg.UI.Theme)
	frame := machine.Render(w, h, time.Now())
	tint := theme.Avatar(frame)
*/
package styles
