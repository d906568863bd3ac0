// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the panels of the stemm TUI.

# Panels

Header (header.go) - Title, backend subtitle and key hints for the current mode.
AvatarPanel (avatar.go) - Bordered box around the animated avatar.
InputArea (input.go) - Single-line prompt editor built on bubbles/textinput.
OutputPanel (output.go) - The revealed part of the latest reply.
Spinner (spinner.go) - "Thinking" indicator shown while a reply is pending.

# Sizing

Every panel takes its outer size, border included, through SetSize. The
AvatarPanel reports its interior with Interior so the host can render the
avatar at exactly that size:

	panel.SetSize(w, h)
	iw, ih := panel.Interior()
	panel.SetFrame(machine.Render(iw, ih, now))
*/
package components
