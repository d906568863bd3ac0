// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compositor centers text blocks inside a fixed-size panel.
//
// Widths are measured in terminal display columns, not bytes, so wide (CJK)
// and multi-byte glyphs line up. When the panel is smaller than the block the
// padding saturates at zero and the block overflows; nothing is truncated.
package compositor

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fit centers block inside a width x height rectangle.
func Fit(block string, width, height int) []string {
	return FitLines(strings.Split(block, "\n"), width, height)
}

// FitLines centers lines inside a width x height rectangle. Every returned
// line is exactly max(width, naturalWidth) columns wide and there are
// max(height, naturalHeight) lines.
func FitLines(lines []string, width, height int) []string {
	naturalW, naturalH := Measure(lines)

	left, right := split(width - naturalW)
	top, bottom := split(height - naturalH)

	outW := naturalW + left + right
	blank := strings.Repeat(" ", outW)

	out := make([]string, 0, naturalH+top+bottom)
	for i := 0; i < top; i++ {
		out = append(out, blank)
	}

	leftPad := strings.Repeat(" ", left)
	for _, line := range lines {
		fill := naturalW - runewidth.StringWidth(line) + right
		var sb strings.Builder
		sb.Grow(len(line) + left + fill)
		sb.WriteString(leftPad)
		sb.WriteString(line)
		sb.WriteString(strings.Repeat(" ", fill))
		out = append(out, sb.String())
	}

	for i := 0; i < bottom; i++ {
		out = append(out, blank)
	}
	return out
}

// Measure returns the display width of the widest line and the line count.
func Measure(lines []string) (width, height int) {
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}
	return width, len(lines)
}

// split divides pad into a floor half and the remainder. Negative pad
// saturates to zero on both sides.
func split(pad int) (lo, hi int) {
	if pad <= 0 {
		return 0, 0
	}
	lo = pad / 2
	return lo, pad - lo
}
