// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package waveform

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Glyph is one cell of a waveform grid.
type Glyph uint8

const (
	Blank  Glyph = iota // empty cell
	Half                // one row off the trace
	Filled              // on the trace
)

// GlyphSet maps glyphs to the runes drawn on screen.
type GlyphSet struct {
	Filled rune
	Half   rune
	Blank  rune
}

var (
	// DefaultGlyphs uses block shading characters.
	DefaultGlyphs = GlyphSet{Filled: '█', Half: '▒', Blank: ' '}

	// ASCIIGlyphs is the fallback for terminals without block characters.
	ASCIIGlyphs = GlyphSet{Filled: '#', Half: '+', Blank: ' '}
)

// GlyphsFor picks the glyph set for a terminal. The block glyphs are East
// Asian ambiguous width; where cond counts them as two columns the waveform
// would overflow its panel, so ASCII is used instead. A nil cond means
// runewidth.DefaultCondition, which follows the locale.
func GlyphsFor(ascii bool, cond *runewidth.Condition) GlyphSet {
	if cond == nil {
		cond = runewidth.DefaultCondition
	}
	if ascii || cond.RuneWidth(DefaultGlyphs.Filled) != 1 || cond.RuneWidth(DefaultGlyphs.Half) != 1 {
		return ASCIIGlyphs
	}
	return DefaultGlyphs
}

// Rune returns the rune for g.
func (s GlyphSet) Rune(g Glyph) rune {
	switch g {
	case Filled:
		return s.Filled
	case Half:
		return s.Half
	default:
		return s.Blank
	}
}

// Grid is a row-major glyph matrix: Grid[y][x].
type Grid [][]Glyph

// NewGrid allocates a blank width x height grid.
func NewGrid(width, height int) Grid {
	if width <= 0 || height <= 0 {
		return Grid{}
	}
	cells := make([]Glyph, width*height)
	g := make(Grid, height)
	for y := range g {
		g[y] = cells[y*width : (y+1)*width : (y+1)*width]
	}
	return g
}

// Width returns the column count.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the row count.
func (g Grid) Height() int { return len(g) }

// Lines renders the grid as text, one string per row.
func (g Grid) Lines(set GlyphSet) []string {
	lines := make([]string, len(g))
	for y, row := range g {
		var sb strings.Builder
		sb.Grow(len(row) * 3)
		for _, c := range row {
			sb.WriteRune(set.Rune(c))
		}
		lines[y] = sb.String()
	}
	return lines
}
