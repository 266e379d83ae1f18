// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/render/tcell.go
// Summary: A terminal-backed wm.Renderer, for `tmbr-server run -debug-tui`
// and for driving the compositor headlessly in tests.

// Package render provides a software wm.Renderer backed by a terminal,
// standing in for the GPU texture sampler a production binary would
// wire into wm.Output.Renderer.
package render

import (
	"github.com/gdamore/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/framegrace/tmbr/wm"
)

// TitledSurface is implemented by debug/test surfaces that want their
// title drawn inside their border. Production surfaces need not
// implement it; TcellRenderer draws nothing for surfaces that do not.
type TitledSurface interface {
	Title() string
}

// TcellRenderer draws wm.Renderer calls onto a tcell.Screen. It is not
// safe for concurrent use, matching the single-threaded frame-callback
// model it is driven from.
type TcellRenderer struct {
	screen  tcell.Screen
	clip    wm.Rect
	clipSet bool
}

// NewTcellRenderer wraps an already-initialized tcell screen.
func NewTcellRenderer(screen tcell.Screen) *TcellRenderer {
	return &TcellRenderer{screen: screen}
}

func styleFor(c wm.Color) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (r *TcellRenderer) clipped(x, y int) bool {
	if !r.clipSet {
		return false
	}
	return x < r.clip.X || x >= r.clip.X+r.clip.W || y < r.clip.Y || y >= r.clip.Y+r.clip.H
}

// Clear fills rect with color.
func (r *TcellRenderer) Clear(rect wm.Rect, color wm.Color) {
	style := styleFor(color)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			if r.clipped(x, y) {
				continue
			}
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Scissor restricts subsequent draws to rect until the next Scissor
// call, mirroring a GPU scissor rectangle.
func (r *TcellRenderer) Scissor(rect wm.Rect) {
	r.clip, r.clipSet = rect, true
}

// DrawBorder draws a one-cell-wide box around rect using box-drawing
// characters.
func (r *TcellRenderer) DrawBorder(rect wm.Rect, color wm.Color) {
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(color.R), int32(color.G), int32(color.B)))
	x0, y0, x1, y1 := rect.X, rect.Y, rect.X+rect.W-1, rect.Y+rect.H-1
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	r.setIfVisible(x0, y0, '┌', style)
	r.setIfVisible(x1, y0, '┐', style)
	r.setIfVisible(x0, y1, '└', style)
	r.setIfVisible(x1, y1, '┘', style)
	for x := x0 + 1; x < x1; x++ {
		r.setIfVisible(x, y0, '─', style)
		r.setIfVisible(x, y1, '─', style)
	}
	for y := y0 + 1; y < y1; y++ {
		r.setIfVisible(x0, y, '│', style)
		r.setIfVisible(x1, y, '│', style)
	}
}

func (r *TcellRenderer) setIfVisible(x, y int, ch rune, style tcell.Style) {
	if r.clipped(x, y) {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// DrawSurface writes the surface's title (if it implements
// TitledSurface) left-aligned on rect's first row, cut off at rect's
// width; it draws nothing else.
func (r *TcellRenderer) DrawSurface(rect wm.Rect, surface wm.Surface) {
	title := ""
	if ts, ok := surface.(TitledSurface); ok {
		title = ts.Title()
	}
	style := tcell.StyleDefault
	col := rect.X
	for _, ch := range title {
		if col >= rect.X+rect.W {
			break
		}
		r.setIfVisible(col, rect.Y, ch, style)
		col += runewidth.RuneWidth(ch)
	}
}

// DrawCursor draws a software cursor glyph at (x, y).
func (r *TcellRenderer) DrawCursor(x, y int) {
	r.setIfVisible(x, y, '█', tcell.StyleDefault)
}
