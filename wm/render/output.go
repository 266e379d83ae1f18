// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/render/output.go
// Summary: A single-output wm.Output backed by a tcell screen, driving
// the frame callback from tcell's resize/draw-tick events.

package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/tmbr/wm"
)

// TcellOutput is a wm.Output whose renderer draws into a tcell.Screen
// occupying the whole terminal. There is exactly one mode, matching
// the terminal's current size, so SetMode only ever succeeds trivially.
type TcellOutput struct {
	screen   tcell.Screen
	renderer *TcellRenderer

	damaged bool

	onDestroy []func()
	onMode    []func()
	onScale   []func()
	onFrame   []func()
}

// NewTcellOutput wraps an already-initialized tcell screen as an
// Output. Call Tick on every tcell.EventResize to notify OnMode
// listeners.
func NewTcellOutput(screen tcell.Screen) *TcellOutput {
	return &TcellOutput{screen: screen, renderer: NewTcellRenderer(screen)}
}

func (o *TcellOutput) Name() string { return "debug-tui" }

func (o *TcellOutput) Resolution() (int, int) {
	w, h := o.screen.Size()
	return w, h
}

func (o *TcellOutput) Scale() float64 { return 1.0 }

func (o *TcellOutput) Modes() []wm.OutputMode {
	w, h := o.Resolution()
	return []wm.OutputMode{{Width: w, Height: h, RefreshMilliHz: 60000}}
}

func (o *TcellOutput) OnDestroy(fn func()) func() { return appendFn(&o.onDestroy, fn) }
func (o *TcellOutput) OnMode(fn func()) func()    { return appendFn(&o.onMode, fn) }
func (o *TcellOutput) OnScale(fn func()) func()   { return appendFn(&o.onScale, fn) }
func (o *TcellOutput) OnFrame(fn func()) func()   { return appendFn(&o.onFrame, fn) }

func appendFn(list *[]func(), fn func()) func() {
	idx := len(*list)
	*list = append(*list, fn)
	return func() {
		(*list)[idx] = func() {}
	}
}

// SetMode is a no-op: the terminal's size is the only mode.
func (o *TcellOutput) SetMode(wm.OutputMode) error { return nil }

// SetScale is a no-op: terminal cells have no fractional scale.
func (o *TcellOutput) SetScale(float64) error { return nil }

func (o *TcellOutput) Damage(wm.Rect)   { o.damaged = true }
func (o *TcellOutput) HasDamage() bool  { return o.damaged }
func (o *TcellOutput) Rollback()        { o.damaged = false }
func (o *TcellOutput) Renderer() wm.Renderer { return o.renderer }

func (o *TcellOutput) Commit() error {
	o.damaged = false
	o.screen.Show()
	return nil
}

// Tick fires OnMode listeners so they re-read Resolution, which always
// reports the terminal's current size; call it on every
// tcell.EventResize.
func (o *TcellOutput) Tick() {
	for _, fn := range o.onMode {
		fn()
	}
}

// Fire invokes every OnFrame listener once, driving one render pass.
func (o *TcellOutput) Fire() {
	for _, fn := range o.onFrame {
		fn()
	}
}

// Destroy invokes every OnDestroy listener.
func (o *TcellOutput) Destroy() {
	for _, fn := range o.onDestroy {
		fn()
	}
}
