// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/render/input.go
// Summary: A debug Seat and keyboard device driven by tcell key events,
// for `tmbr-server run -debug-tui`.

package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/tmbr/wm"
)

// DebugSeat tracks the currently activated surface; it has no real
// cursor-theme or pointer plumbing to reload.
type DebugSeat struct {
	focused  wm.Surface
	forward  func(wm.KeyEvent)
}

// NewDebugSeat returns a Seat whose ForwardKey calls the callback
// registered with OnForward, if any.
func NewDebugSeat() *DebugSeat { return &DebugSeat{} }

// OnForward registers the callback invoked by ForwardKey (unconsumed
// key events fall through to whatever owns input focus).
func (s *DebugSeat) OnForward(fn func(wm.KeyEvent)) { s.forward = fn }

func (s *DebugSeat) NotifyFocus(surface wm.Surface) { s.focused = surface }

func (s *DebugSeat) ForwardKey(ev wm.KeyEvent) {
	if s.forward != nil {
		s.forward(ev)
	}
}

func (s *DebugSeat) ReloadCursorManager(scale float64) {}

// DebugKeyboard turns tcell key events into wm.KeyEvent and satisfies
// wm.KeyboardDevice. Feed it from the tcell event loop via HandleEvent.
type DebugKeyboard struct {
	onKey  []func(wm.KeyEvent)
	onMods []func(uint32)
}

// NewDebugKeyboard returns an unattached keyboard device.
func NewDebugKeyboard() *DebugKeyboard { return &DebugKeyboard{} }

func (k *DebugKeyboard) Name() string { return "debug-tui-keyboard" }

func (k *DebugKeyboard) OnKey(fn func(wm.KeyEvent)) func() {
	return appendFn2(&k.onKey, fn)
}

func (k *DebugKeyboard) OnModifiers(fn func(uint32)) func() {
	return appendFnMod(&k.onMods, fn)
}

func appendFn2(list *[]func(wm.KeyEvent), fn func(wm.KeyEvent)) func() {
	idx := len(*list)
	*list = append(*list, fn)
	return func() { (*list)[idx] = func(wm.KeyEvent) {} }
}

func appendFnMod(list *[]func(uint32), fn func(uint32)) func() {
	idx := len(*list)
	*list = append(*list, fn)
	return func() { (*list)[idx] = func(uint32) {} }
}

// modMask translates tcell's modifier bitmask into the compositor's
// own uint32 mask; the bit layout is arbitrary since only equality
// against BindingSet entries configured the same way matters.
func modMask(m tcell.ModMask) uint32 { return uint32(m) }

// HandleEvent dispatches a tcell key event to every registered
// listener: a KeyEvent with one keysym (the event's rune, or its
// special key code for non-rune keys) on press.
func (k *DebugKeyboard) HandleEvent(ev *tcell.EventKey) {
	var sym uint32
	if ev.Key() == tcell.KeyRune {
		sym = uint32(ev.Rune())
	} else {
		sym = uint32(ev.Key()) | 0x80000000
	}
	mods := modMask(ev.Modifiers())
	for _, fn := range k.onMods {
		fn(mods)
	}
	event := wm.KeyEvent{Keysyms: []uint32{sym}, Modifiers: mods, Pressed: true}
	for _, fn := range k.onKey {
		fn(event)
	}
}
