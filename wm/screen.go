// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/screen.go
// Summary: One physical output: desktop list, damage tracking, and the
// per-frame render pass.

package wm

import "log"

// Screen is one physical output, owning an ordered, never-empty list
// of Desktops and a damage accumulator bound to the output.
type Screen struct {
	server *Server
	output Output

	head, tail *Desktop
	focused    *Desktop
	count      int

	w, h int
}

// NewScreen creates a Screen bound to output, with one initial empty
// Desktop, and registers the output's lifecycle listeners.
func NewScreen(server *Server, output Output) *Screen {
	s := &Screen{server: server, output: output}
	s.w, s.h = output.Resolution()

	d := NewDesktop()
	s.addDesktopLinked(d, nil)
	s.focused = d
	d.screen = s

	output.OnDestroy(func() { s.onDestroy() })
	output.OnMode(func() { s.onMode() })
	output.OnScale(func() { s.onScale() })
	output.OnFrame(func() { s.onFrame() })
	return s
}

// Resolution returns the screen's effective pixel resolution.
func (s *Screen) Resolution() (int, int) { return s.w, s.h }

// Scale returns the output's fractional scale.
func (s *Screen) Scale() float64 { return s.output.Scale() }

// Output returns the underlying output handle.
func (s *Screen) Output() Output { return s.output }

// FocusedDesktop returns the screen's currently focused desktop.
func (s *Screen) FocusedDesktop() *Desktop { return s.focused }

// Desktops returns the desktop list in order, head first.
func (s *Screen) Desktops() []*Desktop {
	out := make([]*Desktop, 0, s.count)
	for d := s.head; d != nil; d = d.next {
		out = append(out, d)
	}
	return out
}

// Damage marks r dirty on the output.
func (s *Screen) Damage(r Rect) {
	if r.Empty() {
		return
	}
	s.output.Damage(r)
}

func (s *Screen) addDesktopLinked(d *Desktop, after *Desktop) {
	if s.head == nil {
		s.head, s.tail = d, d
		s.count++
		return
	}
	if after == nil {
		d.next = s.head
		s.head.prev = d
		s.head = d
	} else {
		d.prev = after
		d.next = after.next
		if after.next != nil {
			after.next.prev = d
		} else {
			s.tail = d
		}
		after.next = d
	}
	s.count++
}

func (s *Screen) unlinkDesktop(d *Desktop) {
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		s.head = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		s.tail = d.prev
	}
	d.prev, d.next = nil, nil
	s.count--
}

// AddDesktop inserts d immediately after the current focus (or as the
// first entry if there is none), then focuses it.
func (s *Screen) AddDesktop(d *Desktop) {
	d.screen = s
	s.addDesktopLinked(d, s.focused)
	s.FocusDesktop(d)
	log.Printf("wm: screen add_desktop count=%d", s.count)
}

// RemoveDesktop unlinks d. d's tree must be empty and the screen must
// have at least one other desktop. If d was focused, the next sibling
// is focused first.
func (s *Screen) RemoveDesktop(d *Desktop) error {
	if !d.Empty() {
		return ErrNotEmpty
	}
	if s.count <= 1 {
		return ErrNotEmpty
	}
	if s.focused == d {
		next := d.next
		if next == nil {
			next = s.head
		}
		if next == d {
			next = nil
		}
		s.FocusDesktop(next)
	}
	s.unlinkDesktop(d)
	d.screen = nil
	return nil
}

// FocusDesktop changes the screen's focused desktop. d must belong to
// this screen (or be nil). Changing focus fully damages the screen.
// Whether or not d was already focused, the server's current screen is
// updated and input focus is propagated to the desktop's own focused
// client (or cleared).
func (s *Screen) FocusDesktop(d *Desktop) {
	if d != nil && d.screen != s {
		panic("wm: FocusDesktop on foreign desktop")
	}
	if s.focused != d {
		s.Damage(Rect{X: 0, Y: 0, W: s.w, H: s.h})
	}
	s.focused = d
	if s.server != nil {
		s.server.setFocusedScreen(s)
	}
	if d != nil && d.focus != nil {
		d.focus.Focus(true)
	} else if s.server != nil {
		s.server.Seat().NotifyFocus(nil)
	}
}

// SiblingDesktop returns d's ordered-list neighbor in the requested
// direction (DirNext or DirPrev), or nil at the boundary. DirNearest is
// not meaningful for a linear list and is treated as DirNext.
func (s *Screen) SiblingDesktop(d *Desktop, dir Dir) *Desktop {
	if dir == DirPrev {
		return d.prev
	}
	return d.next
}

// swapDesktops exchanges a and b's positions in the ordered list.
func (s *Screen) swapDesktops(a, b *Desktop) {
	if a == b {
		return
	}
	aPrev, aNext := a.prev, a.next
	bPrev, bNext := b.prev, b.next

	swapEnd := func(end *Desktop) *Desktop {
		switch end {
		case a:
			return b
		case b:
			return a
		}
		return end
	}

	if aNext == b {
		a.next, a.prev = bNext, b
		b.prev, b.next = aPrev, a
	} else if bNext == a {
		b.next, b.prev = aNext, a
		a.prev, a.next = bPrev, b
	} else {
		a.prev, a.next = bPrev, bNext
		b.prev, b.next = aPrev, aNext
		if aPrev != nil {
			aPrev.next = b
		}
		if aNext != nil {
			aNext.prev = b
		}
		if bPrev != nil {
			bPrev.next = a
		}
		if bNext != nil {
			bNext.prev = a
		}
	}
	if a.prev != nil {
		a.prev.next = a
	}
	if a.next != nil {
		a.next.prev = a
	}
	if b.prev != nil {
		b.prev.next = b
	}
	if b.next != nil {
		b.next.prev = b
	}

	s.head = swapEnd(s.head)
	s.tail = swapEnd(s.tail)
}

func (s *Screen) onFrame() {
	if !s.output.HasDamage() {
		s.output.Rollback()
		return
	}
	r := s.output.Renderer()
	if s.focused == nil || s.focused.Empty() {
		r.Clear(Rect{X: 0, Y: 0, W: s.w, H: s.h}, ColorBackground)
		_ = s.output.Commit()
		return
	}

	r.Clear(Rect{X: 0, Y: 0, W: s.w, H: s.h}, ColorBackground)

	if s.focused.Fullscreen() {
		c := s.focused.Focus()
		box := c.Box()
		rect := Rect{X: box.X, Y: box.Y, W: box.W, H: box.H}
		r.Scissor(rect)
		r.DrawSurface(rect, c.surface)
		r.DrawCursor(s.server.CursorX(), s.server.CursorY())
		_ = s.output.Commit()
		return
	}

	focusedClient := s.server.FindFocus()
	s.focused.tree.ForEachLeaf(func(n *Node) {
		c := n.Client
		box := c.Box()
		rect := Rect{X: box.X, Y: box.Y, W: box.W, H: box.H}
		r.Scissor(rect)
		if box.Border > 0 {
			color := ColorBorderInactive
			if c == focusedClient {
				color = ColorBorderActive
			}
			r.DrawBorder(rect, color)
		}
		r.DrawSurface(rect, c.surface)
	})
	r.DrawCursor(s.server.CursorX(), s.server.CursorY())
	_ = s.output.Commit()
}

func (s *Screen) onMode() {
	s.w, s.h = s.output.Resolution()
	for _, d := range s.Desktops() {
		d.Recalculate()
	}
}

func (s *Screen) onScale() {
	s.w, s.h = s.output.Resolution()
	s.server.Seat().ReloadCursorManager(s.output.Scale())
	for _, d := range s.Desktops() {
		d.Recalculate()
	}
}

// onDestroy migrates every desktop to a sibling screen, or, if this
// was the last screen, tears every client down and requests event
// loop termination.
func (s *Screen) onDestroy() {
	s.server.removeScreen(s)
}
