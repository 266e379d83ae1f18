// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/desktop.go
// Summary: Per-screen workspace: tree ownership, fullscreen, and focus
// propagation.

package wm

import "log"

// Desktop is a virtual workspace on one Screen, owning one tiling Tree.
// Its focus is either empty (iff the Tree is empty) or a leaf of its
// Tree; fullscreen requires a non-empty focus.
type Desktop struct {
	prev, next *Desktop // ordered-list links, owned by Screen
	screen     *Screen

	tree       Tree
	focus      *Client
	fullscreen bool
}

// NewDesktop returns an empty Desktop. It is not yet linked into any
// Screen's desktop list.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// Tree returns the desktop's tiling tree.
func (d *Desktop) Tree() *Tree { return &d.tree }

// Focus returns the focused client, or nil if the tree is empty.
func (d *Desktop) Focus() *Client { return d.focus }

// Fullscreen reports whether the desktop is currently fullscreen.
func (d *Desktop) Fullscreen() bool { return d.fullscreen }

// Empty reports whether the desktop's tree has no clients.
func (d *Desktop) Empty() bool { return d.tree.Root == nil }

// Screen returns the owning screen.
func (d *Desktop) Screen() *Screen { return d.screen }

// Recalculate assigns boxes to every client: the fullscreen focus
// covers the whole screen border-less, otherwise the tree recalculates
// over the full screen rectangle.
func (d *Desktop) Recalculate() {
	if d.screen == nil {
		return
	}
	w, h := d.screen.Resolution()
	if d.fullscreen && d.focus != nil {
		d.focus.SetBox(0, 0, w, h, 0)
		return
	}
	d.tree.Recalculate(0, 0, w, h)
}

// SetFullscreen toggles fullscreen. A no-op if the value is unchanged.
func (d *Desktop) SetFullscreen(b bool) {
	if d.fullscreen == b {
		return
	}
	d.fullscreen = b
	if d.focus != nil {
		d.focus.surface.SetFullscreen(b)
	}
	d.Recalculate()
	if d.screen != nil {
		w, h := d.screen.Resolution()
		d.screen.Damage(Rect{X: 0, Y: 0, W: w, H: h})
	}
}

// AddClient inserts client into the tree at the current focus leaf (or
// at the root if the tree is empty), assigns ownership, makes client the
// focus if the desktop had none, clears fullscreen, and recalculates
// geometry.
func (d *Desktop) AddClient(c *Client) {
	var at *Node
	if d.focus != nil {
		at = d.focus.leaf
	}
	d.tree.Insert(at, c)
	c.setDesktop(d)
	if d.focus == nil {
		d.focus = c
	}
	d.fullscreen = false
	d.Recalculate()
	log.Printf("wm: desktop add_client")
}

// RemoveClient removes c's leaf from the tree. If c was focused, the
// nearest remaining leaf (per Tree.FindSibling) becomes the new focus.
// Fullscreen is cleared and the desktop recalculated.
func (d *Desktop) RemoveClient(c *Client) {
	if c.leaf == nil {
		return
	}
	if d.focus == c {
		repl := d.tree.FindSibling(c.leaf, DirNearest)
		if repl != nil {
			d.FocusClient(repl.Client, false)
		} else {
			d.focus = nil
		}
	}
	d.tree.Remove(c.leaf)
	c.leaf = nil
	d.fullscreen = false
	d.Recalculate()
	c.setDesktop(nil)
	log.Printf("wm: desktop remove_client")
}

// Swap exchanges d and other's positions in their Screen's desktop
// list. Both must belong to the same Screen.
func (d *Desktop) Swap(other *Desktop) {
	if d.screen == nil || d.screen != other.screen {
		panic("wm: Desktop.Swap across screens")
	}
	d.screen.swapDesktops(d, other)
}

// FocusClient sets c as the desktop's focused client. If inputFocus is
// true, the previously focused client (if any, and different) is
// defocused first, then c is focused and notified to the seat. If c is
// already the desktop's focus nothing else changes; otherwise c becomes
// the focus and fullscreen is cleared.
func (d *Desktop) FocusClient(c *Client, inputFocus bool) {
	if inputFocus {
		if d.focus != nil && d.focus != c {
			d.focus.Focus(false)
		}
		if c != nil {
			c.Focus(true)
		}
	}
	if c == d.focus {
		return
	}
	d.focus = c
	d.fullscreen = false
}
