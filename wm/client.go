// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/client.go
// Summary: Client lifecycle: surface listener registration, geometry,
// focus, and kill.

package wm

import (
	"log"

	"github.com/google/uuid"
)

// Box is a client's last-applied geometry in screen coordinates.
type Box struct {
	X, Y, W, H int
	Border     int
}

// Client is one managed top-level application surface. It is owned
// conceptually by at most one Desktop at a time; the Client itself is
// freed only when the underlying Surface is destroyed.
type Client struct {
	id      uuid.UUID
	server  *Server
	desktop *Desktop
	leaf    *Node // back-pointer to this client's tree leaf, or nil
	surface Surface
	box     Box

	unregister []func()
}

// NewClient registers lifecycle listeners on surface and returns the
// managed Client. The Client is not yet attached to any Desktop; that
// happens when the surface signals Map. Its ID is stable for the
// Client's lifetime and is what "state query" reports, so a client
// keeps a recognizable identity across tree moves and reparenting.
func NewClient(server *Server, surface Surface) *Client {
	c := &Client{id: uuid.New(), server: server, surface: surface}

	c.unregister = append(c.unregister,
		surface.OnDestroy(c.handleDestroy),
		surface.OnCommit(c.handleCommit),
		surface.OnMap(c.handleMap),
		surface.OnUnmap(c.handleUnmap),
		surface.OnRequestFullscreen(c.handleRequestFullscreen),
	)
	return c
}

// Leaf returns the tree leaf currently holding this client, or nil if
// the client is unmapped.
func (c *Client) Leaf() *Node { return c.leaf }

// ID returns the client's stable identifier.
func (c *Client) ID() uuid.UUID { return c.id }

// Desktop returns the client's current desktop, or nil if unmapped.
func (c *Client) Desktop() *Desktop { return c.desktop }

// Box returns the client's last-applied geometry.
func (c *Client) Box() Box { return c.box }

func (c *Client) handleMap() {
	screen := c.server.FocusedScreen()
	if screen == nil {
		return
	}
	desktop := screen.FocusedDesktop()
	if desktop == nil {
		return
	}
	desktop.AddClient(c)
	desktop.FocusClient(c, true)
}

func (c *Client) handleUnmap() {
	if c.desktop == nil {
		return
	}
	c.desktop.RemoveClient(c)
}

func (c *Client) handleDestroy() {
	for _, fn := range c.unregister {
		fn()
	}
	c.unregister = nil
	if c.desktop != nil {
		c.desktop.RemoveClient(c)
	}
}

func (c *Client) handleCommit(damage Rect) {
	if c.desktop == nil || c.desktop.screen == nil {
		return
	}
	scale := c.desktop.screen.Scale()
	translated := Rect{
		X: (c.box.X + c.box.Border + damage.X) * int(scale*100) / 100,
		Y: (c.box.Y + c.box.Border + damage.Y) * int(scale*100) / 100,
		W: damage.W * int(scale*100) / 100,
		H: damage.H * int(scale*100) / 100,
	}
	c.desktop.screen.Damage(translated)
}

func (c *Client) handleRequestFullscreen() {
	if c.desktop == nil {
		return
	}
	c.desktop.SetFullscreen(!c.desktop.Fullscreen())
}

// SetBox updates the client's stored geometry. If geometry or border
// changed, the surface is asked to resize and the full client
// rectangle (old and new) is damaged.
func (c *Client) SetBox(x, y, w, h, border int) {
	changed := c.box.X != x || c.box.Y != y || c.box.W != w || c.box.H != h || c.box.Border != border
	if changed {
		c.surface.Configure(w-2*border, h-2*border)
	}
	old := c.box
	c.box = Box{X: x, Y: y, W: w, H: h, Border: border}
	if changed {
		if c.desktop != nil && c.desktop.screen != nil {
			c.desktop.screen.Damage(Rect{X: old.X, Y: old.Y, W: old.W, H: old.H})
			c.desktop.screen.Damage(Rect{X: x, Y: y, W: w, H: h})
		}
	}
}

// Kill requests that the client's top-level role close. The
// subsequent unmap/destroy is driven by the surface itself.
func (c *Client) Kill() {
	log.Printf("wm: client kill")
	c.surface.Close()
}

// Focus sets the client's activated state, and on acquisition notifies
// the seat of the new keyboard/pointer target.
func (c *Client) Focus(yes bool) {
	c.surface.SetActivated(yes)
	if yes && c.server != nil {
		c.server.Seat().NotifyFocus(c.surface)
	}
}

func (c *Client) setDesktop(d *Desktop) { c.desktop = d }
