package wm

import "testing"

// TestScenario1MapTwoClients covers spec §8 scenario 1: mapping C1
// then C2 on a single 1000×1000 screen splits them vertically 50/50,
// with C2 focused.
func TestScenario1MapTwoClients(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()

	c1, _ := newTestClient(server, "c1")
	c2, _ := newTestClient(server, "c2")

	if got := c1.Box(); got != (Box{X: 0, Y: 0, W: 500, H: 1000, Border: BorderWidth}) {
		t.Fatalf("C1 box = %+v", got)
	}
	if got := c2.Box(); got != (Box{X: 500, Y: 0, W: 500, H: 1000, Border: BorderWidth}) {
		t.Fatalf("C2 box = %+v", got)
	}
	if desktop.Focus() != c2 {
		t.Fatalf("focus should be C2 after mapping it last")
	}
}

// TestScenario3TreeRotate covers spec §8 scenario 3: rotating the root
// split turns a vertical 50/50 layout into a horizontal one.
func TestScenario3TreeRotate(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()
	c1, _ := newTestClient(server, "c1")
	c2, _ := newTestClient(server, "c2")

	Rotate(c1.Leaf().Parent)
	desktop.Recalculate()

	if got := c1.Box(); got != (Box{X: 0, Y: 0, W: 1000, H: 500, Border: BorderWidth}) {
		t.Fatalf("C1 box after rotate = %+v", got)
	}
	if got := c2.Box(); got != (Box{X: 0, Y: 500, W: 1000, H: 500, Border: BorderWidth}) {
		t.Fatalf("C2 box after rotate = %+v", got)
	}
}

// TestScenario5Fullscreen covers spec §8 scenario 5: the focused
// client's box expands to the whole screen with no border.
func TestScenario5Fullscreen(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()
	_, _ = newTestClient(server, "c1")
	c2, _ := newTestClient(server, "c2")

	desktop.SetFullscreen(true)

	if got := c2.Box(); got != (Box{X: 0, Y: 0, W: 1000, H: 1000, Border: 0}) {
		t.Fatalf("focused client box under fullscreen = %+v", got)
	}
	if !desktop.Fullscreen() {
		t.Fatalf("desktop should report fullscreen")
	}
}

func TestAddClientClearsFullscreen(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()
	_, _ = newTestClient(server, "c1")
	desktop.SetFullscreen(true)

	newTestClient(server, "c2")

	if desktop.Fullscreen() {
		t.Fatalf("adding a client should clear fullscreen")
	}
}

func TestDestroyClientKeepsOrClearsFocus(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()
	c1, s1 := newTestClient(server, "c1")
	c2, s2 := newTestClient(server, "c2")

	s1.fireDestroy() // destroy C1 while C2 is focused: no-op on focus
	if desktop.Focus() != c2 {
		t.Fatalf("destroying an unfocused client should not change focus")
	}

	s2.fireDestroy() // destroy the only remaining client
	if desktop.Focus() != nil {
		t.Fatalf("destroying the last client should leave the desktop unfocused")
	}
	if !desktop.Empty() {
		t.Fatalf("desktop should be empty once its last client is destroyed")
	}
}

func TestDesktopUnmapRemovesFromTree(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	desktop := screen.FocusedDesktop()
	_, s1 := newTestClient(server, "c1")

	s1.fireUnmap()

	if !desktop.Empty() {
		t.Fatalf("desktop should be empty after unmap")
	}
	if desktop.Focus() != nil {
		t.Fatalf("focus should be cleared once the tree is empty")
	}
}

func TestNewDesktopThenKillIsNoOp(t *testing.T) {
	_, screen, _ := newTestServerWithScreen(1000, 1000)
	before := screen.Desktops()

	d := NewDesktop()
	screen.AddDesktop(d)
	if err := screen.RemoveDesktop(d); err != nil {
		t.Fatalf("desktop new; desktop kill should succeed on an empty sibling desktop: %v", err)
	}

	after := screen.Desktops()
	if len(before) != len(after) {
		t.Fatalf("desktop new; desktop kill changed the desktop count: %d -> %d", len(before), len(after))
	}
}

func TestRemoveDesktopRejectsNonEmpty(t *testing.T) {
	server, screen, _ := newTestServerWithScreen(1000, 1000)
	newTestClient(server, "c1")

	d := NewDesktop()
	screen.AddDesktop(d)
	screen.FocusDesktop(screen.Desktops()[0])

	if err := screen.RemoveDesktop(screen.Desktops()[0]); err == nil {
		t.Fatalf("removing a non-empty desktop should fail")
	}
}

func TestRemoveDesktopRejectsLastOne(t *testing.T) {
	_, screen, _ := newTestServerWithScreen(1000, 1000)
	only := screen.Desktops()[0]
	if err := screen.RemoveDesktop(only); err != ErrNotEmpty {
		t.Fatalf("removing the only desktop should fail with ErrNotEmpty, got %v", err)
	}
}
