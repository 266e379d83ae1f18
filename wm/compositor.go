package wm

// This file specifies the peripheral collaborator at its interface only
// (spec §1 "Out of scope"): the Wayland protocol dispatcher, GPU texture
// sampling, xkb keymap compilation, cursor-theme loading, and output
// enumeration. A production binary wires a real implementation in; the
// wm/render package provides a debug/test implementation.

// Rect is a damage or geometry rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Surface is an XDG-style top-level surface abstraction.
type Surface interface {
	// OnDestroy, OnCommit, OnMap, OnUnmap, OnRequestFullscreen register a
	// listener for the named lifecycle signal and return a function that
	// unregisters it.
	OnDestroy(func()) func()
	OnCommit(func(damage Rect)) func()
	OnMap(func()) func()
	OnUnmap(func()) func()
	OnRequestFullscreen(func()) func()

	// Configure requests the surface resize its drawable area to w×h.
	Configure(w, h int)
	// SetActivated toggles the top-level's activated (focus) state.
	SetActivated(yes bool)
	// SetFullscreen toggles the top-level's fullscreen state.
	SetFullscreen(yes bool)
	// Close asks the top-level role to close.
	Close()
}

// Output is one physical display the renderer can draw into.
type Output interface {
	Name() string
	Resolution() (w, h int)
	Scale() float64
	Modes() []OutputMode

	OnDestroy(func()) func()
	OnMode(func()) func()
	OnScale(func()) func()
	OnFrame(func()) func()

	// SetMode applies one of Modes() by name match on w/h/refresh.
	SetMode(OutputMode) error
	// SetScale applies a fractional scale.
	SetScale(scale float64) error

	// Damage marks a Renderer-coordinate rectangle on the output dirty.
	Damage(r Rect)
	// HasDamage reports whether damage has accumulated since the last
	// call to Rollback or a completed frame.
	HasDamage() bool
	// Rollback discards the current frame's render state when there was
	// nothing to draw.
	Rollback()
	// Renderer returns the renderer bound to this output for the
	// duration of a frame callback.
	Renderer() Renderer
	// Commit submits accumulated damage and swaps buffers.
	Commit() error
}

// OutputMode is one advertised output mode (resolution + refresh rate).
type OutputMode struct {
	Width, Height int
	RefreshMilliHz int
}

// OutputManager enumerates outputs as they appear/disappear.
type OutputManager interface {
	OnNewOutput(func(Output)) func()
}

// InputDevice is a keyboard or pointer device.
type InputDevice interface {
	Name() string
}

// KeyEvent carries one physical key transition.
type KeyEvent struct {
	Keysyms   []uint32 // every keysym the current layout produces for this keycode
	Modifiers uint32
	Pressed   bool
}

// KeyboardDevice is one physical keyboard.
type KeyboardDevice interface {
	InputDevice
	OnKey(func(KeyEvent)) func()
	OnModifiers(func(mods uint32)) func()
}

// MotionEvent carries pointer motion in screen coordinates.
type MotionEvent struct {
	X, Y int
	Time uint32
}

// PointerDevice is a physical pointer.
type PointerDevice interface {
	InputDevice
	OnMotion(func(MotionEvent)) func()
}

// InputManager enumerates input devices as they appear.
type InputManager interface {
	OnNewKeyboard(func(KeyboardDevice)) func()
	OnNewPointer(func(PointerDevice)) func()
}

// Seat notifies the lower-level library of keyboard/pointer focus
// changes so that input delivery follows the compositor's notion of
// focus.
type Seat interface {
	NotifyFocus(surface Surface)
	ForwardKey(ev KeyEvent)
	ReloadCursorManager(scale float64)
}

// Renderer performs the scissor/clear/quad/cursor operations a frame
// callback needs. A production binary backs this with GPU texture
// sampling; wm/render backs it with a terminal for tests and debugging.
type Renderer interface {
	Clear(r Rect, color Color)
	Scissor(r Rect)
	DrawBorder(r Rect, color Color)
	DrawSurface(r Rect, surface Surface)
	DrawCursor(x, y int)
}

// Color is an RGBA color used for borders and clears.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorBorderActive   = Color{R: 0x5c, G: 0x9c, B: 0xff, A: 0xff}
	ColorBorderInactive = Color{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	ColorBackground     = Color{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)
