package wm

// fakeSurface is a minimal Surface double: it records Configure/Close/
// SetActivated/SetFullscreen calls and lets tests drive its lifecycle
// signals directly.
type fakeSurface struct {
	name       string
	w, h       int
	activated  bool
	fullscreen bool
	closed     bool

	onDestroy           []func()
	onCommit            []func(Rect)
	onMap               []func()
	onUnmap             []func()
	onRequestFullscreen []func()
}

func newFakeSurface(name string) *fakeSurface { return &fakeSurface{name: name} }

func (s *fakeSurface) OnDestroy(fn func()) func() {
	s.onDestroy = append(s.onDestroy, fn)
	return func() {}
}
func (s *fakeSurface) OnCommit(fn func(Rect)) func() {
	s.onCommit = append(s.onCommit, fn)
	return func() {}
}
func (s *fakeSurface) OnMap(fn func()) func() {
	s.onMap = append(s.onMap, fn)
	return func() {}
}
func (s *fakeSurface) OnUnmap(fn func()) func() {
	s.onUnmap = append(s.onUnmap, fn)
	return func() {}
}
func (s *fakeSurface) OnRequestFullscreen(fn func()) func() {
	s.onRequestFullscreen = append(s.onRequestFullscreen, fn)
	return func() {}
}

func (s *fakeSurface) Configure(w, h int)     { s.w, s.h = w, h }
func (s *fakeSurface) SetActivated(yes bool)  { s.activated = yes }
func (s *fakeSurface) SetFullscreen(yes bool) { s.fullscreen = yes }
func (s *fakeSurface) Close()                 { s.closed = true }

func (s *fakeSurface) fireMap() {
	for _, fn := range s.onMap {
		fn()
	}
}
func (s *fakeSurface) fireUnmap() {
	for _, fn := range s.onUnmap {
		fn()
	}
}
func (s *fakeSurface) fireDestroy() {
	for _, fn := range s.onDestroy {
		fn()
	}
}
func (s *fakeSurface) fireRequestFullscreen() {
	for _, fn := range s.onRequestFullscreen {
		fn()
	}
}

// fakeOutput is a minimal Output double with a fixed resolution and an
// in-memory damage flag.
type fakeOutput struct {
	name    string
	w, h    int
	scale   float64
	damaged bool
	renderer Renderer

	onDestroy []func()
	onMode    []func()
	onScale   []func()
	onFrame   []func()
}

func newFakeOutput(name string, w, h int) *fakeOutput {
	return &fakeOutput{name: name, w: w, h: h, scale: 1, renderer: &fakeRenderer{}}
}

func (o *fakeOutput) Name() string             { return o.name }
func (o *fakeOutput) Resolution() (int, int)   { return o.w, o.h }
func (o *fakeOutput) Scale() float64           { return o.scale }
func (o *fakeOutput) Modes() []OutputMode      { return []OutputMode{{Width: o.w, Height: o.h, RefreshMilliHz: 60000}} }

func (o *fakeOutput) OnDestroy(fn func()) func() { o.onDestroy = append(o.onDestroy, fn); return func() {} }
func (o *fakeOutput) OnMode(fn func()) func()    { o.onMode = append(o.onMode, fn); return func() {} }
func (o *fakeOutput) OnScale(fn func()) func()   { o.onScale = append(o.onScale, fn); return func() {} }
func (o *fakeOutput) OnFrame(fn func()) func()   { o.onFrame = append(o.onFrame, fn); return func() {} }

func (o *fakeOutput) SetMode(m OutputMode) error {
	o.w, o.h = m.Width, m.Height
	for _, fn := range o.onMode {
		fn()
	}
	return nil
}
func (o *fakeOutput) SetScale(scale float64) error {
	o.scale = scale
	for _, fn := range o.onScale {
		fn()
	}
	return nil
}

func (o *fakeOutput) Damage(r Rect)   { o.damaged = true }
func (o *fakeOutput) HasDamage() bool { return o.damaged }
func (o *fakeOutput) Rollback()       { o.damaged = false }
func (o *fakeOutput) Renderer() Renderer { return o.renderer }
func (o *fakeOutput) Commit() error   { o.damaged = false; return nil }

func (o *fakeOutput) fireDestroy() {
	for _, fn := range o.onDestroy {
		fn()
	}
}
func (o *fakeOutput) fireFrame() {
	for _, fn := range o.onFrame {
		fn()
	}
}

// fakeRenderer records draw calls without rendering anywhere.
type fakeRenderer struct {
	cleared    int
	borders    int
	surfaces   int
	cursorDraw int
}

func (r *fakeRenderer) Clear(Rect, Color)           { r.cleared++ }
func (r *fakeRenderer) Scissor(Rect)                {}
func (r *fakeRenderer) DrawBorder(Rect, Color)      { r.borders++ }
func (r *fakeRenderer) DrawSurface(Rect, Surface)   { r.surfaces++ }
func (r *fakeRenderer) DrawCursor(x, y int)         { r.cursorDraw++ }

// fakeSeat records focus/forward/cursor-reload calls.
type fakeSeat struct {
	focused  Surface
	forwards []KeyEvent
	reloads  []float64
}

func (s *fakeSeat) NotifyFocus(surface Surface)      { s.focused = surface }
func (s *fakeSeat) ForwardKey(ev KeyEvent)            { s.forwards = append(s.forwards, ev) }
func (s *fakeSeat) ReloadCursorManager(scale float64) { s.reloads = append(s.reloads, scale) }

// newTestClient builds a Client owned by server and maps it by firing
// the fake surface's Map signal, placing it on server's focused screen.
func newTestClient(server *Server, name string) (*Client, *fakeSurface) {
	surface := newFakeSurface(name)
	c := NewClient(server, surface)
	surface.fireMap()
	return c, surface
}

// newTestServerWithScreen returns a Server with one fakeOutput-backed
// Screen of the given resolution, already focused.
func newTestServerWithScreen(w, h int) (*Server, *Screen, *fakeOutput) {
	seat := &fakeSeat{}
	server := NewServer(seat)
	output := newFakeOutput("test-0", w, h)
	screen := NewScreen(server, output)
	server.AddScreen(screen)
	return server, screen, output
}
