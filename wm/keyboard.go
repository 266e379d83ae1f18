package wm

// Keyboard translates one physical keyboard's events into either
// binding actions or forwarded key events.
type Keyboard struct {
	server *Server
	device KeyboardDevice

	unregister []func()
}

// NewKeyboard attaches listeners to device and returns the managed
// Keyboard.
func NewKeyboard(server *Server, device KeyboardDevice) *Keyboard {
	k := &Keyboard{server: server, device: device}
	k.unregister = append(k.unregister,
		device.OnKey(k.handleKey),
		device.OnModifiers(func(mods uint32) { server.Seat().ForwardKey(KeyEvent{Modifiers: mods}) }),
	)
	return k
}

// Close unregisters the keyboard's listeners.
func (k *Keyboard) Close() {
	for _, fn := range k.unregister {
		fn()
	}
	k.unregister = nil
}

// handleKey looks up every keysym the current layout produces for this
// keycode against the binding set. A match spawns a shell running the
// bound command and consumes the event. Every release, and any press
// with no matching binding, is forwarded to the seat unchanged.
func (k *Keyboard) handleKey(ev KeyEvent) {
	k.server.NotifyActivity()
	if ev.Pressed {
		for _, sym := range ev.Keysyms {
			if cmd, ok := k.server.Bindings().Lookup(ev.Modifiers, sym); ok {
				_ = k.server.Spawn("/bin/sh", []string{"/bin/sh", "-c", cmd})
				return
			}
		}
	}
	k.server.Seat().ForwardKey(ev)
}
