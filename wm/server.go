package wm

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// MaxSubscribers bounds the Server's subscriber table (spec §4.5).
const MaxSubscribers = 16

// Subscriber is a persistent connection that receives one notification
// line per successfully completed command.
type Subscriber interface {
	WriteLine(line string) error
}

// Server is the process-wide singleton aggregating the screen list,
// binding set, subscriber set, and seat/cursor handles. Its lifetime is
// the process lifetime; construct exactly one per compositor run and
// pass it explicitly into event-loop callbacks rather than reaching for
// a package-level global.
type Server struct {
	mu sync.Mutex

	screens []*Screen
	focused *Screen

	bindings *BindingSet

	subscribersMu sync.Mutex
	subscribers   []Subscriber

	seat    Seat
	cursorX int
	cursorY int

	idleTimeout   time.Duration
	idleTimer     *time.Timer
	inhibitors    int
	outputsAsleep bool
	onIdle        func(asleep bool)

	quit chan struct{}
}

// NewServer constructs a Server. seat must be non-nil; it is the
// compositor's notion of keyboard/pointer focus delivery.
func NewServer(seat Seat) *Server {
	return &Server{
		bindings: NewBindingSet(),
		seat:     seat,
		quit:     make(chan struct{}),
	}
}

// Seat returns the server's seat handle.
func (s *Server) Seat() Seat { return s.seat }

// Bindings returns the server's binding set.
func (s *Server) Bindings() *BindingSet { return s.bindings }

// Quit returns a channel that closes when the event loop should stop.
func (s *Server) Quit() <-chan struct{} { return s.quit }

// RequestStop signals the event loop to terminate.
func (s *Server) RequestStop() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
}

// AddScreen appends screen to the ordered screen list and binds it to
// this server. The first screen added becomes focused.
func (s *Server) AddScreen(screen *Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen.server = s
	s.screens = append(s.screens, screen)
	if s.focused == nil {
		s.focused = screen
	}
}

// Screens returns the ordered screen list.
func (s *Server) Screens() []*Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Screen, len(s.screens))
	copy(out, s.screens)
	return out
}

// FocusedScreen returns the server's current screen, or nil if none.
func (s *Server) FocusedScreen() *Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// SiblingScreen returns the screen adjacent to screen in the server's
// ordered screen list, in the requested direction, or nil at the
// boundary. DirNearest is treated as DirNext.
func (s *Server) SiblingScreen(screen *Screen, dir Dir) *Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range s.screens {
		if sc != screen {
			continue
		}
		if dir == DirPrev {
			if i == 0 {
				return nil
			}
			return s.screens[i-1]
		}
		if i == len(s.screens)-1 {
			return nil
		}
		return s.screens[i+1]
	}
	return nil
}

func (s *Server) setFocusedScreen(screen *Screen) {
	s.mu.Lock()
	s.focused = screen
	s.mu.Unlock()
}

// FocusScreen changes the server's focused screen and propagates focus
// to its own focused desktop's focused client.
func (s *Server) FocusScreen(screen *Screen) {
	screen.FocusDesktop(screen.focused)
	s.setFocusedScreen(screen)
}

// removeScreen tears down screen: if a sibling remains, every desktop
// is migrated to it; otherwise every client on screen is removed and
// the event loop is asked to terminate.
func (s *Server) removeScreen(screen *Screen) {
	s.mu.Lock()
	var sibling *Screen
	idx := -1
	for i, sc := range s.screens {
		if sc == screen {
			idx = i
			continue
		}
		if sibling == nil {
			sibling = sc
		}
	}
	if idx >= 0 {
		s.screens = append(s.screens[:idx], s.screens[idx+1:]...)
	}
	if s.focused == screen {
		s.focused = sibling
	}
	s.mu.Unlock()

	if sibling != nil {
		for _, d := range screen.Desktops() {
			screen.unlinkDesktop(d)
			d.screen = sibling
			sibling.addDesktopLinked(d, sibling.tail)
		}
		return
	}

	for _, d := range screen.Desktops() {
		for _, leaf := range collectLeaves(d.Tree()) {
			d.RemoveClient(leaf.Client)
		}
	}
	s.RequestStop()
}

func collectLeaves(t *Tree) []*Node {
	var out []*Node
	t.ForEachLeaf(func(n *Node) { out = append(out, n) })
	return out
}

// FindFocus returns the focused screen's focused desktop's focused
// client, or nil if any link in that chain is empty.
func (s *Server) FindFocus() *Client {
	screen := s.FocusedScreen()
	if screen == nil || screen.focused == nil {
		return nil
	}
	return screen.focused.focus
}

// CursorX and CursorY report the last known pointer position, used by
// the render loop to draw the software cursor.
func (s *Server) CursorX() int { return s.cursorX }
func (s *Server) CursorY() int { return s.cursorY }

// HandleCursorMotion updates the cursor position and retargets focus:
// it looks up the output under the cursor (ignoring the event if none
// is found), focuses that screen, and either refocuses the fullscreen
// desktop's client or the first leaf containing the cursor.
func (s *Server) HandleCursorMotion(x, y int, outputAt func(x, y int) *Screen) {
	s.cursorX, s.cursorY = x, y
	screen := outputAt(x, y)
	if screen == nil {
		return
	}
	s.FocusScreen(screen)

	desktop := screen.FocusedDesktop()
	if desktop == nil {
		return
	}
	if desktop.Fullscreen() {
		if desktop.focus != nil {
			desktop.FocusClient(desktop.focus, true)
		}
		return
	}

	var hit *Client
	desktop.Tree().ForEachLeaf(func(n *Node) {
		if hit != nil {
			return
		}
		b := n.Client.Box()
		if x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H {
			hit = n.Client
		}
	})
	if hit != nil {
		desktop.FocusClient(hit, true)
	}
}

// Subscribe adds sub to the broadcast set. Returns ErrNoSpace if the
// table is full.
func (s *Server) Subscribe(sub Subscriber) error {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()
	if len(s.subscribers) >= MaxSubscribers {
		return ErrNoSpace
	}
	s.subscribers = append(s.subscribers, sub)
	return nil
}

// Broadcast writes a one-line notification to every subscriber. A
// write failure drops that subscriber from the set.
func (s *Server) Broadcast(command string, errCode int) {
	line := fmt.Sprintf("{type: %s, error: %d}", command, errCode)
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()
	live := s.subscribers[:0]
	for _, sub := range s.subscribers {
		if err := sub.WriteLine(line); err != nil {
			continue
		}
		live = append(live, sub)
	}
	s.subscribers = live
}

// Spawn forks and execs path with argv into a new session, detached
// from the compositor's controlling terminal (spec §4.5's double-fork:
// the new session leader can never reacquire a controlling tty, so a
// single Setsid fork+exec gets the same isolation without the
// intermediate process). The compositor never waits on the spawned
// process directly; it is reaped non-blockingly by ReapChildren from
// the event loop's SIGCHLD handler.
func (s *Server) Spawn(path string, argv []string) error {
	pid, err := spawnDetached(path, argv)
	if err != nil {
		return fmt.Errorf("spawn %s: %w: %w", path, ErrIO, err)
	}
	log.Printf("wm: spawned pid=%d path=%s", pid, path)
	return nil
}

// SetIdleTimeout configures the idle timer; onIdle is invoked with
// true when outputs should be disabled, false when they should be
// re-enabled. A zero timeout disables the idle timer.
func (s *Server) SetIdleTimeout(d time.Duration, onIdle func(asleep bool)) {
	s.idleTimeout = d
	s.onIdle = onIdle
	s.resetIdleTimer()
}

func (s *Server) resetIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	if s.idleTimeout <= 0 || s.inhibitors > 0 {
		return
	}
	s.idleTimer = time.AfterFunc(s.idleTimeout, s.fireIdle)
}

func (s *Server) fireIdle() {
	s.mu.Lock()
	s.outputsAsleep = true
	cb := s.onIdle
	s.mu.Unlock()
	if cb != nil {
		cb(true)
	}
}

// NotifyActivity resets the idle timer and wakes outputs if asleep.
// Call this from every input/command callback.
func (s *Server) NotifyActivity() {
	s.mu.Lock()
	wasAsleep := s.outputsAsleep
	s.outputsAsleep = false
	cb := s.onIdle
	s.mu.Unlock()
	if wasAsleep && cb != nil {
		cb(false)
	}
	s.resetIdleTimer()
}

// AddInhibitor increments the idle-inhibit count, disabling idle while
// any inhibitor is live. Returns a function to call on the
// inhibitor's destroy, which decrements the count.
func (s *Server) AddInhibitor() func() {
	s.mu.Lock()
	s.inhibitors++
	s.mu.Unlock()
	s.resetIdleTimer()
	return func() {
		s.mu.Lock()
		s.inhibitors--
		s.mu.Unlock()
		s.resetIdleTimer()
	}
}
