// Package control implements the command dispatcher and Unix-socket
// listener for the control protocol (spec §4.7, §6).
package control

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/framegrace/tmbr/wire"
	"github.com/framegrace/tmbr/wm"
)

// Dispatcher executes parsed commands against one Server.
type Dispatcher struct {
	server *wm.Server
}

// NewDispatcher returns a Dispatcher bound to server.
func NewDispatcher(server *wm.Server) *Dispatcher {
	return &Dispatcher{server: server}
}

// Result carries a dispatched command's DATA lines (for state query)
// and its terminating errno (0 on success).
type Result struct {
	Data  []string
	Errno int32
}

// Dispatch executes cmd and returns its result. sub, if non-nil, is
// registered as a persistent subscriber for "state subscribe"; stop is
// called for "state stop". Every successful command is broadcast to the
// server's subscribers; a failed one is not.
func (d *Dispatcher) Dispatch(cmd wire.Command, sub wm.Subscriber, stop func()) Result {
	d.server.NotifyActivity()
	err := d.dispatch(cmd, sub, stop)
	errno := errnoOf(err)
	if err != nil {
		return Result{Errno: errno}
	}
	d.server.Broadcast(cmd.Domain+" "+cmd.Verb, int(errno))
	if cmd.Domain == "state" && cmd.Verb == "query" {
		return Result{Data: d.snapshot(), Errno: 0}
	}
	return Result{Errno: 0}
}

func errnoOf(err error) int32 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, wm.ErrNotFound):
		return int32(syscall.ENOENT)
	case errors.Is(err, wm.ErrInvalidParam):
		return int32(syscall.EINVAL)
	case errors.Is(err, wm.ErrNotEmpty):
		return int32(syscall.ENOTEMPTY)
	case errors.Is(err, wm.ErrNoSpace):
		return int32(syscall.ENOSPC)
	default:
		return int32(syscall.EIO)
	}
}

func (d *Dispatcher) dispatch(cmd wire.Command, sub wm.Subscriber, stop func()) error {
	switch cmd.Domain {
	case "client":
		return d.dispatchClient(cmd)
	case "desktop":
		return d.dispatchDesktop(cmd)
	case "screen":
		return d.dispatchScreen(cmd)
	case "tree":
		return d.dispatchTree(cmd)
	case "state":
		return d.dispatchState(cmd, sub, stop)
	case "binding":
		return d.dispatchBinding(cmd)
	default:
		return fmt.Errorf("control: unknown domain %q: %w", cmd.Domain, wm.ErrInvalidParam)
	}
}

func parseDir(sel string) (wm.Dir, error) {
	switch sel {
	case "next":
		return wm.DirNext, nil
	case "prev":
		return wm.DirPrev, nil
	case "nearest":
		return wm.DirNearest, nil
	default:
		return 0, fmt.Errorf("control: bad sel %q: %w", sel, wm.ErrInvalidParam)
	}
}

func (d *Dispatcher) focusedClient() (*wm.Client, error) {
	c := d.server.FindFocus()
	if c == nil {
		return nil, wm.ErrNotFound
	}
	return c, nil
}

func (d *Dispatcher) dispatchClient(cmd wire.Command) error {
	switch cmd.Verb {
	case "focus":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		sib := c.Desktop().Tree().FindSibling(c.Leaf(), dir)
		if sib == nil {
			return wm.ErrNotFound
		}
		c.Desktop().FocusClient(sib.Client, true)
		return nil

	case "fullscreen":
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		ds := c.Desktop()
		ds.SetFullscreen(!ds.Fullscreen())
		return nil

	case "kill":
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		c.Kill()
		return nil

	case "resize":
		if len(cmd.Args) != 2 {
			return wm.ErrInvalidParam
		}
		ratio, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			return wm.ErrInvalidParam
		}
		return d.resize(cmd.Args[0], ratio)

	case "swap":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		sib := c.Desktop().Tree().FindSibling(c.Leaf(), dir)
		if sib == nil {
			return wm.ErrNotFound
		}
		c.Desktop().Tree().Swap(c.Leaf(), sib)
		c.Desktop().Recalculate()
		return nil

	case "to_desktop":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		screen := c.Desktop().Screen()
		dest := screen.SiblingDesktop(c.Desktop(), dir)
		if dest == nil {
			return wm.ErrNotFound
		}
		c.Desktop().RemoveClient(c)
		dest.AddClient(c)
		return nil

	case "to_screen":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		c, err := d.focusedClient()
		if err != nil {
			return err
		}
		screen := c.Desktop().Screen()
		dest := d.server.SiblingScreen(screen, dir)
		if dest == nil {
			return wm.ErrNotFound
		}
		c.Desktop().RemoveClient(c)
		dest.FocusedDesktop().AddClient(c)
		return nil

	default:
		return fmt.Errorf("control: unknown client verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
}

// resize implements spec §4.7's direction table.
func (d *Dispatcher) resize(dirName string, ratio int) error {
	if ratio <= 0 {
		return wm.ErrInvalidParam
	}
	var split wm.Split
	var sel wm.Dir
	var delta int
	switch dirName {
	case "north":
		split, sel, delta = wm.SplitHorizontal, wm.DirNext, -ratio
	case "south":
		split, sel, delta = wm.SplitHorizontal, wm.DirNext, ratio
	case "east":
		split, sel, delta = wm.SplitVertical, wm.DirNext, ratio
	case "west":
		split, sel, delta = wm.SplitVertical, wm.DirNext, -ratio
	default:
		return wm.ErrInvalidParam
	}

	c, err := d.focusedClient()
	if err != nil {
		return err
	}
	parent := wm.ParentWithSplit(c.Leaf(), split, sel)
	if parent == nil {
		return wm.ErrNotFound
	}
	newRatio := parent.Ratio + delta
	if newRatio <= 0 || newRatio >= 100 {
		return wm.ErrInvalidParam
	}
	parent.Ratio = newRatio
	c.Desktop().Recalculate()
	return nil
}

func (d *Dispatcher) dispatchDesktop(cmd wire.Command) error {
	screen := d.server.FocusedScreen()
	if screen == nil {
		return wm.ErrNotFound
	}
	switch cmd.Verb {
	case "focus":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		sib := screen.SiblingDesktop(screen.FocusedDesktop(), dir)
		if sib == nil {
			return wm.ErrNotFound
		}
		screen.FocusDesktop(sib)
		return nil

	case "kill":
		return screen.RemoveDesktop(screen.FocusedDesktop())

	case "new":
		screen.AddDesktop(wm.NewDesktop())
		return nil

	case "swap":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		sib := screen.SiblingDesktop(screen.FocusedDesktop(), dir)
		if sib == nil {
			return wm.ErrNotFound
		}
		screen.FocusedDesktop().Swap(sib)
		return nil

	default:
		return fmt.Errorf("control: unknown desktop verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
}

func (d *Dispatcher) dispatchScreen(cmd wire.Command) error {
	switch cmd.Verb {
	case "focus":
		if len(cmd.Args) != 1 {
			return wm.ErrInvalidParam
		}
		dir, err := parseDir(cmd.Args[0])
		if err != nil {
			return err
		}
		cur := d.server.FocusedScreen()
		if cur == nil {
			return wm.ErrNotFound
		}
		sib := d.server.SiblingScreen(cur, dir)
		if sib == nil {
			return wm.ErrNotFound
		}
		d.server.FocusScreen(sib)
		return nil

	case "mode":
		if len(cmd.Args) != 2 {
			return wm.ErrInvalidParam
		}
		mode, err := parseMode(cmd.Args[1])
		if err != nil {
			return err
		}
		screen := d.findScreenByName(cmd.Args[0])
		if screen == nil {
			return wm.ErrNotFound
		}
		if err := screen.Output().SetMode(mode); err != nil {
			return wm.ErrInvalidParam
		}
		return nil

	case "scale":
		if len(cmd.Args) != 2 {
			return wm.ErrInvalidParam
		}
		hundredths, err := strconv.Atoi(cmd.Args[1])
		if err != nil || hundredths <= 0 || hundredths >= 10000 {
			return wm.ErrInvalidParam
		}
		screen := d.findScreenByName(cmd.Args[0])
		if screen == nil {
			return wm.ErrNotFound
		}
		if err := screen.Output().SetScale(float64(hundredths) / 100); err != nil {
			return wm.ErrInvalidParam
		}
		return nil

	default:
		return fmt.Errorf("control: unknown screen verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
}

func (d *Dispatcher) findScreenByName(name string) *wm.Screen {
	for _, s := range d.server.Screens() {
		if s.Output().Name() == name {
			return s
		}
	}
	return nil
}

// parseMode parses a "WxH@Hz" mode string, e.g. "1920x1080@60".
func parseMode(s string) (wm.OutputMode, error) {
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return wm.OutputMode{}, wm.ErrInvalidParam
	}
	dims, hz := s[:at], s[at+1:]
	x := strings.IndexByte(dims, 'x')
	if x < 0 {
		return wm.OutputMode{}, wm.ErrInvalidParam
	}
	w, err1 := strconv.Atoi(dims[:x])
	h, err2 := strconv.Atoi(dims[x+1:])
	refresh, err3 := strconv.ParseFloat(hz, 64)
	if err1 != nil || err2 != nil || err3 != nil || w <= 0 || h <= 0 || refresh <= 0 {
		return wm.OutputMode{}, wm.ErrInvalidParam
	}
	return wm.OutputMode{Width: w, Height: h, RefreshMilliHz: int(refresh * 1000)}, nil
}

func (d *Dispatcher) dispatchTree(cmd wire.Command) error {
	if cmd.Verb != "rotate" {
		return fmt.Errorf("control: unknown tree verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
	c, err := d.focusedClient()
	if err != nil {
		return err
	}
	parent := c.Leaf().Parent
	if parent == nil {
		return wm.ErrNotFound
	}
	wm.Rotate(parent)
	c.Desktop().Recalculate()
	return nil
}

func (d *Dispatcher) dispatchState(cmd wire.Command, sub wm.Subscriber, stop func()) error {
	switch cmd.Verb {
	case "query":
		return nil // Result.Data is filled by Dispatch after a nil error.
	case "subscribe":
		if sub == nil {
			return wm.ErrInvalidParam
		}
		return d.server.Subscribe(sub)
	case "stop":
		if stop != nil {
			stop()
		}
		d.server.RequestStop()
		return nil
	default:
		return fmt.Errorf("control: unknown state verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
}

func (d *Dispatcher) dispatchBinding(cmd wire.Command) error {
	if cmd.Verb != "add" {
		return fmt.Errorf("control: unknown binding verb %q: %w", cmd.Verb, wm.ErrInvalidParam)
	}
	if len(cmd.Args) != 3 {
		return wm.ErrInvalidParam
	}
	mods, err1 := strconv.ParseUint(cmd.Args[0], 0, 32)
	key, err2 := strconv.ParseUint(cmd.Args[1], 0, 32)
	if err1 != nil || err2 != nil {
		return wm.ErrInvalidParam
	}
	d.server.Bindings().Add(uint32(mods), uint32(key), cmd.Args[2])
	return nil
}

// snapshot renders a YAML-ish dump of server state, one line per
// screen/desktop/client, for "state query".
func (d *Dispatcher) snapshot() []string {
	var lines []string
	for i, screen := range d.server.Screens() {
		w, h := screen.Resolution()
		lines = append(lines, fmt.Sprintf("screen %d: {name: %s, w: %d, h: %d, scale: %.2f}",
			i, screen.Output().Name(), w, h, screen.Scale()))
		for j, desktop := range screen.Desktops() {
			lines = append(lines, fmt.Sprintf("  desktop %d: {focused: %t, fullscreen: %t}",
				j, desktop == screen.FocusedDesktop(), desktop.Fullscreen()))
			desktop.Tree().ForEachLeaf(func(n *wm.Node) {
				b := n.Client.Box()
				lines = append(lines, fmt.Sprintf("    client: {id: %s, x: %d, y: %d, w: %d, h: %d, focus: %t}",
					n.Client.ID(), b.X, b.Y, b.W, b.H, n.Client == d.server.FindFocus()))
			})
		}
	}
	return lines
}
