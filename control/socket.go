package control

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/framegrace/tmbr/wire"
	"github.com/framegrace/tmbr/wm"
)

// listenBacklog bounds the queue of parsed requests waiting for
// dispatch; it does not set the socket's listen backlog.
const listenBacklog = 10

// Request is one accepted connection's parsed command, funneled onto a
// single channel so a caller can drain it from whichever goroutine owns
// wm.Server — spec §5 allows no locking because it allows no concurrent
// access, so dispatch must run on that same goroutine, not a second one
// of the listener's own.
type Request struct {
	cmd  wire.Command
	conn net.Conn
	sub  *connSubscriber
}

// Listener accepts control connections on a Unix domain socket and
// parses each one's COMMAND frame onto a channel for dispatch.
type Listener struct {
	ln   net.Listener
	disp *Dispatcher
	reqs chan Request

	stopOnce sync.Once
	done     chan struct{}
}

// SocketPath resolves the control socket path: $TMBR_CTRL_PATH if set,
// else "<runtime>/<display>" where runtime defaults to $XDG_RUNTIME_DIR
// (or /tmp) and display defaults to "tmbr-0".
func SocketPath() string {
	if p := os.Getenv("TMBR_CTRL_PATH"); p != "" {
		return p
	}
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		runtime = "/tmp"
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "tmbr-0"
	}
	return filepath.Join(runtime, display)
}

// Listen creates the control socket at path: the enclosing directory
// is created with mode 0700 and any stale socket file is unlinked. The
// socket listens with the operating system's default backlog, not
// listenBacklog.
func Listen(path string, server *wm.Server) (*Listener, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	lc := net.ListenConfig{}
	raw, err := lc.Listen(context.Background(), "unix", path)
	if err != nil {
		return nil, err
	}
	ln, ok := raw.(*net.UnixListener)
	if !ok {
		raw.Close()
		return nil, errors.New("control: not a unix listener")
	}
	ln.SetUnlinkOnClose(true)

	l := &Listener{
		ln:   ln,
		disp: NewDispatcher(server),
		reqs: make(chan Request, listenBacklog),
		done: make(chan struct{}),
	}
	return l, nil
}

// Accept runs the accept loop until Close is called, parsing each
// connection's command onto Requests() but never dispatching one
// itself. Run this on its own goroutine; drain Requests() and call
// Dispatch from the goroutine that owns the wm.Server instead, so every
// command mutates state on the same goroutine as the rest of the event
// loop.
func (l *Listener) Accept() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.done:
				return nil
			default:
				return err
			}
		}
		go l.handleConn(conn)
	}
}

// Requests returns the channel of parsed commands awaiting dispatch.
func (l *Listener) Requests() <-chan Request { return l.reqs }

// Dispatch runs one request's command against the server and replies
// to its connection. Call it only from the goroutine that owns the
// wm.Server.
func (l *Listener) Dispatch(req Request) { l.serveOne(req) }

// Serve runs the accept loop and dispatches every request itself, on
// its own goroutine. Suitable when nothing else touches the wm.Server
// concurrently (as in tests); a production event loop that also
// handles input should call Accept and drain Requests()/Dispatch from
// its own select instead.
func (l *Listener) Serve() error {
	go l.dispatchLoop()
	return l.Accept()
}

// Close stops accepting connections and unblocks the dispatch loop.
func (l *Listener) Close() error {
	l.stopOnce.Do(func() { close(l.done) })
	return l.ln.Close()
}

func (l *Listener) handleConn(conn net.Conn) {
	typ, payload, err := wire.ReadFrame(conn)
	if err != nil {
		conn.Close()
		return
	}
	if typ != wire.FrameCommand {
		l.writeError(conn, wire.ErrProtocolViolation)
		conn.Close()
		return
	}
	cmd, err := wire.DecodeCommand(payload)
	if err != nil {
		l.writeError(conn, err)
		conn.Close()
		return
	}

	sub := &connSubscriber{id: uuid.New(), conn: conn}
	select {
	case l.reqs <- Request{cmd: cmd, conn: conn, sub: sub}:
	case <-l.done:
		conn.Close()
	}
}

func (l *Listener) dispatchLoop() {
	for {
		select {
		case req := <-l.reqs:
			l.serveOne(req)
		case <-l.done:
			return
		}
	}
}

func (l *Listener) serveOne(req Request) {
	result := l.disp.Dispatch(req.cmd, req.sub, l.stopForCommand)
	for _, line := range result.Data {
		if err := wire.WriteFrame(req.conn, wire.FrameData, wire.EncodeData(line)); err != nil {
			req.conn.Close()
			return
		}
	}
	if err := wire.WriteFrame(req.conn, wire.FrameError, wire.EncodeError(result.Errno)); err != nil {
		log.Printf("control: write error frame: %v", err)
	}

	// A subscribing connection stays open for asynchronous broadcasts;
	// every other connection is done after its one command cycle.
	if req.cmd.Domain != "state" || req.cmd.Verb != "subscribe" || result.Errno != 0 {
		req.conn.Close()
		return
	}
	log.Printf("control: subscriber %s attached", req.sub.id)
}

func (l *Listener) stopForCommand() {
	go l.Close()
}

// connSubscriber adapts a net.Conn into a wm.Subscriber, framing each
// broadcast line as a DATA packet. id is a per-connection identifier
// used only for diagnostics; the control protocol itself has no
// handshake that would let a client learn or present it.
type connSubscriber struct {
	id   uuid.UUID
	conn net.Conn
}

func (c *connSubscriber) WriteLine(line string) error {
	err := wire.WriteFrame(c.conn, wire.FrameData, wire.EncodeData(line))
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		c.conn.Close()
	}
	return err
}

func (l *Listener) writeError(conn net.Conn, err error) {
	log.Printf("control: framing error: %v", err)
	_ = wire.WriteFrame(conn, wire.FrameError, wire.EncodeError(int32(syscall.EIO)))
}
