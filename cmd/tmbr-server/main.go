// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tmbr-server/main.go
// Summary: Compositor entrypoint. `tmbr-server run -debug-tui` starts
// the event loop, binds the control socket, and drives a
// terminal-backed output for headless development. Without -debug-tui
// it exits with an error, as no other backend exists.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/tmbr/config"
	"github.com/framegrace/tmbr/control"
	"github.com/framegrace/tmbr/wm"
	"github.com/framegrace/tmbr/wm/render"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		fmt.Fprintln(os.Stderr, "usage: tmbr-server run [-debug-tui]")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	debugTUI := fs.Bool("debug-tui", false, "drive a single terminal-backed output instead of a real compositor backend")
	idleSeconds := fs.Int("idle-timeout", 0, "seconds of inactivity before outputs sleep (0 disables)")
	fs.Parse(os.Args[2:])

	if !*debugTUI {
		fmt.Fprintln(os.Stderr, "tmbr-server: only -debug-tui is implemented; a production Wayland backend is out of scope")
		os.Exit(1)
	}

	if err := runDebugTUI(*idleSeconds); err != nil {
		fmt.Fprintf(os.Stderr, "tmbr-server: %v\n", err)
		os.Exit(1)
	}
}

func runDebugTUI(idleSeconds int) error {
	cfg := config.Load()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tcell init: %w", err)
	}
	defer screen.Fini()

	seat := render.NewDebugSeat()
	srv := wm.NewServer(seat)

	keyboard := render.NewDebugKeyboard()
	wm.NewKeyboard(srv, keyboard)
	seat.OnForward(func(wm.KeyEvent) {}) // no further input routing in debug mode

	output := render.NewTcellOutput(screen)
	srv.AddScreen(wm.NewScreen(srv, output))
	output.Damage(wm.Rect{W: 1, H: 1}) // force the first frame to paint

	if idleSeconds > 0 {
		srv.SetIdleTimeout(time.Duration(idleSeconds)*time.Second, func(asleep bool) {
			log.Printf("tmbr-server: outputs asleep=%v", asleep)
		})
	}

	sockPath := cfg.CtrlPath
	if sockPath == "" {
		sockPath = control.SocketPath()
	}
	listener, err := control.Listen(sockPath, srv)
	if err != nil {
		return fmt.Errorf("control listen: %w", err)
	}
	defer listener.Close()
	os.Setenv("TMBR_CTRL_PATH", sockPath)
	os.Setenv("WAYLAND_DISPLAY", "tmbr-debug-tui")
	// Accept runs on its own goroutine, but it only parses frames onto
	// Requests() — every command is dispatched below, on this goroutine,
	// alongside input and signals, so srv is never mutated concurrently.
	go func() {
		if err := listener.Accept(); err != nil {
			log.Printf("tmbr-server: control listener: %v", err)
		}
	}()

	if err := cfg.RunStartupScript(); err != nil {
		log.Printf("tmbr-server: startup script: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGCHLD, syscall.SIGTERM, syscall.SIGINT)

	events := make(chan tcell.Event, 16)
	go screen.ChannelEvents(events, srv.Quit())
	output.Fire()

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGCHLD:
				wm.ReapChildren()
			default:
				srv.RequestStop()
			}
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				keyboard.HandleEvent(e)
			case *tcell.EventResize:
				output.Tick()
			}
			output.Fire()
		case req := <-listener.Requests():
			listener.Dispatch(req)
		case <-srv.Quit():
			return nil
		}
	}
}
