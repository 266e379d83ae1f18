// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tmbr/main.go
// Summary: Client CLI: dials the control socket, sends one command, and
// prints its response.
// Usage: `tmbr <domain> <verb> [args...]` sends a control command, e.g.
// `tmbr client focus next`. `tmbr run` does not start the compositor:
// it exits with an error that points to cmd/tmbr-server.

package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/term"

	"github.com/framegrace/tmbr/control"
	"github.com/framegrace/tmbr/wire"
)

const usage = `usage: tmbr <domain> <verb> [args...]

commands:
  client focus <sel>             desktop focus <sel>            screen focus <sel>
  client fullscreen               desktop kill                   screen mode <name> <WxH@Hz>
  client kill                     desktop new                    screen scale <name> <scale-x100>
  client resize <dir> <ratio>     desktop swap <sel>
  client swap <sel>
  client to_desktop <sel>         tree rotate
  client to_screen <sel>

  state query | state subscribe | state stop
  binding add <mods> <keysym> <shell-command>

sel ∈ {next, prev, nearest}; dir ∈ {north, south, east, west}
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	if args[0] == "run" {
		fmt.Fprintln(os.Stderr, "tmbr run: invoke cmd/tmbr-server, not this client binary")
		return 1
	}
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	cmd := wire.Command{Domain: args[0], Verb: args[1], Args: args[2:]}

	conn, err := net.DialTimeout("unix", control.SocketPath(), 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmbr: connect: %v\n", err)
		return int(errnoIO)
	}
	defer conn.Close()

	if err := wire.WriteFrame(conn, wire.FrameCommand, wire.EncodeCommand(cmd)); err != nil {
		fmt.Fprintf(os.Stderr, "tmbr: write command: %v\n", err)
		return int(errnoIO)
	}

	var data []string
	for {
		typ, payload, err := wire.ReadFrame(conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tmbr: read response: %v\n", err)
			return int(errnoIO)
		}
		switch typ {
		case wire.FrameData:
			data = append(data, wire.DecodeData(payload))
		case wire.FrameError:
			errno, err := wire.DecodeError(payload)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tmbr: %v\n", err)
				return int(errnoIO)
			}
			printData(data)
			if errno != 0 {
				fmt.Fprintf(os.Stderr, "tmbr: %s\n", strerror(errno))
			}
			if cmd.Domain == "state" && cmd.Verb == "subscribe" && errno == 0 {
				streamSubscription(conn)
			}
			return int(errno)
		default:
			fmt.Fprintln(os.Stderr, "tmbr: unexpected packet type from server")
			return int(errnoIO)
		}
	}
}

// streamSubscription keeps printing DATA lines from a long-lived
// "state subscribe" connection until the peer closes it.
func streamSubscription(conn net.Conn) {
	for {
		typ, payload, err := wire.ReadFrame(conn)
		if err != nil {
			return
		}
		if typ == wire.FrameData {
			fmt.Println(wire.DecodeData(payload))
		}
	}
}

func printData(lines []string) {
	if len(lines) == 0 {
		return
	}
	text := strings.Join(lines, "\n")
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(text)
		return
	}
	highlightYAML(text)
}

// highlightYAML prints text as ANSI-colored YAML-ish state output
// ("state query"'s response), falling back to plain text if
// tokenization fails.
func highlightYAML(text string) {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		fmt.Println(text)
		return
	}
	iterator, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		fmt.Println(text)
		return
	}
	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.TTY256
	if err := formatter.Format(os.Stdout, style, iterator); err != nil {
		fmt.Println(text)
	}
	fmt.Println()
}

const errnoIO = 5 // EIO; used when the transport itself fails before a server errno exists

func strerror(errno int32) string {
	switch errno {
	case 0:
		return "success"
	case 2:
		return "not found"
	case 22:
		return "invalid parameter"
	case 39:
		return "desktop not empty"
	case 28:
		return "no space (subscriber table full)"
	case 5:
		return "i/o error"
	default:
		return fmt.Sprintf("errno %d", errno)
	}
}
