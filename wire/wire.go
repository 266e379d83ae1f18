// Package wire implements the control protocol's framed records
// (spec §6): a tagged union {type, payload} with
// type ∈ {COMMAND, ERROR, DATA}. Each frame is a fixed 12-byte header
// followed by a payload of the length the header declares; frames are
// not padded to a fixed size.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	magic      uint32 = 0x544d4252 // "TMBR"
	headerSize        = 12
)

// FrameType is the tag of the {type, payload} union.
type FrameType uint8

const (
	FrameCommand FrameType = iota
	FrameError
	FrameData
)

var (
	ErrInvalidMagic = errors.New("wire: invalid magic")
	ErrShortPayload = errors.New("wire: payload shorter than declared length")
	// ErrProtocolViolation reports a packet sequence other than one
	// COMMAND from the client, zero-or-more DATA from the server, then
	// exactly one ERROR. The control listener logs it when a
	// connection's first frame is not a COMMAND.
	ErrProtocolViolation = errors.New("wire: protocol violation")
)

// Header is the fixed 12-byte prefix of every frame: a 4-byte magic, a
// 1-byte type tag, 3 reserved bytes, and a 4-byte payload length.
type Header struct {
	Type       FrameType
	PayloadLen uint32
}

// WriteFrame serializes a frame of type typ carrying payload to w.
func WriteFrame(w io.Writer, typ FrameType, payload []byte) error {
	buf := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	buf[4] = byte(typ)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(payload)))
	copy(buf[headerSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one frame's header and payload from r.
func ReadFrame(r io.Reader) (FrameType, []byte, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return 0, nil, err
	}
	if binary.LittleEndian.Uint32(hdr[0:4]) != magic {
		return 0, nil, ErrInvalidMagic
	}
	typ := FrameType(hdr[4])
	n := binary.LittleEndian.Uint32(hdr[8:12])

	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, nil, ErrShortPayload
			}
			return 0, nil, err
		}
	}
	return typ, payload, nil
}

// maxDataLine is the NUL-terminated DATA payload size limit (spec §6).
const maxDataLine = 1024

// EncodeData frames a single DATA line. line is truncated to fit the
// NUL terminator within maxDataLine bytes.
func EncodeData(line string) []byte {
	if len(line) > maxDataLine-1 {
		line = line[:maxDataLine-1]
	}
	b := make([]byte, len(line)+1)
	copy(b, line)
	return b
}

// DecodeData strips the NUL terminator from a DATA payload.
func DecodeData(payload []byte) string {
	for i, c := range payload {
		if c == 0 {
			return string(payload[:i])
		}
	}
	return string(payload)
}

// Command is the parsed COMMAND payload: a domain×verb pair (spec
// §4.7's table) plus its positional string arguments.
type Command struct {
	Domain string
	Verb   string
	Args   []string
}

// EncodeCommand serializes cmd as NUL-separated fields: domain, verb,
// then each arg in order.
func EncodeCommand(cmd Command) []byte {
	fields := append([]string{cmd.Domain, cmd.Verb}, cmd.Args...)
	var buf []byte
	for _, f := range fields {
		buf = append(buf, f...)
		buf = append(buf, 0)
	}
	return buf
}

// DecodeCommand parses a COMMAND payload produced by EncodeCommand.
func DecodeCommand(payload []byte) (Command, error) {
	var fields []string
	start := 0
	for i, b := range payload {
		if b == 0 {
			fields = append(fields, string(payload[start:i]))
			start = i + 1
		}
	}
	if len(fields) < 2 {
		return Command{}, ErrShortPayload
	}
	return Command{Domain: fields[0], Verb: fields[1], Args: fields[2:]}, nil
}

// EncodeError frames an errno payload.
func EncodeError(errno int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(errno))
	return b
}

// DecodeError parses an ERROR payload.
func DecodeError(payload []byte) (int32, error) {
	if len(payload) < 4 {
		return 0, ErrShortPayload
	}
	return int32(binary.LittleEndian.Uint32(payload)), nil
}
