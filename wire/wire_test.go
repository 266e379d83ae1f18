package wire

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello")
	if err := WriteFrame(&buf, FrameData, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	typ, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if typ != FrameData {
		t.Fatalf("type = %v, want FrameData", typ)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestFrameRoundTripEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, FrameError, nil); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	typ, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if typ != FrameError || len(got) != 0 {
		t.Fatalf("got type=%v payload=%q", typ, got)
	}
}

func TestReadFrameInvalidMagic(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, headerSize))
	if _, _, err := ReadFrame(buf); err != ErrInvalidMagic {
		t.Fatalf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	WriteFrame(&buf, FrameData, []byte("abcdef"))
	truncated := buf.Bytes()[:headerSize+2]
	if _, _, err := ReadFrame(bytes.NewReader(truncated)); err != ErrShortPayload {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
}

func TestDataEncodeDecodeRoundTrip(t *testing.T) {
	line := "screen 0: 1920x1080 scale=1.00"
	got := DecodeData(EncodeData(line))
	if got != line {
		t.Fatalf("got %q, want %q", got, line)
	}
}

func TestDataEncodeTruncatesToMaxLine(t *testing.T) {
	long := bytes.Repeat([]byte("x"), maxDataLine+100)
	encoded := EncodeData(string(long))
	if len(encoded) != maxDataLine {
		t.Fatalf("encoded length = %d, want %d", len(encoded), maxDataLine)
	}
}

func TestErrorEncodeDecodeRoundTrip(t *testing.T) {
	for _, errno := range []int32{0, 2, 22, 39} {
		got, err := DecodeError(EncodeError(errno))
		if err != nil {
			t.Fatalf("DecodeError: %v", err)
		}
		if got != errno {
			t.Fatalf("got %d, want %d", got, errno)
		}
	}
}

func TestDecodeErrorShortPayload(t *testing.T) {
	if _, err := DecodeError([]byte{1, 2}); err != ErrShortPayload {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
}

func TestCommandEncodeDecodeRoundTrip(t *testing.T) {
	cmd := Command{Domain: "client", Verb: "resize", Args: []string{"east", "10"}}
	got, err := DecodeCommand(EncodeCommand(cmd))
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if got.Domain != cmd.Domain || got.Verb != cmd.Verb || len(got.Args) != 2 ||
		got.Args[0] != "east" || got.Args[1] != "10" {
		t.Fatalf("got %+v, want %+v", got, cmd)
	}
}

func TestCommandEncodeDecodeNoArgs(t *testing.T) {
	cmd := Command{Domain: "tree", Verb: "rotate"}
	got, err := DecodeCommand(EncodeCommand(cmd))
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if got.Domain != "tree" || got.Verb != "rotate" || len(got.Args) != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeCommandShortPayload(t *testing.T) {
	if _, err := DecodeCommand([]byte("onlyonefield\x00")); err != ErrShortPayload {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
}
