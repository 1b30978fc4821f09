package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	StartByte      byte = 0x02
	EndByte        byte = 0x03
	MaxPayloadSize      = 4096

	// START + CMD + LEN(2) + END
	HeaderSize   = 4
	MinFrameSize = HeaderSize + 1
	MaxFrameSize = MinFrameSize + MaxPayloadSize
)

var (
	ErrShortFrame      = errors.New("frame shorter than declared")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrBadStart        = errors.New("frame does not begin with start byte")
	ErrBadEnd          = errors.New("end byte missing at declared position")
	ErrUnknownCommand  = errors.New("unknown command")
)

type Frame struct {
	Command Command
	Payload []byte
}

// Text returns the payload as a string.
func (f Frame) Text() string { return string(f.Payload) }

// Encode builds a wire frame for cmd and payload.
func Encode(cmd Command, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	out := make([]byte, MinFrameSize+len(payload))
	out[0] = StartByte
	out[1] = byte(cmd)
	binary.LittleEndian.PutUint16(out[2:4], uint16(len(payload)))
	copy(out[HeaderSize:], payload)
	out[len(out)-1] = EndByte
	return out, nil
}

// Decode parses the frame at the start of buf and reports how many bytes it
// occupies. ErrShortFrame means buf does not yet hold a whole frame. For
// ErrUnknownCommand the consumed count is still valid so callers can skip the
// frame; for every other error it is zero.
func Decode(buf []byte) (Frame, int, error) {
	if len(buf) < MinFrameSize {
		return Frame{}, 0, ErrShortFrame
	}
	if buf[0] != StartByte {
		return Frame{}, 0, ErrBadStart
	}

	length := int(binary.LittleEndian.Uint16(buf[2:4]))
	if length > MaxPayloadSize {
		return Frame{}, 0, fmt.Errorf("%w: declared %d bytes", ErrPayloadTooLarge, length)
	}

	total := MinFrameSize + length
	if len(buf) < total {
		return Frame{}, 0, ErrShortFrame
	}
	if buf[total-1] != EndByte {
		return Frame{}, 0, ErrBadEnd
	}

	cmd := Command(buf[1])
	if !cmd.Known() {
		return Frame{}, total, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, buf[1])
	}

	payload := make([]byte, length)
	copy(payload, buf[HeaderSize:total-1])
	return Frame{Command: cmd, Payload: payload}, total, nil
}

// MustEncode is Encode for payloads the server built itself; oversized text
// is truncated on a rune boundary instead of failing.
func MustEncode(cmd Command, payload []byte) []byte {
	frame, err := Encode(cmd, Truncate(payload, MaxPayloadSize))
	if err != nil {
		panic(err)
	}
	return frame
}

// Truncate cuts b to at most limit bytes without splitting a UTF-8 sequence.
func Truncate(b []byte, limit int) []byte {
	if len(b) <= limit {
		return b
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}
