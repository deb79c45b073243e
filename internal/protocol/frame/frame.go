package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const HeaderLen = 12

const (
	Magic   uint32 = 0x52515731 // "RQW1"
	Version uint16 = 1
)

var (
	ErrShortHeader        = errors.New("frame: short fixed header")
	ErrInvalidMagic       = errors.New("frame: invalid magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported version")
	ErrPayloadTooLarge    = errors.New("frame: payload too large")
	ErrPayloadLenMismatch = errors.New("frame: payload_len does not match buffer")
)

// Header is the fixed envelope preceding every encoded record.
type Header struct {
	Magic      uint32
	Version    uint16
	Kind       uint16
	PayloadLen uint32
}

// Frame is one complete encoded record.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

// Encode returns the envelope for kind followed by payload.
func Encode(kind uint16, payload []byte, limits Limits) ([]byte, error) {
	if uint64(len(payload)) > uint64(limits.MaxPayloadBytes) {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, HeaderLen+len(payload))
	EncodeHeader(buf[:HeaderLen], Header{
		Magic:      Magic,
		Version:    Version,
		Kind:       kind,
		PayloadLen: uint32(len(payload)),
	})
	copy(buf[HeaderLen:], payload)
	return buf, nil
}

// Decode parses a single frame that must span all of b. The returned payload
// is a copy.
func Decode(b []byte, limits Limits) (Frame, error) {
	if len(b) < HeaderLen {
		return Frame{}, ErrShortHeader
	}
	h := DecodeHeader(b[:HeaderLen])
	if h.Magic != Magic {
		return Frame{}, ErrInvalidMagic
	}
	if h.Version != Version {
		return Frame{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}
	rest := b[HeaderLen:]
	if uint64(len(rest)) != uint64(h.PayloadLen) {
		return Frame{}, fmt.Errorf("%w: header=%d actual=%d", ErrPayloadLenMismatch, h.PayloadLen, len(rest))
	}
	payload := make([]byte, len(rest))
	copy(payload, rest)
	return Frame{Header: h, Payload: payload}, nil
}

func EncodeHeader(buf []byte, h Header) {
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	binary.BigEndian.PutUint16(buf[6:8], h.Kind)
	binary.BigEndian.PutUint32(buf[8:12], h.PayloadLen)
}

func DecodeHeader(b []byte) Header {
	return Header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Kind:       binary.BigEndian.Uint16(b[6:8]),
		PayloadLen: binary.BigEndian.Uint32(b[8:12]),
	}
}
