package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/reqwire/internal/protocol/tlv"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload, err := tlv.EncodeFields([]tlv.Field{tlv.String(1, "test")})
	if err != nil {
		t.Fatalf("encode fields: %v", err)
	}
	b, err := Encode(7, payload, DefaultLimits())
	if err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	out, err := Decode(b, DefaultLimits())
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if out.Header.Magic != Magic || out.Header.Version != Version || out.Header.Kind != 7 {
		t.Fatalf("header mismatch: %+v", out.Header)
	}
	if int(out.Header.PayloadLen) != len(payload) || !bytes.Equal(out.Payload, payload) {
		t.Fatalf("payload mismatch")
	}
	b[HeaderLen] ^= 0xFF
	if out.Payload[0] == b[HeaderLen] {
		t.Fatalf("decoded payload aliases input buffer")
	}
}

func TestDecodeShortHeader(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	b, _ := Encode(1, nil, DefaultLimits())
	b[0] = 0
	_, err := Decode(b, DefaultLimits())
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	buf := make([]byte, HeaderLen)
	EncodeHeader(buf, Header{Magic: Magic, Version: Version + 1, Kind: 1})
	_, err := Decode(buf, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeTruncatedAndTrailing(t *testing.T) {
	b, _ := Encode(1, []byte("abcd"), DefaultLimits())
	if _, err := Decode(b[:len(b)-1], DefaultLimits()); !errors.Is(err, ErrPayloadLenMismatch) {
		t.Fatalf("expected ErrPayloadLenMismatch on truncation, got %v", err)
	}
	if _, err := Decode(append(b, 0), DefaultLimits()); !errors.Is(err, ErrPayloadLenMismatch) {
		t.Fatalf("expected ErrPayloadLenMismatch on trailing bytes, got %v", err)
	}
}

func TestLimitsEnforced(t *testing.T) {
	small := Limits{MaxPayloadBytes: 2}
	if _, err := Encode(1, []byte("abc"), small); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on encode, got %v", err)
	}
	b, _ := Encode(1, []byte("abc"), DefaultLimits())
	if _, err := Decode(b, small); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on decode, got %v", err)
	}
}
