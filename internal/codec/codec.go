// Package codec defines the text/binary codec contract shared by every record
// type, together with its error taxonomy and the text document layer.
//
// Ownership boundary:
// - Codec interface and round-trip helper
// - decode/encode error kinds
// - external key tables and generic text documents
//
// Concrete record types live in their own packages and implement Codec.
package codec

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/reqwire/internal/observability"
)

// Codec converts values of T between the text document form and the binary
// form. Implementations hold no mutable state and never retain input buffers,
// so a single Codec may be used from many goroutines.
type Codec[T any] interface {
	// Name identifies the record type in logs and metrics.
	Name() string
	// DecodeText parses a text document into a T.
	DecodeText(b []byte) (T, error)
	// EncodeText renders v as a text document in a fixed key order.
	EncodeText(v T) ([]byte, error)
	// EncodeBinary renders v in the tagged binary layout. Equal values
	// produce identical bytes.
	EncodeBinary(v T) ([]byte, error)
	// DecodeBinary is the inverse of EncodeBinary.
	DecodeBinary(b []byte) (T, error)
}

// Observe records the outcome of one codec call and returns err unchanged.
// size is the input length for decodes and the output length for encodes.
func Observe(name, op string, size int, err error) error {
	outcome := Outcome(err)
	if err != nil {
		log.Debug().
			Err(err).
			Str("codec", name).
			Str("op", op).
			Str("kind", outcome).
			Msg("codec call failed")
	}
	observability.RecordCodecOp(name, op, outcome, size)
	return err
}

// RoundTrip decodes text, passes the value through its binary form and checks
// that the binary-decoded value equals the text-decoded one. It returns the
// decoded value and the binary encoding.
func RoundTrip[T comparable](c Codec[T], text []byte) (T, []byte, error) {
	var zero T
	v, err := c.DecodeText(text)
	if err != nil {
		return zero, nil, err
	}
	bin, err := c.EncodeBinary(v)
	if err != nil {
		return zero, nil, err
	}
	back, err := c.DecodeBinary(bin)
	if err != nil {
		return zero, nil, err
	}
	if back != v {
		mismatch := fmt.Errorf("%w: %s", ErrRoundTripMismatch, c.Name())
		return zero, nil, Observe(c.Name(), "round_trip", len(text), mismatch)
	}
	return v, bin, nil
}
