package codec

import (
	"errors"
	"fmt"

	"github.com/danmuck/reqwire/internal/observability"
)

// Kind classifies a DecodeError.
type Kind int

const (
	KindInvalidEncoding Kind = iota + 1
	KindMissingField
	KindTypeMismatch
	KindUnknownMethod
	KindCorruptBinary
)

var (
	ErrInvalidEncoding = errors.New("codec: invalid encoding")
	ErrMissingField    = errors.New("codec: missing field")
	ErrTypeMismatch    = errors.New("codec: type mismatch")
	ErrUnknownMethod   = errors.New("codec: unknown method")
	ErrCorruptBinary   = errors.New("codec: corrupt binary")

	ErrAllocationFailure = errors.New("codec: allocation failure")
	ErrInvalidValue      = errors.New("codec: invalid value")

	ErrRoundTripMismatch = errors.New("codec: round-trip mismatch")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEncoding:
		return "invalid_encoding"
	case KindMissingField:
		return "missing_field"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindUnknownMethod:
		return "unknown_method"
	case KindCorruptBinary:
		return "corrupt_binary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidEncoding:
		return ErrInvalidEncoding
	case KindMissingField:
		return ErrMissingField
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindUnknownMethod:
		return ErrUnknownMethod
	case KindCorruptBinary:
		return ErrCorruptBinary
	default:
		return nil
	}
}

// DecodeError is returned by every decode operation.
//
// Field is the dotted external key path of the offending field, when there is
// one. For KindTypeMismatch, Expected and Actual name the declared and found
// types. For KindUnknownMethod, Actual is the rejected token.
type DecodeError struct {
	Kind     Kind
	Field    string
	Expected string
	Actual   string
	Err      error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("codec: missing field %q", e.Field)
	case KindTypeMismatch:
		return fmt.Sprintf("codec: field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	case KindUnknownMethod:
		return fmt.Sprintf("codec: field %q: unknown method %q", e.Field, e.Actual)
	}
	msg := "codec: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel for e.Kind. An unknown method is also a type
// mismatch on a method-typed field.
func (e *DecodeError) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}
	return e.Kind == KindUnknownMethod && target == ErrTypeMismatch
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func InvalidEncoding(err error) *DecodeError {
	return &DecodeError{Kind: KindInvalidEncoding, Err: err}
}

func MissingField(field string) *DecodeError {
	return &DecodeError{Kind: KindMissingField, Field: field}
}

func TypeMismatch(field, expected, actual string) *DecodeError {
	return &DecodeError{Kind: KindTypeMismatch, Field: field, Expected: expected, Actual: actual}
}

func UnknownMethod(field, token string, err error) *DecodeError {
	return &DecodeError{Kind: KindUnknownMethod, Field: field, Expected: "method", Actual: token, Err: err}
}

func CorruptBinary(err error) *DecodeError {
	return &DecodeError{Kind: KindCorruptBinary, Err: err}
}

// EncodeKind classifies an EncodeError.
type EncodeKind int

const (
	KindAllocationFailure EncodeKind = iota + 1
	// KindInvalidValue covers values that are not fully constructed, such as a
	// zero Method.
	KindInvalidValue
)

func (k EncodeKind) String() string {
	switch k {
	case KindAllocationFailure:
		return "allocation_failure"
	case KindInvalidValue:
		return "invalid_value"
	default:
		return fmt.Sprintf("encode_kind(%d)", int(k))
	}
}

// EncodeError is returned by encode operations.
type EncodeError struct {
	Kind EncodeKind
	Err  error
}

func (e *EncodeError) Error() string {
	msg := "codec: encode: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodeError) Is(target error) bool {
	switch e.Kind {
	case KindAllocationFailure:
		return target == ErrAllocationFailure
	case KindInvalidValue:
		return target == ErrInvalidValue
	}
	return false
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func AllocationFailure(err error) *EncodeError {
	return &EncodeError{Kind: KindAllocationFailure, Err: err}
}

func InvalidValue(err error) *EncodeError {
	return &EncodeError{Kind: KindInvalidValue, Err: err}
}

// Outcome is the label used for err in logs and metrics.
func Outcome(err error) string {
	if err == nil {
		return observability.OutcomeOK
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Kind.String()
	}
	if errors.Is(err, ErrRoundTripMismatch) {
		return "round_trip_mismatch"
	}
	return "error"
}
