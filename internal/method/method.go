// Package method owns the closed set of HTTP request verbs and their
// canonical tokens.
//
// The vocabulary is fixed: nine verbs, exact uppercase tokens, no aliases.
package method

import (
	"errors"
	"fmt"
)

// Method is one of the nine HTTP verbs. The zero value is not a verb.
type Method uint8

const (
	GET Method = iota + 1
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var (
	ErrUnknownMethod    = errors.New("method: unknown method")
	ErrUnhandledVariant = errors.New("method: unhandled variant")
	ErrUnknownTag       = errors.New("method: unknown discriminant")
)

// ParseError reports a token outside the nine canonical verbs.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("method: unknown method %q", e.Token)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// UnhandledVariantError reports a Method value with no canonical token.
type UnhandledVariantError struct {
	Value uint8
}

func (e UnhandledVariantError) Error() string {
	return fmt.Sprintf("method: unhandled variant %d", e.Value)
}

func (e UnhandledVariantError) Is(target error) bool {
	return target == ErrUnhandledVariant
}

// All returns every verb in declaration order.
func All() []Method {
	return []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}
}

// Canonical returns the exact uppercase token for m.
func Canonical(m Method) (string, error) {
	switch m {
	case GET:
		return "GET", nil
	case HEAD:
		return "HEAD", nil
	case POST:
		return "POST", nil
	case PUT:
		return "PUT", nil
	case DELETE:
		return "DELETE", nil
	case CONNECT:
		return "CONNECT", nil
	case OPTIONS:
		return "OPTIONS", nil
	case TRACE:
		return "TRACE", nil
	case PATCH:
		return "PATCH", nil
	}
	return "", UnhandledVariantError{Value: uint8(m)}
}

// Parse maps a canonical token back to its verb. Matching is exact and
// case-sensitive.
func Parse(token string) (Method, error) {
	switch token {
	case "GET":
		return GET, nil
	case "HEAD":
		return HEAD, nil
	case "POST":
		return POST, nil
	case "PUT":
		return PUT, nil
	case "DELETE":
		return DELETE, nil
	case "CONNECT":
		return CONNECT, nil
	case "OPTIONS":
		return OPTIONS, nil
	case "TRACE":
		return TRACE, nil
	case "PATCH":
		return PATCH, nil
	}
	return 0, &ParseError{Token: token}
}

// Valid reports whether m is one of the nine verbs.
func (m Method) Valid() bool {
	_, err := Canonical(m)
	return err == nil
}

func (m Method) String() string {
	s, err := Canonical(m)
	if err != nil {
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
	return s
}

func (m Method) MarshalText() ([]byte, error) {
	s, err := Canonical(m)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Discriminant is the one-byte binary tag for m.
func (m Method) Discriminant() (uint8, error) {
	if !m.Valid() {
		return 0, UnhandledVariantError{Value: uint8(m)}
	}
	return uint8(m), nil
}

// FromDiscriminant is the inverse of Discriminant.
func FromDiscriminant(tag uint8) (Method, error) {
	m := Method(tag)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
	return m, nil
}
