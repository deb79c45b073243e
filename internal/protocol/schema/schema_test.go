package schema

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/reqwire/internal/protocol/tlv"
	"github.com/danmuck/reqwire/internal/testutil/testlog"
)

func headerFields() []tlv.Field {
	return []tlv.Field{
		tlv.String(FieldContentType, "application/json"),
		tlv.String(FieldAuthorization, "Basis 1ddmcdd"),
	}
}

func TestValidateHeadersRequiredFields(t *testing.T) {
	testlog.Start(t)
	if err := Validate(ShapeHeaders, headerFields()); err != nil {
		t.Fatalf("validate headers: %v", err)
	}
}

func TestValidateUnknownFieldsIgnored(t *testing.T) {
	testlog.Start(t)
	fields := append(headerFields(), tlv.Field{ID: 9999, Type: tlv.TypeBytes, Value: []byte{0x01}})
	if err := Validate(ShapeHeaders, fields); err != nil {
		t.Fatalf("validate with unknown field: %v", err)
	}
}

func TestValidateMissingRequiredDeterministic(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{tlv.String(FieldContentType, "application/json")}
	err := Validate(ShapeHeaders, fields)
	if err == nil {
		t.Fatalf("expected error")
	}
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.FieldID != FieldAuthorization || ve.Reason != "missing required field" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateTypeMismatchDeterministic(t *testing.T) {
	testlog.Start(t)
	fields := []tlv.Field{
		{ID: FieldHeaders, Type: tlv.TypeObject},
		tlv.String(FieldMethod, "POST"),
		{ID: FieldBody, Type: tlv.TypeObject},
	}
	err := Validate(ShapeRequest, fields)
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.FieldID != FieldMethod || ve.Reason != "type mismatch" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestValidateDuplicateRejected(t *testing.T) {
	testlog.Start(t)
	fields := append(headerFields(), tlv.String(FieldContentType, "text/plain"))
	ve, ok := Validate(ShapeHeaders, fields).(ValidationError)
	if !ok || ve.FieldID != FieldContentType || ve.Reason != "duplicate field" {
		t.Fatalf("unexpected validation result: %+v", ve)
	}
}

func TestValidateUnknownShape(t *testing.T) {
	testlog.Start(t)
	ve, ok := Validate(77, nil).(ValidationError)
	if !ok || ve.Reason != "unknown shape" {
		t.Fatalf("unexpected validation result: %+v", ve)
	}
}

func TestValidateOptionalHeaders(t *testing.T) {
	testlog.Start(t)
	fields := append(headerFields(),
		tlv.String(FieldAccept, "*/*"),
		tlv.Bool(FieldAccessControlAllowCredentials, true),
		tlv.Enum(FieldAccessControlRequestMethod, 3),
	)
	if err := Validate(ShapeHeaders, fields); err != nil {
		t.Fatalf("validate optional headers: %v", err)
	}

	cases := map[string]struct {
		field  tlv.Field
		reason string
	}{
		"credentials as string": {
			field:  tlv.String(FieldAccessControlAllowCredentials, "true"),
			reason: "type mismatch",
		},
		"request method as string": {
			field:  tlv.String(FieldAccessControlRequestMethod, "GET"),
			reason: "type mismatch",
		},
		"repeated accept": {
			field:  tlv.String(FieldAccept, "text/html"),
			reason: "duplicate field",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := append(headerFields(), tlv.String(FieldAccept, "*/*"), tc.field)
			ve, ok := Validate(ShapeHeaders, in).(ValidationError)
			if !ok || ve.Reason != tc.reason || ve.FieldID != tc.field.ID {
				t.Fatalf("unexpected validation result: %+v", ve)
			}
		})
	}
}

func TestValidateIsQuietAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	if err := Validate(ShapeHeaders, headerFields()); err != nil {
		t.Fatalf("validate headers: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("successful validation logged at debug: %s", buf.String())
	}
}
