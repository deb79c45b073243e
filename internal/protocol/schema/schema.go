package schema

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/reqwire/internal/protocol/tlv"
)

// Record kinds carried in the frame header.
const (
	KindRequest uint16 = 1
)

// Shape IDs name each composite that owns a field table.
const (
	ShapeRequest uint16 = 1
	ShapeHeaders uint16 = 2
	ShapeBody    uint16 = 3
)

// Field IDs. Each shape owns its own range.
const (
	FieldHeaders uint16 = 1
	FieldMethod  uint16 = 2
	FieldBody    uint16 = 3

	FieldContentType                   uint16 = 100
	FieldAuthorization                 uint16 = 101
	FieldAccept                        uint16 = 102
	FieldAcceptCharset                 uint16 = 103
	FieldAcceptLanguage                uint16 = 104
	FieldAcceptRanges                  uint16 = 105
	FieldAcceptEncoding                uint16 = 106
	FieldAccessControlAllowHeaders     uint16 = 107
	FieldAccessControlAllowMethods     uint16 = 108
	FieldAccessControlAllowOrigin      uint16 = 109
	FieldAccessControlExposeHeaders    uint16 = 110
	FieldAccessControlMaxAge           uint16 = 111
	FieldAccessControlRequestHeaders   uint16 = 112
	FieldAccessControlAllowCredentials uint16 = 113
	FieldAccessControlRequestMethod    uint16 = 114

	FieldUser uint16 = 200
)

// Requirement declares one known field of a shape. Optional fields may be
// absent but are still type checked and may not repeat.
type Requirement struct {
	ID       uint16
	Type     uint8
	Optional bool
}

type ValidationError struct {
	Shape   uint16
	FieldID uint16
	Reason  string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("schema: shape=%d: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("schema: shape=%d field=%d: %s", e.Shape, e.FieldID, e.Reason)
}

var requirements = map[uint16][]Requirement{
	ShapeRequest: {
		{FieldHeaders, tlv.TypeObject, false},
		{FieldMethod, tlv.TypeEnum, false},
		{FieldBody, tlv.TypeObject, false},
	},
	ShapeHeaders: {
		{FieldContentType, tlv.TypeString, false},
		{FieldAuthorization, tlv.TypeString, false},
		{FieldAccept, tlv.TypeString, true},
		{FieldAcceptCharset, tlv.TypeString, true},
		{FieldAcceptLanguage, tlv.TypeString, true},
		{FieldAcceptRanges, tlv.TypeString, true},
		{FieldAcceptEncoding, tlv.TypeString, true},
		{FieldAccessControlAllowHeaders, tlv.TypeString, true},
		{FieldAccessControlAllowMethods, tlv.TypeString, true},
		{FieldAccessControlAllowOrigin, tlv.TypeString, true},
		{FieldAccessControlExposeHeaders, tlv.TypeString, true},
		{FieldAccessControlMaxAge, tlv.TypeString, true},
		{FieldAccessControlRequestHeaders, tlv.TypeString, true},
		{FieldAccessControlAllowCredentials, tlv.TypeU8, true},
		{FieldAccessControlRequestMethod, tlv.TypeEnum, true},
	},
	ShapeBody: {
		{FieldUser, tlv.TypeString, false},
	},
}

// Validate enforces required fields and known field types for a shape.
// Unknown fields are ignored. A known field that appears twice is rejected.
func Validate(shape uint16, fields []tlv.Field) error {
	log.Trace().Uint16("shape", shape).Int("fields", len(fields)).Msg("schema.Validate")
	reqs, ok := requirements[shape]
	if !ok {
		log.Error().Uint16("shape", shape).Msg("schema.Validate unknown shape")
		return ValidationError{Shape: shape, Reason: "unknown shape"}
	}
	for _, req := range reqs {
		count := 0
		var f tlv.Field
		for _, candidate := range fields {
			if candidate.ID == req.ID {
				f = candidate
				count++
			}
		}
		switch {
		case count == 0 && req.Optional:
			continue
		case count == 0:
			log.Debug().Uint16("shape", shape).Uint16("field_id", req.ID).Msg("schema.Validate missing field")
			return ValidationError{Shape: shape, FieldID: req.ID, Reason: "missing required field"}
		case count > 1:
			log.Debug().Uint16("shape", shape).Uint16("field_id", req.ID).Msg("schema.Validate duplicate field")
			return ValidationError{Shape: shape, FieldID: req.ID, Reason: "duplicate field"}
		}
		if f.Type != req.Type {
			log.Debug().
				Uint16("shape", shape).
				Uint16("field_id", req.ID).
				Uint8("got", f.Type).
				Uint8("want", req.Type).
				Msg("schema.Validate type mismatch")
			return ValidationError{Shape: shape, FieldID: req.ID, Reason: "type mismatch"}
		}
	}
	return nil
}
