package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const HeaderLen = 7

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrFieldTooLarge    = errors.New("tlv: field value too large")
	ErrTypeMismatch     = errors.New("tlv: field type mismatch")
	ErrInvalidLength    = errors.New("tlv: invalid length")
	ErrInvalidBool      = errors.New("tlv: invalid bool value")
)

// Type IDs.
const (
	TypeU8     uint8 = 1
	TypeString uint8 = 6
	TypeBytes  uint8 = 7
	TypeEnum   uint8 = 8
	TypeObject uint8 = 9
)

// Field is one decoded TLV field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

// String creates a string field.
func String(id uint16, v string) Field {
	return Field{ID: id, Type: TypeString, Value: []byte(v)}
}

// Bool creates a one-byte u8 field holding 0 or 1.
func Bool(id uint16, v bool) Field {
	var b byte
	if v {
		b = 1
	}
	return Field{ID: id, Type: TypeU8, Value: []byte{b}}
}

// Enum creates a one-byte tagged discriminant field.
func Enum(id uint16, tag uint8) Field {
	return Field{ID: id, Type: TypeEnum, Value: []byte{tag}}
}

// Object creates a field whose value is the encoding of nested fields.
func Object(id uint16, fields []Field) (Field, error) {
	payload, err := EncodeFields(fields)
	if err != nil {
		return Field{}, err
	}
	return Field{ID: id, Type: TypeObject, Value: payload}, nil
}

// Str returns the field value as string.
func (f Field) Str() (string, error) {
	if err := MustType(f, TypeString); err != nil {
		return "", err
	}
	return string(f.Value), nil
}

// BoolValue returns the value of a field built by Bool.
func (f Field) BoolValue() (bool, error) {
	if err := MustType(f, TypeU8); err != nil {
		return false, err
	}
	if len(f.Value) != 1 {
		return false, ErrInvalidLength
	}
	switch f.Value[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: field %d holds %d", ErrInvalidBool, f.ID, f.Value[0])
	}
}

// EnumValue returns the discriminant carried by an enum field.
func (f Field) EnumValue() (uint8, error) {
	if err := MustType(f, TypeEnum); err != nil {
		return 0, err
	}
	if len(f.Value) != 1 {
		return 0, ErrInvalidLength
	}
	return f.Value[0], nil
}

// Fields decodes the nested fields of an object field.
func (f Field) Fields() ([]Field, error) {
	if err := MustType(f, TypeObject); err != nil {
		return nil, err
	}
	return DecodeFields(f.Value)
}

func EncodeField(f Field) ([]byte, error) {
	if uint64(len(f.Value)) > uint64(^uint32(0)) {
		return nil, ErrFieldTooLarge
	}
	buf := make([]byte, HeaderLen+len(f.Value))
	binary.BigEndian.PutUint16(buf[0:2], f.ID)
	buf[2] = f.Type
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(f.Value)))
	copy(buf[7:], f.Value)
	return buf, nil
}

func EncodeFields(fields []Field) ([]byte, error) {
	size := 0
	for _, f := range fields {
		size += HeaderLen + len(f.Value)
	}
	out := make([]byte, 0, size)
	for _, f := range fields {
		b, err := EncodeField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0, 4)
	i := 0
	for i < len(payload) {
		if len(payload)-i < HeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := binary.BigEndian.Uint16(payload[i : i+2])
		typeID := payload[i+2]
		l := binary.BigEndian.Uint32(payload[i+3 : i+7])
		i += HeaderLen
		if uint64(len(payload)-i) < uint64(l) {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func GetField(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func MustType(f Field, expected uint8) error {
	if f.Type != expected {
		return fmt.Errorf("%w: field %d got %d want %d", ErrTypeMismatch, f.ID, f.Type, expected)
	}
	return nil
}
