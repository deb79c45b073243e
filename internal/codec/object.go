package codec

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Object is a text object whose keys encode in insertion order.
type Object struct {
	keys   []string
	values []any
}

func NewObject() *Object {
	return &Object{}
}

// Set appends key with value v. Values are strings, booleans or nested
// *Object.
func (o *Object) Set(key string, v any) *Object {
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
	return o
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, key := range o.keys {
		var value yaml.Node
		if err := value.Encode(o.values[i]); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	return node, nil
}

// EncodeDocument renders o in format f.
func EncodeDocument(o *Object, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.Marshal(o)
	case FormatYAML:
		return yaml.Marshal(o)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
}
