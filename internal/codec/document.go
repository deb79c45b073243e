package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the text document syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

var ErrUnknownFormat = errors.New("codec: unknown text format")

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Document is a parsed text object addressed by external key. Nested
// documents remember their dotted path for error reporting.
type Document struct {
	path   string
	fields map[string]any
}

// ParseDocument parses b as a single top-level object in format f.
func ParseDocument(b []byte, f Format) (Document, error) {
	if !utf8.Valid(b) {
		return Document{}, InvalidEncoding(errors.New("input is not valid UTF-8"))
	}
	var root any
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(b, &root); err != nil {
			return Document{}, InvalidEncoding(err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("empty document")
			}
			return Document{}, InvalidEncoding(err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errors.New("more than one document in stream")
			}
			return Document{}, InvalidEncoding(err)
		}
	default:
		return Document{}, InvalidEncoding(fmt.Errorf("%w: %d", ErrUnknownFormat, int(f)))
	}
	fields, ok := asObject(root)
	if !ok {
		return Document{}, InvalidEncoding(fmt.Errorf("top-level value is %s, not an object", typeName(root)))
	}
	return Document{fields: fields}, nil
}

// Path returns the dotted external path of key within d.
func (d Document) Path(key string) string {
	if d.path == "" {
		return key
	}
	return d.path + "." + key
}

// Has reports whether key is present. A present key may still hold null.
func (d Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// Object returns the nested object stored under key.
func (d Document) Object(key string) (Document, error) {
	raw, ok := d.fields[key]
	if !ok {
		return Document{}, MissingField(d.Path(key))
	}
	fields, ok := asObject(raw)
	if !ok {
		return Document{}, TypeMismatch(d.Path(key), "object", typeName(raw))
	}
	return Document{path: d.Path(key), fields: fields}, nil
}

// String returns the text value stored under key.
func (d Document) String(key string) (string, error) {
	raw, ok := d.fields[key]
	if !ok {
		return "", MissingField(d.Path(key))
	}
	s, ok := raw.(string)
	if !ok {
		return "", TypeMismatch(d.Path(key), "string", typeName(raw))
	}
	return s, nil
}

// Bool returns the boolean value stored under key.
func (d Document) Bool(key string) (bool, error) {
	raw, ok := d.fields[key]
	if !ok {
		return false, MissingField(d.Path(key))
	}
	v, ok := raw.(bool)
	if !ok {
		return false, TypeMismatch(d.Path(key), "boolean", typeName(raw))
	}
	return v, nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case map[any]any:
		return "object with non-string keys"
	default:
		return fmt.Sprintf("%T", v)
	}
}
