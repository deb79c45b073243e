package codec

import "fmt"

// KeyPair binds an internal field identifier to its external text key.
type KeyPair struct {
	Field string
	Key   string
}

// KeyMap is the ordered (field -> key) table of one composite type. Its order
// is the key order used when encoding text.
type KeyMap struct {
	pairs []KeyPair
}

// NewKeyMap builds a table from static pairs. It panics on an empty or
// repeated field or key.
func NewKeyMap(pairs ...KeyPair) KeyMap {
	fields := make(map[string]struct{}, len(pairs))
	keys := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.Field == "" || p.Key == "" {
			panic(fmt.Sprintf("codec: empty key pair %+v", p))
		}
		if _, dup := fields[p.Field]; dup {
			panic(fmt.Sprintf("codec: duplicate field %q", p.Field))
		}
		if _, dup := keys[p.Key]; dup {
			panic(fmt.Sprintf("codec: duplicate key %q", p.Key))
		}
		fields[p.Field] = struct{}{}
		keys[p.Key] = struct{}{}
	}
	out := make([]KeyPair, len(pairs))
	copy(out, pairs)
	return KeyMap{pairs: out}
}

// Pairs returns the table in order.
func (m KeyMap) Pairs() []KeyPair {
	out := make([]KeyPair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Key returns the external key for field.
func (m KeyMap) Key(field string) (string, bool) {
	for _, p := range m.pairs {
		if p.Field == field {
			return p.Key, true
		}
	}
	return "", false
}

// MustKey is Key for fields known to be in the table.
func (m KeyMap) MustKey(field string) string {
	key, ok := m.Key(field)
	if !ok {
		panic(fmt.Sprintf("codec: no key for field %q", field))
	}
	return key
}
