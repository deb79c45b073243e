package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentJSON(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a": {"b": "c"}, "n": 1, "z": null}`), FormatJSON)
	require.NoError(t, err)

	nested, err := doc.Object("a")
	require.NoError(t, err)
	v, err := nested.String("b")
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	assert.True(t, doc.Has("z"))

	t.Run("missing nested key carries path", func(t *testing.T) {
		_, err := nested.String("missing")
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, KindMissingField, de.Kind)
		assert.Equal(t, "a.missing", de.Field)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("type mismatches name both types", func(t *testing.T) {
		cases := []struct {
			key, expected, actual string
			object                bool
		}{
			{key: "n", expected: "string", actual: "number"},
			{key: "z", expected: "string", actual: "null"},
			{key: "a", expected: "string", actual: "object"},
			{key: "n", expected: "object", actual: "number", object: true},
		}
		for _, tc := range cases {
			var err error
			if tc.object {
				_, err = doc.Object(tc.key)
			} else {
				_, err = doc.String(tc.key)
			}
			var de *DecodeError
			require.ErrorAs(t, err, &de, tc.key)
			assert.Equal(t, KindTypeMismatch, de.Kind)
			assert.Equal(t, tc.key, de.Field)
			assert.Equal(t, tc.expected, de.Expected)
			assert.Equal(t, tc.actual, de.Actual)
		}
	})
}

func TestParseDocumentYAML(t *testing.T) {
	src := "headers:\n  Content-Type: text/plain\nmethod: GET\ncount: 3\n"
	doc, err := ParseDocument([]byte(src), FormatYAML)
	require.NoError(t, err)

	h, err := doc.Object("headers")
	require.NoError(t, err)
	ct, err := h.String("Content-Type")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)

	_, err = doc.String("count")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ParseDocument([]byte("---\nmethod: GET\n"), FormatYAML)
	assert.NoError(t, err, "a single document with an explicit start marker is accepted")
}

func TestDocumentBool(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"on": true, "off": false, "text": "true"}`), FormatJSON)
	require.NoError(t, err)

	v, err := doc.Bool("on")
	require.NoError(t, err)
	assert.True(t, v)
	v, err = doc.Bool("off")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = doc.Bool("text")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "boolean", de.Expected)
	assert.Equal(t, "string", de.Actual)

	_, err = doc.Bool("missing")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.False(t, doc.Has("missing"))
}

func TestParseDocumentInvalidEncoding(t *testing.T) {
	cases := map[string]struct {
		in     []byte
		format Format
	}{
		"not utf8":        {in: []byte{'{', '"', 0xff, '"', ':', '1', '}'}, format: FormatJSON},
		"malformed json":  {in: []byte(`{"method": "GET"`), format: FormatJSON},
		"trailing data":   {in: []byte(`{} {}`), format: FormatJSON},
		"array top level": {in: []byte(`["GET"]`), format: FormatJSON},
		"scalar yaml":     {in: []byte("just text\n"), format: FormatYAML},
		"empty yaml":      {in: []byte(""), format: FormatYAML},
		"malformed yaml":  {in: []byte("a: [b\n"), format: FormatYAML},
		"multi document yaml": {
			in:     []byte("method: GET\nbody:\n  user: u\n---\nmethod: FOO\n"),
			format: FormatYAML,
		},
		"yaml trailing garbage": {in: []byte("method: GET\n---\na: [b\n"), format: FormatYAML},
		"unknown format":        {in: []byte(`{}`), format: Format(9)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument(tc.in, tc.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEncoding)
			assert.False(t, errors.Is(err, ErrMissingField))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "yaml", FormatYAML.String())
}
