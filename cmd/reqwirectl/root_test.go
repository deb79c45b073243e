package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/reqwire/internal/codec"
)

const sampleDoc = `{"headers": {"Content-Type": "application/json", "Authorization": "Basis 1ddmcdd"}, "method": "POST", "body": {"user": "test"}}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMethodsListsCanonicalTokens(t *testing.T) {
	out, err := run(t, "methods")
	require.NoError(t, err)
	assert.Equal(t, "GET\nHEAD\nPOST\nPUT\nDELETE\nCONNECT\nOPTIONS\nTRACE\nPATCH\n", out)
}

func TestEncodeThenDecodeHex(t *testing.T) {
	in := writeFile(t, "req.json", sampleDoc)
	out, err := run(t, "encode", in)
	require.NoError(t, err)
	_, err = hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)

	hexFile := writeFile(t, "req.hex", out)
	text, err := run(t, "decode", "--hex", hexFile)
	require.NoError(t, err)
	assert.Equal(t,
		`{"headers":{"Content-Type":"application/json","Authorization":"Basis 1ddmcdd"},"method":"POST","body":{"user":"test"}}`+"\n",
		text)
}

func TestEncodeToFileThenDecodeYAML(t *testing.T) {
	in := writeFile(t, "req.json", sampleDoc)
	bin := filepath.Join(t.TempDir(), "req.bin")
	_, err := run(t, "encode", "--out", bin, in)
	require.NoError(t, err)

	text, err := run(t, "--format", "yaml", "decode", bin)
	require.NoError(t, err)
	assert.Contains(t, text, "method: POST\n")
	assert.Contains(t, text, "Content-Type: application/json\n")
}

func TestRoundTrip(t *testing.T) {
	in := writeFile(t, "req.json", sampleDoc)
	out, err := run(t, "roundtrip", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `ok request POST user="test"`), out)
}

func TestDecodeFailuresAreTyped(t *testing.T) {
	in := writeFile(t, "req.json", strings.Replace(sampleDoc, `"POST"`, `"FOO"`, 1))
	_, err := run(t, "encode", in)
	assert.ErrorIs(t, err, codec.ErrUnknownMethod)

	assert.Equal(t, 2, exitCode(err))

	bad := writeFile(t, "bad.bin", "not a frame")
	_, err = run(t, "decode", bad)
	assert.ErrorIs(t, err, codec.ErrCorruptBinary)
	assert.Equal(t, 2, exitCode(err))

	_, err = run(t, "encode", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestConfigBoundsInput(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "max_input_bytes = 16\n")
	in := writeFile(t, "req.json", sampleDoc)
	_, err := run(t, "--config", cfgPath, "encode", in)
	assert.True(t, errors.Is(err, errInputTooLarge), "got %v", err)
}

func TestConfigTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqwire.toml")
	_, err := run(t, "config-template", path)
	require.NoError(t, err)
	_, err = run(t, "config-template", path)
	assert.Error(t, err)
	_, err = run(t, "config-template", "--force", path)
	require.NoError(t, err)

	in := writeFile(t, "req.json", sampleDoc)
	_, err = run(t, "--config", path, "roundtrip", in)
	require.NoError(t, err)
}

func TestUnknownFormatFlag(t *testing.T) {
	_, err := run(t, "--format", "xml", "methods")
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)
}
