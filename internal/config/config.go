package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/reqwire/internal/codec"
	"github.com/danmuck/reqwire/internal/logging"
	"github.com/danmuck/reqwire/internal/protocol/frame"
)

// Config controls how reqwirectl reads, bounds and renders records.
type Config struct {
	Format          codec.Format
	MaxInputBytes   int64
	MaxPayloadBytes uint32
	LogLevel        string
}

type fileConfig struct {
	Format          string `toml:"format"`
	MaxInputBytes   int64  `toml:"max_input_bytes"`
	MaxPayloadBytes int64  `toml:"max_payload_bytes"`
	LogLevel        string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Format:          codec.FormatJSON,
		MaxInputBytes:   1 << 20,
		MaxPayloadBytes: frame.DefaultLimits().MaxPayloadBytes,
		LogLevel:        "info",
	}
}

// Load reads path and applies every key it defines onto Default().
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("format") {
		f, err := codec.ParseFormat(raw.Format)
		if err != nil {
			return Config{}, fmt.Errorf("parse format: %w", err)
		}
		cfg.Format = f
	}

	if meta.IsDefined("max_input_bytes") {
		cfg.MaxInputBytes = raw.MaxInputBytes
	}

	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes < 0 || raw.MaxPayloadBytes > int64(^uint32(0)) {
			return Config{}, fmt.Errorf("max_payload_bytes out of range: %d", raw.MaxPayloadBytes)
		}
		cfg.MaxPayloadBytes = uint32(raw.MaxPayloadBytes)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("config max_input_bytes must be positive")
	}
	if c.MaxPayloadBytes == 0 {
		return fmt.Errorf("config max_payload_bytes must be positive")
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("config log_level invalid: %q", c.LogLevel)
	}
	return nil
}

// Limits returns the frame limits the codec should enforce.
func (c Config) Limits() frame.Limits {
	return frame.Limits{MaxPayloadBytes: c.MaxPayloadBytes}
}
