package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/reqwire/internal/codec"
	"github.com/danmuck/reqwire/internal/config"
	"github.com/danmuck/reqwire/internal/logging"
	"github.com/danmuck/reqwire/internal/method"
	"github.com/danmuck/reqwire/internal/request"
)

var errInputTooLarge = errors.New("input exceeds max_input_bytes")

type options struct {
	configPath string
	format     string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "reqwirectl",
		Short:         "Convert request records between text documents and the binary wire form.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&opts.format, "format", "", "text format: json|yaml (overrides config)")

	root.AddCommand(
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newRoundTripCmd(opts),
		newMethodsCmd(),
		newConfigCmd(),
	)
	return root
}

func (o *options) load(cmd *cobra.Command) error {
	logging.ConfigureRuntime()
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("format") {
		f, err := codec.ParseFormat(o.format)
		if err != nil {
			return err
		}
		cfg.Format = f
	}
	logging.SetLevel(cfg.LogLevel)
	o.cfg = cfg
	log.Debug().
		Str("format", cfg.Format.String()).
		Int64("max_input_bytes", cfg.MaxInputBytes).
		Uint32("max_payload_bytes", cfg.MaxPayloadBytes).
		Msg("reqwirectl config")
	return nil
}

func (o *options) newCodec() *request.Codec {
	return request.NewCodec(
		request.WithFormat(o.cfg.Format),
		request.WithLimits(o.cfg.Limits()),
	)
}

// readInput reads path, refusing anything larger than limit bytes.
func readInput(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%s: %w (%d)", path, errInputTooLarge, limit)
	}
	return b, nil
}

func newEncodeCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encode <text-file>",
		Short: "Decode a text document and write its binary encoding.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0], opts.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			c := opts.newCodec()
			r, err := c.DecodeText(text)
			if err != nil {
				return err
			}
			bin, err := c.EncodeBinary(r)
			if err != nil {
				return err
			}
			if out != "" {
				return os.WriteFile(out, bin, 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bin))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write raw binary to this file instead of hex to stdout")
	return cmd
}

func newDecodeCmd(opts *options) *cobra.Command {
	var isHex bool
	cmd := &cobra.Command{
		Use:   "decode <binary-file>",
		Short: "Decode a binary record and print it as a text document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bin, err := readInput(args[0], opts.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			if isHex {
				bin, err = hex.DecodeString(string(bytes.TrimSpace(bin)))
				if err != nil {
					return fmt.Errorf("decode hex: %w", err)
				}
			}
			c := opts.newCodec()
			r, err := c.DecodeBinary(bin)
			if err != nil {
				return err
			}
			text, err := c.EncodeText(r)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err := w.Write(text); err != nil {
				return err
			}
			if len(text) > 0 && text[len(text)-1] != '\n' {
				_, err = fmt.Fprintln(w)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&isHex, "hex", false, "input file holds hex text as printed by encode")
	return cmd
}

func newRoundTripCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <text-file>",
		Short: "Check that a text document survives the binary form unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0], opts.cfg.MaxInputBytes)
			if err != nil {
				return err
			}
			r, bin, err := codec.RoundTrip[request.Request](opts.newCodec(), text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok %s %s user=%q binary=%d bytes\n",
				request.Name, r.Method, r.Body.User, len(bin))
			return err
		},
	}
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the canonical method tokens.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range method.All() {
				token, err := method.Canonical(m)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), token); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "config-template <path>",
		Short: "Write a config template.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
