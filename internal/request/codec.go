package request

import (
	"errors"
	"fmt"

	"github.com/danmuck/reqwire/internal/codec"
	"github.com/danmuck/reqwire/internal/observability"
	"github.com/danmuck/reqwire/internal/protocol/frame"
	"github.com/danmuck/reqwire/internal/protocol/schema"
	"github.com/danmuck/reqwire/internal/protocol/tlv"
)

const Name = "request"

// Codec converts Request values. The zero value is not usable; build one
// with NewCodec.
type Codec struct {
	format codec.Format
	limits frame.Limits
}

var _ codec.Codec[Request] = (*Codec)(nil)

type Option func(*Codec)

// WithFormat selects the text document syntax. JSON is the default.
func WithFormat(f codec.Format) Option {
	return func(c *Codec) { c.format = f }
}

// WithLimits bounds the binary payload size on both encode and decode.
func WithLimits(l frame.Limits) Option {
	return func(c *Codec) { c.limits = l }
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{format: codec.FormatJSON, limits: frame.DefaultLimits()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Name() string { return Name }

func (c *Codec) DecodeText(b []byte) (Request, error) {
	r, err := c.decodeText(b)
	return r, codec.Observe(Name, observability.OpDecodeText, len(b), err)
}

func (c *Codec) EncodeText(r Request) ([]byte, error) {
	b, err := c.encodeText(r)
	return b, codec.Observe(Name, observability.OpEncodeText, len(b), err)
}

func (c *Codec) EncodeBinary(r Request) ([]byte, error) {
	b, err := c.encodeBinary(r)
	return b, codec.Observe(Name, observability.OpEncodeBinary, len(b), err)
}

func (c *Codec) DecodeBinary(b []byte) (Request, error) {
	r, err := c.decodeBinary(b)
	return r, codec.Observe(Name, observability.OpDecodeBinary, len(b), err)
}

func (c *Codec) decodeText(b []byte) (Request, error) {
	doc, err := codec.ParseDocument(b, c.format)
	if err != nil {
		return Request{}, err
	}
	return decodeRequest(doc)
}

func (c *Codec) encodeText(r Request) ([]byte, error) {
	obj, err := r.textObject()
	if err != nil {
		return nil, err
	}
	out, err := codec.EncodeDocument(obj, c.format)
	if err != nil {
		return nil, codec.InvalidValue(err)
	}
	return out, nil
}

func (c *Codec) encodeBinary(r Request) ([]byte, error) {
	fields, err := r.fields()
	if err != nil {
		return nil, err
	}
	payload, err := tlv.EncodeFields(fields)
	if err != nil {
		return nil, codec.AllocationFailure(err)
	}
	out, err := frame.Encode(schema.KindRequest, payload, c.limits)
	if err != nil {
		return nil, codec.AllocationFailure(err)
	}
	return out, nil
}

func (c *Codec) decodeBinary(b []byte) (Request, error) {
	f, err := frame.Decode(b, c.limits)
	if err != nil {
		return Request{}, codec.CorruptBinary(err)
	}
	if f.Header.Kind != schema.KindRequest {
		return Request{}, codec.CorruptBinary(fmt.Errorf("unexpected record kind %d", f.Header.Kind))
	}
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return Request{}, codec.CorruptBinary(err)
	}
	r, err := requestFromFields(fields)
	if err != nil {
		return Request{}, codec.CorruptBinary(err)
	}
	return r, nil
}

// IsClientError reports whether err was caused by the input rather than by
// the codec, so a caller can answer with a client-error status.
func IsClientError(err error) bool {
	var de *codec.DecodeError
	return errors.As(err, &de)
}
