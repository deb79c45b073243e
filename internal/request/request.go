// Package request implements the request record: headers, method and body,
// and its codec.
package request

import (
	"fmt"

	"github.com/danmuck/reqwire/internal/codec"
	"github.com/danmuck/reqwire/internal/method"
	"github.com/danmuck/reqwire/internal/protocol/schema"
	"github.com/danmuck/reqwire/internal/protocol/tlv"
)

// Header names as they appear in text documents.
const (
	HeaderContentType                   = "Content-Type"
	HeaderAuthorization                 = "Authorization"
	HeaderAccept                        = "Accept"
	HeaderAcceptCharset                 = "Accept-Charset"
	HeaderAcceptLanguage                = "Accept-Language"
	HeaderAcceptRanges                  = "Accept-Ranges"
	HeaderAcceptEncoding                = "Accept-Encoding"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"
	HeaderAccessControlRequestHeaders   = "Access-Control-Request-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlRequestMethod    = "Access-Control-Request-Method"
)

var (
	requestKeys = codec.NewKeyMap(
		codec.KeyPair{Field: "headers", Key: "headers"},
		codec.KeyPair{Field: "method", Key: "method"},
		codec.KeyPair{Field: "body", Key: "body"},
	)
	headerKeys = codec.NewKeyMap(
		codec.KeyPair{Field: "content_type", Key: HeaderContentType},
		codec.KeyPair{Field: "authorization", Key: HeaderAuthorization},
		codec.KeyPair{Field: "accept", Key: HeaderAccept},
		codec.KeyPair{Field: "accept_charset", Key: HeaderAcceptCharset},
		codec.KeyPair{Field: "accept_language", Key: HeaderAcceptLanguage},
		codec.KeyPair{Field: "accept_ranges", Key: HeaderAcceptRanges},
		codec.KeyPair{Field: "accept_encoding", Key: HeaderAcceptEncoding},
		codec.KeyPair{Field: "access_control_allow_headers", Key: HeaderAccessControlAllowHeaders},
		codec.KeyPair{Field: "access_control_allow_methods", Key: HeaderAccessControlAllowMethods},
		codec.KeyPair{Field: "access_control_allow_origin", Key: HeaderAccessControlAllowOrigin},
		codec.KeyPair{Field: "access_control_expose_headers", Key: HeaderAccessControlExposeHeaders},
		codec.KeyPair{Field: "access_control_max_age", Key: HeaderAccessControlMaxAge},
		codec.KeyPair{Field: "access_control_request_headers", Key: HeaderAccessControlRequestHeaders},
		codec.KeyPair{Field: "access_control_allow_credentials", Key: HeaderAccessControlAllowCredentials},
		codec.KeyPair{Field: "access_control_request_method", Key: HeaderAccessControlRequestMethod},
	)
	bodyKeys = codec.NewKeyMap(
		codec.KeyPair{Field: "user", Key: "user"},
	)
)

// RequestKeys, HeaderKeys and BodyKeys expose the external key tables.
func RequestKeys() codec.KeyMap { return requestKeys }
func HeaderKeys() codec.KeyMap  { return headerKeys }
func BodyKeys() codec.KeyMap    { return bodyKeys }

// Headers is the request header set. ContentType and Authorization are
// required. The rest are optional and their zero value means absent: an
// empty string, false, or a zero Method is left out of both encodings.
type Headers struct {
	ContentType   string
	Authorization string

	Accept                        string
	AcceptCharset                 string
	AcceptLanguage                string
	AcceptRanges                  string
	AcceptEncoding                string
	AccessControlAllowHeaders     string
	AccessControlAllowMethods     string
	AccessControlAllowOrigin      string
	AccessControlExposeHeaders    string
	AccessControlMaxAge           string
	AccessControlRequestHeaders   string
	AccessControlAllowCredentials bool
	AccessControlRequestMethod    method.Method
}

// stringHeader binds one string header field to its table entry and wire id.
type stringHeader struct {
	field string
	id    uint16
	value *string
}

// stringHeaders lists the string headers of h in table order. The first
// two are required.
func (h *Headers) stringHeaders() []stringHeader {
	return []stringHeader{
		{"content_type", schema.FieldContentType, &h.ContentType},
		{"authorization", schema.FieldAuthorization, &h.Authorization},
		{"accept", schema.FieldAccept, &h.Accept},
		{"accept_charset", schema.FieldAcceptCharset, &h.AcceptCharset},
		{"accept_language", schema.FieldAcceptLanguage, &h.AcceptLanguage},
		{"accept_ranges", schema.FieldAcceptRanges, &h.AcceptRanges},
		{"accept_encoding", schema.FieldAcceptEncoding, &h.AcceptEncoding},
		{"access_control_allow_headers", schema.FieldAccessControlAllowHeaders, &h.AccessControlAllowHeaders},
		{"access_control_allow_methods", schema.FieldAccessControlAllowMethods, &h.AccessControlAllowMethods},
		{"access_control_allow_origin", schema.FieldAccessControlAllowOrigin, &h.AccessControlAllowOrigin},
		{"access_control_expose_headers", schema.FieldAccessControlExposeHeaders, &h.AccessControlExposeHeaders},
		{"access_control_max_age", schema.FieldAccessControlMaxAge, &h.AccessControlMaxAge},
		{"access_control_request_headers", schema.FieldAccessControlRequestHeaders, &h.AccessControlRequestHeaders},
	}
}

const requiredStringHeaders = 2

// Body is the application payload.
type Body struct {
	User string
}

// Request is one request record. Values are compared with ==.
type Request struct {
	Headers Headers
	Method  method.Method
	Body    Body
}

func decodeRequest(doc codec.Document) (Request, error) {
	hdoc, err := doc.Object(requestKeys.MustKey("headers"))
	if err != nil {
		return Request{}, err
	}
	headers, err := decodeHeaders(hdoc)
	if err != nil {
		return Request{}, err
	}

	m, err := decodeMethod(doc, requestKeys.MustKey("method"))
	if err != nil {
		return Request{}, err
	}

	bdoc, err := doc.Object(requestKeys.MustKey("body"))
	if err != nil {
		return Request{}, err
	}
	body, err := decodeBody(bdoc)
	if err != nil {
		return Request{}, err
	}
	return Request{Headers: headers, Method: m, Body: body}, nil
}

// decodeMethod reads the method token stored under key.
func decodeMethod(doc codec.Document, key string) (method.Method, error) {
	token, err := doc.String(key)
	if err != nil {
		return 0, err
	}
	m, err := method.Parse(token)
	if err != nil {
		return 0, codec.UnknownMethod(doc.Path(key), token, err)
	}
	return m, nil
}

func decodeHeaders(doc codec.Document) (Headers, error) {
	var h Headers
	for i, sh := range h.stringHeaders() {
		key := headerKeys.MustKey(sh.field)
		if i >= requiredStringHeaders && !doc.Has(key) {
			continue
		}
		v, err := doc.String(key)
		if err != nil {
			return Headers{}, err
		}
		*sh.value = v
	}

	if key := headerKeys.MustKey("access_control_allow_credentials"); doc.Has(key) {
		v, err := doc.Bool(key)
		if err != nil {
			return Headers{}, err
		}
		h.AccessControlAllowCredentials = v
	}
	if key := headerKeys.MustKey("access_control_request_method"); doc.Has(key) {
		m, err := decodeMethod(doc, key)
		if err != nil {
			return Headers{}, err
		}
		h.AccessControlRequestMethod = m
	}
	return h, nil
}

func decodeBody(doc codec.Document) (Body, error) {
	user, err := doc.String(bodyKeys.MustKey("user"))
	if err != nil {
		return Body{}, err
	}
	return Body{User: user}, nil
}

func (r Request) textObject() (*codec.Object, error) {
	token, err := method.Canonical(r.Method)
	if err != nil {
		return nil, codec.InvalidValue(err)
	}
	headers, err := r.Headers.textObject()
	if err != nil {
		return nil, err
	}
	body := codec.NewObject().Set(bodyKeys.MustKey("user"), r.Body.User)
	return codec.NewObject().
		Set(requestKeys.MustKey("headers"), headers).
		Set(requestKeys.MustKey("method"), token).
		Set(requestKeys.MustKey("body"), body), nil
}

func (h Headers) textObject() (*codec.Object, error) {
	obj := codec.NewObject()
	for i, sh := range h.stringHeaders() {
		if i >= requiredStringHeaders && *sh.value == "" {
			continue
		}
		obj.Set(headerKeys.MustKey(sh.field), *sh.value)
	}
	if h.AccessControlAllowCredentials {
		obj.Set(headerKeys.MustKey("access_control_allow_credentials"), true)
	}
	if h.AccessControlRequestMethod != 0 {
		token, err := method.Canonical(h.AccessControlRequestMethod)
		if err != nil {
			return nil, codec.InvalidValue(fmt.Errorf("%s: %w", HeaderAccessControlRequestMethod, err))
		}
		obj.Set(headerKeys.MustKey("access_control_request_method"), token)
	}
	return obj, nil
}

// fields returns the TLV payload fields in wire order.
func (r Request) fields() ([]tlv.Field, error) {
	tag, err := r.Method.Discriminant()
	if err != nil {
		return nil, codec.InvalidValue(err)
	}
	headerFields, err := r.Headers.fields()
	if err != nil {
		return nil, err
	}
	headers, err := tlv.Object(schema.FieldHeaders, headerFields)
	if err != nil {
		return nil, codec.AllocationFailure(err)
	}
	body, err := tlv.Object(schema.FieldBody, []tlv.Field{
		tlv.String(schema.FieldUser, r.Body.User),
	})
	if err != nil {
		return nil, codec.AllocationFailure(err)
	}
	return []tlv.Field{headers, tlv.Enum(schema.FieldMethod, tag), body}, nil
}

func (h Headers) fields() ([]tlv.Field, error) {
	out := make([]tlv.Field, 0, requiredStringHeaders)
	for i, sh := range h.stringHeaders() {
		if i >= requiredStringHeaders && *sh.value == "" {
			continue
		}
		out = append(out, tlv.String(sh.id, *sh.value))
	}
	if h.AccessControlAllowCredentials {
		out = append(out, tlv.Bool(schema.FieldAccessControlAllowCredentials, true))
	}
	if h.AccessControlRequestMethod != 0 {
		tag, err := h.AccessControlRequestMethod.Discriminant()
		if err != nil {
			return nil, codec.InvalidValue(fmt.Errorf("%s: %w", HeaderAccessControlRequestMethod, err))
		}
		out = append(out, tlv.Enum(schema.FieldAccessControlRequestMethod, tag))
	}
	return out, nil
}

func requestFromFields(fields []tlv.Field) (Request, error) {
	if err := schema.Validate(schema.ShapeRequest, fields); err != nil {
		return Request{}, err
	}
	hf, _ := tlv.GetField(fields, schema.FieldHeaders)
	headerFields, err := hf.Fields()
	if err != nil {
		return Request{}, fmt.Errorf("headers: %w", err)
	}
	headers, err := headersFromFields(headerFields)
	if err != nil {
		return Request{}, err
	}

	mf, _ := tlv.GetField(fields, schema.FieldMethod)
	m, err := methodFromField(mf)
	if err != nil {
		return Request{}, fmt.Errorf("method: %w", err)
	}

	bf, _ := tlv.GetField(fields, schema.FieldBody)
	bodyFields, err := bf.Fields()
	if err != nil {
		return Request{}, fmt.Errorf("body: %w", err)
	}
	body, err := bodyFromFields(bodyFields)
	if err != nil {
		return Request{}, err
	}
	return Request{Headers: headers, Method: m, Body: body}, nil
}

func methodFromField(f tlv.Field) (method.Method, error) {
	tag, err := f.EnumValue()
	if err != nil {
		return 0, err
	}
	return method.FromDiscriminant(tag)
}

func headersFromFields(fields []tlv.Field) (Headers, error) {
	if err := schema.Validate(schema.ShapeHeaders, fields); err != nil {
		return Headers{}, err
	}
	var h Headers
	for _, sh := range h.stringHeaders() {
		f, ok := tlv.GetField(fields, sh.id)
		if !ok {
			continue
		}
		v, err := f.Str()
		if err != nil {
			return Headers{}, err
		}
		*sh.value = v
	}
	if f, ok := tlv.GetField(fields, schema.FieldAccessControlAllowCredentials); ok {
		v, err := f.BoolValue()
		if err != nil {
			return Headers{}, fmt.Errorf("%s: %w", HeaderAccessControlAllowCredentials, err)
		}
		h.AccessControlAllowCredentials = v
	}
	if f, ok := tlv.GetField(fields, schema.FieldAccessControlRequestMethod); ok {
		m, err := methodFromField(f)
		if err != nil {
			return Headers{}, fmt.Errorf("%s: %w", HeaderAccessControlRequestMethod, err)
		}
		h.AccessControlRequestMethod = m
	}
	return h, nil
}

func bodyFromFields(fields []tlv.Field) (Body, error) {
	if err := schema.Validate(schema.ShapeBody, fields); err != nil {
		return Body{}, err
	}
	user, err := requiredString(fields, schema.FieldUser)
	if err != nil {
		return Body{}, err
	}
	return Body{User: user}, nil
}

// requiredString reads a field already checked by schema.Validate.
func requiredString(fields []tlv.Field, id uint16) (string, error) {
	f, _ := tlv.GetField(fields, id)
	return f.Str()
}
