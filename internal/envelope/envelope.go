// Package envelope implements the transport wrapper used by every call to
// the ICS clearance API: a JSON object whose content field carries the
// base64 encoding of a JSON payload.
package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rezonia/ics-einvoice/internal/model"
)

// Interface codes select the remote operation
const (
	InterfaceLogin  = "LOGIN"
	InterfaceCreate = "MY101"
	InterfaceSearch = "MY111"
)

// SuccessCode is the returnCode of a successful call
const SuccessCode = "00"

// UnknownError is the errorMessage used when a failed call has no returnMsg
const UnknownError = "Unknown error"

// Envelope is the request and response body of the clearance API
type Envelope struct {
	InterfaceCode  string `json:"interfaceCode"`
	Content        string `json:"content"`
	ReturnCode     string `json:"returnCode"`
	ReturnMsg      string `json:"returnMsg"`
	BusinessSystem string `json:"businessSystem"`
}

// Succeeded reports whether the envelope carries the success code
func (e *Envelope) Succeeded() bool {
	return e != nil && e.ReturnCode == SuccessCode
}

// Result is a decoded response envelope
type Result struct {
	ReturnCode     string `json:"returnCode"`
	ReturnMsg      string `json:"returnMsg"`
	DecodedContent any    `json:"decodedContent"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// Succeeded reports whether the remote call succeeded
func (r *Result) Succeeded() bool {
	return r.ReturnCode == SuccessCode
}

// BusinessError returns the remote failure as an error, or nil on success.
// A failed call is a normal business outcome; the Result keeps it as data.
func (r *Result) BusinessError() error {
	if r.Succeeded() {
		return nil
	}
	return model.NewRemoteBusinessError(r.ReturnCode, r.ErrorMessage)
}

// RawContent is the decodedContent fallback for undecodable content
type RawContent struct {
	RawContent string `json:"rawContent"`
}

// Codec encodes request envelopes and decodes response envelopes
type Codec struct {
	strict bool
}

// Option configures a Codec
type Option func(*Codec)

// WithStrictDecode only decodes content of successful responses. Failed
// responses get an empty decodedContent object.
func WithStrictDecode(strict bool) Option {
	return func(c *Codec) {
		c.strict = strict
	}
}

// New creates a codec. Decoding is lenient unless WithStrictDecode is set.
func New(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StrictDecode reports the decode policy
func (c *Codec) StrictDecode() bool {
	return c.strict
}

// Encode serializes payload to JSON and wraps it in a request envelope.
// Response-only fields are left empty.
func (c *Codec) Encode(interfaceCode string, payload any) (*Envelope, error) {
	if interfaceCode == "" {
		return nil, errors.New("interface code is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", interfaceCode, err)
	}

	return &Envelope{
		InterfaceCode: interfaceCode,
		Content:       base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Decode unwraps a response envelope. It never fails: undecodable content
// is returned as RawContent.
func (c *Codec) Decode(env *Envelope) *Result {
	if env == nil {
		env = &Envelope{}
	}

	result := &Result{
		ReturnCode:     env.ReturnCode,
		ReturnMsg:      env.ReturnMsg,
		DecodedContent: map[string]any{},
	}

	if env.Content != "" && (!c.strict || env.Succeeded()) {
		decoded, err := DecodeContent(env.Content)
		if err != nil {
			result.DecodedContent = RawContent{RawContent: env.Content}
		} else {
			result.DecodedContent = decoded
		}
	}

	if !env.Succeeded() {
		result.ErrorMessage = env.ReturnMsg
		if result.ErrorMessage == "" {
			result.ErrorMessage = UnknownError
		}
	}

	return result
}

// DecodeContent base64-decodes s and parses the JSON inside. Padding is
// optional. Numbers are kept as json.Number so amounts keep their text.
func DecodeContent(s string) (any, error) {
	if s == "" {
		return nil, model.NewDecodeError("base64", errors.New("content is empty"))
	}

	data, err := decodeBase64(s)
	if err != nil {
		return nil, model.NewDecodeError("base64", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, model.NewDecodeError("json", err)
	}
	if dec.More() {
		return nil, model.NewDecodeError("json", errors.New("trailing data after JSON value"))
	}
	return v, nil
}

// decodeBase64 accepts standard base64 with or without padding
func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// Marshal encodes the envelope as a request body
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse reads a response body into an envelope
func Parse(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, model.NewDecodeError("envelope", err)
	}
	return &env, nil
}
