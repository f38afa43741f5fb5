// Package ics is the client side of the ICS clearance API session contract:
// login yields a session token that every business call must carry.
package ics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/ics-einvoice/internal/assembler"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/model"
)

// Operation names used in errors and logs
const (
	OpLogin  = "login"
	OpCreate = "create"
	OpSearch = "search"
)

// Session is the result of a successful login
type Session struct {
	// Token is the Cookie header value for business calls
	Token string

	// Result is the decoded login response
	Result *envelope.Result
}

// SearchQuery selects documents for MY111
type SearchQuery struct {
	TIN         string `json:"tin"`
	DocumentNum string `json:"documentNum"`
}

type loginContent struct {
	Username string `json:"username"`
	Password string `json:"pwd"`
}

// Client talks to the clearance API through a Transport
type Client struct {
	transport Transport
	codec     *envelope.Codec
	log       zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithStrictDecode only decodes the content of successful responses
func WithStrictDecode(strict bool) ClientOption {
	return func(c *Client) {
		c.codec = envelope.New(envelope.WithStrictDecode(strict))
	}
}

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client. A nil transport uses NewHTTPTransport(nil).
func NewClient(transport Transport, opts ...ClientOption) *Client {
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}

	c := &Client{
		transport: transport,
		codec:     envelope.New(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Codec returns the envelope codec used for responses
func (c *Client) Codec() *envelope.Codec {
	return c.codec
}

// Login authenticates and returns the session token taken from the
// Set-Cookie response header. A response without cookies is an
// *model.AuthError, whatever its returnCode says. A response that sets a
// cookie yields a Session even when its returnCode is not "00"; callers
// check Session.Result.Succeeded and Result.ErrorMessage for the rejection.
func (c *Client) Login(ctx context.Context, url, username, password string) (*Session, error) {
	env, err := c.codec.Encode(envelope.InterfaceLogin, loginContent{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, url, env, "")
	if err != nil {
		return nil, err
	}

	// The login body is informational; a non-envelope body is tolerated
	result := &envelope.Result{DecodedContent: map[string]any{}}
	if parsed, err := envelope.Parse(resp.Body); err == nil {
		result = c.codec.Decode(parsed)
	}

	token := SessionToken(resp.Header)
	if token == "" {
		msg := "no session cookie received"
		if result.ReturnMsg != "" {
			msg += ": " + result.ReturnMsg
		}
		c.log.Warn().
			Str("interface_code", envelope.InterfaceLogin).
			Str("return_code", result.ReturnCode).
			Int("status", resp.StatusCode).
			Msg("login returned no session")
		return nil, model.NewAuthError(result.ReturnCode, msg)
	}

	return &Session{Token: token, Result: result}, nil
}

// Create submits an assembled document under MY101. The content is a
// one-element array holding the document.
func (c *Client) Create(ctx context.Context, url, token string, doc *model.InvoiceDocument) (*envelope.Result, error) {
	if token == "" {
		return nil, model.NewMissingSessionError(OpCreate)
	}
	if doc == nil {
		return nil, model.NewValidationError("invoice", nil, "required", "invoice document is required")
	}

	env, err := c.codec.Encode(envelope.InterfaceCreate, []*model.InvoiceDocument{doc})
	if err != nil {
		return nil, err
	}
	return c.call(ctx, url, env, token)
}

// Submit assembles a flat invoice and creates it
func (c *Client) Submit(ctx context.Context, url, token string, in *assembler.FlatInvoice) (*envelope.Result, error) {
	if token == "" {
		return nil, model.NewMissingSessionError(OpCreate)
	}

	doc, err := assembler.Assemble(in)
	if err != nil {
		return nil, err
	}
	return c.Create(ctx, url, token, doc)
}

// Search looks up documents under MY111
func (c *Client) Search(ctx context.Context, url, token string, query SearchQuery) (*envelope.Result, error) {
	if token == "" {
		return nil, model.NewMissingSessionError(OpSearch)
	}

	env, err := c.codec.Encode(envelope.InterfaceSearch, query)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, url, env, token)
}

// call posts env and decodes the response envelope. A body that is not an
// envelope is a transport failure; a failed returnCode is data.
func (c *Client) call(ctx context.Context, url string, env *envelope.Envelope, token string) (*envelope.Result, error) {
	resp, err := c.post(ctx, url, env, token)
	if err != nil {
		return nil, err
	}

	parsed, err := envelope.Parse(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(url, resp.StatusCode, "response is not an envelope", err)
	}

	result := c.codec.Decode(parsed)
	if !result.Succeeded() {
		c.log.Info().
			Str("interface_code", env.InterfaceCode).
			Str("return_code", result.ReturnCode).
			Str("error_message", result.ErrorMessage).
			Msg("ics call rejected")
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, env *envelope.Envelope, token string) (*Response, error) {
	body, err := env.Marshal()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if token != "" {
		header.Set("Cookie", token)
	}

	start := time.Now()
	resp, err := c.transport.Do(ctx, &Request{URL: url, Header: header, Body: body})
	if err != nil {
		c.log.Error().Err(err).
			Str("interface_code", env.InterfaceCode).
			Dur("duration", time.Since(start)).
			Msg("ics call failed")
		return nil, err
	}

	c.log.Debug().
		Str("interface_code", env.InterfaceCode).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("ics call")
	return resp, nil
}

// SessionToken builds a Cookie header value from Set-Cookie response
// headers. Attributes are dropped; pairs are joined with "; ".
func SessionToken(header http.Header) string {
	cookies := (&http.Response{Header: header}).Cookies()

	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		if ck.Name == "" {
			continue
		}
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; ")
}
