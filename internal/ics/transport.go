package ics

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rezonia/ics-einvoice/internal/model"
)

// DefaultTimeout is the HTTP timeout of NewHTTPTransport
const DefaultTimeout = 30 * time.Second

// Request is one POST to the clearance API
type Request struct {
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw reply. Body is returned whatever the status code.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends requests to the clearance API. Retries and timeouts are
// the transport's business; the client propagates its errors unchanged.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to Transport
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f
func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is a Transport over net/http
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. A nil client gets DefaultTimeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{client: client}
}

// Do posts req.Body to req.URL
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, model.NewTransportError(req.URL, 0, "build request", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, model.NewTransportError(req.URL, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(req.URL, resp.StatusCode, "read response body", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
