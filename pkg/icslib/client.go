package icslib

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/ics-einvoice/internal/batch"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/ics"
)

// Re-export session and transport types
type (
	Session     = ics.Session
	SearchQuery = ics.SearchQuery
	Transport   = ics.Transport
	Request     = ics.Request
	Response    = ics.Response
	BatchMode   = batch.Mode
)

// Batch failure policies
const (
	FailFast        = batch.FailFast
	ContinueOnError = batch.ContinueOnError
)

// ClientOptions configures a Client
type ClientOptions struct {
	// APIURL is the clearance API endpoint
	APIURL string

	// StrictDecode only decodes the content of successful responses
	StrictDecode bool

	// Timeout applies to the default HTTP transport
	Timeout time.Duration

	// Transport replaces the default HTTP transport
	Transport Transport

	// BatchConcurrency is the number of invoices in flight in SubmitBatch
	BatchConcurrency int

	Logger zerolog.Logger
}

// DefaultClientOptions returns default client options for apiURL
func DefaultClientOptions(apiURL string) ClientOptions {
	return ClientOptions{
		APIURL:           apiURL,
		Timeout:          ics.DefaultTimeout,
		BatchConcurrency: 1,
		Logger:           zerolog.Nop(),
	}
}

// Client is a session-aware clearance API client bound to one endpoint
type Client struct {
	client  *ics.Client
	options ClientOptions
}

// NewClient creates a client with the given options
func NewClient(opts ClientOptions) *Client {
	transport := opts.Transport
	if transport == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = ics.DefaultTimeout
		}
		transport = ics.NewHTTPTransport(&http.Client{Timeout: timeout})
	}

	return &Client{
		client: ics.NewClient(transport,
			ics.WithStrictDecode(opts.StrictDecode),
			ics.WithLogger(opts.Logger),
		),
		options: opts,
	}
}

// Login authenticates and returns the session for business calls
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	return c.client.Login(ctx, c.options.APIURL, username, password)
}

// Create submits an assembled document
func (c *Client) Create(ctx context.Context, token string, doc *InvoiceDocument) (*Result, error) {
	return c.client.Create(ctx, c.options.APIURL, token, doc)
}

// Submit assembles and submits a flat invoice
func (c *Client) Submit(ctx context.Context, token string, in *FlatInvoice) (*Result, error) {
	return c.client.Submit(ctx, c.options.APIURL, token, in)
}

// Search looks up submitted documents
func (c *Client) Search(ctx context.Context, token string, query SearchQuery) (*Result, error) {
	return c.client.Search(ctx, c.options.APIURL, token, query)
}

// Decode unwraps a response envelope with the client's decode policy
func (c *Client) Decode(env *Envelope) *Result {
	return c.client.Codec().Decode(env)
}

// BatchResult is the outcome of one invoice in SubmitBatch
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// SubmitBatch submits invoices under the given failure policy. Results are
// indexed by input position. Under FailFast the aborting error is returned
// alongside the partial results.
func (c *Client) SubmitBatch(ctx context.Context, token string, invoices []*FlatInvoice, mode BatchMode) ([]BatchResult, error) {
	outcomes, err := batch.Run(ctx, len(invoices),
		batch.Options{Mode: mode, Concurrency: c.options.BatchConcurrency},
		func(ctx context.Context, i int) (*envelope.Result, error) {
			return c.client.Submit(ctx, c.options.APIURL, token, invoices[i])
		})

	results := make([]BatchResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = BatchResult{Index: o.Index, Result: o.Value, Err: o.Err}
	}
	return results, err
}
