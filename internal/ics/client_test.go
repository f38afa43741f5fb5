package ics_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ics-einvoice/internal/assembler"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/ics"
	"github.com/rezonia/ics-einvoice/internal/model"
)

const apiURL = "https://ics.example.com/api"

// recorder is a Transport that records requests and replays one response
type recorder struct {
	mu       sync.Mutex
	requests []*ics.Request
	resp     *ics.Response
	err      error
}

func (r *recorder) Do(_ context.Context, req *ics.Request) (*ics.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func envelopeBody(t *testing.T, returnCode, returnMsg string, content any) []byte {
	t.Helper()
	env := envelope.Envelope{ReturnCode: returnCode, ReturnMsg: returnMsg}
	if content != nil {
		data, err := json.Marshal(content)
		require.NoError(t, err)
		env.Content = base64.StdEncoding.EncodeToString(data)
	}
	body, err := json.Marshal(env)
	require.NoError(t, err)
	return body
}

// sentContent decodes the envelope content of a recorded request
func sentContent(t *testing.T, req *ics.Request) (string, any) {
	t.Helper()
	var env envelope.Envelope
	require.NoError(t, json.Unmarshal(req.Body, &env))
	content, err := envelope.DecodeContent(env.Content)
	require.NoError(t, err)
	return env.InterfaceCode, content
}

func TestLogin(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "JSESSIONID=abc123; Path=/; HttpOnly")
	header.Add("Set-Cookie", "route=node2; Path=/")

	rec := &recorder{resp: &ics.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       envelopeBody(t, "00", "OK", nil),
	}}
	client := ics.NewClient(rec)

	session, err := client.Login(context.Background(), apiURL, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "JSESSIONID=abc123; route=node2", session.Token)
	assert.Equal(t, "00", session.Result.ReturnCode)

	require.Equal(t, 1, rec.calls())
	req := rec.requests[0]
	assert.Equal(t, apiURL, req.URL)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Cookie"))

	code, content := sentContent(t, req)
	assert.Equal(t, "LOGIN", code)
	assert.Equal(t, map[string]any{"username": "alice", "pwd": "s3cret"}, content)
}

func TestLogin_CookieWithRejection(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "JSESSIONID=abc123; Path=/")

	rec := &recorder{resp: &ics.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       envelopeBody(t, "E10", "Password expired", nil),
	}}

	session, err := ics.NewClient(rec).Login(context.Background(), apiURL, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "JSESSIONID=abc123", session.Token)
	assert.False(t, session.Result.Succeeded())
	assert.Equal(t, "Password expired", session.Result.ErrorMessage)
}

func TestLogin_NoCookie(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		code string
	}{
		{"success envelope", envelopeBody(t, "00", "OK", nil), "00"},
		{"rejected envelope", envelopeBody(t, "E10", "Invalid credentials", nil), "E10"},
		{"non envelope body", []byte("<html>down</html>"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{resp: &ics.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: tt.body}}

			session, err := ics.NewClient(rec).Login(context.Background(), apiURL, "alice", "wrong")
			require.Error(t, err)
			assert.Nil(t, session)
			assert.True(t, errors.Is(err, model.ErrAuthFailed))

			var authErr *model.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.code, authErr.ReturnCode)
		})
	}
}

func TestLoginThenCreateWithoutToken(t *testing.T) {
	rec := &recorder{resp: &ics.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       envelopeBody(t, "00", "OK", nil),
	}}
	client := ics.NewClient(rec)

	session, err := client.Login(context.Background(), apiURL, "alice", "s3cret")
	require.Error(t, err)
	require.Nil(t, session)
	require.Equal(t, 1, rec.calls())

	doc, err := assembler.Assemble(&assembler.FlatInvoice{
		InvoiceCodeNumber:    "INV-001",
		SupplierTIN:          "C9876543210",
		SupplierAddressLine0: "Lot 1, Jalan Satu",
		LineItems:            []assembler.FlatLineItem{{ItemCode: "A1"}},
	})
	require.NoError(t, err)

	_, err = client.Create(context.Background(), apiURL, "", doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingSession))
	assert.Equal(t, 1, rec.calls(), "create must not reach the network without a token")
}

func TestBusinessCalls_MissingSession(t *testing.T) {
	rec := &recorder{}
	client := ics.NewClient(rec)
	ctx := context.Background()

	_, err := client.Create(ctx, apiURL, "", &model.InvoiceDocument{})
	var missing *model.MissingSessionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ics.OpCreate, missing.Operation)

	_, err = client.Search(ctx, apiURL, "", ics.SearchQuery{TIN: "C1"})
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ics.OpSearch, missing.Operation)

	// Token is checked before the invoice is validated
	_, err = client.Submit(ctx, apiURL, "", &assembler.FlatInvoice{})
	assert.True(t, errors.Is(err, model.ErrMissingSession))

	assert.Zero(t, rec.calls())
}

func TestCreate(t *testing.T) {
	rec := &recorder{resp: &ics.Response{
		StatusCode: http.StatusOK,
		Body:       envelopeBody(t, "00", "Success", map[string]any{"uuid": "F9D425P6DGAWQ2WD"}),
	}}
	client := ics.NewClient(rec)

	doc, err := assembler.Assemble(&assembler.FlatInvoice{
		InvoiceCodeNumber:    "INV-001",
		SupplierTIN:          "C9876543210",
		SupplierAddressLine0: "Lot 1, Jalan Satu",
		TotalExcludingTax:    "100.00",
		LineItems:            []assembler.FlatLineItem{{ItemCode: "A1", Quantity: "1"}},
	})
	require.NoError(t, err)

	result, err := client.Create(context.Background(), apiURL, "JSESSIONID=abc", doc)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, map[string]any{"uuid": "F9D425P6DGAWQ2WD"}, result.DecodedContent)

	req := rec.requests[0]
	assert.Equal(t, "JSESSIONID=abc", req.Header.Get("Cookie"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	code, content := sentContent(t, req)
	assert.Equal(t, "MY101", code)
	list, ok := content.([]any)
	require.True(t, ok, "create content must be an array")
	require.Len(t, list, 1)
	sent, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INV-001", sent["invoiceCodeNumber"])
	assert.Equal(t, "100.00", sent["totalExcludingTax"])
	assert.Nil(t, sent["buyer"])
}

func TestCreate_NilDocument(t *testing.T) {
	rec := &recorder{}
	_, err := ics.NewClient(rec).Create(context.Background(), apiURL, "JSESSIONID=abc", nil)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Zero(t, rec.calls())
}

func TestSubmit_ValidationStopsBeforeNetwork(t *testing.T) {
	rec := &recorder{}
	_, err := ics.NewClient(rec).Submit(context.Background(), apiURL, "JSESSIONID=abc", &assembler.FlatInvoice{
		InvoiceCodeNumber: "INV-001",
	})

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "lineItems", verr.Field)
	assert.Zero(t, rec.calls())
}

func TestSearch(t *testing.T) {
	rec := &recorder{resp: &ics.Response{
		StatusCode: http.StatusOK,
		Body:       envelopeBody(t, "00", "OK", []any{map[string]any{"documentNum": "INV-001", "status": "Valid"}}),
	}}

	result, err := ics.NewClient(rec).Search(context.Background(), apiURL, "JSESSIONID=abc",
		ics.SearchQuery{TIN: "C1234567890", DocumentNum: "INV-001"})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())

	code, content := sentContent(t, rec.requests[0])
	assert.Equal(t, "MY111", code)
	assert.Equal(t, map[string]any{"tin": "C1234567890", "documentNum": "INV-001"}, content)
}

func TestCall_RemoteRejection(t *testing.T) {
	content := map[string]any{"detail": "duplicate"}

	tests := []struct {
		name        string
		strict      bool
		wantContent any
	}{
		{"lenient", false, map[string]any{"detail": "duplicate"}},
		{"strict", true, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{resp: &ics.Response{
				StatusCode: http.StatusOK,
				Body:       envelopeBody(t, "E05", "Duplicate invoice", content),
			}}
			client := ics.NewClient(rec, ics.WithStrictDecode(tt.strict))
			assert.Equal(t, tt.strict, client.Codec().StrictDecode())

			result, err := client.Search(context.Background(), apiURL, "JSESSIONID=abc", ics.SearchQuery{})
			require.NoError(t, err, "a rejected call is data, not an error")
			assert.Equal(t, "Duplicate invoice", result.ErrorMessage)
			assert.Equal(t, tt.wantContent, result.DecodedContent)
		})
	}
}

func TestCall_TransportErrors(t *testing.T) {
	t.Run("propagated unchanged", func(t *testing.T) {
		cause := model.NewTransportError(apiURL, 0, "request failed", errors.New("connection refused"))
		rec := &recorder{err: cause}

		_, err := ics.NewClient(rec).Search(context.Background(), apiURL, "JSESSIONID=abc", ics.SearchQuery{})
		assert.Same(t, cause, err)
	})

	t.Run("non envelope body", func(t *testing.T) {
		rec := &recorder{resp: &ics.Response{StatusCode: http.StatusBadGateway, Body: []byte("Bad Gateway")}}

		_, err := ics.NewClient(rec).Search(context.Background(), apiURL, "JSESSIONID=abc", ics.SearchQuery{})
		var terr *model.TransportError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	})
}

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name     string
		cookies  []string
		expected string
	}{
		{"none", nil, ""},
		{"single", []string{"SID=xyz; Path=/; Secure"}, "SID=xyz"},
		{"multiple", []string{"a=1", "b=2; HttpOnly"}, "a=1; b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, c := range tt.cookies {
				h.Add("Set-Cookie", c)
			}
			assert.Equal(t, tt.expected, ics.SessionToken(h))
		})
	}
}
