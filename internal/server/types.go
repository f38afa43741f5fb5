package server

import (
	"github.com/rezonia/ics-einvoice/internal/codes"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/model"
)

// SessionHeader carries the ICS session token on business calls
const SessionHeader = "X-Session-Token"

// AssembleResponse is the response for the assemble endpoint
type AssembleResponse struct {
	Document *model.InvoiceDocument `json:"document"`
	Warnings []string               `json:"warnings,omitempty"`
}

// LoginRequest is the request for the login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response for the login endpoint
type LoginResponse struct {
	Cookie     string `json:"cookie"`
	ReturnCode string `json:"returnCode,omitempty"`
	ReturnMsg  string `json:"returnMsg,omitempty"`
}

// SearchRequest is the request for the search endpoint
type SearchRequest struct {
	TIN         string `json:"tin"`
	DocumentNum string `json:"documentNum" binding:"required"`
}

// CodesResponse is the response for the code table endpoint
type CodesResponse struct {
	Table   string         `json:"table"`
	Options []codes.Option `json:"options"`
}

// BatchItem is the outcome of one invoice in a batch
type BatchItem struct {
	Index  int              `json:"index"`
	Result *envelope.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchResponse is the response for the batch endpoint
type BatchResponse struct {
	Mode      string      `json:"mode"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
	Error     string      `json:"error,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Field      string `json:"field,omitempty"`
	ReturnCode string `json:"returnCode,omitempty"`
}
