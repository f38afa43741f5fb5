// Package icslib provides a public API for submitting Malaysian e-invoices
// to the ICS clearance API.
//
// This package exposes the flat invoice input, the assembled document, the
// envelope codec and a session-aware client.
//
// Example usage:
//
//	client := icslib.NewClient(icslib.DefaultClientOptions("https://ics.example.com/api"))
//	session, err := client.Login(ctx, username, password)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := client.Submit(ctx, session.Token, &icslib.FlatInvoice{...})
//	fmt.Println(result.ReturnCode, result.ErrorMessage)
package icslib

import (
	"github.com/rezonia/ics-einvoice/internal/assembler"
	"github.com/rezonia/ics-einvoice/internal/codes"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/model"
	"github.com/rezonia/ics-einvoice/internal/region"
)

// Re-export core types for public API
type (
	FlatInvoice         = assembler.FlatInvoice
	FlatLineItem        = assembler.FlatLineItem
	FlatAllowanceCharge = assembler.FlatAllowanceCharge
	FlatShipping        = assembler.FlatShipping

	InvoiceDocument = model.InvoiceDocument
	LineItem        = model.LineItem
	Supplier        = model.Supplier
	Buyer           = model.Buyer
	Address         = model.Address
	TaxTotal        = model.TaxTotal
	TaxSubTotal     = model.TaxSubTotal
	AllowanceCharge = model.AllowanceCharge
	Shipping        = model.Shipping
	InvoiceType     = model.InvoiceType
	IssueMode       = model.IssueMode
	IDType          = model.IDType

	Envelope = envelope.Envelope
	Result   = envelope.Result

	CodeKind  = codes.Kind
	CodeEntry = codes.Entry
)

// Re-export invoice types
const (
	InvoiceTypeInvoice          = model.InvoiceTypeInvoice
	InvoiceTypeCreditNote       = model.InvoiceTypeCreditNote
	InvoiceTypeDebitNote        = model.InvoiceTypeDebitNote
	InvoiceTypeRefundNote       = model.InvoiceTypeRefundNote
	InvoiceTypeSelfBilled       = model.InvoiceTypeSelfBilled
	InvoiceTypeSelfBilledCredit = model.InvoiceTypeSelfBilledCredit
	InvoiceTypeSelfBilledDebit  = model.InvoiceTypeSelfBilledDebit
	InvoiceTypeSelfBilledRefund = model.InvoiceTypeSelfBilledRefund
)

// Re-export interface codes
const (
	InterfaceLogin  = envelope.InterfaceLogin
	InterfaceCreate = envelope.InterfaceCreate
	InterfaceSearch = envelope.InterfaceSearch
	SuccessCode     = envelope.SuccessCode
)

// Re-export code table kinds
const (
	CodeCountry        = codes.Country
	CodeState          = codes.State
	CodeCurrency       = codes.Currency
	CodeUnit           = codes.Unit
	CodeTaxType        = codes.TaxType
	CodeClassification = codes.Classification
	CodePaymentMethod  = codes.PaymentMethod
	CodeIndustry       = codes.Industry
	CodeInvoiceType    = codes.InvoiceType
)

// Re-export error types
type (
	ValidationError     = model.ValidationError
	MissingSessionError = model.MissingSessionError
	AuthError           = model.AuthError
	TransportError      = model.TransportError
	DecodeError         = model.DecodeError
	RemoteBusinessError = model.RemoteBusinessError
)

// Re-export error sentinels
var (
	ErrMissingSession = model.ErrMissingSession
	ErrAuthFailed     = model.ErrAuthFailed
	ErrCodeNotFound   = codes.ErrNotFound
)

// Assemble validates a flat invoice and builds the nested document
func Assemble(in *FlatInvoice) (*InvoiceDocument, error) {
	return assembler.Assemble(in)
}

// Check returns advisory warnings for an assembled document
func Check(doc *InvoiceDocument) []string {
	return assembler.Check(doc)
}

// NormalizeState resolves a state name or code to the canonical 2-digit code
func NormalizeState(raw, country string) string {
	return region.Normalize(raw, country)
}

// LookupCode returns the label of code in the kind table
func LookupCode(kind CodeKind, code string) (string, error) {
	table, err := codes.Default().Table(kind)
	if err != nil {
		return "", err
	}
	return table.Lookup(code)
}

// Codes returns the valid codes of the kind table in table order
func Codes(kind CodeKind) ([]string, error) {
	table, err := codes.Default().Table(kind)
	if err != nil {
		return nil, err
	}
	return table.Codes(), nil
}
