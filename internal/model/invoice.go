// Package model defines the invoice document submitted to the ICS clearance
// API and the error types shared across the module.
//
// JSON keys follow the clearance API schema exactly, including its spelling
// quirks (countryofOrigin, authorisationNumberforCertifiedExporter).
package model

import "github.com/rezonia/ics-einvoice/internal/decimal"

// IssueMode selects immediate or delayed issuance
type IssueMode string

const (
	IssueModeImmediate IssueMode = "1"
	IssueModeDelayed   IssueMode = "2"
)

// InvoiceType is the e-invoice type code
type InvoiceType string

const (
	InvoiceTypeInvoice          InvoiceType = "01"
	InvoiceTypeCreditNote       InvoiceType = "02"
	InvoiceTypeDebitNote        InvoiceType = "03"
	InvoiceTypeRefundNote       InvoiceType = "04"
	InvoiceTypeSelfBilled       InvoiceType = "11"
	InvoiceTypeSelfBilledCredit InvoiceType = "12"
	InvoiceTypeSelfBilledDebit  InvoiceType = "13"
	InvoiceTypeSelfBilledRefund InvoiceType = "14"
)

// IsCorrection reports whether the type amends a previously issued document
// and therefore needs the original invoice reference.
func (t InvoiceType) IsCorrection() bool {
	switch t {
	case InvoiceTypeCreditNote, InvoiceTypeDebitNote, InvoiceTypeRefundNote,
		InvoiceTypeSelfBilledCredit, InvoiceTypeSelfBilledDebit, InvoiceTypeSelfBilledRefund:
		return true
	}
	return false
}

// IDType is the party registration scheme
type IDType string

const (
	IDTypeBRN      IDType = "BRN"
	IDTypeNRIC     IDType = "NRIC"
	IDTypePassport IDType = "PASSPORT"
)

// ClassificationGroup is the only group the API accepts
const ClassificationGroup = "CLASS"

// InvoiceDocument is the nested document sent under interface code MY101
type InvoiceDocument struct {
	StoreCode                 string         `json:"storeCode"`
	InvoiceCodeNumber         string         `json:"invoiceCodeNumber"`
	IssueMode                 IssueMode      `json:"issueMode"`
	InvoiceTypeCode           InvoiceType    `json:"invoiceTypeCode"`
	OriginalInvoiceCodeNumber string         `json:"originalInvoiceCodeNumber"`
	OriginalInvoiceUUID       string         `json:"originalInvoiceUuid"`
	InvoiceCurrencyCode       string         `json:"invoiceCurrencyCode"`
	ExchangeRate              decimal.Amount `json:"exchangeRate"`
	InvoiceDate               string         `json:"invoiceDate"`
	InvoiceTime               string         `json:"invoiceTime"`
	K1                        string         `json:"k1"`
	Incoterms                 string         `json:"incoterms"`
	FTAInformation            string         `json:"ftaInformation"`
	K2                        string         `json:"k2"`
	TotalExcludingTax         decimal.Amount `json:"totalExcludingTax"`
	TotalIncludingTax         decimal.Amount `json:"totalIncludingTax"`
	TotalPayableAmount        decimal.Amount `json:"totalPayableAmount"`

	Supplier            Supplier          `json:"supplier"`
	Buyer               *Buyer            `json:"buyer"`
	InvoiceLineItemList []LineItem        `json:"invoiceLineItemList"`
	TaxTotal            TaxTotal          `json:"taxTotal"`
	AllowanceChargeList []AllowanceCharge `json:"allowanceChargeList"`

	PaymentMode               string         `json:"paymentMode"`
	SupplierBankAccountNumber string         `json:"supplierBankAccountNumber"`
	PrePaymentReferenceNumber string         `json:"prePaymentReferenceNumber"`
	PrePaymentAmount          decimal.Amount `json:"prePaymentAmount"`
	PrePaymentDate            string         `json:"prePaymentDate"`
	PrePaymentTime            string         `json:"prePaymentTime"`
	BillReferenceNumber       string         `json:"billReferenceNumber"`
	PaymentTerms              string         `json:"paymentTerms"`
	TotalNetAmount            decimal.Amount `json:"totalNetAmount"`
	TotalDiscountValue        decimal.Amount `json:"totalDiscountValue"`
	TotalFeeChargeAmount      decimal.Amount `json:"totalFeeChargeAmount"`
	RoundingAmount            decimal.Number `json:"roundingAmount"`

	Shipping *Shipping `json:"shippingXML"`
}

// Address is a postal address with a canonical state code
type Address struct {
	AddressLine0 string `json:"addressLine0"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	CityName     string `json:"cityName"`
	Country      string `json:"country"`
	State        string `json:"state"`
	PostalZone   string `json:"postalZone"`
}

// Registration identifies a party to the tax authority
type Registration struct {
	IDType  IDType `json:"idType"`
	IDValue string `json:"idValue"`
	TIN     string `json:"tin"`
	SST     string `json:"sst"`
}

// SupplierRegistration adds the tourism tax number carried only for suppliers
type SupplierRegistration struct {
	Registration
	TTX string `json:"ttx"`
}

// Supplier is the issuing party
type Supplier struct {
	SupplierName                            string               `json:"supplierName"`
	SupplierRegistration                    SupplierRegistration `json:"supplierRegistration"`
	SupplierIndustryCode                    string               `json:"supplierIndustryCode"`
	SupplierBusinessActivityDescription     string               `json:"supplierBusinessActivityDescription"`
	AuthorisationNumberForCertifiedExporter string               `json:"authorisationNumberforCertifiedExporter"`
	SupplierTTX                             string               `json:"supplierTTX"`
	SupplierContactNumber                   string               `json:"supplierContactNumber"`
	SupplierEmail                           string               `json:"supplierEmail"`
	SupplierAddress                         Address              `json:"supplierAddress"`
}

// Buyer is the receiving party; every field is optional
type Buyer struct {
	BuyerCode          string       `json:"buyerCode"`
	BuyerName          string       `json:"buyerName"`
	BuyerRegistration  Registration `json:"buyerRegistration"`
	BuyerContactNumber string       `json:"buyerContactNumber"`
	BuyerEmail         string       `json:"buyerEmail"`
	BuyerAddress       Address      `json:"buyerAddress"`
}

// Classification tags a line item with a classification code
type Classification struct {
	Code  string `json:"code"`
	Group string `json:"group"`
}

// TaxSubTotal is one tax breakdown entry
type TaxSubTotal struct {
	TaxType       string         `json:"taxType"`
	Percent       decimal.Number `json:"percent"`
	PerUnitAmount decimal.Number `json:"perUnitAmount"`
	Measurement   string         `json:"measurement"`
	Quantity      decimal.Number `json:"quantity"`
	NetAmount     decimal.Amount `json:"netAmount"`
	Tax           decimal.Number `json:"tax"`
}

// TaxTotal is a tax amount with its breakdown
type TaxTotal struct {
	TotalTaxAmount  decimal.Amount `json:"totalTaxAmount"`
	TaxSubTotalList []TaxSubTotal  `json:"taxSubTotalList"`
}

// LineItem is a single invoice line
type LineItem struct {
	ItemName           string           `json:"itemName"`
	ItemCode           string           `json:"itemCode"`
	Measurement        string           `json:"measurement"`
	Quantity           decimal.Number   `json:"quantity"`
	TotalExcludingTax  decimal.Amount   `json:"totalExcludingTax"`
	UnitPrice          decimal.Amount   `json:"unitPrice"`
	DiscountAmount     decimal.Amount   `json:"discountAmount"`
	DiscountRate       decimal.Amount   `json:"discountRate"`
	DiscountReason     string           `json:"discountReason"`
	FeeChargeRate      decimal.Amount   `json:"feeChargeRate"`
	FeeChargeAmount    decimal.Amount   `json:"feeChargeAmount"`
	FeeChargeReason    string           `json:"feeChargeReason"`
	CountryOfOrigin    string           `json:"countryofOrigin"`
	ProductTariffCode  string           `json:"productTariffCode"`
	Subtotal           decimal.Amount   `json:"subtotal"`
	ClassificationList []Classification `json:"classificationList"`
	TaxTotal           TaxTotal         `json:"taxTotal"`
}

// AllowanceCharge is a document-level allowance (false) or charge (true)
type AllowanceCharge struct {
	AllowanceChargeIndicator bool           `json:"allowanceChargeIndicator"`
	AllowanceChargeReason    string         `json:"allowanceChargeReason"`
	AllowanceChargeAmount    decimal.Amount `json:"allowanceChargeAmount"`
}

// Shipping describes the shipping recipient
type Shipping struct {
	ShippingRecipientName    string  `json:"shippingRecipientName"`
	ShippingRecipientAddress Address `json:"shippingRecipientAddress"`
}
