package assembler

import (
	"strings"

	"github.com/rezonia/ics-einvoice/internal/decimal"
)

// FlatInvoice is the flat field set a caller supplies for one invoice.
// JSON keys match the field names used by existing integrations.
type FlatInvoice struct {
	StoreCode                 string         `json:"storeCode"`
	InvoiceCodeNumber         string         `json:"invoiceCodeNumber" validate:"required" jsonschema:"required"`
	IssueMode                 string         `json:"issueMode" validate:"omitempty,oneof=1 2"`
	InvoiceTypeCode           string         `json:"invoiceTypeCode" validate:"omitempty,code=invoice-type"`
	OriginalInvoiceCodeNumber string         `json:"originalInvoiceCodeNumber" validate:"required_with=OriginalInvoiceUUID"`
	OriginalInvoiceUUID       string         `json:"originalInvoiceUuid" validate:"required_with=OriginalInvoiceCodeNumber"`
	InvoiceCurrencyCode       string         `json:"invoiceCurrencyCode" validate:"omitempty,code=currency"`
	ExchangeRate              decimal.Amount `json:"exchangeRate" validate:"omitempty,amount"`
	InvoiceDate               string         `json:"invoiceDate" validate:"omitempty,datetime=2006-01-02"`
	InvoiceTime               string         `json:"invoiceTime" validate:"omitempty,datetime=15:04:05"`
	K1                        string         `json:"k1"`
	Incoterms                 string         `json:"incoterms"`
	FTAInformation            string         `json:"ftaInformation"`
	K2                        string         `json:"k2"`
	TotalExcludingTax         decimal.Amount `json:"totalExcludingTax" validate:"omitempty,amount"`
	TotalIncludingTax         decimal.Amount `json:"totalIncludingTax" validate:"omitempty,amount"`
	TotalPayableAmount        decimal.Amount `json:"totalPayableAmount" validate:"omitempty,amount"`
	TotalTaxAmount            decimal.Amount `json:"totalTaxAmount" validate:"omitempty,amount"`

	SupplierName                            string `json:"supplierName"`
	SupplierIDType                          string `json:"supplierIdType" validate:"omitempty,oneof=BRN NRIC PASSPORT"`
	SupplierIDValue                         string `json:"supplierIdValue" validate:"required_with=SupplierIDType"`
	SupplierTIN                             string `json:"supplierTin" validate:"required" jsonschema:"required"`
	SupplierSST                             string `json:"supplierSst"`
	SupplierTTX                             string `json:"supplierTTX"`
	AuthorisationNumberForCertifiedExporter string `json:"authorisationNumberforCertifiedExporter"`
	SupplierIndustryCode                    string `json:"supplierIndustryCode" validate:"omitempty,code=industry"`
	SupplierBusinessActivityDescription     string `json:"supplierBusinessActivityDescription"`
	SupplierContactNumber                   string `json:"supplierContactNumber"`
	SupplierEmail                           string `json:"supplierEmail"`
	SupplierCountry                         string `json:"supplierCountry" validate:"omitempty,code=country"`
	SupplierState                           string `json:"supplierState"`
	SupplierCityName                        string `json:"supplierCityName"`
	SupplierAddressLine0                    string `json:"supplierAddressLine0" validate:"required" jsonschema:"required"`
	SupplierAddressLine1                    string `json:"supplierAddressLine1"`
	SupplierAddressLine2                    string `json:"supplierAddressLine2"`
	SupplierPostalZone                      string `json:"supplierPostalZone"`

	BuyerCode          string `json:"buyerCode"`
	BuyerName          string `json:"buyerName"`
	BuyerIDType        string `json:"buyerIdType" validate:"omitempty,oneof=BRN NRIC PASSPORT"`
	BuyerIDValue       string `json:"buyerIdValue"`
	BuyerTIN           string `json:"buyerTin"`
	BuyerSST           string `json:"buyerSst"`
	BuyerContactNumber string `json:"buyerContactNumber"`
	BuyerEmail         string `json:"buyerEmail"`
	BuyerCountry       string `json:"buyerCountry" validate:"omitempty,code=country"`
	BuyerState         string `json:"buyerState"`
	BuyerCityName      string `json:"buyerCityName"`
	BuyerAddressLine0  string `json:"buyerAddressLine0"`
	BuyerAddressLine1  string `json:"buyerAddressLine1"`
	BuyerAddressLine2  string `json:"buyerAddressLine2"`
	BuyerPostalZone    string `json:"buyerPostalZone"`

	LineItems        []FlatLineItem        `json:"lineItems" validate:"dive" jsonschema:"required,minItems=1"`
	AllowanceCharges []FlatAllowanceCharge `json:"allowanceCharges" validate:"dive"`
	Shipping         *FlatShipping         `json:"shipping"`

	PaymentMode               string         `json:"paymentMode" validate:"omitempty,code=payment-method"`
	SupplierBankAccountNumber string         `json:"supplierBankAccountNumber"`
	PrePaymentReferenceNumber string         `json:"prePaymentReferenceNumber"`
	PrePaymentAmount          decimal.Amount `json:"prePaymentAmount" validate:"omitempty,amount"`
	PrePaymentDate            string         `json:"prePaymentDate" validate:"omitempty,datetime=2006-01-02"`
	PrePaymentTime            string         `json:"prePaymentTime" validate:"omitempty,datetime=15:04:05"`
	BillReferenceNumber       string         `json:"billReferenceNumber"`
	PaymentTerms              string         `json:"paymentTerms"`
	TotalNetAmount            decimal.Amount `json:"totalNetAmount" validate:"omitempty,amount"`
	TotalDiscountValue        decimal.Amount `json:"totalDiscountValue" validate:"omitempty,amount"`
	TotalFeeChargeAmount      decimal.Amount `json:"totalFeeChargeAmount" validate:"omitempty,amount"`
	RoundingAmount            decimal.Number `json:"roundingAmount" validate:"omitempty,amount"`
}

// HasBuyer is the buyer gate: the buyer block exists iff a name was given
func (f *FlatInvoice) HasBuyer() bool {
	return f.BuyerName != ""
}

// FlatLineItem is one repeated line-item entry
type FlatLineItem struct {
	ItemCode           string         `json:"itemCode"`
	ItemName           string         `json:"itemName"`
	ClassificationCode string         `json:"classificationCode" validate:"omitempty,code=classification"`
	CountryOfOrigin    string         `json:"countryofOrigin" validate:"omitempty,code=country"`
	Measurement        string         `json:"measurement" validate:"omitempty,code=unit"`
	Quantity           decimal.Number `json:"quantity" validate:"omitempty,nonnegative"`
	UnitPrice          decimal.Amount `json:"unitPrice" validate:"omitempty,amount"`
	NetAmount          decimal.Amount `json:"netAmount" validate:"omitempty,amount"`
	Subtotal           decimal.Amount `json:"subtotal" validate:"omitempty,amount"`
	TotalExcludingTax  decimal.Amount `json:"totalExcludingTax" validate:"omitempty,amount"`
	DiscountAmount     decimal.Amount `json:"discountAmount" validate:"omitempty,amount"`
	DiscountRate       decimal.Amount `json:"discountRate" validate:"omitempty,amount"`
	DiscountReason     string         `json:"discountReason"`
	FeeChargeAmount    decimal.Amount `json:"feeChargeAmount" validate:"omitempty,amount"`
	FeeChargeRate      decimal.Amount `json:"feeChargeRate" validate:"omitempty,amount"`
	FeeChargeReason    string         `json:"feeChargeReason"`
	ProductTariffCode  string         `json:"productTariffCode"`
	TaxType            string         `json:"taxType" validate:"omitempty,code=tax-type"`
	Percent            decimal.Number `json:"percent" validate:"omitempty,nonnegative"`
	PerUnitAmount      decimal.Number `json:"perUnitAmount" validate:"omitempty,amount"`
	Tax                decimal.Number `json:"tax" validate:"omitempty,amount"`
}

// FlatAllowanceCharge is one repeated allowance/charge entry
type FlatAllowanceCharge struct {
	Charge bool           `json:"allowanceChargeIndicator"`
	Reason string         `json:"allowanceChargeReason"`
	Amount decimal.Amount `json:"allowanceChargeAmount" validate:"omitempty,amount"`
}

// FlatShipping is the optional shipping block. A non-empty block needs
// AddressLine0.
type FlatShipping struct {
	RecipientName string `json:"shippingRecipientName"`
	AddressLine0  string `json:"shippingRecipientAddressLine0"`
	AddressLine1  string `json:"shippingRecipientAddressLine1"`
	AddressLine2  string `json:"shippingRecipientAddressLine2"`
	CityName      string `json:"shippingRecipientCityName"`
	PostalZone    string `json:"shippingRecipientPostalZone"`
	State         string `json:"shippingRecipientState"`
	Country       string `json:"shippingRecipientCountry" validate:"omitempty,code=country"`
}

// IsEmpty reports whether no shipping entry was supplied
func (s *FlatShipping) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, v := range []string{
		s.RecipientName, s.AddressLine0, s.AddressLine1, s.AddressLine2,
		s.CityName, s.PostalZone, s.State, s.Country,
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
