// Package assembler maps a flat invoice field set into the nested document
// accepted by the ICS clearance API.
//
// Assemble is a pure function: it validates, applies code-table defaults,
// normalizes state codes and derives the tax summaries. It never computes
// totals; monetary amounts are passed through as supplied.
package assembler

import (
	"github.com/rezonia/ics-einvoice/internal/decimal"
	"github.com/rezonia/ics-einvoice/internal/model"
	"github.com/rezonia/ics-einvoice/internal/region"
)

// Defaults applied to absent fields
const (
	DefaultIssueMode      = model.IssueModeImmediate
	DefaultInvoiceType    = model.InvoiceTypeInvoice
	DefaultCurrency       = "MYR"
	DefaultExchangeRate   = decimal.Amount("1")
	DefaultIDType         = model.IDTypeBRN
	DefaultCountry        = region.DomesticCountry
	DefaultState          = region.NotApplicable
	DefaultMeasurement    = "EA"
	DefaultClassification = "022"
	DefaultTaxType        = "06"
	DefaultPaymentMode    = "01"
	DefaultQuantity       = decimal.Number("1")
)

// Assemble validates in and builds the invoice document
func Assemble(in *FlatInvoice) (*model.InvoiceDocument, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	doc := &model.InvoiceDocument{
		StoreCode:                 in.StoreCode,
		InvoiceCodeNumber:         in.InvoiceCodeNumber,
		IssueMode:                 model.IssueMode(or(in.IssueMode, string(DefaultIssueMode))),
		InvoiceTypeCode:           model.InvoiceType(or(in.InvoiceTypeCode, string(DefaultInvoiceType))),
		OriginalInvoiceCodeNumber: in.OriginalInvoiceCodeNumber,
		OriginalInvoiceUUID:       in.OriginalInvoiceUUID,
		InvoiceCurrencyCode:       or(in.InvoiceCurrencyCode, DefaultCurrency),
		ExchangeRate:              in.ExchangeRate.Or(DefaultExchangeRate),
		InvoiceDate:               in.InvoiceDate,
		InvoiceTime:               in.InvoiceTime,
		K1:                        in.K1,
		Incoterms:                 in.Incoterms,
		FTAInformation:            in.FTAInformation,
		K2:                        in.K2,
		TotalExcludingTax:         in.TotalExcludingTax,
		TotalIncludingTax:         in.TotalIncludingTax,
		TotalPayableAmount:        in.TotalPayableAmount,

		Supplier: buildSupplier(in),

		PaymentMode:               or(in.PaymentMode, DefaultPaymentMode),
		SupplierBankAccountNumber: in.SupplierBankAccountNumber,
		PrePaymentReferenceNumber: in.PrePaymentReferenceNumber,
		PrePaymentAmount:          in.PrePaymentAmount,
		PrePaymentDate:            in.PrePaymentDate,
		PrePaymentTime:            in.PrePaymentTime,
		BillReferenceNumber:       in.BillReferenceNumber,
		PaymentTerms:              in.PaymentTerms,
		TotalNetAmount:            in.TotalNetAmount,
		TotalDiscountValue:        in.TotalDiscountValue.Or(decimal.ZeroAmount),
		TotalFeeChargeAmount:      in.TotalFeeChargeAmount,
		RoundingAmount:            in.RoundingAmount.Or("0"),
	}

	if in.HasBuyer() {
		doc.Buyer = buildBuyer(in)
	}

	doc.InvoiceLineItemList = make([]model.LineItem, len(in.LineItems))
	for i := range in.LineItems {
		doc.InvoiceLineItemList[i] = buildLineItem(&in.LineItems[i])
	}

	doc.TaxTotal = buildTaxTotal(in.TotalTaxAmount, in.TotalExcludingTax, doc.InvoiceLineItemList)
	doc.AllowanceChargeList = buildAllowanceCharges(in.AllowanceCharges)
	doc.Shipping = buildShipping(in.Shipping)

	return doc, nil
}

func buildSupplier(in *FlatInvoice) model.Supplier {
	country := or(in.SupplierCountry, DefaultCountry)

	return model.Supplier{
		SupplierName: in.SupplierName,
		SupplierRegistration: model.SupplierRegistration{
			Registration: model.Registration{
				IDType:  model.IDType(or(in.SupplierIDType, string(DefaultIDType))),
				IDValue: in.SupplierIDValue,
				TIN:     in.SupplierTIN,
				SST:     in.SupplierSST,
			},
			TTX: in.SupplierTTX,
		},
		SupplierIndustryCode:                    in.SupplierIndustryCode,
		SupplierBusinessActivityDescription:     in.SupplierBusinessActivityDescription,
		AuthorisationNumberForCertifiedExporter: in.AuthorisationNumberForCertifiedExporter,
		SupplierTTX:                             in.SupplierTTX,
		SupplierContactNumber:                   in.SupplierContactNumber,
		SupplierEmail:                           in.SupplierEmail,
		SupplierAddress: model.Address{
			AddressLine0: in.SupplierAddressLine0,
			AddressLine1: in.SupplierAddressLine1,
			AddressLine2: in.SupplierAddressLine2,
			CityName:     in.SupplierCityName,
			Country:      country,
			State:        region.Normalize(or(in.SupplierState, DefaultState), country),
			PostalZone:   in.SupplierPostalZone,
		},
	}
}

func buildBuyer(in *FlatInvoice) *model.Buyer {
	country := or(in.BuyerCountry, DefaultCountry)

	return &model.Buyer{
		BuyerCode: in.BuyerCode,
		BuyerName: in.BuyerName,
		BuyerRegistration: model.Registration{
			IDType:  model.IDType(or(in.BuyerIDType, string(DefaultIDType))),
			IDValue: in.BuyerIDValue,
			TIN:     in.BuyerTIN,
			SST:     in.BuyerSST,
		},
		BuyerContactNumber: in.BuyerContactNumber,
		BuyerEmail:         in.BuyerEmail,
		BuyerAddress: model.Address{
			AddressLine0: in.BuyerAddressLine0,
			AddressLine1: in.BuyerAddressLine1,
			AddressLine2: in.BuyerAddressLine2,
			CityName:     in.BuyerCityName,
			Country:      country,
			State:        region.Normalize(or(in.BuyerState, DefaultState), country),
			PostalZone:   in.BuyerPostalZone,
		},
	}
}

// buildLineItem keeps the tax breakdown 1:1 with the line: one
// classification and one tax sub-total, both seeded from the item itself
func buildLineItem(item *FlatLineItem) model.LineItem {
	measurement := or(item.Measurement, DefaultMeasurement)
	quantity := item.Quantity.Or(DefaultQuantity)

	totalTax := decimal.ZeroAmount
	if !item.Tax.IsEmpty() {
		totalTax = decimal.Amount(item.Tax)
	}

	return model.LineItem{
		ItemName:          item.ItemName,
		ItemCode:          item.ItemCode,
		Measurement:       measurement,
		Quantity:          quantity,
		TotalExcludingTax: item.TotalExcludingTax,
		UnitPrice:         item.UnitPrice,
		DiscountAmount:    item.DiscountAmount.Or(decimal.ZeroAmount),
		DiscountRate:      item.DiscountRate.Or(decimal.ZeroAmount),
		DiscountReason:    item.DiscountReason,
		FeeChargeRate:     item.FeeChargeRate.Or(decimal.ZeroAmount),
		FeeChargeAmount:   item.FeeChargeAmount.Or(decimal.ZeroAmount),
		FeeChargeReason:   item.FeeChargeReason,
		CountryOfOrigin:   or(item.CountryOfOrigin, DefaultCountry),
		ProductTariffCode: item.ProductTariffCode,
		Subtotal:          item.Subtotal,
		ClassificationList: []model.Classification{
			{Code: or(item.ClassificationCode, DefaultClassification), Group: model.ClassificationGroup},
		},
		TaxTotal: model.TaxTotal{
			TotalTaxAmount: totalTax,
			TaxSubTotalList: []model.TaxSubTotal{
				{
					TaxType:       or(item.TaxType, DefaultTaxType),
					Percent:       item.Percent.Or("0"),
					PerUnitAmount: item.PerUnitAmount.Or("0"),
					Measurement:   measurement,
					Quantity:      quantity,
					NetAmount:     item.NetAmount,
					Tax:           item.Tax.Or("0"),
				},
			},
		},
	}
}

// buildTaxTotal re-derives the document tax summary from the line items.
// The clearance schema wants quantity zeroed and netAmount replaced by the
// document total excluding tax on every entry.
func buildTaxTotal(totalTax, totalExcludingTax decimal.Amount, lines []model.LineItem) model.TaxTotal {
	netAmount := totalExcludingTax.Or(decimal.ZeroAmount)

	subTotals := make([]model.TaxSubTotal, len(lines))
	for i, line := range lines {
		sub := line.TaxTotal.TaxSubTotalList[0]
		sub.Quantity = "0"
		sub.NetAmount = netAmount
		subTotals[i] = sub
	}

	return model.TaxTotal{
		TotalTaxAmount:  totalTax.Or(decimal.ZeroAmount),
		TaxSubTotalList: subTotals,
	}
}

func buildAllowanceCharges(entries []FlatAllowanceCharge) []model.AllowanceCharge {
	out := make([]model.AllowanceCharge, len(entries))
	for i, e := range entries {
		out[i] = model.AllowanceCharge{
			AllowanceChargeIndicator: e.Charge,
			AllowanceChargeReason:    e.Reason,
			AllowanceChargeAmount:    e.Amount,
		}
	}
	return out
}

// buildShipping is all-or-nothing: an empty block yields nil
func buildShipping(s *FlatShipping) *model.Shipping {
	if s.IsEmpty() {
		return nil
	}

	country := or(s.Country, DefaultCountry)
	return &model.Shipping{
		ShippingRecipientName: s.RecipientName,
		ShippingRecipientAddress: model.Address{
			AddressLine0: s.AddressLine0,
			AddressLine1: s.AddressLine1,
			AddressLine2: s.AddressLine2,
			CityName:     s.CityName,
			PostalZone:   s.PostalZone,
			State:        region.Normalize(or(s.State, DefaultState), country),
			Country:      country,
		},
	}
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
