package assembler

import (
	"fmt"

	"github.com/shopspring/decimal"

	idecimal "github.com/rezonia/ics-einvoice/internal/decimal"
	"github.com/rezonia/ics-einvoice/internal/model"
)

// Check returns advisory warnings for an assembled document. It never
// rejects: the clearance API is the authority on totals.
func Check(doc *model.InvoiceDocument) []string {
	if doc == nil {
		return nil
	}

	var warnings []string

	if doc.Supplier.SupplierName == "" {
		warnings = append(warnings, "supplier name is empty")
	}
	if doc.Supplier.SupplierRegistration.TIN == "" {
		warnings = append(warnings, "supplier TIN is empty")
	}
	if doc.InvoiceDate == "" {
		warnings = append(warnings, "invoice date is empty")
	}

	// Totals: including = excluding + tax
	if !doc.TotalIncludingTax.IsEmpty() && !doc.TotalExcludingTax.IsEmpty() {
		incl, errIncl := doc.TotalIncludingTax.Decimal()
		excl, errExcl := doc.TotalExcludingTax.Decimal()
		tax, errTax := doc.TaxTotal.TotalTaxAmount.Decimal()
		if errIncl == nil && errExcl == nil && errTax == nil {
			if expected := excl.Add(tax); !incl.Equal(expected) {
				warnings = append(warnings, fmt.Sprintf(
					"totalIncludingTax %s does not equal totalExcludingTax %s + totalTaxAmount %s",
					doc.TotalIncludingTax, doc.TotalExcludingTax, doc.TaxTotal.TotalTaxAmount))
			}
		}
	}

	// Line totals against the document total
	if !doc.TotalExcludingTax.IsEmpty() {
		if sum, ok := sumLineTotals(doc.InvoiceLineItemList); ok {
			if excl, err := doc.TotalExcludingTax.Decimal(); err == nil && !sum.Equal(excl) {
				warnings = append(warnings, fmt.Sprintf(
					"line totals sum to %s but totalExcludingTax is %s",
					sum.StringFixed(2), doc.TotalExcludingTax))
			}
		}
	}

	return warnings
}

// sumLineTotals adds totalExcludingTax across lines. It reports false when
// any line lacks the value.
func sumLineTotals(lines []model.LineItem) (decimal.Decimal, bool) {
	values := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		if line.TotalExcludingTax.IsEmpty() {
			return idecimal.Zero, false
		}
		d, err := line.TotalExcludingTax.Decimal()
		if err != nil {
			return idecimal.Zero, false
		}
		values = append(values, d)
	}
	return idecimal.Sum(values), true
}
