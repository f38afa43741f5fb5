package assembler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rezonia/ics-einvoice/internal/codes"
	"github.com/rezonia/ics-einvoice/internal/decimal"
	"github.com/rezonia/ics-einvoice/internal/model"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator with the code-table and
// amount rules registered
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		mustRegister(v, "code", func(fl validator.FieldLevel) bool {
			return codes.Has(codes.Kind(fl.Param()), fl.Field().String())
		})
		mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
			return decimal.IsDecimal(fl.Field().String())
		})
		mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
			d, err := decimal.Amount(fl.Field().String()).Decimal()
			return err == nil && decimal.IsNonNegative(d)
		})

		v.RegisterStructValidation(correctionRules, FlatInvoice{})
		v.RegisterStructValidation(shippingRules, FlatShipping{})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// correctionRules requires the original invoice reference for types that
// amend a prior document
func correctionRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(FlatInvoice)
	if !model.InvoiceType(in.InvoiceTypeCode).IsCorrection() {
		return
	}
	if in.OriginalInvoiceCodeNumber == "" {
		sl.ReportError(in.OriginalInvoiceCodeNumber, "originalInvoiceCodeNumber", "OriginalInvoiceCodeNumber", "required_for_correction", in.InvoiceTypeCode)
	}
	if in.OriginalInvoiceUUID == "" {
		sl.ReportError(in.OriginalInvoiceUUID, "originalInvoiceUuid", "OriginalInvoiceUUID", "required_for_correction", in.InvoiceTypeCode)
	}
}

// shippingRules requires the first address line once any shipping field is
// set; an empty block is dropped by the assembler
func shippingRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(FlatShipping)
	if !s.IsEmpty() && strings.TrimSpace(s.AddressLine0) == "" {
		sl.ReportError(s.AddressLine0, "shippingRecipientAddressLine0", "AddressLine0", "required", "")
	}
}

// Validate checks a flat invoice before assembly. It returns the first
// failure as a *model.ValidationError.
func Validate(in *FlatInvoice) error {
	if in == nil {
		return model.NewValidationError("invoice", nil, "required", "invoice is required")
	}
	if len(in.LineItems) == 0 {
		return model.NewValidationError("lineItems", nil, "min", "at least one line item is required")
	}

	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.NewValidationError("invoice", nil, "invalid", err.Error())
	}

	fe := verrs[0]
	return model.NewValidationError(fieldPath(fe), fe.Value(), fe.Tag(), describe(fe))
}

// fieldPath drops the root struct name from the namespace
// ("FlatInvoice.lineItems[0].measurement" -> "lineItems[0].measurement")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return "must be provided together with " + fe.Param()
	case "required_for_correction":
		return fmt.Sprintf("is required for invoice type %s", fe.Param())
	case "code":
		return fmt.Sprintf("unknown %s code", fe.Param())
	case "amount":
		return "must be a decimal number"
	case "nonnegative":
		return "must be a number >= 0"
	case "datetime":
		return "must match format " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
