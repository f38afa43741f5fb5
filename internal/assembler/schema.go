package assembler

import (
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/rezonia/ics-einvoice/internal/decimal"
)

const decimalPattern = `^-?\d+(\.\d+)?$`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// Schema returns the JSON schema of FlatInvoice. Amounts accept either a
// decimal string or a JSON number.
func Schema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
			Mapper:                     mapDecimal,
		}
		schema = reflector.Reflect(&FlatInvoice{})
	})
	return schema
}

func mapDecimal(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(decimal.Amount("")), reflect.TypeOf(decimal.Number("")):
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string", Pattern: decimalPattern},
				{Type: "number"},
			},
		}
	}
	return nil
}
