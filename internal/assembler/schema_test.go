package assembler_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ics-einvoice/internal/assembler"
)

func TestSchema(t *testing.T) {
	data, err := json.Marshal(assembler.Schema())
	require.NoError(t, err)

	var doc struct {
		Type       string                    `json:"type"`
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "object", doc.Type)
	assert.ElementsMatch(t, []string{"invoiceCodeNumber", "supplierTin", "supplierAddressLine0", "lineItems"}, doc.Required)

	require.Contains(t, doc.Properties, "supplierState")
	assert.Equal(t, "string", doc.Properties["supplierState"]["type"])

	require.Contains(t, doc.Properties, "totalExcludingTax")
	assert.Len(t, doc.Properties["totalExcludingTax"]["oneOf"], 2)

	lineItems := doc.Properties["lineItems"]
	assert.Equal(t, "array", lineItems["type"])
	assert.EqualValues(t, 1, lineItems["minItems"])
}
