package codes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ics-einvoice/internal/codes"
)

func TestLoad_AllTables(t *testing.T) {
	reg, err := codes.Load()
	require.NoError(t, err)

	for _, kind := range codes.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			table, err := reg.Table(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, table.Kind())
			assert.Positive(t, table.Len())
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		kind  codes.Kind
		code  string
		label string
	}{
		{codes.State, "10", "Selangor"},
		{codes.State, "17", "Not Applicable"},
		{codes.Country, "MYS", "MALAYSIA"},
		{codes.Currency, "MYR", "Malaysian Ringgit"},
		{codes.Unit, "EA", "Each"},
		{codes.TaxType, "06", "Not Applicable"},
		{codes.Classification, "022", "Others"},
		{codes.PaymentMethod, "01", "Cash"},
		{codes.Industry, "00000", "NOT APPLICABLE"},
		{codes.InvoiceType, "02", "Credit Note"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.code, func(t *testing.T) {
			label, err := codes.Lookup(tt.kind, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	_, err := codes.Lookup(codes.Currency, "XYZ")
	require.ErrorIs(t, err, codes.ErrNotFound)
	assert.Contains(t, err.Error(), "XYZ")
}

func TestCodes_Ordered(t *testing.T) {
	states := codes.Default().MustTable(codes.State).Codes()
	require.Len(t, states, 17)
	assert.Equal(t, "01", states[0])
	assert.Equal(t, "17", states[16])

	states[0] = "mutated"
	assert.Equal(t, "01", codes.Default().MustTable(codes.State).Codes()[0])
}

func TestOptions(t *testing.T) {
	opts := codes.Default().MustTable(codes.PaymentMethod).Options()
	require.NotEmpty(t, opts)
	assert.Equal(t, codes.Option{Name: "Cash", Value: "01"}, opts[0])
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := codes.NewTable(codes.Unit, []codes.Entry{
		{Code: "EA", Label: "Each"},
		{Code: "EA", Label: "Each again"},
	})
	require.Error(t, err)

	_, err = codes.NewTable(codes.Unit, []codes.Entry{{Code: "", Label: "blank"}})
	require.Error(t, err)
}

func TestRegistry_UnknownKind(t *testing.T) {
	reg := codes.Default()
	_, err := reg.Table(codes.Kind("planet"))
	require.Error(t, err)
	assert.Panics(t, func() { reg.MustTable(codes.Kind("planet")) })
}

func TestInit_Idempotent(t *testing.T) {
	require.NoError(t, codes.Init())
	require.NoError(t, codes.Init())
	assert.Same(t, codes.Default(), codes.Default())
}

func TestHas(t *testing.T) {
	assert.True(t, codes.Has(codes.Country, "USA"))
	assert.False(t, codes.Has(codes.Country, "ATL"))
}
