// Package codes holds the static code tables of the clearance system
// (countries, states, currencies, units, tax types, classifications, payment
// methods, MSIC industry codes and e-invoice types).
//
// Tables are embedded JSON assets parsed once per process. Call Init at
// startup to surface a broken asset early; Default loads lazily otherwise.
// Tables are never mutated or reloaded after load.
package codes

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
)

//go:embed data/*.json
var assets embed.FS

// ErrNotFound is returned by Lookup for codes absent from a table
var ErrNotFound = errors.New("code not found")

// Kind names a code table
type Kind string

const (
	Country        Kind = "country"
	State          Kind = "state"
	Currency       Kind = "currency"
	Unit           Kind = "unit"
	TaxType        Kind = "tax-type"
	Classification Kind = "classification"
	PaymentMethod  Kind = "payment-method"
	Industry       Kind = "industry"
	InvoiceType    Kind = "invoice-type"
)

var files = map[Kind]string{
	Country:        "countries.json",
	State:          "states.json",
	Currency:       "currencies.json",
	Unit:           "units.json",
	TaxType:        "tax_types.json",
	Classification: "classifications.json",
	PaymentMethod:  "payment_methods.json",
	Industry:       "industries.json",
	InvoiceType:    "invoice_types.json",
}

// Kinds returns every table kind in a stable order
func Kinds() []Kind {
	return []Kind{Country, State, Currency, Unit, TaxType, Classification, PaymentMethod, Industry, InvoiceType}
}

// Entry is one code with its display label
type Entry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Option is the label/value pair used to populate option lists
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Table is an immutable code → label mapping that keeps file order
type Table struct {
	kind    Kind
	entries []Entry
	index   map[string]int
}

// NewTable builds a table, rejecting empty and duplicate codes
func NewTable(kind Kind, entries []Entry) (*Table, error) {
	t := &Table{
		kind:    kind,
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if e.Code == "" {
			return nil, fmt.Errorf("%s table: empty code at position %d", kind, i)
		}
		if _, dup := t.index[e.Code]; dup {
			return nil, fmt.Errorf("%s table: duplicate code %q", kind, e.Code)
		}
		t.index[e.Code] = i
	}
	return t, nil
}

// Kind returns the table kind
func (t *Table) Kind() Kind {
	return t.kind
}

// Lookup returns the label for code
func (t *Table) Lookup(code string) (string, error) {
	i, ok := t.index[code]
	if !ok {
		return "", fmt.Errorf("%s %q: %w", t.kind, code, ErrNotFound)
	}
	return t.entries[i].Label, nil
}

// Has reports whether code is in the table
func (t *Table) Has(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Codes returns the valid codes in table order
func (t *Table) Codes() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Code
	}
	return out
}

// Entries returns a copy of the table entries
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Options returns label/value pairs in table order
func (t *Table) Options() []Option {
	out := make([]Option, len(t.entries))
	for i, e := range t.entries {
		out[i] = Option{Name: e.Label, Value: e.Code}
	}
	return out
}

// Len returns the number of codes
func (t *Table) Len() int {
	return len(t.entries)
}

// Registry holds one table per kind
type Registry struct {
	tables map[Kind]*Table
}

// Load parses every embedded table
func Load() (*Registry, error) {
	r := &Registry{tables: make(map[Kind]*Table, len(files))}

	for _, kind := range Kinds() {
		raw, err := assets.ReadFile(path.Join("data", files[kind]))
		if err != nil {
			return nil, fmt.Errorf("read %s table: %w", kind, err)
		}

		var entries []Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s table: %w", kind, err)
		}

		table, err := NewTable(kind, entries)
		if err != nil {
			return nil, err
		}
		r.tables[kind] = table
	}

	return r, nil
}

// Table returns the table of the given kind
func (r *Registry) Table(kind Kind) (*Table, error) {
	t, ok := r.tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown code table %q", kind)
	}
	return t, nil
}

// MustTable returns the table of the given kind, panics if it is unknown
func (r *Registry) MustTable(kind Kind) *Table {
	t, err := r.Table(kind)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Init loads the process-wide registry. Later calls return the first result.
func Init() error {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load()
	})
	return defaultErr
}

// Default returns the process-wide registry, panics if the embedded tables
// are broken
func Default() *Registry {
	if err := Init(); err != nil {
		panic(err)
	}
	return defaultRegistry
}

// Lookup is shorthand for Default().MustTable(kind).Lookup(code)
func Lookup(kind Kind, code string) (string, error) {
	return Default().MustTable(kind).Lookup(code)
}

// Has is shorthand for Default().MustTable(kind).Has(code)
func Has(kind Kind, code string) bool {
	return Default().MustTable(kind).Has(code)
}
