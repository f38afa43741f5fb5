// Package region normalizes free-form or coded state values into the 2-digit
// state codes the clearance API accepts.
package region

import (
	"regexp"
	"strings"
	"sync"

	"github.com/rezonia/ics-einvoice/internal/codes"
)

const (
	// DomesticCountry is the only country whose states are resolved
	DomesticCountry = "MYS"

	// ForeignFallback is returned for every non-domestic address
	ForeignFallback = "01"

	// NotApplicable is returned for unrecognized domestic states
	NotApplicable = "17"
)

var twoDigits = regexp.MustCompile(`^\d{2}$`)

// aliases covers abbreviations and historical names that differ from the
// labels of the state code table
var aliases = map[string]string{
	"johore":            "01",
	"malacca":           "04",
	"n. sembilan":       "05",
	"n sembilan":        "05",
	"negri sembilan":    "05",
	"penang":            "07",
	"p. pinang":         "07",
	"kuala lumpur":      "14",
	"wp kuala lumpur":   "14",
	"w.p. kuala lumpur": "14",
	"kl":                "14",
	"labuan":            "15",
	"wp labuan":         "15",
	"putrajaya":         "16",
	"wp putrajaya":      "16",
	"na":                "17",
	"n/a":               "17",
}

var (
	namesOnce sync.Once
	names     map[string]string
)

// stateNames merges the lower-cased state table labels with the aliases
func stateNames() map[string]string {
	namesOnce.Do(func() {
		table := codes.Default().MustTable(codes.State)
		names = make(map[string]string, table.Len()+len(aliases))
		for _, e := range table.Entries() {
			names[strings.ToLower(e.Label)] = e.Code
		}
		for name, code := range aliases {
			names[name] = code
		}
	})
	return names
}

// Normalize resolves raw into a canonical state code for country.
//
// Non-domestic countries always yield ForeignFallback. A 2-digit value is
// returned unchanged without checking the table. Anything else is matched
// case-insensitively against state names; misses yield NotApplicable.
// Normalize never fails and is idempotent.
func Normalize(raw, country string) string {
	if country != DomesticCountry {
		return ForeignFallback
	}
	if twoDigits.MatchString(raw) {
		return raw
	}
	if code, ok := stateNames()[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return NotApplicable
}
