package decimal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Amount is a monetary value carried as its decimal text, e.g. "1250.00".
// The text is validated but never re-formatted, so trailing zeros survive
// the trip to the clearance API.
type Amount string

// ZeroAmount is the default for absent discount, fee and tax amounts
const ZeroAmount Amount = "0.00"

// ParseAmount validates s as a decimal number and returns it as an Amount.
// Surrounding whitespace is dropped; an empty string yields an empty Amount.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount(s), nil
}

// IsEmpty reports whether no amount was supplied
func (a Amount) IsEmpty() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Or returns def when a is empty
func (a Amount) Or(def Amount) Amount {
	if a.IsEmpty() {
		return def
	}
	return a
}

// Decimal parses the amount. Empty amounts are zero.
func (a Amount) Decimal() (decimal.Decimal, error) {
	if a.IsEmpty() {
		return Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}

// String returns the amount text
func (a Amount) String() string {
	return string(a)
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
// Numbers are kept as their literal text and never pass through float64;
// strings lose surrounding whitespace.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	if !IsDecimal(string(b)) {
		return fmt.Errorf("invalid amount %s", b)
	}
	*a = Amount(b)
	return nil
}

// Number is a JSON number kept as its literal text (quantities, tax percent).
// It marshals as a bare JSON number; an empty Number marshals as 0.
type Number string

// NumberFromInt creates a Number from an int
func NumberFromInt(v int64) Number {
	return Number(decimal.NewFromInt(v).String())
}

// IsEmpty reports whether no number was supplied
func (n Number) IsEmpty() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Or returns def when n is empty
func (n Number) Or(def Number) Number {
	if n.IsEmpty() {
		return def
	}
	return n
}

// Decimal parses the number. Empty numbers are zero.
func (n Number) Decimal() (decimal.Decimal, error) {
	if n.IsEmpty() {
		return Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(string(n)))
}

// MarshalJSON writes the number in fixed-point form
func (n Number) MarshalJSON() ([]byte, error) {
	d, err := n.Decimal()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", string(n), err)
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric JSON string or null
func (n *Number) UnmarshalJSON(b []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(b); err != nil {
		return err
	}
	if !a.IsEmpty() && !IsDecimal(string(a)) {
		return fmt.Errorf("invalid number %q", string(a))
	}
	*n = Number(strings.TrimSpace(string(a)))
	return nil
}

// IsDecimal reports whether s parses as a decimal number
func IsDecimal(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
