// Package normalizer provides the pure field-cleaning functions the supplier
// parsers share: currency-amount cleaning, multi-format date parsing, and
// positional address decomposition.
package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount indicates a matched monetary field whose cleaned text
// could not be converted to a decimal. Unmatched fields default to zero and
// never produce this error; only matched-but-unparsable text does.
var ErrMalformedAmount = errors.New("malformed amount")

// currencyGlyphs are stripped before numeric conversion. The "â‚¹" sequence is
// the UTF-8 rupee sign mis-decoded as Latin-1, which is how it arrives from
// some supplier PDFs.
var currencyGlyphs = []string{"â‚¹", "₹", "$", "€", "£"}

// CleanAmount strips currency symbols and thousands separators from a raw
// monetary string. Empty input yields the literal "0". CleanAmount never
// fails and is idempotent; converting the result to a decimal is the caller's
// job (see ParseAmount).
func CleanAmount(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "0"
	}
	s := raw
	for _, g := range currencyGlyphs {
		s = strings.ReplaceAll(s, g, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// ParseAmount cleans raw and converts it to a decimal. A conversion failure
// wraps ErrMalformedAmount with the offending text.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := CleanAmount(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	return d, nil
}
