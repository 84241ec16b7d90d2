// Package supplier holds the per-supplier extraction strategies. Each
// registered SupplierKey maps to exactly one header parser and one line-item
// parser; the mapping is validated at startup so an unmapped key is a
// configuration-time failure, not a request-time one.
package supplier

import (
	"fmt"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// HeaderParser extracts the 13 header fields from a raw text blob. A matched
// monetary field that cannot be converted propagates normalizer.ErrMalformedAmount;
// everything else defaults instead of failing.
type HeaderParser func(text string) (invoice.Header, error)

// LineItemParser extracts every non-overlapping item-row match from the text,
// in text order, without line numbers. Rows failing numeric conversion are
// reported as RowErrors and skipped; no matches is not an error.
type LineItemParser func(text string) ([]invoice.LineItem, []RowError)

// RowError describes a single skipped line-item row.
type RowError struct {
	ItemNo string
	Field  string
	Raw    string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line item %s: %s %q: %v", e.ItemNo, e.Field, e.Raw, e.Err)
}

// ParserPair bundles the two strategies registered for one supplier.
type ParserPair struct {
	Header    HeaderParser
	LineItems LineItemParser
}

var registry = map[invoice.SupplierKey]ParserPair{
	invoice.Supplier1: {Header: parseTechSolutionsHeader, LineItems: parseTechSolutionsLineItems},
	invoice.Supplier2: {Header: parseGlobalImportsHeader, LineItems: parseGlobalImportsLineItems},
	invoice.Supplier3: {Header: parseNexGenHeader, LineItems: parseNexGenLineItems},
}

// Lookup returns the parser pair registered for key.
func Lookup(key invoice.SupplierKey) (ParserPair, bool) {
	pair, ok := registry[key]
	return pair, ok
}

// ValidateRegistry checks that every known SupplierKey has both parsers
// registered. Call it once at startup.
func ValidateRegistry() error {
	for _, key := range invoice.Keys() {
		pair, ok := registry[key]
		if !ok {
			return fmt.Errorf("supplier %s: no parser pair registered", key)
		}
		if pair.Header == nil || pair.LineItems == nil {
			return fmt.Errorf("supplier %s: incomplete parser pair", key)
		}
	}
	return nil
}
