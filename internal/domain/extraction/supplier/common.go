package supplier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction/normalizer"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// datePattern accepts the three date shapes that appear in supplier
// documents: 12/05/2024 or 12-05-2024, 12-May-2024, 2024-05-12.
const datePattern = `(\d{2}[/-]\d{2}[/-]\d{4}|\d{2}-[A-Za-z]{3}-\d{4}|\d{4}-\d{2}-\d{2})`

// Patterns shared by all three supplier layouts. Search is case-insensitive,
// unanchored, first match only: duplicate labels elsewhere in the document
// are ignored.
var (
	invoiceDateRe = regexp.MustCompile(`(?i)Invoice Date\s*[:\-]?\s*` + datePattern)
	dueDateRe     = regexp.MustCompile(`(?i)Due Date\s*[:\-]?\s*` + datePattern)
	poNumberRe    = regexp.MustCompile(`(?i)PO Number\s*[:\-]?\s*(.+?)(?:\n|$)`)
	termsRe       = regexp.MustCompile(`(?i)Terms\s*[:\-]?\s*(Net\s*\d+)`)
	shippingRe    = regexp.MustCompile(`(?i)Shipping\s*Method\s*[:\-]?\s*(.*)`)
	subtotalRe    = regexp.MustCompile(`(?i)Subtotal\s*[:\-]?\s*INR\s*([\-\d,]+\.?\d*)`)
	discountRe    = regexp.MustCompile(`(?i)Discount\s*[:\-]?\s*INR\s*([\-\d,]+\.?\d*)`)
	taxRe         = regexp.MustCompile(`(?i)\bTax.*?\(\d+% GST\)?\s*[:\-]?\s*INR\s*([\-\d,]+\.?\d*)`)
	totalRe       = regexp.MustCompile(`(?i)\bTotal\s*[:\-]?\s*INR\s*([\-\d,]+\.?\d*)`)
)

// firstGroup returns the trimmed first capture group of the first match, or
// "" when the pattern does not match.
func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// defaultTerms applies when no Terms label matches.
const defaultTerms = "Net 30"

// fillCommonFields populates the header fields whose labels are identical
// across all supplier layouts: dates, PO number, terms, shipping method and
// the four INR-anchored monetary rows. shippingDefault is supplier-specific.
func fillCommonFields(h *invoice.Header, text, shippingDefault string) error {
	h.InvoiceDate = normalizer.ParseDate(firstGroup(invoiceDateRe, text))
	h.DueDate = normalizer.ParseDate(firstGroup(dueDateRe, text))
	h.PONumber = firstGroup(poNumberRe, text)

	h.Terms = firstGroup(termsRe, text)
	if h.Terms == "" {
		h.Terms = defaultTerms
	}
	h.ShippingMethod = firstGroup(shippingRe, text)
	if h.ShippingMethod == "" {
		h.ShippingMethod = shippingDefault
	}

	var err error
	if h.Subtotal, err = matchedAmount(subtotalRe, text, "subtotal"); err != nil {
		return err
	}
	if h.Discount, err = matchedAmount(discountRe, text, "discount"); err != nil {
		return err
	}
	if h.Tax, err = matchedAmount(taxRe, text, "tax"); err != nil {
		return err
	}
	if h.Total, err = matchedAmount(totalRe, text, "total"); err != nil {
		return err
	}
	return nil
}

// matchedAmount converts a matched monetary field to a decimal. An unmatched
// field defaults to zero; a matched field that fails conversion propagates
// ErrMalformedAmount, naming the field.
func matchedAmount(re *regexp.Regexp, text, field string) (decimal.Decimal, error) {
	raw := firstGroup(re, text)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := normalizer.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// collectLineItems runs an item-row pattern over the text and converts each
// match. build maps a regexp match to (itemNo, description, unit, rest) where
// rest holds the quantity, unit price and total price captures in order.
func collectLineItems(re *regexp.Regexp, text string, build func(m []string) (itemNo, description, unit string, rest []string)) ([]invoice.LineItem, []RowError) {
	var items []invoice.LineItem
	var rowErrs []RowError

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		itemNo, description, unit, rest := build(m)

		qty, err := strconv.Atoi(rest[0])
		if err != nil {
			rowErrs = append(rowErrs, RowError{ItemNo: itemNo, Field: "quantity", Raw: rest[0], Err: err})
			continue
		}
		unitPrice, err := normalizer.ParseAmount(rest[1])
		if err != nil {
			rowErrs = append(rowErrs, RowError{ItemNo: itemNo, Field: "unit_price", Raw: rest[1], Err: err})
			continue
		}
		totalPrice, err := normalizer.ParseAmount(rest[2])
		if err != nil {
			rowErrs = append(rowErrs, RowError{ItemNo: itemNo, Field: "total_price", Raw: rest[2], Err: err})
			continue
		}

		items = append(items, invoice.LineItem{
			ItemNo:      itemNo,
			Description: description,
			Unit:        unit,
			Quantity:    qty,
			UnitPrice:   unitPrice,
			TotalPrice:  totalPrice,
		})
	}
	return items, rowErrs
}
