package supplier

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// SUPPLIER2 — Global Imports. The company name is a literal anchor, the tax
// label reads "GST ID" instead of "GSTIN", and the address block runs from a
// fixed street literal up to the tax label.
var (
	globalGSTRe     = regexp.MustCompile(`(?i)GST\s*ID\s*[:\-]?\s*([0-9A-Z]{15})`)
	globalCompanyRe = regexp.MustCompile(`(?i)Global Imports Inc\.`)
	globalAddressRe = regexp.MustCompile(`(?is)(456 Global Avenue.*?)(?:GST\s*ID|$)`)
	globalInvoiceRe = regexp.MustCompile(`(?i)Invoice\s*#?\s*[:\-]?\s*(\S+)`)

	globalLineItemRe = regexp.MustCompile(`(?i)(ITEM-\d{4})\s+([^\n]+?)\s+(Piece|Unit|Box)\s+(\d+)\s+([\d.,]+)\s+([\d.,]+)`)
)

const globalAddressFallback = "456 Global Avenue, New York, NY, 10001, USA"

func parseGlobalImportsHeader(text string) (invoice.Header, error) {
	var h invoice.Header

	h.TaxID = firstGroup(globalGSTRe, text)
	if globalCompanyRe.MatchString(text) {
		h.CompanyName = "Global Imports Inc."
	}
	h.RawAddress = firstGroup(globalAddressRe, text)
	if h.RawAddress == "" {
		h.RawAddress = globalAddressFallback
	}
	h.InvoiceNo = firstGroup(globalInvoiceRe, text)

	if err := fillCommonFields(&h, text, "Freight"); err != nil {
		return invoice.Header{}, err
	}
	return h, nil
}

func parseGlobalImportsLineItems(text string) ([]invoice.LineItem, []RowError) {
	return collectLineItems(globalLineItemRe, text, func(m []string) (string, string, string, []string) {
		return m[1], strings.TrimSpace(m[2]), m[3], m[4:7]
	})
}
