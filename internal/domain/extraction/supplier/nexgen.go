package supplier

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// SUPPLIER3 — NexGen. Same GSTIN label as SUPPLIER1 but a literal company
// anchor, a spelled-out "Invoice Number" label, and a Set unit in item rows.
var (
	nexgenGSTINRe   = regexp.MustCompile(`(?i)GSTIN\s*[:\-]?\s*([0-9A-Z]{15})`)
	nexgenCompanyRe = regexp.MustCompile(`(?i)NexGen Enterprises`)
	nexgenAddressRe = regexp.MustCompile(`(?is)(789 NexGen Road.*?)(?:GSTIN|$)`)
	nexgenInvoiceRe = regexp.MustCompile(`(?i)Invoice\s*Number\s*[:\-]?\s*(\S+)`)

	nexgenLineItemRe = regexp.MustCompile(`(?i)(ITEM-\d{4})\s+([^\n]+?)\s+(Piece|Unit|Set)\s+(\d+)\s+([\d.,]+)\s+([\d.,]+)`)
)

const nexgenAddressFallback = "789 NexGen Road, Toronto, ON, M5V2T6, Canada"

func parseNexGenHeader(text string) (invoice.Header, error) {
	var h invoice.Header

	h.TaxID = firstGroup(nexgenGSTINRe, text)
	if nexgenCompanyRe.MatchString(text) {
		h.CompanyName = "NexGen Enterprises"
	}
	h.RawAddress = firstGroup(nexgenAddressRe, text)
	if h.RawAddress == "" {
		h.RawAddress = nexgenAddressFallback
	}
	h.InvoiceNo = firstGroup(nexgenInvoiceRe, text)

	if err := fillCommonFields(&h, text, "Air"); err != nil {
		return invoice.Header{}, err
	}
	return h, nil
}

func parseNexGenLineItems(text string) ([]invoice.LineItem, []RowError) {
	return collectLineItems(nexgenLineItemRe, text, func(m []string) (string, string, string, []string) {
		return m[1], strings.TrimSpace(m[2]), m[3], m[4:7]
	})
}
