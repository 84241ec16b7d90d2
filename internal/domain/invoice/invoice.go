// Package invoice defines the typed invoice record produced by the extraction
// pipeline: header, decomposed address, and ordered line items.
package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SupplierKey identifies which supplier layout a document uses. The set is
// closed: every key must be registered with exactly one header parser and one
// line-item parser before dispatch.
type SupplierKey string

const (
	Supplier1 SupplierKey = "SUPPLIER1"
	Supplier2 SupplierKey = "SUPPLIER2"
	Supplier3 SupplierKey = "SUPPLIER3"
)

// Keys returns all registered supplier keys in stable order.
func Keys() []SupplierKey {
	return []SupplierKey{Supplier1, Supplier2, Supplier3}
}

func (k SupplierKey) String() string { return string(k) }

// Header holds the invoice-level fields extracted from a document.
// CompanyName, TaxID and InvoiceNo are mandatory; every monetary field
// defaults to decimal zero when its pattern does not match so downstream
// arithmetic never sees a null.
type Header struct {
	CompanyName    string
	TaxID          string
	RawAddress     string
	InvoiceNo      string
	Terms          string
	ShippingMethod string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	InvoiceDate    string // DD-MM-YYYY, empty when unmatched
	DueDate        string // DD-MM-YYYY, empty when unmatched
	PONumber       string
}

// Address is the positional decomposition of Header.RawAddress. Fields that
// cannot be derived stay empty strings.
type Address struct {
	Street  string
	City    string
	State   string
	Zipcode string
	Country string
}

// LineItem is one purchased row on an invoice. LineNumber is assigned by the
// dispatcher during aggregation (1-based, in text order), never by the
// supplier parsers themselves.
type LineItem struct {
	ItemNo      string
	Description string
	Unit        string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	LineNumber  int
}

// Record is the aggregate output of one extraction call. A Record is created
// fresh per call and never mutated afterwards; staging and persistence own
// the lifecycle from here.
type Record struct {
	SupplierKey SupplierKey
	Header      Header
	Address     Address
	LineItems   []LineItem
}

// MissingFieldsError reports which mandatory header fields were absent after
// parsing. The caller surfaces the field names so a human can inspect the
// source document.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validate checks the three mandatory header fields. It returns a
// *MissingFieldsError naming every absent field, or nil when the header is
// complete.
func (h Header) Validate() error {
	var missing []string
	if strings.TrimSpace(h.CompanyName) == "" {
		missing = append(missing, "company_name")
	}
	if strings.TrimSpace(h.TaxID) == "" {
		missing = append(missing, "tax_id")
	}
	if strings.TrimSpace(h.InvoiceNo) == "" {
		missing = append(missing, "invoice_no")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
