package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

type fakeSource struct {
	records map[string]*invoice.Record
	order   []string
	listErr error
}

func (f *fakeSource) List(ctx context.Context) ([]invoice.Summary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []invoice.Summary
	for _, no := range f.order {
		rec := f.records[no]
		out = append(out, invoice.Summary{
			InvoiceNo:     no,
			SupplierName:  rec.Header.CompanyName,
			Total:         rec.Header.Total,
			LineItemCount: len(rec.LineItems),
		})
	}
	return out, nil
}

func (f *fakeSource) Get(ctx context.Context, invoiceNo string) (*invoice.Record, error) {
	rec, ok := f.records[invoiceNo]
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}
	return rec, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		order: []string{"INV-2", "INV-1"},
		records: map[string]*invoice.Record{
			"INV-1": {
				SupplierKey: invoice.Supplier1,
				Header: invoice.Header{
					InvoiceNo:      "INV-1",
					CompanyName:    "Tech Solutions Pvt. Ltd.",
					InvoiceDate:    "15-04-2025",
					DueDate:        "15-05-2025",
					PONumber:       "PO-7788",
					Terms:          "Net 30",
					ShippingMethod: "Courier",
					Total:          decimal.RequireFromString("2360.00"),
				},
				LineItems: []invoice.LineItem{
					{
						LineNumber: 1, ItemNo: "ITEM-0001",
						Description: "Premium Server Rack with Cooling", Unit: "Piece",
						Quantity:  2,
						UnitPrice: decimal.RequireFromString("1000.00"), TotalPrice: decimal.RequireFromString("2000.00"),
					},
				},
			},
			"INV-2": {
				SupplierKey: invoice.Supplier2,
				Header: invoice.Header{
					InvoiceNo:   "INV-2",
					CompanyName: "Global Imports Inc.",
					Total:       decimal.RequireFromString("1550.00"),
				},
				LineItems: []invoice.LineItem{
					{
						LineNumber: 1, ItemNo: "ITEM-0002",
						Description: "Network Switch 24-Port", Unit: "Piece",
						Quantity:  1,
						UnitPrice: decimal.RequireFromString("1200.00"), TotalPrice: decimal.RequireFromString("1200.00"),
					},
					{
						LineNumber: 2, ItemNo: "ITEM-0003",
						Description: "Fiber Optic Cable Bundle", Unit: "Box",
						Quantity:  1,
						UnitPrice: decimal.RequireFromString("350.00"), TotalPrice: decimal.RequireFromString("350.00"),
					},
				},
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewService(newFakeSource(), nil)

	out, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4, "header plus one row per line item")
	assert.Equal(t,
		"invoice_no,supplier,invoice_date,due_date,po_number,terms,shipping_method,line_number,item_no,description,unit,quantity,unit_price,total_price,invoice_total",
		strings.TrimSpace(lines[0]))

	assert.Contains(t, lines[1], "INV-2")
	assert.Contains(t, lines[1], "Network Switch 24-Port")
	assert.Contains(t, lines[2], "Fiber Optic Cable Bundle")
	assert.Contains(t, lines[2], "350.00")
	assert.Contains(t, lines[3], "INV-1")
	assert.Contains(t, lines[3], "2360.00")
}

func TestExportCSVEmptyStore(t *testing.T) {
	svc := NewService(&fakeSource{}, nil)

	out, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1, "header only")
}

func TestExportCSVListFailure(t *testing.T) {
	svc := NewService(&fakeSource{listErr: assert.AnError}, nil)

	_, err := svc.ExportCSV(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExportXLSX(t *testing.T) {
	svc := NewService(newFakeSource(), nil)

	out, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, "INV-2", rows[1][0])
	assert.Equal(t, "Network Switch 24-Port", rows[1][9])
	assert.Equal(t, "INV-1", rows[3][0])
	assert.Equal(t, "2360.00", rows[3][14])
}
