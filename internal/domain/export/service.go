// Package export renders stored invoices to XLSX and CSV, one row per line
// item.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

// InvoiceSource provides the stored invoices an export walks over.
type InvoiceSource interface {
	List(ctx context.Context) ([]invoice.Summary, error)
	Get(ctx context.Context, invoiceNo string) (*invoice.Record, error)
}

// Service is a tiny façade over the invoice store that produces export bytes.
type Service struct {
	source InvoiceSource
	logger *slog.Logger
}

func NewService(source InvoiceSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Row is one exported line item with its invoice header context.
type Row struct {
	InvoiceNo      string `csv:"invoice_no"`
	Supplier       string `csv:"supplier"`
	InvoiceDate    string `csv:"invoice_date"`
	DueDate        string `csv:"due_date"`
	PONumber       string `csv:"po_number"`
	Terms          string `csv:"terms"`
	ShippingMethod string `csv:"shipping_method"`
	LineNumber     int    `csv:"line_number"`
	ItemNo         string `csv:"item_no"`
	Description    string `csv:"description"`
	Unit           string `csv:"unit"`
	Quantity       int    `csv:"quantity"`
	UnitPrice      string `csv:"unit_price"`
	TotalPrice     string `csv:"total_price"`
	InvoiceTotal   string `csv:"invoice_total"`
}

func (s *Service) rows(ctx context.Context) ([]Row, error) {
	summaries, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var rows []Row
	for _, sum := range summaries {
		rec, err := s.source.Get(ctx, sum.InvoiceNo)
		if err != nil {
			return nil, fmt.Errorf("load invoice %s: %w", sum.InvoiceNo, err)
		}

		for _, li := range rec.LineItems {
			rows = append(rows, Row{
				InvoiceNo:      rec.Header.InvoiceNo,
				Supplier:       rec.Header.CompanyName,
				InvoiceDate:    rec.Header.InvoiceDate,
				DueDate:        rec.Header.DueDate,
				PONumber:       rec.Header.PONumber,
				Terms:          rec.Header.Terms,
				ShippingMethod: rec.Header.ShippingMethod,
				LineNumber:     li.LineNumber,
				ItemNo:         li.ItemNo,
				Description:    li.Description,
				Unit:           li.Unit,
				Quantity:       li.Quantity,
				UnitPrice:      li.UnitPrice.StringFixed(2),
				TotalPrice:     li.TotalPrice.StringFixed(2),
				InvoiceTotal:   rec.Header.Total.StringFixed(2),
			})
		}
	}
	return rows, nil
}

// ExportCSV returns all stored invoices as CSV bytes.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}

	s.logger.Info("export.csv.ok", "rows", len(rows))
	return out, nil
}

var xlsxHeaders = []string{
	"Invoice No", "Supplier", "Invoice Date", "Due Date", "PO Number",
	"Terms", "Shipping Method", "Line", "Item No", "Description",
	"Unit", "Quantity", "Unit Price", "Total Price", "Invoice Total",
}

// ExportXLSX returns all stored invoices as an XLSX workbook.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		values := []any{
			r.InvoiceNo, r.Supplier, r.InvoiceDate, r.DueDate, r.PONumber,
			r.Terms, r.ShippingMethod, r.LineNumber, r.ItemNo, r.Description,
			r.Unit, r.Quantity, r.UnitPrice, r.TotalPrice, r.InvoiceTotal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 18)
	_ = f.SetColWidth(sheet, "C", "E", 14)
	_ = f.SetColWidth(sheet, "J", "J", 42)
	_ = f.SetColWidth(sheet, "M", "O", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
