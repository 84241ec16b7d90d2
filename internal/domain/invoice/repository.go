package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ErrDuplicateInvoice is returned when persisting an invoice number that is
// already stored.
var ErrDuplicateInvoice = errors.New("invoice already exists")

// ErrInvoiceNotFound is returned when an invoice number is not stored.
var ErrInvoiceNotFound = errors.New("invoice not found")

// dateLayout matches the normalized header date format.
const dateLayout = "02-01-2006"

// PgxPool is the subset of pgxpool.Pool the repository uses. pgxmock
// implements it for tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Supplier is a row in the suppliers directory.
type Supplier struct {
	KeyCode        int
	KeyName        SupplierKey
	SupplierName   string
	CompanyName    string
	GSTNumber      string
	Street         string
	City           string
	State          string
	Zipcode        string
	Country        string
	Terms          string
	ShippingMethod string
}

// CatalogItem is a row in the items catalog.
type CatalogItem struct {
	ItemCode         int
	ItemNo           string
	Description      string
	Unit             string
	DefaultUnitPrice decimal.Decimal
	Category         string
}

// Summary is a one-line listing entry for a stored invoice.
type Summary struct {
	InvoiceNo     string
	SupplierName  string
	Total         decimal.Decimal
	LineItemCount int
	InvoiceDate   *time.Time
	DueDate       *time.Time
}

// SalesPoint is one month of aggregated invoice totals.
type SalesPoint struct {
	Period time.Time
	Total  decimal.Decimal
}

// Repository persists confirmed invoices in PostgreSQL.
type Repository struct {
	db PgxPool
}

// NewRepository creates a new invoice repository
func NewRepository(db PgxPool) *Repository {
	return &Repository{db: db}
}

// GetSuppliers returns the supplier directory ordered by name.
func (r *Repository) GetSuppliers(ctx context.Context) ([]Supplier, error) {
	query := `
		SELECT key_code, key_name, supplier_name, company_name, gst_number,
		       street, city, state, zipcode, country, terms, shipping_method
		FROM suppliers
		ORDER BY supplier_name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(
			&s.KeyCode, &s.KeyName, &s.SupplierName, &s.CompanyName, &s.GSTNumber,
			&s.Street, &s.City, &s.State, &s.Zipcode, &s.Country, &s.Terms, &s.ShippingMethod,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// GetItems returns the items catalog ordered by item number.
func (r *Repository) GetItems(ctx context.Context) ([]CatalogItem, error) {
	query := `
		SELECT item_code, item_no, description, unit,
		       COALESCE(default_unit_price, 0), COALESCE(category, '')
		FROM items
		ORDER BY item_no
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []CatalogItem
	for rows.Next() {
		var it CatalogItem
		if err := rows.Scan(
			&it.ItemCode, &it.ItemNo, &it.Description, &it.Unit,
			&it.DefaultUnitPrice, &it.Category,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Exists reports whether an invoice number is already stored. The match is
// case-insensitive.
func (r *Repository) Exists(ctx context.Context, invoiceNo string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE UPPER(invoice_no) = UPPER($1)`,
		invoiceNo,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return count > 0, nil
}

// Insert stores a confirmed invoice with its line items in one transaction.
// The supplier's terms and shipping method are refreshed from the record,
// and unknown catalog items are created on the fly.
func (r *Repository) Insert(ctx context.Context, rec Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var keyCode int
	err = tx.QueryRow(ctx,
		`SELECT key_code FROM suppliers WHERE key_name = $1`, rec.SupplierKey,
	).Scan(&keyCode)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("supplier %s not found", rec.SupplierKey)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve supplier: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE suppliers SET terms = $1, shipping_method = $2 WHERE key_code = $3`,
		rec.Header.Terms, rec.Header.ShippingMethod, keyCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	poNumber := rec.Header.PONumber
	if poNumber == "" {
		poNumber = "UNKNOWN"
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (
			invoice_no, key_code, invoice_date, due_date,
			po_number, subtotal, discount, tax, total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.Header.InvoiceNo, keyCode,
		nullableDate(rec.Header.InvoiceDate), nullableDate(rec.Header.DueDate),
		poNumber, rec.Header.Subtotal, rec.Header.Discount, rec.Header.Tax, rec.Header.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", rec.Header.InvoiceNo, err)
	}

	if err := insertLineItems(ctx, tx, keyCode, rec.Header.InvoiceNo, rec.LineItems); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update replaces a stored invoice's header fields and all its line items.
func (r *Repository) Update(ctx context.Context, rec Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var keyCode int
	err = tx.QueryRow(ctx,
		`SELECT key_code FROM invoices WHERE invoice_no = $1`, rec.Header.InvoiceNo,
	).Scan(&keyCode)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrInvoiceNotFound, rec.Header.InvoiceNo)
	}
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices SET
			invoice_date = $1, due_date = $2, po_number = $3,
			subtotal = $4, discount = $5, tax = $6, total = $7
		WHERE invoice_no = $8`,
		nullableDate(rec.Header.InvoiceDate), nullableDate(rec.Header.DueDate),
		rec.Header.PONumber,
		rec.Header.Subtotal, rec.Header.Discount, rec.Header.Tax, rec.Header.Total,
		rec.Header.InvoiceNo,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", rec.Header.InvoiceNo, err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM invoice_line_items WHERE invoice_no = $1`, rec.Header.InvoiceNo,
	)
	if err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}

	if err := insertLineItems(ctx, tx, keyCode, rec.Header.InvoiceNo, rec.LineItems); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// insertLineItems writes line items inside an open transaction, creating or
// refreshing catalog entries as it goes. Line numbers restart at 1.
func insertLineItems(ctx context.Context, tx pgx.Tx, keyCode int, invoiceNo string, items []LineItem) error {
	for i, item := range items {
		itemNo := item.ItemNo
		if itemNo == "" {
			itemNo = fmt.Sprintf("ITEM%d", i+1)
		}

		var itemCode int
		err := tx.QueryRow(ctx,
			`SELECT item_code FROM items WHERE item_no = $1`, itemNo,
		).Scan(&itemCode)
		switch {
		case err == pgx.ErrNoRows:
			err = tx.QueryRow(ctx, `
				INSERT INTO items (item_no, description, unit, default_unit_price)
				VALUES ($1, $2, $3, $4)
				RETURNING item_code`,
				itemNo, item.Description, item.Unit, item.UnitPrice,
			).Scan(&itemCode)
			if err != nil {
				return fmt.Errorf("failed to create item %s: %w", itemNo, err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up item %s: %w", itemNo, err)
		default:
			_, err = tx.Exec(ctx, `
				UPDATE items SET description = $1, unit = $2, default_unit_price = $3
				WHERE item_code = $4`,
				item.Description, item.Unit, item.UnitPrice, itemCode,
			)
			if err != nil {
				return fmt.Errorf("failed to refresh item %s: %w", itemNo, err)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_line_items (
				key_code, invoice_no, item_code, quantity,
				unit_price, total_price, line_number
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			keyCode, invoiceNo, itemCode,
			item.Quantity, item.UnitPrice, item.TotalPrice, i+1,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item %d: %w", i+1, err)
		}
	}
	return nil
}

// Get loads a stored invoice with its line items ordered by line number.
func (r *Repository) Get(ctx context.Context, invoiceNo string) (*Record, error) {
	query := `
		SELECT inv.invoice_no, sup.key_name, sup.company_name, sup.gst_number,
		       sup.street, sup.city, sup.state, sup.zipcode, sup.country,
		       sup.terms, sup.shipping_method,
		       inv.invoice_date, inv.due_date, inv.po_number,
		       COALESCE(inv.subtotal, 0), COALESCE(inv.discount, 0),
		       COALESCE(inv.tax, 0), COALESCE(inv.total, 0)
		FROM invoices inv
		JOIN suppliers sup ON inv.key_code = sup.key_code
		WHERE inv.invoice_no = $1
	`

	var (
		rec                  Record
		addr                 Address
		invoiceDate, dueDate *time.Time
	)
	err := r.db.QueryRow(ctx, query, invoiceNo).Scan(
		&rec.Header.InvoiceNo, &rec.SupplierKey, &rec.Header.CompanyName, &rec.Header.TaxID,
		&addr.Street, &addr.City, &addr.State, &addr.Zipcode, &addr.Country,
		&rec.Header.Terms, &rec.Header.ShippingMethod,
		&invoiceDate, &dueDate, &rec.Header.PONumber,
		&rec.Header.Subtotal, &rec.Header.Discount, &rec.Header.Tax, &rec.Header.Total,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceNo)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", invoiceNo, err)
	}

	rec.Address = addr
	rec.Header.InvoiceDate = formatDate(invoiceDate)
	rec.Header.DueDate = formatDate(dueDate)

	itemsQuery := `
		SELECT it.item_no, it.description, it.unit,
		       li.quantity, li.unit_price, li.total_price, li.line_number
		FROM invoice_line_items li
		JOIN items it ON li.item_code = it.item_code
		WHERE li.invoice_no = $1
		ORDER BY li.line_number ASC
	`

	rows, err := r.db.Query(ctx, itemsQuery, invoiceNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li LineItem
		if err := rows.Scan(
			&li.ItemNo, &li.Description, &li.Unit,
			&li.Quantity, &li.UnitPrice, &li.TotalPrice, &li.LineNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		rec.LineItems = append(rec.LineItems, li)
	}
	return &rec, rows.Err()
}

// List returns summaries of all stored invoices, newest invoice number first.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT i.invoice_no, s.supplier_name, COALESCE(i.total, 0),
		       COUNT(li.line_number) AS line_item_count,
		       i.invoice_date, i.due_date
		FROM invoices i
		JOIN suppliers s ON i.key_code = s.key_code
		LEFT JOIN invoice_line_items li ON li.invoice_no = i.invoice_no
		GROUP BY i.invoice_no, s.supplier_name, i.total, i.invoice_date, i.due_date
		ORDER BY i.invoice_no DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.InvoiceNo, &s.SupplierName, &s.Total,
			&s.LineItemCount, &s.InvoiceDate, &s.DueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Delete removes an invoice and all its line items.
func (r *Repository) Delete(ctx context.Context, invoiceNo string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM invoice_line_items WHERE invoice_no = $1`, invoiceNo,
	); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_no = $1`, invoiceNo)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceNo, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceNo)
	}

	return tx.Commit(ctx)
}

// Granularity selects the date_trunc unit for sales aggregation.
type Granularity string

const (
	Daily     Granularity = "day"
	Monthly   Granularity = "month"
	Quarterly Granularity = "quarter"
	Yearly    Granularity = "year"
)

// MonthlySales aggregates stored invoice totals into a monthly series for
// forecasting. A nil supplier key aggregates across all suppliers.
func (r *Repository) MonthlySales(ctx context.Context, key *SupplierKey) ([]SalesPoint, error) {
	return r.SalesSeries(ctx, key, Monthly)
}

// SalesSeries aggregates stored invoice totals at the given granularity.
// A nil supplier key aggregates across all suppliers.
func (r *Repository) SalesSeries(ctx context.Context, key *SupplierKey, g Granularity) ([]SalesPoint, error) {
	if g == "" {
		g = Monthly
	}

	query := `
		SELECT date_trunc($1, i.invoice_date)::date AS period,
		       SUM(COALESCE(i.total, 0)) AS total
		FROM invoices i
		JOIN suppliers s ON i.key_code = s.key_code
		WHERE i.invoice_date IS NOT NULL
	`
	args := []any{string(g)}
	if key != nil {
		query += ` AND s.key_name = $2`
		args = append(args, *key)
	}
	query += `
		GROUP BY period
		ORDER BY period ASC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	defer rows.Close()

	var series []SalesPoint
	for rows.Next() {
		var p SalesPoint
		if err := rows.Scan(&p.Period, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan sales point: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

func nullableDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
