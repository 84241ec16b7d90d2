package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/money"
)

// Stager is the staging area the service drains on confirmation.
type Stager interface {
	Put(rec Record) error
	Get(invoiceNo string) (Record, error)
	Update(invoiceNo string, rec Record) error
	Remove(invoiceNo string) (Record, error)
	List() []Record
}

// Service coordinates review and persistence of extracted invoices.
type Service struct {
	repo    *Repository
	staging Stager
	logger  *slog.Logger
}

// NewService creates a new invoice service
func NewService(repo *Repository, staging Stager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, staging: staging, logger: logger}
}

// Stage places an extracted record into the review queue. Records whose
// invoice number is already persisted are rejected up front.
func (s *Service) Stage(ctx context.Context, rec Record) error {
	exists, err := s.repo.Exists(ctx, rec.Header.InvoiceNo)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateInvoice, rec.Header.InvoiceNo)
	}
	return s.staging.Put(rec)
}

// Edit replaces a staged record with a user-corrected version. Totals are
// recomputed from the edited line items before the record goes back into
// staging.
func (s *Service) Edit(invoiceNo string, rec Record) error {
	recomputed, err := RecomputeTotals(rec)
	if err != nil {
		return err
	}
	return s.staging.Update(invoiceNo, recomputed)
}

// Staged returns the staged record for an invoice number.
func (s *Service) Staged(invoiceNo string) (Record, error) {
	return s.staging.Get(invoiceNo)
}

// PendingReview lists records waiting for confirmation.
func (s *Service) PendingReview() []Record {
	return s.staging.List()
}

// Confirm persists a staged record and removes it from staging. The staged
// copy stays put if persistence fails so the user can retry.
func (s *Service) Confirm(ctx context.Context, invoiceNo string) error {
	rec, err := s.staging.Get(invoiceNo)
	if err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, invoiceNo)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateInvoice, invoiceNo)
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return err
	}

	if _, err := s.staging.Remove(invoiceNo); err != nil {
		s.logger.Warn("confirmed invoice already gone from staging",
			slog.String("invoice_no", invoiceNo))
	}

	s.logger.Info("invoice confirmed",
		slog.String("invoice_no", invoiceNo),
		slog.String("supplier", rec.SupplierKey.String()),
		slog.Int("line_items", len(rec.LineItems)))
	return nil
}

// Discard drops a staged record without persisting it.
func (s *Service) Discard(invoiceNo string) error {
	_, err := s.staging.Remove(invoiceNo)
	return err
}

// Get loads a persisted invoice.
func (s *Service) Get(ctx context.Context, invoiceNo string) (*Record, error) {
	return s.repo.Get(ctx, invoiceNo)
}

// List returns summaries of persisted invoices.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// Update replaces a persisted invoice after recomputing its totals.
func (s *Service) Update(ctx context.Context, rec Record) error {
	recomputed, err := RecomputeTotals(rec)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, recomputed)
}

// Delete removes a persisted invoice and its line items.
func (s *Service) Delete(ctx context.Context, invoiceNo string) error {
	return s.repo.Delete(ctx, invoiceNo)
}

// RecomputeTotals rebuilds each line total as quantity times unit price, the
// subtotal as the sum of line totals, and the grand total as subtotal plus
// tax minus discount. Tax and discount are kept as extracted.
func RecomputeTotals(rec Record) (Record, error) {
	subtotal := money.Zero(money.INR)

	for i, item := range rec.LineItems {
		unitPrice := money.NewFromDecimal(item.UnitPrice, money.INR)
		lineTotal := unitPrice.Multiply(int64(item.Quantity))
		rec.LineItems[i].TotalPrice = lineTotal.ToDecimal()

		var err error
		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return rec, fmt.Errorf("recompute subtotal: %w", err)
		}
	}

	rec.Header.Subtotal = subtotal.ToDecimal()

	total, err := money.Total(
		subtotal,
		money.NewFromDecimal(rec.Header.Tax, money.INR),
		money.NewFromDecimal(rec.Header.Discount, money.INR),
	)
	if err != nil {
		return rec, fmt.Errorf("recompute total: %w", err)
	}
	rec.Header.Total = total.ToDecimal()

	return rec, nil
}

// CatalogSuggestion is a fuzzy-matched catalog item for a description.
type CatalogSuggestion struct {
	Item CatalogItem
	Rank int
}

// SuggestCatalogItems fuzzy-matches a line-item description against the
// items catalog and returns up to limit suggestions, best first.
func (s *Service) SuggestCatalogItems(ctx context.Context, description string, limit int) ([]CatalogSuggestion, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(description))
	if needle == "" {
		return nil, nil
	}

	var suggestions []CatalogSuggestion
	for _, it := range items {
		haystack := strings.ToLower(it.Description)
		rank := fuzzy.RankMatch(needle, haystack)
		if rank < 0 {
			// try the reverse direction for partial descriptions
			rank = fuzzy.RankMatch(haystack, needle)
		}
		if rank < 0 {
			continue
		}
		suggestions = append(suggestions, CatalogSuggestion{Item: it, Rank: rank})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Rank < suggestions[j].Rank
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// DefaultUnitPrice looks up the catalog default price for an item number,
// falling back to zero when unknown.
func (s *Service) DefaultUnitPrice(ctx context.Context, itemNo string) (decimal.Decimal, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, it := range items {
		if strings.EqualFold(it.ItemNo, itemNo) {
			return it.DefaultUnitPrice, nil
		}
	}
	return decimal.Zero, nil
}
