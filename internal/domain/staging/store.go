// Package staging holds extraction results awaiting user review. Records
// live in memory only; confirming a record removes it from staging and the
// invoice service takes over persistence.
package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

var (
	// ErrNotStaged is returned when no staged record exists for an invoice number.
	ErrNotStaged = errors.New("staging: record not staged")
	// ErrAlreadyStaged is returned when staging a record whose invoice number
	// is already pending review.
	ErrAlreadyStaged = errors.New("staging: record already staged")
)

// DefaultTTL is how long a staged record survives without being confirmed.
const DefaultTTL = 24 * time.Hour

type entry struct {
	record   invoice.Record
	stagedAt time.Time
}

// Store is an in-memory staging area keyed by invoice number. All methods
// are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	logger  *slog.Logger
}

// NewStore creates a staging store. A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		logger:  logger,
	}
}

// Put stages a freshly extracted record for review.
func (s *Store) Put(rec invoice.Record) error {
	no := rec.Header.InvoiceNo
	if no == "" {
		return fmt.Errorf("staging: record has no invoice number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[no]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyStaged, no)
	}
	s.entries[no] = entry{record: rec, stagedAt: time.Now()}
	return nil
}

// Get returns the staged record for an invoice number.
func (s *Store) Get(invoiceNo string) (invoice.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[invoiceNo]
	if !ok {
		return invoice.Record{}, fmt.Errorf("%w: %s", ErrNotStaged, invoiceNo)
	}
	return e.record, nil
}

// Update replaces a staged record with a user-edited version. The edited
// header must keep the original invoice number.
func (s *Store) Update(invoiceNo string, rec invoice.Record) error {
	if rec.Header.InvoiceNo != invoiceNo {
		return fmt.Errorf("staging: invoice number changed from %s to %s", invoiceNo, rec.Header.InvoiceNo)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[invoiceNo]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotStaged, invoiceNo)
	}
	e.record = rec
	s.entries[invoiceNo] = e
	return nil
}

// Remove takes a record out of staging, returning it. Used on confirmation
// and on discard.
func (s *Store) Remove(invoiceNo string) (invoice.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[invoiceNo]
	if !ok {
		return invoice.Record{}, fmt.Errorf("%w: %s", ErrNotStaged, invoiceNo)
	}
	delete(s.entries, invoiceNo)
	return e.record, nil
}

// List returns all staged records, oldest first.
func (s *Store) List() []invoice.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].stagedAt.Before(all[j].stagedAt) })

	out := make([]invoice.Record, 0, len(all))
	for _, e := range all {
		out = append(out, e.record)
	}
	return out
}

// Len reports how many records are pending review.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops staged records older than the TTL and returns how many were
// evicted.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for no, e := range s.entries {
		if e.stagedAt.Before(cutoff) {
			delete(s.entries, no)
			evicted++
			s.logger.Warn("staged record expired without confirmation",
				slog.String("invoice_no", no),
				slog.Time("staged_at", e.stagedAt))
		}
	}
	return evicted
}
