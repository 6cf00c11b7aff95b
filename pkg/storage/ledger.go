package storage

import (
	"context"
	"time"

	"github.com/voyora/wallet-ledger/pkg/models"
)

// LedgerReader defines the read side of the journal.
type LedgerReader interface {
	// GetEntryByIdempotencyKey retrieves the entry committed under key, or
	// ErrLedgerEntryNotFound. Checked before any wallet mutation to
	// short-circuit replayed requests.
	GetEntryByIdempotencyKey(ctx context.Context, key string) (*models.LedgerEntry, error)

	// ListEntriesByCompany returns up to limit entries for a company in
	// creation order, strictly after the since marker. Restart a scan by
	// passing the CreatedAt of the last entry seen; the zero time starts
	// from the beginning.
	ListEntriesByCompany(ctx context.Context, companyID string, since time.Time, limit int32) ([]models.LedgerEntry, error)
}

// LedgerAppender defines the single write operation the journal allows.
// There is no update and no delete: the journal is append-only, and the
// idempotency key uniqueness is enforced by the storage engine itself so
// that concurrent appends of the same key are race-safe.
type LedgerAppender interface {
	// AppendEntry durably commits entry. Returns ErrDuplicateIdempotencyKey
	// if an entry with the same idempotency key already exists.
	AppendEntry(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error)
}

// LedgerJournal combines the reader and appender.
type LedgerJournal interface {
	LedgerReader
	LedgerAppender
}
