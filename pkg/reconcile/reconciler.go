// Package reconcile compares each wallet's live balance against the sum of
// its ledger entries. Discrepancies are published for operator review, never
// auto-corrected: the hot path's accepted anomaly window (wallet updated,
// ledger append lost) is detected here, not repaired here.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

const defaultPageSize = 200

// Discrepancy describes one wallet whose projection drifted from its ledger,
// or whose ledger chain is internally broken.
type Discrepancy struct {
	CompanyId      string    `json:"company_id"`
	WalletBalance  int64     `json:"wallet_balance"`
	LedgerBalance  int64     `json:"ledger_balance"`
	EntryCount     int       `json:"entry_count"`
	ChainBreaks    []string  `json:"chain_breaks,omitempty"` // ledger IDs where balance_before + amount != balance_after
	WalletVersion  int64     `json:"wallet_version"`
	DetectedAt     time.Time `json:"detected_at"`
}

// Publisher delivers discrepancy reports somewhere an operator will see them.
type Publisher interface {
	PublishDiscrepancy(ctx context.Context, d Discrepancy) error
}

// Reconciler sweeps wallets and replays their ledgers.
type Reconciler struct {
	store     storage.ReconcileStore
	publisher Publisher
	logger    *slog.Logger
	pageSize  int32
}

// New creates a Reconciler. publisher may be nil, in which case discrepancies
// are only logged.
func New(store storage.ReconcileStore, publisher Publisher, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:     store,
		publisher: publisher,
		logger:    logger,
		pageSize:  defaultPageSize,
	}
}

// Replay pages through a company's ledger in creation order, summing amounts
// and verifying each entry's balance chain. It returns the replayed balance,
// the number of entries seen, and the ledger IDs of any chain breaks.
func (r *Reconciler) Replay(ctx context.Context, companyID string) (int64, int, []string, error) {
	var (
		sum    int64
		count  int
		breaks []string
		since  time.Time
	)

	for {
		entries, err := r.store.ListEntriesByCompany(ctx, companyID, since, r.pageSize)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("failed to list ledger entries for %s: %w", companyID, err)
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if entry.BalanceBefore+entry.Amount != entry.BalanceAfter {
				breaks = append(breaks, entry.LedgerId)
			}
			sum += entry.Amount
			count++
		}
		since = entries[len(entries)-1].CreatedAt
	}

	return sum, count, breaks, nil
}

// CheckCompany replays one company's ledger against its wallet. It returns a
// non-nil Discrepancy when the balances disagree or the chain is broken.
func (r *Reconciler) CheckCompany(ctx context.Context, wallet *models.Wallet) (*Discrepancy, error) {
	sum, count, breaks, err := r.Replay(ctx, wallet.CompanyId)
	if err != nil {
		return nil, err
	}

	if sum == wallet.Balance && len(breaks) == 0 {
		return nil, nil
	}

	return &Discrepancy{
		CompanyId:     wallet.CompanyId,
		WalletBalance: wallet.Balance,
		LedgerBalance: sum,
		EntryCount:    count,
		ChainBreaks:   breaks,
		WalletVersion: wallet.Version,
		DetectedAt:    time.Now().UTC(),
	}, nil
}

// Run sweeps every wallet. Each discrepancy is logged and published; a
// publish failure for one company does not stop the sweep. It returns the
// discrepancies found and the first error encountered, if any.
func (r *Reconciler) Run(ctx context.Context) ([]Discrepancy, error) {
	wallets, err := r.store.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	var (
		found    []Discrepancy
		firstErr error
	)
	for i := range wallets {
		wallet := &wallets[i]

		d, err := r.CheckCompany(ctx, wallet)
		if err != nil {
			r.logger.Error("reconciliation check failed", "company_id", wallet.CompanyId, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if d == nil {
			continue
		}

		r.logger.Warn("ledger drift detected",
			"company_id", d.CompanyId,
			"wallet_balance", d.WalletBalance,
			"ledger_balance", d.LedgerBalance,
			"chain_breaks", len(d.ChainBreaks),
		)
		found = append(found, *d)

		if r.publisher != nil {
			if err := r.publisher.PublishDiscrepancy(ctx, *d); err != nil {
				r.logger.Error("failed to publish discrepancy", "company_id", d.CompanyId, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	return found, firstErr
}
