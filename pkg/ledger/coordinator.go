// Package ledger contains the transaction coordinator, the only entry point
// allowed to change a wallet's balance. It orchestrates idempotency check,
// optimistic wallet update, and ledger commit as one logical operation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

const (
	defaultMaxAttempts = 5
	defaultBaseBackoff = 25 * time.Millisecond
)

// ApplyRequest describes one balance-changing transaction. Amount is signed:
// positive increases the balance, negative decreases it.
type ApplyRequest struct {
	CompanyId       string
	IdempotencyKey  string
	TransactionType models.TransactionType
	Amount          int64
	Currency        string // optional; must match the wallet's when set
	BookingId       string
	PaymentId       string
	Description     string
	PerformedBy     string
}

// Applier is the coordinator's interface, implemented by Coordinator and
// mocked in handler tests. The bool result reports an idempotent replay:
// true means the returned entry was committed by an earlier request with the
// same key and this call caused no new mutation.
type Applier interface {
	ApplyTransaction(ctx context.Context, req ApplyRequest) (*models.LedgerEntry, bool, error)
}

// Coordinator drives the apply flow against a wallet store and ledger
// journal. It holds no per-wallet state and no locks; all cross-request
// coordination lives in the storage layer's version field and idempotency
// uniqueness constraint, so it is safe to call concurrently from any number
// of goroutines or service instances.
type Coordinator struct {
	store       storage.Storage
	logger      *slog.Logger
	maxAttempts int
	baseBackoff time.Duration
}

// Make sure we conform to the interface
var _ Applier = (*Coordinator)(nil)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMaxAttempts bounds how many times a version conflict or transient
// storage error is retried before giving up.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseBackoff sets the first retry delay; later delays double it, with
// jitter.
func WithBaseBackoff(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.baseBackoff = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator over the given storage.
func NewCoordinator(store storage.Storage, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:       store,
		logger:      slog.Default(),
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyTransaction applies one transaction to a company's wallet and commits
// the matching ledger entry.
//
// Each attempt looks up the idempotency key (replays return the committed
// entry untouched), reads the wallet, validates the mutation, compare-and-
// swaps the wallet at the read version, then appends the ledger entry.
// Version conflicts and transient storage errors restart the attempt,
// bounded by the retry budget. Losing the append race to a concurrent
// request with the same key is treated as success: our wallet swap is
// compensated and the winner's entry is returned as a replay.
func (c *Coordinator) ApplyTransaction(ctx context.Context, req ApplyRequest) (*models.LedgerEntry, bool, error) {
	if err := validateRequest(req); err != nil {
		return nil, false, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, false, err
			}
		}

		entry, replayed, err := c.applyOnce(ctx, req)
		switch {
		case err == nil:
			return entry, replayed, nil
		case errors.Is(err, storage.ErrVersionConflict):
			c.logger.Debug("version conflict, retrying", "company_id", req.CompanyId, "attempt", attempt+1)
			lastErr = err
		case errors.Is(err, storage.ErrWalletNotFound),
			errors.Is(err, ErrInsufficientFunds),
			errors.Is(err, ErrCurrencyMismatch):
			return nil, false, err
		default:
			// Transient storage failure; retry within the same budget.
			c.logger.Warn("storage error, retrying", "company_id", req.CompanyId, "attempt", attempt+1, "error", err)
			lastErr = err
		}
	}

	if errors.Is(lastErr, storage.ErrVersionConflict) {
		return nil, false, fmt.Errorf("company %s: %w", req.CompanyId, ErrConcurrencyExhausted)
	}
	return nil, false, errors.Join(ErrTransactionFailed, lastErr)
}

// applyOnce performs a single check-read-validate-swap-append pass.
func (c *Coordinator) applyOnce(ctx context.Context, req ApplyRequest) (*models.LedgerEntry, bool, error) {
	// Replay detection must precede any wallet mutation, and must run on
	// every attempt: a retry may be racing a concurrent identical request
	// that has committed in the meantime.
	existing, err := c.store.GetEntryByIdempotencyKey(ctx, req.IdempotencyKey)
	if err == nil {
		c.logger.Info("idempotent replay", "company_id", req.CompanyId, "idempotency_key", req.IdempotencyKey, "ledger_id", existing.LedgerId)
		return existing, true, nil
	}
	if !errors.Is(err, storage.ErrLedgerEntryNotFound) {
		return nil, false, err
	}

	wallet, err := c.store.GetWallet(ctx, req.CompanyId)
	if err != nil {
		return nil, false, err
	}

	if req.Currency != "" && req.Currency != wallet.Currency {
		return nil, false, fmt.Errorf("wallet holds %s, request says %s: %w", wallet.Currency, req.Currency, ErrCurrencyMismatch)
	}

	balanceBefore := wallet.Balance
	balanceAfter := balanceBefore + req.Amount

	// The credit floor: the balance may go negative only as far as the
	// credit line covers.
	if balanceAfter < -wallet.CreditLimit {
		return nil, false, fmt.Errorf("available %d, requested %d: %w", wallet.AvailableFunds(), req.Amount, ErrInsufficientFunds)
	}

	now := time.Now().UTC()
	change := models.WalletChange{
		Balance:           balanceAfter,
		UsedCredit:        drawnCredit(balanceAfter),
		BlockedAmount:     wallet.BlockedAmount,
		LastTransactionAt: now,
	}

	if _, err := c.store.CompareAndSwapWallet(ctx, req.CompanyId, wallet.Version, change); err != nil {
		return nil, false, err
	}

	entry := &models.LedgerEntry{
		LedgerId:        newLedgerID(now),
		CompanyId:       req.CompanyId,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Currency:        wallet.Currency,
		IdempotencyKey:  req.IdempotencyKey,
		BookingId:       req.BookingId,
		PaymentId:       req.PaymentId,
		Description:     req.Description,
		PerformedBy:     req.PerformedBy,
		CreatedAt:       now,
	}

	committed, err := c.store.AppendEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateIdempotencyKey) {
			// A concurrent identical request won the append race between our
			// replay check and our swap. Its entry is the one of record; our
			// swap must not stand or the amount lands twice.
			c.compensateSwap(ctx, req.CompanyId, req.Amount)

			winner, fetchErr := c.store.GetEntryByIdempotencyKey(ctx, req.IdempotencyKey)
			if fetchErr != nil {
				return nil, false, errors.Join(ErrTransactionFailed, fetchErr)
			}
			return winner, true, nil
		}
		// The wallet swap committed but the ledger append did not. This is
		// the accepted anomaly window; reconciliation surfaces it.
		c.logger.Error("ledger append failed after wallet update", "company_id", req.CompanyId, "idempotency_key", req.IdempotencyKey, "error", err)
		return nil, false, errors.Join(ErrTransactionFailed, err)
	}

	c.logger.Info("transaction committed",
		"company_id", req.CompanyId,
		"ledger_id", committed.LedgerId,
		"type", committed.TransactionType,
		"amount", committed.Amount,
		"balance_after", committed.BalanceAfter,
	)
	return committed, false, nil
}

// compensateSwap undoes a wallet swap whose ledger append lost the
// idempotency race, re-reading and retrying on conflict. If it cannot win a
// swap within the retry budget the drift is left for reconciliation to
// surface.
func (c *Coordinator) compensateSwap(ctx context.Context, companyID string, amount int64) {
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		wallet, err := c.store.GetWallet(ctx, companyID)
		if err != nil {
			continue
		}

		balance := wallet.Balance - amount
		change := models.WalletChange{
			Balance:       balance,
			UsedCredit:    drawnCredit(balance),
			BlockedAmount: wallet.BlockedAmount,
		}
		if wallet.LastTransactionAt != nil {
			change.LastTransactionAt = *wallet.LastTransactionAt
		}

		_, err = c.store.CompareAndSwapWallet(ctx, companyID, wallet.Version, change)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.Error("failed to compensate lost append race", "company_id", companyID, "amount", amount)
}

// sleep waits out an exponential, jittered backoff or returns early when the
// context is cancelled.
func (c *Coordinator) sleep(ctx context.Context, attempt int) error {
	backoff := c.baseBackoff << (attempt - 1)
	backoff += time.Duration(rand.Int64N(int64(c.baseBackoff)))

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// drawnCredit derives usedCredit from the balance: credit is drawn exactly
// when the balance is negative.
func drawnCredit(balance int64) int64 {
	if balance < 0 {
		return -balance
	}
	return 0
}

func validateRequest(req ApplyRequest) error {
	if req.CompanyId == "" {
		return fmt.Errorf("company id required: %w", ErrInvalidTransaction)
	}
	if req.IdempotencyKey == "" {
		return fmt.Errorf("idempotency key required: %w", ErrInvalidTransaction)
	}
	if !req.TransactionType.Valid() {
		return fmt.Errorf("unknown transaction type %q: %w", req.TransactionType, ErrInvalidTransaction)
	}
	if req.Amount == 0 {
		return fmt.Errorf("zero amount: %w", ErrInvalidTransaction)
	}

	switch req.TransactionType {
	case models.CreditAdded, models.BookingRefund:
		if req.Amount < 0 {
			return fmt.Errorf("%s must have a positive amount: %w", req.TransactionType, ErrInvalidTransaction)
		}
	case models.BookingDebit, models.CancellationFee:
		if req.Amount > 0 {
			return fmt.Errorf("%s must have a negative amount: %w", req.TransactionType, ErrInvalidTransaction)
		}
	}
	return nil
}
