package storage

import (
	"context"

	"github.com/voyora/wallet-ledger/pkg/models"
)

// WalletStore defines the interface for the current-state wallet projection.
// The only mutation it offers after creation is a version-gated
// compare-and-swap; nothing else may touch a wallet row.
type WalletStore interface {
	// GetWallet retrieves a company's wallet.
	// Returns ErrWalletNotFound if the company has no wallet.
	GetWallet(ctx context.Context, companyID string) (*models.Wallet, error)

	// CreateWallet creates a wallet for a company with a zero balance and
	// version zero. Returns ErrWalletAlreadyExists if one is already present.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// CompareAndSwapWallet applies change only if the stored version still
	// equals expectedVersion, persisting version = expectedVersion + 1.
	// Returns the updated wallet on success and ErrVersionConflict when a
	// concurrent writer got there first; on conflict nothing is mutated.
	CompareAndSwapWallet(ctx context.Context, companyID string, expectedVersion int64, change models.WalletChange) (*models.Wallet, error)

	// ListWallets retrieves all wallets. Used by reconciliation sweeps.
	ListWallets(ctx context.Context) ([]models.Wallet, error)
}
