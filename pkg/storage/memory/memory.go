// Package memory provides an in-memory Storage implementation for local
// development and tests. It honors the same contracts as the DynamoDB store:
// version-gated wallet writes and engine-level idempotency key uniqueness.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

// Store holds all state behind a single mutex. The lock scope is what makes
// CompareAndSwapWallet and AppendEntry atomic with respect to each other's
// checks, mirroring DynamoDB's conditional writes.
type Store struct {
	mu       sync.RWMutex
	wallets  map[string]models.Wallet
	entries  map[string][]models.LedgerEntry // companyID -> entries in creation order
	idemKeys map[string]models.LedgerEntry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		wallets:  make(map[string]models.Wallet),
		entries:  make(map[string][]models.LedgerEntry),
		idemKeys: make(map[string]models.LedgerEntry),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// CreateWallet creates a wallet for a company.
func (s *Store) CreateWallet(_ context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[wallet.CompanyId]; ok {
		return nil, fmt.Errorf("company %s: %w", wallet.CompanyId, storage.ErrWalletAlreadyExists)
	}

	now := time.Now().UTC()
	wallet.Balance = 0
	wallet.UsedCredit = 0
	wallet.BlockedAmount = 0
	wallet.Version = 0
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	s.wallets[wallet.CompanyId] = *wallet
	return wallet, nil
}

// GetWallet retrieves a company's wallet.
func (s *Store) GetWallet(_ context.Context, companyID string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet, ok := s.wallets[companyID]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, storage.ErrWalletNotFound)
	}
	return &wallet, nil
}

// CompareAndSwapWallet applies change only if the stored version still equals
// expectedVersion.
func (s *Store) CompareAndSwapWallet(_ context.Context, companyID string, expectedVersion int64, change models.WalletChange) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[companyID]
	if !ok || wallet.Version != expectedVersion {
		return nil, fmt.Errorf("company %s at version %d: %w", companyID, expectedVersion, storage.ErrVersionConflict)
	}

	lastTx := change.LastTransactionAt
	wallet.Balance = change.Balance
	wallet.UsedCredit = change.UsedCredit
	wallet.BlockedAmount = change.BlockedAmount
	wallet.LastTransactionAt = &lastTx
	wallet.Version = expectedVersion + 1
	wallet.UpdatedAt = time.Now().UTC()

	s.wallets[companyID] = wallet
	return &wallet, nil
}

// ListWallets retrieves all wallets, ordered by company ID for determinism.
func (s *Store) ListWallets(_ context.Context) ([]models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallets := make([]models.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CompanyId < wallets[j].CompanyId
	})
	return wallets, nil
}

// AppendEntry commits a ledger entry, enforcing idempotency key uniqueness.
func (s *Store) AppendEntry(_ context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idemKeys[entry.IdempotencyKey]; ok {
		return nil, fmt.Errorf("key %s: %w", entry.IdempotencyKey, storage.ErrDuplicateIdempotencyKey)
	}

	s.idemKeys[entry.IdempotencyKey] = *entry
	s.entries[entry.CompanyId] = append(s.entries[entry.CompanyId], *entry)
	return entry, nil
}

// GetEntryByIdempotencyKey retrieves the entry committed under key.
func (s *Store) GetEntryByIdempotencyKey(_ context.Context, key string) (*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.idemKeys[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, storage.ErrLedgerEntryNotFound)
	}
	return &entry, nil
}

// ListEntriesByCompany returns up to limit entries strictly after since, in
// creation order.
func (s *Store) ListEntriesByCompany(_ context.Context, companyID string, since time.Time, limit int32) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.LedgerEntry
	for _, entry := range s.entries[companyID] {
		if !entry.CreatedAt.After(since) {
			continue
		}
		result = append(result, entry)
		if limit > 0 && int32(len(result)) >= limit {
			break
		}
	}
	return result, nil
}
