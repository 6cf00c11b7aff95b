package storage

import "errors"

// ErrWalletNotFound is returned when no wallet exists for the requested company.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrWalletAlreadyExists is returned when creating a wallet for a company that already has one.
var ErrWalletAlreadyExists = errors.New("wallet already exists")

// ErrVersionConflict is returned when a compare-and-swap loses to a concurrent
// writer. The caller must re-read the wallet and retry.
var ErrVersionConflict = errors.New("wallet version conflict")

// ErrDuplicateIdempotencyKey is returned when appending a ledger entry whose
// idempotency key is already present. The existing entry is the winner.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

// ErrLedgerEntryNotFound is returned when no ledger entry exists for the requested key.
var ErrLedgerEntryNotFound = errors.New("ledger entry not found")
