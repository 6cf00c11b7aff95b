// Package api defines the wire types of the HTTP surface. Amounts are int64
// minor units, matching the domain models.
package api

import "time"

// NewWallet is the request body for provisioning a company wallet.
type NewWallet struct {
	CompanyId   string `json:"company_id" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3,uppercase"`
	CreditLimit int64  `json:"credit_limit" validate:"gte=0"`
}

// Wallet is the API view of a company wallet.
type Wallet struct {
	CompanyId         string     `json:"company_id"`
	Balance           int64      `json:"balance"`
	CreditLimit       int64      `json:"credit_limit"`
	UsedCredit        int64      `json:"used_credit"`
	BlockedAmount     int64      `json:"blocked_amount"`
	AvailableFunds    int64      `json:"available_funds"`
	Currency          string     `json:"currency"`
	Version           int64      `json:"version"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewTransaction is the request body for applying a ledger transaction.
type NewTransaction struct {
	CompanyId       string `json:"company_id" validate:"required"`
	IdempotencyKey  string `json:"idempotency_key" validate:"required"`
	TransactionType string `json:"transaction_type" validate:"required,oneof=CREDIT_ADDED BOOKING_DEBIT BOOKING_REFUND CANCELLATION_FEE ADJUSTMENT"`
	Amount          int64  `json:"amount" validate:"required"`
	Currency        string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	BookingId       string `json:"booking_id,omitempty"`
	PaymentId       string `json:"payment_id,omitempty"`
	Description     string `json:"description,omitempty"`
	PerformedBy     string `json:"performed_by,omitempty"`
}

// LedgerEntry is the API view of one committed ledger entry.
type LedgerEntry struct {
	LedgerId        string    `json:"ledger_id"`
	CompanyId       string    `json:"company_id"`
	TransactionType string    `json:"transaction_type"`
	Amount          int64     `json:"amount"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	Currency        string    `json:"currency"`
	IdempotencyKey  string    `json:"idempotency_key"`
	BookingId       string    `json:"booking_id,omitempty"`
	PaymentId       string    `json:"payment_id,omitempty"`
	Description     string    `json:"description,omitempty"`
	PerformedBy     string    `json:"performed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReconciliationReport compares a wallet's live balance to its ledger replay.
type ReconciliationReport struct {
	CompanyId     string   `json:"company_id"`
	WalletBalance int64    `json:"wallet_balance"`
	LedgerBalance int64    `json:"ledger_balance"`
	EntryCount    int      `json:"entry_count"`
	InBalance     bool     `json:"in_balance"`
	ChainBreaks   []string `json:"chain_breaks,omitempty"`
}

// Error is the JSON error envelope.
type Error struct {
	Message string `json:"message"`
}
