package models

import (
	"time"
)

// TransactionType classifies a ledger entry. The sign convention is part of
// the type: credits to the wallet are positive amounts, debits negative.
type TransactionType string

const (
	CreditAdded     TransactionType = "CREDIT_ADDED"
	BookingDebit    TransactionType = "BOOKING_DEBIT"
	BookingRefund   TransactionType = "BOOKING_REFUND"
	CancellationFee TransactionType = "CANCELLATION_FEE"
	Adjustment      TransactionType = "ADJUSTMENT"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case CreditAdded, BookingDebit, BookingRefund, CancellationFee, Adjustment:
		return true
	}
	return false
}

// Wallet is the current-state projection of a company's funds. The ledger is
// authoritative; the wallet is its running sum. Version is the optimistic
// concurrency token: every successful mutation increments it by exactly one,
// and writes are only accepted against the version they were read at.
//
// All monetary fields are int64 minor units in the wallet's currency.
type Wallet struct {
	CompanyId         string     `json:"company_id" dynamodbav:"company_id"`
	Balance           int64      `json:"balance" dynamodbav:"balance"`
	CreditLimit       int64      `json:"credit_limit" dynamodbav:"credit_limit"`
	UsedCredit        int64      `json:"used_credit" dynamodbav:"used_credit"`
	BlockedAmount     int64      `json:"blocked_amount" dynamodbav:"blocked_amount"`
	Currency          string     `json:"currency" dynamodbav:"currency"`
	Version           int64      `json:"version" dynamodbav:"version"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty" dynamodbav:"last_transaction_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// AvailableFunds is the amount the company can still spend: the current
// balance plus the undrawn portion of its credit line.
func (w *Wallet) AvailableFunds() int64 {
	return w.Balance + (w.CreditLimit - w.UsedCredit)
}

// WalletChange carries the post-mutation values for a compare-and-swap write.
// The storage layer persists these verbatim when the version check passes;
// deciding them is the coordinator's job, not the store's.
type WalletChange struct {
	Balance           int64
	UsedCredit        int64
	BlockedAmount     int64
	LastTransactionAt time.Time
}

// LedgerEntry is one immutable record of a balance change. Entries are never
// updated or deleted; corrections are compensating entries.
type LedgerEntry struct {
	LedgerId        string          `json:"ledger_id" dynamodbav:"ledger_id"`
	CompanyId       string          `json:"company_id" dynamodbav:"company_id"`
	TransactionType TransactionType `json:"transaction_type" dynamodbav:"transaction_type"`
	Amount          int64           `json:"amount" dynamodbav:"amount"`
	BalanceBefore   int64           `json:"balance_before" dynamodbav:"balance_before"`
	BalanceAfter    int64           `json:"balance_after" dynamodbav:"balance_after"`
	Currency        string          `json:"currency" dynamodbav:"currency"`
	IdempotencyKey  string          `json:"idempotency_key" dynamodbav:"idempotency_key"`
	BookingId       string          `json:"booking_id,omitempty" dynamodbav:"booking_id,omitempty"`
	PaymentId       string          `json:"payment_id,omitempty" dynamodbav:"payment_id,omitempty"`
	Description     string          `json:"description,omitempty" dynamodbav:"description,omitempty"`
	PerformedBy     string          `json:"performed_by,omitempty" dynamodbav:"performed_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at" dynamodbav:"created_at"`
}
