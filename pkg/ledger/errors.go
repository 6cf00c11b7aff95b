package ledger

import "errors"

// ErrInsufficientFunds is returned when a transaction would push the wallet
// below its credit floor. Nothing is written; the request is not retryable
// without changing the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConcurrencyExhausted is returned when the retry budget is spent on
// version conflicts for one wallet. The caller may retry with backoff.
var ErrConcurrencyExhausted = errors.New("concurrency retries exhausted")

// ErrInvalidTransaction is returned when the request violates the transaction
// type's sign convention, names an unknown type, or has a zero amount.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ErrCurrencyMismatch is returned when the request names a currency other
// than the wallet's. A wallet's currency never changes.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrTransactionFailed is returned when transient storage errors outlast the
// retry budget. The original cause is attached.
var ErrTransactionFailed = errors.New("transaction failed")
