package storage

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on
// the more granular interfaces (WalletStore, LedgerJournal, ReconcileStore)
// instead of this one.
type Storage interface {
	WalletStore
	LedgerJournal
}

// ReconcileStore is the read-only slice of the data layer the reconciliation
// sweep needs: every wallet, and each wallet's ledger in order.
type ReconcileStore interface {
	WalletStore
	LedgerReader
}
