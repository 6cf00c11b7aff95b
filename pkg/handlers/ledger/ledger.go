package ledger

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/voyora/wallet-ledger/pkg/api"
	"github.com/voyora/wallet-ledger/pkg/handlers"
	"github.com/voyora/wallet-ledger/pkg/mapping"
	"github.com/voyora/wallet-ledger/pkg/reconcile"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

const defaultPageLimit = 50

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store      storage.ReconcileStore
	Reconciler *reconcile.Reconciler
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.ReconcileStore, reconciler *reconcile.Reconciler) *LedgerHandler {
	return &LedgerHandler{Store: store, Reconciler: reconciler}
}

// ListLedgerEntries returns a company's ledger entries in creation order.
// Query params: since (RFC3339 marker, exclusive) and limit.
func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, companyID string) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid since marker: %v", err))
			return
		}
		since = parsed
	}

	limit := int32(defaultPageLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			handlers.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = int32(parsed)
	}

	entries, err := h.Store.ListEntriesByCompany(r.Context(), companyID, since, limit)
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to retrieve ledger entries: %v", err))
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiEntries)
}

// GetReconciliationReport replays a company's ledger and compares the sum to
// the live wallet balance. Read-only; discrepancies are reported, not fixed.
func (h *LedgerHandler) GetReconciliationReport(w http.ResponseWriter, r *http.Request, companyID string) {
	wallet, err := h.Store.GetWallet(r.Context(), companyID)
	if err != nil {
		handlers.WriteError(w, http.StatusNotFound, "wallet not found")
		return
	}

	sum, count, breaks, err := h.Reconciler.Replay(r.Context(), companyID)
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to replay ledger: %v", err))
		return
	}

	handlers.WriteJSON(w, http.StatusOK, api.ReconciliationReport{
		CompanyId:     companyID,
		WalletBalance: wallet.Balance,
		LedgerBalance: sum,
		EntryCount:    count,
		InBalance:     sum == wallet.Balance && len(breaks) == 0,
		ChainBreaks:   breaks,
	})
}
