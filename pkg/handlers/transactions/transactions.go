package transactions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/voyora/wallet-ledger/pkg/api"
	"github.com/voyora/wallet-ledger/pkg/handlers"
	"github.com/voyora/wallet-ledger/pkg/ledger"
	"github.com/voyora/wallet-ledger/pkg/mapping"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

// TransactionsHandler exposes the coordinator over HTTP. The four coordinator
// outcomes map to distinguishable responses: 201 committed, 200 idempotent
// replay, 422 insufficient funds, 409 concurrency exhausted.
type TransactionsHandler struct {
	Applier  ledger.Applier
	Validate *validator.Validate
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(applier ledger.Applier) *TransactionsHandler {
	return &TransactionsHandler{
		Applier:  applier,
		Validate: validator.New(),
	}
}

// ApplyTransaction handles the logic for applying a ledger transaction.
func (h *TransactionsHandler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var newTx api.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&newTx); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := h.Validate.Struct(&newTx); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid transaction request: %v", err))
		return
	}

	entry, replayed, err := h.Applier.ApplyTransaction(r.Context(), mapping.ToApplyRequest(&newTx))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidTransaction), errors.Is(err, ledger.ErrCurrencyMismatch):
			handlers.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrWalletNotFound):
			handlers.WriteError(w, http.StatusNotFound, "wallet not found")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			handlers.WriteError(w, http.StatusUnprocessableEntity, "insufficient funds")
		case errors.Is(err, ledger.ErrConcurrencyExhausted):
			handlers.WriteError(w, http.StatusConflict, "wallet under heavy contention, retry later")
		default:
			handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to apply transaction: %v", err))
		}
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	handlers.WriteJSON(w, status, mapping.ToApiLedgerEntry(entry))
}
