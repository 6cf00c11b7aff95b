package wallets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/voyora/wallet-ledger/pkg/api"
	"github.com/voyora/wallet-ledger/pkg/handlers"
	"github.com/voyora/wallet-ledger/pkg/mapping"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store    storage.WalletStore
	Validate *validator.Validate
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore) *WalletsHandler {
	return &WalletsHandler{
		Store:    store,
		Validate: validator.New(),
	}
}

// CreateWallet provisions a wallet for a company. The wallet starts at
// balance zero, version zero, and is mutated only through the coordinator
// after this point.
func (h *WalletsHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var newWallet api.NewWallet
	if err := json.NewDecoder(r.Body).Decode(&newWallet); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := h.Validate.Struct(&newWallet); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid wallet request: %v", err))
		return
	}

	createdWallet, err := h.Store.CreateWallet(r.Context(), mapping.ToDomainNewWallet(&newWallet))
	if err != nil {
		if errors.Is(err, storage.ErrWalletAlreadyExists) {
			handlers.WriteError(w, http.StatusConflict, "wallet for this company already exists")
			return
		}
		handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create wallet: %v", err))
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiWallet(createdWallet))
}

// GetWalletByCompanyId retrieves a company's wallet.
func (h *WalletsHandler) GetWalletByCompanyId(w http.ResponseWriter, r *http.Request, companyID string) {
	wallet, err := h.Store.GetWallet(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, storage.ErrWalletNotFound) {
			handlers.WriteError(w, http.StatusNotFound, "wallet not found")
			return
		}
		handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to retrieve wallet: %v", err))
		return
	}

	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}

// ListWallets retrieves all wallets.
func (h *WalletsHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.Store.ListWallets(r.Context())
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("failed to retrieve wallets: %v", err))
		return
	}

	apiWallets := make([]*api.Wallet, len(wallets))
	for i := range wallets {
		apiWallets[i] = mapping.ToApiWallet(&wallets[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiWallets)
}
