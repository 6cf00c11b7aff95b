package ledger_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyora/wallet-ledger/pkg/api"
	ledgerhandler "github.com/voyora/wallet-ledger/pkg/handlers/ledger"
	"github.com/voyora/wallet-ledger/pkg/ledger"
	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/reconcile"
	"github.com/voyora/wallet-ledger/pkg/storage/memory"
)

func seedLedger(t *testing.T, store *memory.Store, companyID string, amounts ...int64) {
	t.Helper()
	_, err := store.CreateWallet(context.Background(), &models.Wallet{
		CompanyId: companyID, Currency: "EUR", CreditLimit: 1000000,
	})
	require.NoError(t, err)

	c := ledger.NewCoordinator(store)
	for i, amount := range amounts {
		typ := models.CreditAdded
		if amount < 0 {
			typ = models.BookingDebit
		}
		_, _, err := c.ApplyTransaction(context.Background(), ledger.ApplyRequest{
			CompanyId:       companyID,
			IdempotencyKey:  fmt.Sprintf("key-%d", i),
			TransactionType: typ,
			Amount:          amount,
		})
		require.NoError(t, err)
	}
}

func TestListLedgerEntries(t *testing.T) {
	store := memory.New()
	seedLedger(t, store, "cmp-1001", 100000, -30000, -20000)
	handler := ledgerhandler.NewLedgerHandler(store, reconcile.New(store, nil, nil))

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/ledger", nil)
		rec := httptest.NewRecorder()

		handler.ListLedgerEntries(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []api.LedgerEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 3)
		assert.Equal(t, int64(100000), got[0].Amount)
		assert.Equal(t, int64(50000), got[2].BalanceAfter)
	})

	t.Run("Since Marker", func(t *testing.T) {
		all, err := store.ListEntriesByCompany(context.Background(), "cmp-1001", time.Time{}, 0)
		require.NoError(t, err)
		marker := all[0].CreatedAt.Format(time.RFC3339Nano)

		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/ledger?since="+marker, nil)
		rec := httptest.NewRecorder()

		handler.ListLedgerEntries(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []api.LedgerEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("Limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/ledger?limit=1", nil)
		rec := httptest.NewRecorder()

		handler.ListLedgerEntries(rec, req, "cmp-1001")

		var got []api.LedgerEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Len(t, got, 1)
	})

	t.Run("Invalid Since", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/ledger?since=yesterday", nil)
		rec := httptest.NewRecorder()

		handler.ListLedgerEntries(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/ledger?limit=-5", nil)
		rec := httptest.NewRecorder()

		handler.ListLedgerEntries(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReconciliationReport(t *testing.T) {
	t.Run("In Balance", func(t *testing.T) {
		store := memory.New()
		seedLedger(t, store, "cmp-1001", 100000, -30000)
		handler := ledgerhandler.NewLedgerHandler(store, reconcile.New(store, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/reconciliation", nil)
		rec := httptest.NewRecorder()

		handler.GetReconciliationReport(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got api.ReconciliationReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.True(t, got.InBalance)
		assert.Equal(t, int64(70000), got.WalletBalance)
		assert.Equal(t, int64(70000), got.LedgerBalance)
		assert.Equal(t, 2, got.EntryCount)
	})

	t.Run("Drifted", func(t *testing.T) {
		store := memory.New()
		seedLedger(t, store, "cmp-1001", 100000)

		wallet, err := store.GetWallet(context.Background(), "cmp-1001")
		require.NoError(t, err)
		_, err = store.CompareAndSwapWallet(context.Background(), "cmp-1001", wallet.Version, models.WalletChange{
			Balance: wallet.Balance - 40000,
		})
		require.NoError(t, err)

		handler := ledgerhandler.NewLedgerHandler(store, reconcile.New(store, nil, nil))
		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-1001/reconciliation", nil)
		rec := httptest.NewRecorder()

		handler.GetReconciliationReport(rec, req, "cmp-1001")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got api.ReconciliationReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.False(t, got.InBalance)
		assert.Equal(t, int64(60000), got.WalletBalance)
		assert.Equal(t, int64(100000), got.LedgerBalance)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		store := memory.New()
		handler := ledgerhandler.NewLedgerHandler(store, reconcile.New(store, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/companies/cmp-missing/reconciliation", nil)
		rec := httptest.NewRecorder()

		handler.GetReconciliationReport(rec, req, "cmp-missing")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
