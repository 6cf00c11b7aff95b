package transactions_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voyora/wallet-ledger/pkg/api"
	"github.com/voyora/wallet-ledger/pkg/handlers/transactions"
	"github.com/voyora/wallet-ledger/pkg/ledger"
	"github.com/voyora/wallet-ledger/pkg/ledger/mocks"
	"github.com/voyora/wallet-ledger/pkg/models"
	"github.com/voyora/wallet-ledger/pkg/storage"
)

const applyBody = `{
	"company_id": "cmp-1001",
	"idempotency_key": "key-1",
	"transaction_type": "BOOKING_DEBIT",
	"amount": -120000,
	"booking_id": "BKG-2026-000042"
}`

func postTransaction(t *testing.T, applier ledger.Applier, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := transactions.NewTransactionsHandler(applier)
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ApplyTransaction(rec, req)
	return rec
}

func TestApplyTransaction(t *testing.T) {
	t.Run("Committed", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.MatchedBy(func(req ledger.ApplyRequest) bool {
			return req.CompanyId == "cmp-1001" &&
				req.IdempotencyKey == "key-1" &&
				req.TransactionType == models.BookingDebit &&
				req.Amount == -120000
		})).Return(&models.LedgerEntry{
			LedgerId:      "TXN-2026-0000000001",
			CompanyId:     "cmp-1001",
			Amount:        -120000,
			BalanceBefore: 200000,
			BalanceAfter:  80000,
			CreatedAt:     time.Now().UTC(),
		}, false, nil)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got api.LedgerEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "TXN-2026-0000000001", got.LedgerId)
		assert.Equal(t, int64(80000), got.BalanceAfter)
		mockApplier.AssertExpectations(t)
	})

	t.Run("Idempotent Replay", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(&models.LedgerEntry{LedgerId: "TXN-2026-0000000001"}, true, nil)

		rec := postTransaction(t, mockApplier, applyBody)

		// Replays are distinguishable from fresh commits by status code.
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, ledger.ErrInsufficientFunds)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Concurrency Exhausted", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, ledger.ErrConcurrencyExhausted)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, storage.ErrWalletNotFound)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Invalid Transaction", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, ledger.ErrInvalidTransaction)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, ledger.ErrCurrencyMismatch)

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Coordinator Failure", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		mockApplier.On("ApplyTransaction", mock.Anything, mock.Anything).
			Return(nil, false, errors.Join(ledger.ErrTransactionFailed, errors.New("connection reset")))

		rec := postTransaction(t, mockApplier, applyBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		rec := postTransaction(t, new(mocks.Applier), `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown Type Rejected Before Coordinator", func(t *testing.T) {
		mockApplier := new(mocks.Applier)
		rec := postTransaction(t, mockApplier, `{
			"company_id": "cmp-1001",
			"idempotency_key": "key-1",
			"transaction_type": "TRANSFER",
			"amount": 100
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockApplier.AssertNotCalled(t, "ApplyTransaction", mock.Anything, mock.Anything)
	})
}
