package mapping

import (
	"github.com/voyora/wallet-ledger/pkg/api"
	"github.com/voyora/wallet-ledger/pkg/ledger"
	"github.com/voyora/wallet-ledger/pkg/models"
)

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		CompanyId:         wallet.CompanyId,
		Balance:           wallet.Balance,
		CreditLimit:       wallet.CreditLimit,
		UsedCredit:        wallet.UsedCredit,
		BlockedAmount:     wallet.BlockedAmount,
		AvailableFunds:    wallet.AvailableFunds(),
		Currency:          wallet.Currency,
		Version:           wallet.Version,
		LastTransactionAt: wallet.LastTransactionAt,
		CreatedAt:         wallet.CreatedAt,
	}
}

// ToDomainNewWallet converts an API NewWallet model to a domain Wallet model.
// Balance and version start at zero; the store enforces that.
func ToDomainNewWallet(newWallet *api.NewWallet) *models.Wallet {
	return &models.Wallet{
		CompanyId:   newWallet.CompanyId,
		Currency:    newWallet.Currency,
		CreditLimit: newWallet.CreditLimit,
	}
}

// ToApplyRequest converts an API NewTransaction to a coordinator request.
func ToApplyRequest(newTx *api.NewTransaction) ledger.ApplyRequest {
	return ledger.ApplyRequest{
		CompanyId:       newTx.CompanyId,
		IdempotencyKey:  newTx.IdempotencyKey,
		TransactionType: models.TransactionType(newTx.TransactionType),
		Amount:          newTx.Amount,
		Currency:        newTx.Currency,
		BookingId:       newTx.BookingId,
		PaymentId:       newTx.PaymentId,
		Description:     newTx.Description,
		PerformedBy:     newTx.PerformedBy,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		LedgerId:        entry.LedgerId,
		CompanyId:       entry.CompanyId,
		TransactionType: string(entry.TransactionType),
		Amount:          entry.Amount,
		BalanceBefore:   entry.BalanceBefore,
		BalanceAfter:    entry.BalanceAfter,
		Currency:        entry.Currency,
		IdempotencyKey:  entry.IdempotencyKey,
		BookingId:       entry.BookingId,
		PaymentId:       entry.PaymentId,
		Description:     entry.Description,
		PerformedBy:     entry.PerformedBy,
		CreatedAt:       entry.CreatedAt,
	}
}
