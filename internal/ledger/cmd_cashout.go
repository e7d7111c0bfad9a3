package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// RequestCashout debits the balance immediately and opens a pending
// record for the operator to complete with an on-chain transaction.
func (l *Ledger) RequestCashout(wallet domain.Wallet, amount money.Amount, toAddress domain.Wallet) (*CashoutRecord, error) {
	if !money.IsPositive(amount) {
		return nil, domain.ErrBadAmount("cashout amount must be positive")
	}
	if amount.LT(l.minCashout) {
		return nil, domain.ErrBelowMinimum("cashout", l.minCashout.String())
	}
	if toAddress == "" {
		toAddress = wallet
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.debitLocked(wallet, amount) {
		return nil, domain.ErrInsufficientChips()
	}
	rec := &CashoutRecord{
		ID:          uuid.New(),
		Wallet:      wallet,
		Amount:      amount,
		ToAddress:   toAddress,
		RequestedAt: time.Now().UTC(),
		Status:      CashoutPending,
	}
	stats := l.statsLocked(wallet)
	stats.Withdrawn = stats.Withdrawn.Add(amount)
	l.st.Cashouts = append(l.st.Cashouts, rec)
	l.cashoutByID[rec.ID] = rec
	entry := l.appendLocked(wallet, KindCashout, amount, "cashout:"+rec.ID.String())

	if err := l.commit(entry); err != nil {
		return nil, err
	}

	l.logger.Info("cashout requested",
		"wallet", wallet.Short(), "amount", amount.String(), "id", rec.ID)
	out := *rec
	return &out, nil
}

// CompleteCashout attaches the operator's transaction reference and marks
// the record completed. The balance moved at request time, so no journal
// entry is appended; the record change still commits before returning.
func (l *Ledger) CompleteCashout(id uuid.UUID, txRef string) (*CashoutRecord, error) {
	if txRef == "" {
		return nil, domain.ErrValidation("txRef is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.cashoutByID[id]
	if !ok {
		return nil, domain.ErrNotFound("cashout", id.String())
	}
	if rec.Status != CashoutPending && rec.Status != CashoutProcessing {
		return nil, domain.ErrCashoutNotPending(id.String())
	}

	rec.Status = CashoutCompleted
	rec.TxRef = txRef
	now := time.Now().UTC()
	rec.CompletedAt = &now

	if err := l.commit(); err != nil {
		return nil, err
	}

	l.logger.Info("cashout completed",
		"wallet", rec.Wallet.Short(), "amount", rec.Amount.String(), "id", rec.ID, "tx_ref", txRef)
	out := *rec
	return &out, nil
}
