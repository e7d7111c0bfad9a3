package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// ConfirmDeposit credits a wallet for a confirmed on-chain transfer.
// Pattern: validate → lock → idempotency → post → durable write.
// Idempotent on (wallet, txRef): a replayed confirmation returns the
// original record without a second credit.
func (l *Ledger) ConfirmDeposit(wallet domain.Wallet, amount money.Amount, txRef string) (*DepositRecord, error) {
	if txRef == "" {
		return nil, domain.ErrValidation("txRef is required")
	}
	if !money.IsPositive(amount) {
		return nil, domain.ErrBadAmount("deposit amount must be positive")
	}
	if amount.LT(l.minDeposit) {
		return nil, domain.ErrBelowMinimum("deposit", l.minDeposit.String())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if prior, ok := l.depositByRef[depositKey(wallet, txRef)]; ok {
		out := *prior
		return &out, nil
	}

	rec := &DepositRecord{
		ID:          uuid.New(),
		Wallet:      wallet,
		Amount:      amount,
		TxRef:       txRef,
		ConfirmedAt: time.Now().UTC(),
	}

	l.creditLocked(wallet, amount)
	stats := l.statsLocked(wallet)
	stats.Deposited = stats.Deposited.Add(amount)
	l.st.Deposits = append(l.st.Deposits, rec)
	l.depositByRef[depositKey(wallet, txRef)] = rec
	entry := l.appendLocked(wallet, KindDeposit, amount, "deposit:"+txRef)

	if err := l.commit(entry); err != nil {
		return nil, err
	}

	l.logger.Info("deposit confirmed",
		"wallet", wallet.Short(), "amount", amount.String(), "tx_ref", txRef)
	out := *rec
	return &out, nil
}
