package ledger

import (
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// PlaceWager atomically debits a stake. Returns false without mutating
// anything when the balance does not cover the amount. The caller pairs
// it with exactly one settle or refund call; the ledger does not enforce
// the pairing.
func (l *Ledger) PlaceWager(wallet domain.Wallet, amount money.Amount, ref string) (bool, error) {
	if !money.IsPositive(amount) {
		return false, domain.ErrBadAmount("wager amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.debitLocked(wallet, amount) {
		return false, nil
	}
	stats := l.statsLocked(wallet)
	stats.Wagered = stats.Wagered.Add(amount)
	entry := l.appendLocked(wallet, KindWagerPlaced, amount, ref)

	if err := l.commit(entry); err != nil {
		return false, err
	}
	return true, nil
}

// SettleWon credits the full return-to-player amount, stake included
// where the game returns it.
func (l *Ledger) SettleWon(wallet domain.Wallet, payout money.Amount, ref string) error {
	if !money.IsPositive(payout) {
		return domain.ErrBadAmount("payout must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.creditLocked(wallet, payout)
	stats := l.statsLocked(wallet)
	stats.Won = stats.Won.Add(payout)
	entry := l.appendLocked(wallet, KindWagerWon, payout, ref)

	return l.commit(entry)
}

// SettleLost records a losing wager. The stake already left the balance
// at placement, so only the loss stats and the journal move.
func (l *Ledger) SettleLost(wallet domain.Wallet, amount money.Amount, ref string) error {
	if !money.IsPositive(amount) {
		return domain.ErrBadAmount("loss amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stats := l.statsLocked(wallet)
	stats.Lost = stats.Lost.Add(amount)
	entry := l.appendLocked(wallet, KindWagerLost, amount, ref)

	return l.commit(entry)
}

// SettlePushed returns the stake of a pushed wager.
func (l *Ledger) SettlePushed(wallet domain.Wallet, amount money.Amount, ref string) error {
	if !money.IsPositive(amount) {
		return domain.ErrBadAmount("push amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.creditLocked(wallet, amount)
	entry := l.appendLocked(wallet, KindWagerPushed, amount, ref)

	return l.commit(entry)
}

// RefundWager returns a stake the engine refused after placement and
// reverses the wagered-stat increment, so a place/refund pair is neutral.
func (l *Ledger) RefundWager(wallet domain.Wallet, amount money.Amount, ref string) error {
	if !money.IsPositive(amount) {
		return domain.ErrBadAmount("refund amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.creditLocked(wallet, amount)
	stats := l.statsLocked(wallet)
	stats.Wagered = stats.Wagered.Sub(amount)
	entry := l.appendLocked(wallet, KindWagerRefunded, amount, ref)

	return l.commit(entry)
}
