package ledger

import (
	"fmt"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// InvariantCheck records a single invariant validation.
type InvariantCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// ReplayReport is the outcome of folding the journal from scratch and
// comparing it with the live balance map.
type ReplayReport struct {
	Entries   int              `json:"entries"`
	Wallets   int              `json:"wallets"`
	Checks    []InvariantCheck `json:"checks"`
	AllPassed bool             `json:"all_passed"`
}

// Replay recomputes every balance from the journal and validates the
// ledger invariants:
//  1. journal ids strictly increase (append-only ordering intact)
//  2. no running balance ever goes negative
//  3. each entry's balance snapshot matches the running fold
//  4. the folded balances equal the live balance map
func (l *Ledger) Replay() *ReplayReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replayLocked()
}

func (l *Ledger) replayLocked() *ReplayReport {
	report := &ReplayReport{Entries: len(l.st.Journal), AllPassed: true}
	folded := make(map[domain.Wallet]money.Amount)

	monotonic := InvariantCheck{Name: "journal_monotonic", Passed: true, Detail: "ids strictly increasing"}
	nonNegative := InvariantCheck{Name: "balance_non_negative", Passed: true, Detail: "no prefix went below zero"}
	snapshots := InvariantCheck{Name: "snapshot_parity", Passed: true, Detail: "entry balances match the fold"}

	prevID := int64(0)
	for _, e := range l.st.Journal {
		if e.ID <= prevID {
			monotonic.Passed = false
			monotonic.Detail = fmt.Sprintf("entry %d follows %d", e.ID, prevID)
		}
		prevID = e.ID

		b, ok := folded[e.Wallet]
		if !ok {
			b = money.Zero()
		}
		switch {
		case e.Kind.Credits():
			b = b.Add(e.Amount)
		case e.Kind.Debits():
			b = b.Sub(e.Amount)
		}
		folded[e.Wallet] = b

		if b.IsNegative() {
			nonNegative.Passed = false
			nonNegative.Detail = fmt.Sprintf("wallet %s negative after entry %d", e.Wallet.Short(), e.ID)
		}
		if !e.Balance.Equal(b) {
			snapshots.Passed = false
			snapshots.Detail = fmt.Sprintf("entry %d snapshot %s, fold %s", e.ID, e.Balance, b)
		}
	}
	report.Wallets = len(folded)

	parity := InvariantCheck{Name: "balance_parity", Passed: true, Detail: "fold matches live balances"}
	for w, b := range folded {
		if !l.balanceLocked(w).Equal(b) {
			parity.Passed = false
			parity.Detail = fmt.Sprintf("wallet %s live %s, fold %s", w.Short(), l.balanceLocked(w), b)
		}
	}
	for w, b := range l.st.Balances {
		if _, ok := folded[w]; !ok && !b.IsZero() {
			parity.Passed = false
			parity.Detail = fmt.Sprintf("wallet %s holds %s with no journal entries", w.Short(), b)
		}
	}

	report.Checks = []InvariantCheck{monotonic, nonNegative, snapshots, parity}
	for _, c := range report.Checks {
		if !c.Passed {
			report.AllPassed = false
		}
	}
	return report
}
