// Package ledger is the off-chain chip accounting for both tables. All
// balances, lifecycle records and the append-only journal live in memory
// behind one mutex and are written to a single journal file before any
// mutation is acknowledged.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// Kind labels a journal entry.
type Kind string

const (
	KindDeposit       Kind = "deposit"
	KindWagerPlaced   Kind = "wager_placed"
	KindWagerWon      Kind = "wager_won"
	KindWagerLost     Kind = "wager_lost"
	KindWagerPushed   Kind = "wager_pushed"
	KindWagerRefunded Kind = "wager_refunded"
	KindCashout       Kind = "cashout"
)

// Credits reports whether the kind moves chips toward the wallet.
// wager_lost moves nothing: the stake left at placement.
func (k Kind) Credits() bool {
	switch k {
	case KindDeposit, KindWagerWon, KindWagerPushed, KindWagerRefunded:
		return true
	}
	return false
}

// Debits reports whether the kind moves chips away from the wallet.
func (k Kind) Debits() bool {
	return k == KindWagerPlaced || k == KindCashout
}

// JournalEntry is one append-only accounting line. Balance is the wallet's
// balance after the entry applied.
type JournalEntry struct {
	ID      int64         `json:"id"`
	Wallet  domain.Wallet `json:"wallet"`
	Kind    Kind          `json:"kind"`
	Amount  money.Amount  `json:"amount"`
	Balance money.Amount  `json:"balance"`
	Ref     string        `json:"ref"`
	At      time.Time     `json:"at"`
}

// DepositRecord is a confirmed on-chain deposit. (Wallet, TxRef) is unique;
// re-submission returns the original record without a second credit.
type DepositRecord struct {
	ID          uuid.UUID     `json:"id"`
	Wallet      domain.Wallet `json:"wallet"`
	Amount      money.Amount  `json:"amount"`
	TxRef       string        `json:"tx_ref"`
	ConfirmedAt time.Time     `json:"confirmed_at"`
}

// CashoutStatus is the lifecycle of a cashout request.
type CashoutStatus string

const (
	CashoutPending    CashoutStatus = "pending"
	CashoutProcessing CashoutStatus = "processing"
	CashoutCompleted  CashoutStatus = "completed"
	CashoutFailed     CashoutStatus = "failed"
)

// CashoutRecord tracks a request to redeem chips for on-chain tokens. The
// balance is debited at request time; completion only attaches the operator's
// transaction reference.
type CashoutRecord struct {
	ID          uuid.UUID     `json:"id"`
	Wallet      domain.Wallet `json:"wallet"`
	Amount      money.Amount  `json:"amount"`
	ToAddress   domain.Wallet `json:"to_address"`
	RequestedAt time.Time     `json:"requested_at"`
	Status      CashoutStatus `json:"status"`
	TxRef       string        `json:"tx_ref,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// WalletStats are lifetime totals per wallet.
type WalletStats struct {
	Deposited money.Amount `json:"deposited"`
	Withdrawn money.Amount `json:"withdrawn"`
	Won       money.Amount `json:"won"`
	Lost      money.Amount `json:"lost"`
	Wagered   money.Amount `json:"wagered"`
}

// Summary is the per-wallet view returned to players and operators.
type Summary struct {
	Wallet          domain.Wallet `json:"wallet"`
	Balance         money.Amount  `json:"balance"`
	Stats           WalletStats   `json:"stats"`
	PendingCashouts int           `json:"pending_cashouts"`
}

// HouseReport aggregates the whole journal from the house's side.
type HouseReport struct {
	Deposited    money.Amount `json:"deposited"`
	CashedOut    money.Amount `json:"cashed_out"`
	Wagered      money.Amount `json:"wagered"`
	PaidOut      money.Amount `json:"paid_out"`
	Pushed       money.Amount `json:"pushed"`
	Refunded     money.Amount `json:"refunded"`
	HouseNet     money.Amount `json:"house_net"`
	ChipsInPlay  money.Amount `json:"chips_in_play"`
	OpenCashouts int          `json:"open_cashouts"`
	JournalLen   int          `json:"journal_entries"`
}

// state is the full persisted ledger image.
type state struct {
	Balances map[domain.Wallet]money.Amount `json:"balances"`
	Stats    map[domain.Wallet]*WalletStats `json:"stats"`
	Deposits []*DepositRecord               `json:"deposits"`
	Cashouts []*CashoutRecord               `json:"cashouts"`
	Journal  []*JournalEntry                `json:"journal"`
}

// Ledger serializes every mutation under one lock and never acknowledges a
// mutation before the full state is durable on disk.
type Ledger struct {
	mu         sync.Mutex
	path       string
	minDeposit money.Amount
	minCashout money.Amount
	logger     *slog.Logger
	feed       *Feed

	st            *state
	depositByRef  map[string]*DepositRecord
	cashoutByID   map[uuid.UUID]*CashoutRecord
	nextJournalID int64
}

// Open loads the journal file at path, or starts fresh if it does not
// exist. An unreadable or corrupt file is an error; the caller must treat
// it as fatal rather than silently discarding player funds.
func Open(path string, minDeposit, minCashout money.Amount, feed *Feed, logger *slog.Logger) (*Ledger, error) {
	st, err := loadState(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	l := &Ledger{
		path:       path,
		minDeposit: money.OrZero(minDeposit),
		minCashout: money.OrZero(minCashout),
		logger:     logger,
		feed:       feed,
		st:         st,
	}
	l.reindexLocked()

	report := l.replayLocked()
	if !report.AllPassed {
		for _, c := range report.Checks {
			if !c.Passed {
				logger.Error("ledger invariant violated on load", "check", c.Name, "detail", c.Detail)
			}
		}
		return nil, fmt.Errorf("open ledger %s: journal fails invariant checks", path)
	}

	logger.Info("ledger opened",
		"path", path,
		"wallets", len(st.Balances),
		"journal_entries", len(st.Journal),
		"pending_cashouts", l.openCashoutsLocked(),
	)
	return l, nil
}

// reindexLocked rebuilds the lookup maps and the next journal id from state.
func (l *Ledger) reindexLocked() {
	l.depositByRef = make(map[string]*DepositRecord, len(l.st.Deposits))
	for _, d := range l.st.Deposits {
		l.depositByRef[depositKey(d.Wallet, d.TxRef)] = d
	}
	l.cashoutByID = make(map[uuid.UUID]*CashoutRecord, len(l.st.Cashouts))
	for _, c := range l.st.Cashouts {
		l.cashoutByID[c.ID] = c
	}
	l.nextJournalID = 1
	if n := len(l.st.Journal); n > 0 {
		l.nextJournalID = l.st.Journal[n-1].ID + 1
	}
}

func depositKey(w domain.Wallet, txRef string) string {
	return string(w) + "|" + txRef
}

// balanceLocked returns the wallet's balance, zero for unknown wallets.
func (l *Ledger) balanceLocked(w domain.Wallet) money.Amount {
	if b, ok := l.st.Balances[w]; ok {
		return b
	}
	return money.Zero()
}

func (l *Ledger) creditLocked(w domain.Wallet, amount money.Amount) {
	l.st.Balances[w] = l.balanceLocked(w).Add(amount)
}

// debitLocked subtracts amount, refusing to cross zero.
func (l *Ledger) debitLocked(w domain.Wallet, amount money.Amount) bool {
	b := l.balanceLocked(w)
	if b.LT(amount) {
		return false
	}
	l.st.Balances[w] = b.Sub(amount)
	return true
}

func (l *Ledger) statsLocked(w domain.Wallet) *WalletStats {
	s, ok := l.st.Stats[w]
	if !ok {
		s = &WalletStats{
			Deposited: money.Zero(),
			Withdrawn: money.Zero(),
			Won:       money.Zero(),
			Lost:      money.Zero(),
			Wagered:   money.Zero(),
		}
		l.st.Stats[w] = s
	}
	return s
}

// appendLocked writes a journal line with the post-mutation balance snapshot.
func (l *Ledger) appendLocked(w domain.Wallet, kind Kind, amount money.Amount, ref string) *JournalEntry {
	e := &JournalEntry{
		ID:      l.nextJournalID,
		Wallet:  w,
		Kind:    kind,
		Amount:  amount,
		Balance: l.balanceLocked(w),
		Ref:     ref,
		At:      time.Now().UTC(),
	}
	l.nextJournalID++
	l.st.Journal = append(l.st.Journal, e)
	return e
}

// commit makes the mutation durable and feeds the new entries. On a failed
// write the last durable state is reloaded so memory never runs ahead of
// disk; if even the reload fails there is nothing safe left to serve.
func (l *Ledger) commit(entries ...*JournalEntry) error {
	if err := l.saveLocked(); err != nil {
		l.logger.Error("ledger write failed, restoring last durable state", "error", err)
		if rerr := l.reloadLocked(); rerr != nil {
			panic(fmt.Sprintf("ledger: cannot restore state after failed write: %v", rerr))
		}
		return domain.ErrJournalWrite(err)
	}
	l.feed.Publish(entries)
	return nil
}

func (l *Ledger) openCashoutsLocked() int {
	n := 0
	for _, c := range l.st.Cashouts {
		if c.Status == CashoutPending || c.Status == CashoutProcessing {
			n++
		}
	}
	return n
}

// Balance returns the available chips for a wallet.
func (l *Ledger) Balance(w domain.Wallet) money.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(w)
}

// Summary returns the wallet's balance, lifetime stats and open cashouts.
func (l *Ledger) Summary(w domain.Wallet) Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{Wallet: w, Balance: l.balanceLocked(w)}
	if stats, ok := l.st.Stats[w]; ok {
		s.Stats = *stats
	} else {
		s.Stats = WalletStats{
			Deposited: money.Zero(),
			Withdrawn: money.Zero(),
			Won:       money.Zero(),
			Lost:      money.Zero(),
			Wagered:   money.Zero(),
		}
	}
	for _, c := range l.st.Cashouts {
		if c.Wallet == w && (c.Status == CashoutPending || c.Status == CashoutProcessing) {
			s.PendingCashouts++
		}
	}
	return s
}

// Journal returns the most recent entries in append order. An empty wallet
// means no filter.
func (l *Ledger) Journal(w domain.Wallet, limit int) []JournalEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []JournalEntry
	for _, e := range l.st.Journal {
		if w != "" && e.Wallet != w {
			continue
		}
		out = append(out, *e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ListPendingCashouts returns open cashout requests in request order.
func (l *Ledger) ListPendingCashouts() []CashoutRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []CashoutRecord
	for _, c := range l.st.Cashouts {
		if c.Status == CashoutPending || c.Status == CashoutProcessing {
			out = append(out, *c)
		}
	}
	return out
}

// HousePnL folds the whole journal into the house's aggregate position.
func (l *Ledger) HousePnL() HouseReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := HouseReport{
		Deposited:   money.Zero(),
		CashedOut:   money.Zero(),
		Wagered:     money.Zero(),
		PaidOut:     money.Zero(),
		Pushed:      money.Zero(),
		Refunded:    money.Zero(),
		ChipsInPlay: money.Zero(),
	}
	for _, e := range l.st.Journal {
		switch e.Kind {
		case KindDeposit:
			r.Deposited = r.Deposited.Add(e.Amount)
		case KindCashout:
			r.CashedOut = r.CashedOut.Add(e.Amount)
		case KindWagerPlaced:
			r.Wagered = r.Wagered.Add(e.Amount)
		case KindWagerWon:
			r.PaidOut = r.PaidOut.Add(e.Amount)
		case KindWagerPushed:
			r.Pushed = r.Pushed.Add(e.Amount)
		case KindWagerRefunded:
			r.Refunded = r.Refunded.Add(e.Amount)
		}
	}
	r.HouseNet = r.Wagered.Sub(r.PaidOut).Sub(r.Pushed).Sub(r.Refunded)
	for _, b := range l.st.Balances {
		r.ChipsInPlay = r.ChipsInPlay.Add(b)
	}
	r.OpenCashouts = l.openCashoutsLocked()
	r.JournalLen = len(l.st.Journal)
	return r
}
