package ledger

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

var (
	walletA = domain.MustWallet("0x1111111111111111111111111111111111111111")
	walletB = domain.MustWallet("0x2222222222222222222222222222222222222222")
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := Open(path, money.NewFromInt64(1000), money.NewFromInt64(1000), nil, quietLogger())
	require.NoError(t, err)
	return l
}

func TestConfirmDeposit_CreditsAndJournals(t *testing.T) {
	l := newTestLedger(t)

	rec, err := l.ConfirmDeposit(walletA, money.NewFromInt64(50_000), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, walletA, rec.Wallet)
	assert.Equal(t, "50000", rec.Amount.String())

	assert.Equal(t, "50000", l.Balance(walletA).String())

	entries := l.Journal(walletA, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, KindDeposit, entries[0].Kind)
	assert.Equal(t, "50000", entries[0].Balance.String())
}

func TestConfirmDeposit_IdempotentOnTxRef(t *testing.T) {
	l := newTestLedger(t)

	first, err := l.ConfirmDeposit(walletA, money.NewFromInt64(50_000), "0xabc")
	require.NoError(t, err)

	replay, err := l.ConfirmDeposit(walletA, money.NewFromInt64(50_000), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)

	// No second credit, no second journal entry.
	assert.Equal(t, "50000", l.Balance(walletA).String())
	assert.Len(t, l.Journal(walletA, 0), 1)

	// A different wallet may reuse the same txRef.
	_, err = l.ConfirmDeposit(walletB, money.NewFromInt64(50_000), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "50000", l.Balance(walletB).String())
}

func TestConfirmDeposit_BelowMinimum(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(999), "0xabc")
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "below_minimum", appErr.Code)
	assert.True(t, l.Balance(walletA).IsZero())
}

func TestPlaceWager_InsufficientIsNonMutating(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(10_000), "0xabc")
	require.NoError(t, err)

	ok, err := l.PlaceWager(walletA, money.NewFromInt64(10_001), "crabs:bet")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "10000", l.Balance(walletA).String())
	assert.Len(t, l.Journal(walletA, 0), 1)

	ok, err = l.PlaceWager(walletA, money.NewFromInt64(4_000), "crabs:bet")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "6000", l.Balance(walletA).String())
}

func TestPlaceThenRefund_IsNeutral(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(10_000), "0xabc")
	require.NoError(t, err)
	before := l.Summary(walletA)

	ok, err := l.PlaceWager(walletA, money.NewFromInt64(4_000), "crabs:bet:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.RefundWager(walletA, money.NewFromInt64(4_000), "crabs:bet:1"))

	after := l.Summary(walletA)
	assert.True(t, before.Balance.Equal(after.Balance))
	assert.True(t, before.Stats.Wagered.Equal(after.Stats.Wagered))
	assert.True(t, before.Stats.Won.Equal(after.Stats.Won))
	assert.True(t, before.Stats.Lost.Equal(after.Stats.Lost))

	// The pair still leaves its trace in the journal.
	assert.Len(t, l.Journal(walletA, 0), 3)
}

func TestSettlement_MovesBalanceAndStats(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(100_000), "0xabc")
	require.NoError(t, err)

	ok, err := l.PlaceWager(walletA, money.NewFromInt64(10_000), "crabs:pass")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.SettleWon(walletA, money.NewFromInt64(20_000), "crabs:pass"))
	assert.Equal(t, "110000", l.Balance(walletA).String())

	ok, err = l.PlaceWager(walletA, money.NewFromInt64(10_000), "crabs:field")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.SettleLost(walletA, money.NewFromInt64(10_000), "crabs:field"))
	assert.Equal(t, "100000", l.Balance(walletA).String())

	ok, err = l.PlaceWager(walletA, money.NewFromInt64(10_000), "crabs:dont")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.SettlePushed(walletA, money.NewFromInt64(10_000), "crabs:dont"))
	assert.Equal(t, "100000", l.Balance(walletA).String())

	s := l.Summary(walletA)
	assert.Equal(t, "30000", s.Stats.Wagered.String())
	assert.Equal(t, "20000", s.Stats.Won.String())
	assert.Equal(t, "10000", s.Stats.Lost.String())

	report := l.Replay()
	assert.True(t, report.AllPassed, "invariants: %+v", report.Checks)
}

func TestRequestCashout_DebitsImmediately(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(100_000), "0xabc")
	require.NoError(t, err)

	rec, err := l.RequestCashout(walletA, money.NewFromInt64(40_000), "")
	require.NoError(t, err)
	assert.Equal(t, CashoutPending, rec.Status)
	assert.Equal(t, walletA, rec.ToAddress)
	assert.Equal(t, "60000", l.Balance(walletA).String())

	pending := l.ListPendingCashouts()
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].ID)
}

func TestRequestCashout_Failures(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(10_000), "0xabc")
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   int64
		wantCode string
	}{
		{name: "below minimum", amount: 999, wantCode: "below_minimum"},
		{name: "insufficient", amount: 10_001, wantCode: "insufficient_chips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.RequestCashout(walletA, money.NewFromInt64(tt.amount), "")
			var appErr *domain.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
	assert.Equal(t, "10000", l.Balance(walletA).String())
}

func TestCompleteCashout_Lifecycle(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(100_000), "0xabc")
	require.NoError(t, err)
	rec, err := l.RequestCashout(walletA, money.NewFromInt64(40_000), "")
	require.NoError(t, err)

	done, err := l.CompleteCashout(rec.ID, "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, CashoutCompleted, done.Status)
	assert.Equal(t, "0xdeadbeef", done.TxRef)
	require.NotNil(t, done.CompletedAt)
	assert.Empty(t, l.ListPendingCashouts())

	_, err = l.CompleteCashout(rec.ID, "0xother")
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "cashout_not_pending", appErr.Code)

	_, err = l.CompleteCashout(uuid.New(), "0xother")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not_found", appErr.Code)
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	minA := money.NewFromInt64(1000)

	l, err := Open(path, minA, minA, nil, quietLogger())
	require.NoError(t, err)

	_, err = l.ConfirmDeposit(walletA, money.NewFromInt64(500_000), "0xdep1")
	require.NoError(t, err)
	ok, err := l.PlaceWager(walletA, money.NewFromInt64(100_000), "crabs:pass")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = l.RequestCashout(walletA, money.NewFromInt64(50_000), "")
	require.NoError(t, err)

	// A second process pointed at the same journal file sees identical state.
	reopened, err := Open(path, minA, minA, nil, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "350000", reopened.Balance(walletA).String())
	s := reopened.Summary(walletA)
	assert.Equal(t, "500000", s.Stats.Deposited.String())
	assert.Equal(t, "100000", s.Stats.Wagered.String())
	assert.Equal(t, "50000", s.Stats.Withdrawn.String())
	assert.Equal(t, 1, s.PendingCashouts)
	require.Len(t, reopened.Journal("", 0), 3)

	// Journal ids keep increasing after the restart.
	ok, err = reopened.PlaceWager(walletA, money.NewFromInt64(1_000), "crabs:late")
	require.NoError(t, err)
	require.True(t, ok)
	entries := reopened.Journal("", 0)
	assert.Equal(t, int64(4), entries[len(entries)-1].ID)

	report := reopened.Replay()
	assert.True(t, report.AllPassed, "invariants: %+v", report.Checks)
}

func TestJournal_FilterAndLimit(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(10_000), "0xa")
	require.NoError(t, err)
	_, err = l.ConfirmDeposit(walletB, money.NewFromInt64(20_000), "0xb")
	require.NoError(t, err)
	ok, err := l.PlaceWager(walletA, money.NewFromInt64(2_000), "bet1")
	require.NoError(t, err)
	require.True(t, ok)

	all := l.Journal("", 0)
	assert.Len(t, all, 3)

	onlyA := l.Journal(walletA, 0)
	assert.Len(t, onlyA, 2)

	last := l.Journal("", 1)
	require.Len(t, last, 1)
	assert.Equal(t, KindWagerPlaced, last[0].Kind)
}

func TestHousePnL_AggregatesJournal(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ConfirmDeposit(walletA, money.NewFromInt64(100_000), "0xa")
	require.NoError(t, err)

	ok, err := l.PlaceWager(walletA, money.NewFromInt64(30_000), "bet1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.SettleLost(walletA, money.NewFromInt64(30_000), "bet1"))

	ok, err = l.PlaceWager(walletA, money.NewFromInt64(10_000), "bet2")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.SettleWon(walletA, money.NewFromInt64(20_000), "bet2"))

	r := l.HousePnL()
	assert.Equal(t, "100000", r.Deposited.String())
	assert.Equal(t, "40000", r.Wagered.String())
	assert.Equal(t, "20000", r.PaidOut.String())
	// House keeps the lost 30k minus the 10k net paid out on the win.
	assert.Equal(t, "20000", r.HouseNet.String())
	assert.Equal(t, "80000", r.ChipsInPlay.String())
}
