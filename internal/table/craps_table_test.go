package table

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawhouse/platform/internal/craps"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
)

const (
	walletA = domain.Wallet("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	walletB = domain.Wallet("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	walletC = domain.Wallet("0xcccccccccccccccccccccccccccccccccccccccc")
)

func amt(v int64) money.Amount { return money.NewFromInt64(v) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := ledger.Open(path, amt(1000), amt(1000), nil, quietLogger())
	require.NoError(t, err)
	return l
}

// diceScript replays the given rolls in order.
func diceScript(rolls ...[2]int) func() (int, int) {
	i := 0
	return func() (int, int) {
		r := rolls[i]
		i++
		return r[0], r[1]
	}
}

func newCrapsTable(t *testing.T, led *ledger.Ledger, rolls ...[2]int) *CrapsTable {
	t.Helper()
	cfg := craps.Config{MinBet: amt(1000), MaxBet: amt(10_000_000)}
	if len(rolls) > 0 {
		cfg.Roll = diceScript(rolls...)
	}
	return NewCrapsTable(cfg, led, quietLogger())
}

func deposit(t *testing.T, led *ledger.Ledger, w domain.Wallet, v int64, ref string) {
	t.Helper()
	_, err := led.ConfirmDeposit(w, amt(v), ref)
	require.NoError(t, err)
}

// drain reads everything currently queued for the subscriber.
func drain(sub *events.Subscriber) []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-sub.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventTypes(evs []events.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func TestCrapsHappyPathNaturalPaysDouble(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led, [2]int{2, 5})
	deposit(t, led, walletA, 1_000_000, "0xdep1")

	sub := tbl.Subscribe(events.RoleSpectator, "")
	require.NoError(t, tbl.Join(walletA))

	_, err := tbl.PlaceBet(walletA, craps.KindPassLine, amt(100_000))
	require.NoError(t, err)
	assert.Equal(t, "900000", led.Balance(walletA).String())

	res, err := tbl.Roll(walletA)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Total)
	require.Len(t, res.Resolutions, 1)
	assert.Equal(t, craps.OutcomeWon, res.Resolutions[0].Outcome)
	assert.Equal(t, "200000", res.Resolutions[0].Payout.String())

	assert.Equal(t, "1100000", led.Balance(walletA).String())
	assert.Equal(t, craps.PhaseComeOutBetting, res.Phase)

	got := eventTypes(drain(sub))
	assert.Equal(t, []string{
		events.TypeSnapshot,
		events.TypePlayerJoined,
		events.TypePhaseChanged,
		events.TypeBetPlaced,
		events.TypeDiceRolled,
		events.TypeBetResolved,
	}, got)
}

func TestCrapsSettlementLandsBeforeEvents(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led, [2]int{2, 5})
	deposit(t, led, walletA, 500_000, "0xdep1")

	require.NoError(t, tbl.Join(walletA))
	_, err := tbl.PlaceBet(walletA, craps.KindPassLine, amt(100_000))
	require.NoError(t, err)

	sub := tbl.Subscribe(events.RoleSpectator, "")
	_, err = tbl.Roll(walletA)
	require.NoError(t, err)

	// A subscriber that hears dice_rolled and immediately queries the
	// ledger must already see the credit.
	evs := drain(sub)
	require.GreaterOrEqual(t, len(evs), 2)
	assert.Equal(t, "600000", led.Balance(walletA).String())
}

func TestCrapsEngineRejectionRefundsDebit(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led)
	deposit(t, led, walletA, 500_000, "0xdep1")
	require.NoError(t, tbl.Join(walletA))

	// come is a point-phase bet; the table is in come-out betting.
	_, err := tbl.PlaceBet(walletA, craps.KindCome, amt(100_000))
	require.Error(t, err)
	assert.Equal(t, "bad_phase", errCode(t, err))

	assert.Equal(t, "500000", led.Balance(walletA).String())

	// The debit and its reversal both journal.
	entries := led.Journal(walletA, 0)
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.KindWagerPlaced, entries[1].Kind)
	assert.Equal(t, ledger.KindWagerRefunded, entries[2].Kind)
}

func TestCrapsInsufficientChipsRefusesBet(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led)
	deposit(t, led, walletA, 50_000, "0xdep1")
	require.NoError(t, tbl.Join(walletA))

	_, err := tbl.PlaceBet(walletA, craps.KindPassLine, amt(100_000))
	require.Error(t, err)
	assert.Equal(t, "insufficient_chips", errCode(t, err))
	assert.Equal(t, "50000", led.Balance(walletA).String())
}

func TestCrapsLeaveBlockedByActiveBet(t *testing.T) {
	led := newLedger(t)
	// Point on 6, then the place bet hits: 6-out resolves it.
	tbl := newCrapsTable(t, led, [2]int{2, 4}, [2]int{3, 3})
	deposit(t, led, walletA, 500_000, "0xdep1")
	require.NoError(t, tbl.Join(walletA))

	_, err := tbl.Roll(walletA) // establishes the point
	require.NoError(t, err)
	_, err = tbl.PlaceBet(walletA, craps.KindPlace6, amt(60_000))
	require.NoError(t, err)

	err = tbl.Leave(walletA)
	require.Error(t, err)
	assert.Equal(t, "active_bets", errCode(t, err))

	// Bet resolves on the next roll; leaving is allowed afterwards.
	res, err := tbl.Roll(walletA)
	require.NoError(t, err)
	require.Len(t, res.Resolutions, 1)
	assert.Equal(t, "130000", res.Resolutions[0].Payout.String())
	require.NoError(t, tbl.Leave(walletA))
}

func TestCrapsCashoutRefusedWhileSeated(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led)
	deposit(t, led, walletA, 500_000, "0xdep1")
	require.NoError(t, tbl.Join(walletA))

	_, err := tbl.RequestCashout(walletA, amt(100_000), walletA)
	require.Error(t, err)
	assert.Equal(t, "cannot_act", errCode(t, err))

	require.NoError(t, tbl.Leave(walletA))
	rec, err := tbl.RequestCashout(walletA, amt(100_000), walletA)
	require.NoError(t, err)
	assert.Equal(t, ledger.CashoutPending, rec.Status)
	assert.Equal(t, "400000", led.Balance(walletA).String())
}

func TestCrapsChatRequiresSeat(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led)

	_, err := tbl.Chat(walletA, "gl all")
	require.Error(t, err)
	assert.Equal(t, "not_seated", errCode(t, err))

	require.NoError(t, tbl.Join(walletA))
	ev, err := tbl.Chat(walletA, "gl all")
	require.NoError(t, err)
	assert.Equal(t, events.TypeChat, ev.Type)

	_, err = tbl.Chat(walletA, "")
	require.Error(t, err)
}

func TestCrapsSevenOutRotatesAndAnnouncesShooter(t *testing.T) {
	led := newLedger(t)
	// A's point on 4, then seven-out hands the dice to B.
	tbl := newCrapsTable(t, led, [2]int{1, 3}, [2]int{3, 4})
	deposit(t, led, walletA, 500_000, "0xdepA")
	deposit(t, led, walletB, 500_000, "0xdepB")
	require.NoError(t, tbl.Join(walletA))
	require.NoError(t, tbl.Join(walletB))

	sub := tbl.Subscribe(events.RoleSpectator, "")

	_, err := tbl.Roll(walletA)
	require.NoError(t, err)
	res, err := tbl.Roll(walletA)
	require.NoError(t, err)
	assert.True(t, res.SevenOut)
	assert.Equal(t, walletB, res.Shooter)

	got := eventTypes(drain(sub))
	assert.Contains(t, got, events.TypeShooterChanged)
}

func TestCrapsPlayerSnapshotCarriesOwnBetsAndBalance(t *testing.T) {
	led := newLedger(t)
	tbl := newCrapsTable(t, led)
	deposit(t, led, walletA, 500_000, "0xdep1")
	require.NoError(t, tbl.Join(walletA))
	_, err := tbl.PlaceBet(walletA, craps.KindPassLine, amt(100_000))
	require.NoError(t, err)

	view := tbl.PlayerView(walletA)
	assert.True(t, view.Seated)
	require.Len(t, view.Bets, 1)
	assert.Equal(t, craps.KindPassLine, view.Bets[0].Kind)
	assert.Equal(t, "400000", view.Balance.String())

	other := tbl.PlayerView(walletB)
	assert.False(t, other.Seated)
	assert.Empty(t, other.Bets)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}
