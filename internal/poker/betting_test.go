package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawhouse/platform/internal/domain"
)

// threeHandedFlop deals a hand for A, B, C and limps everyone to the
// flop. Button is seat 0, first flop action on seat 1.
func threeHandedFlop(t *testing.T) *Game {
	t.Helper()
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	_, err := g.StartHand()
	require.NoError(t, err)
	_, err = g.Act(walletA, ActionCall, amt(0))
	require.NoError(t, err)
	_, err = g.Act(walletB, ActionCall, amt(0))
	require.NoError(t, err)
	res, err := g.Act(walletC, ActionCheck, amt(0))
	require.NoError(t, err)
	require.Equal(t, PhaseFlop, g.Phase())
	require.Equal(t, 1, res.NextSeat)
	return g
}

func menuActions(menu []ValidAction) []ActionKind {
	out := make([]ActionKind, len(menu))
	for i, va := range menu {
		out[i] = va.Action
	}
	return out
}

func actionEntry(t *testing.T, menu []ValidAction, kind ActionKind) ValidAction {
	t.Helper()
	for _, va := range menu {
		if va.Action == kind {
			return va
		}
	}
	t.Fatalf("menu %v has no %s entry", menuActions(menu), kind)
	return ValidAction{}
}

func TestMenuWithNoBetOpen(t *testing.T) {
	g := threeHandedFlop(t)

	menu := g.ValidActions(1)
	assert.ElementsMatch(t,
		[]ActionKind{ActionFold, ActionCheck, ActionBet, ActionAllIn},
		menuActions(menu))

	bet := actionEntry(t, menu, ActionBet)
	assert.Equal(t, int64(20_000), bet.Min.Int64(), "minimum bet is one big blind")
	assert.Equal(t, int64(480_000), bet.Max.Int64(), "maximum bet is the stack")

	allIn := actionEntry(t, menu, ActionAllIn)
	assert.Equal(t, int64(480_000), allIn.Amount.Int64())
}

func TestMenuFacingBet(t *testing.T) {
	g := threeHandedFlop(t)
	_, err := g.Act(walletB, ActionBet, amt(40_000))
	require.NoError(t, err)

	menu := g.ValidActions(2)
	assert.ElementsMatch(t,
		[]ActionKind{ActionFold, ActionCall, ActionRaise, ActionAllIn},
		menuActions(menu))

	call := actionEntry(t, menu, ActionCall)
	assert.Equal(t, int64(40_000), call.Amount.Int64())

	// An opening bet sets its own size as the raise unit.
	raise := actionEntry(t, menu, ActionRaise)
	assert.Equal(t, int64(80_000), raise.Min.Int64())
	assert.Equal(t, int64(480_000), raise.Max.Int64())
}

func TestBigBlindGetsTheOption(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	_, err := g.StartHand()
	require.NoError(t, err)

	_, err = g.Act(walletA, ActionCall, amt(0))
	require.NoError(t, err)
	res, err := g.Act(walletB, ActionCall, amt(0))
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), res.Paid.Int64(), "small blind completes")

	// Everyone has matched, but the big blind still closes the round.
	require.Equal(t, 2, res.NextSeat)
	menu := g.ValidActions(2)
	assert.ElementsMatch(t,
		[]ActionKind{ActionFold, ActionCheck, ActionRaise, ActionAllIn},
		menuActions(menu))
	raise := actionEntry(t, menu, ActionRaise)
	assert.Equal(t, int64(40_000), raise.Min.Int64())

	res, err = g.Act(walletC, ActionCheck, amt(0))
	require.NoError(t, err)
	assert.Equal(t, PhaseFlop, g.Phase())
	require.Len(t, res.Streets, 1)
	assert.Len(t, res.Streets[0].Cards, 3)
}

func TestUnderRaiseAllInDoesNotReopen(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	g.seats[2].Stack = amt(90_000)
	_, err := g.StartHand()
	require.NoError(t, err)

	// A raises to 60,000: a full raise of 40,000 over the blind.
	_, err = g.Act(walletA, ActionRaise, amt(60_000))
	require.NoError(t, err)
	_, err = g.Act(walletB, ActionCall, amt(0))
	require.NoError(t, err)

	// C shoves to 90,000: 30,000 more, under the 40,000 raise unit.
	res, err := g.Act(walletC, ActionAllIn, amt(0))
	require.NoError(t, err)
	assert.True(t, res.AllIn)
	require.Equal(t, 0, res.NextSeat)

	// A already acted in this interval, so the shove reopens nothing.
	menu := g.ValidActions(0)
	assert.ElementsMatch(t,
		[]ActionKind{ActionFold, ActionCall, ActionAllIn},
		menuActions(menu))
	assert.Equal(t, int64(30_000), actionEntry(t, menu, ActionCall).Amount.Int64())

	_, err = g.Act(walletA, ActionRaise, amt(150_000))
	assert.Equal(t, "cannot_act", errCode(t, err))

	_, err = g.Act(walletA, ActionCall, amt(0))
	require.NoError(t, err)
	res, err = g.Act(walletB, ActionCall, amt(0))
	require.NoError(t, err)
	assert.Equal(t, PhaseFlop, g.Phase())
	require.Len(t, res.Streets, 1)
}

func TestFullRaiseReopensBetting(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	_, err := g.StartHand()
	require.NoError(t, err)

	_, err = g.Act(walletA, ActionRaise, amt(60_000))
	require.NoError(t, err)
	_, err = g.Act(walletB, ActionRaise, amt(120_000))
	require.NoError(t, err)
	_, err = g.Act(walletC, ActionFold, amt(0))
	require.NoError(t, err)

	// B's raise of 60,000 is full, so A may raise again, by at least
	// the new unit.
	menu := g.ValidActions(0)
	raise := actionEntry(t, menu, ActionRaise)
	assert.Equal(t, int64(180_000), raise.Min.Int64())
}

func TestActValidation(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	_, err := g.StartHand()
	require.NoError(t, err)

	tests := []struct {
		name   string
		wallet domain.Wallet
		kind   ActionKind
		amount int64
		code   string
	}{
		{"out of turn", walletB, ActionCall, 0, "not_your_turn"},
		{"not seated", walletD, ActionFold, 0, "not_seated"},
		{"check facing the blind", walletA, ActionCheck, 0, "cannot_act"},
		{"bet while one is open", walletA, ActionBet, 40_000, "cannot_act"},
		{"raise not above current bet", walletA, ActionRaise, 20_000, "cannot_act"},
		{"raise below minimum", walletA, ActionRaise, 30_000, "below_minimum"},
		{"raise beyond stack", walletA, ActionRaise, 600_000, "insufficient_chips"},
		{"unknown action", walletA, ActionKind("jam"), 0, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Act(tt.wallet, tt.kind, amt(tt.amount))
			assert.Equal(t, tt.code, errCode(t, err))
		})
	}
}

func TestBetValidationOnFlop(t *testing.T) {
	g := threeHandedFlop(t)

	_, err := g.Act(walletB, ActionCall, amt(0))
	assert.Equal(t, "cannot_act", errCode(t, err), "nothing to call")

	_, err = g.Act(walletB, ActionBet, amt(10_000))
	assert.Equal(t, "below_minimum", errCode(t, err))

	_, err = g.Act(walletB, ActionBet, amt(500_000))
	assert.Equal(t, "insufficient_chips", errCode(t, err))

	_, err = g.Act(walletB, ActionRaise, amt(40_000))
	assert.Equal(t, "cannot_act", errCode(t, err), "no bet to raise")

	_, err = g.Act(walletB, ActionBet, amt(0))
	assert.Equal(t, "below_minimum", errCode(t, err))
}

func TestShortStackMayOpenAllInBelowBigBlind(t *testing.T) {
	g := threeHandedFlop(t)
	g.seats[1].Stack = amt(12_000)

	// An explicit bet below the big blind only passes at exactly the
	// stack.
	_, err := g.Act(walletB, ActionBet, amt(5_000))
	assert.Equal(t, "below_minimum", errCode(t, err))

	res, err := g.Act(walletB, ActionBet, amt(12_000))
	require.NoError(t, err)
	assert.True(t, res.AllIn)

	// The big blind stays the raise unit under a short open.
	menu := g.ValidActions(2)
	raise := actionEntry(t, menu, ActionRaise)
	assert.Equal(t, int64(32_000), raise.Min.Int64())
}

func TestActAfterHandCompleteRejected(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB)
	_, err := g.StartHand()
	require.NoError(t, err)
	foldHandOut(t, g)

	_, err = g.Act(walletB, ActionCheck, amt(0))
	assert.Equal(t, "bad_phase", errCode(t, err))
}

func TestAutoAction(t *testing.T) {
	g := NewGame(testConfig())
	mustSit(t, g, walletA, walletB, walletC)
	_, err := g.StartHand()
	require.NoError(t, err)

	// Facing the blind the stalled button folds.
	assert.Equal(t, ActionFold, g.AutoAction(0))

	_, err = g.Act(walletA, ActionCall, amt(0))
	require.NoError(t, err)
	_, err = g.Act(walletB, ActionCall, amt(0))
	require.NoError(t, err)

	// The big blind owes nothing, so the timer checks for it.
	assert.Equal(t, ActionCheck, g.AutoAction(2))
}

func TestParseActionKind(t *testing.T) {
	for _, s := range []string{"fold", "check", "call", "bet", "raise", "all_in"} {
		kind, err := ParseActionKind(s)
		require.NoError(t, err)
		assert.Equal(t, ActionKind(s), kind)
	}
	_, err := ParseActionKind("jam")
	assert.Equal(t, "validation_error", errCode(t, err))
}
