package craps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawhouse/platform/internal/money"
)

func amount(n int64) money.Amount { return money.NewFromInt64(n) }

type resolveCase struct {
	name    string
	total   int
	phase   Phase
	point   int
	outcome Outcome
	payout  int64
}

func runResolveCases(t *testing.T, bet Bet, tests []resolveCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, outcome, payout := resolve(bet, tt.total, tt.phase, tt.point)
			assert.Equal(t, tt.outcome, outcome)
			assert.True(t, payout.Equal(amount(tt.payout)),
				"payout = %s, want %d", payout, tt.payout)
		})
	}
}

func TestResolvePassLine(t *testing.T) {
	bet := Bet{Kind: KindPassLine, Amount: amount(100)}
	runResolveCases(t, bet, []resolveCase{
		{"natural seven", 7, PhaseComeOutRoll, 0, OutcomeWon, 200},
		{"natural eleven", 11, PhaseComeOutRoll, 0, OutcomeWon, 200},
		{"craps two", 2, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"craps three", 3, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"craps twelve", 12, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"point number sets up", 6, PhaseComeOutRoll, 0, OutcomeActive, 0},
		{"point made", 6, PhasePointRoll, 6, OutcomeWon, 200},
		{"seven out", 7, PhasePointRoll, 6, OutcomeLost, 0},
		{"no decision", 9, PhasePointRoll, 6, OutcomeActive, 0},
	})
}

func TestResolveDontPass(t *testing.T) {
	bet := Bet{Kind: KindDontPass, Amount: amount(100)}
	runResolveCases(t, bet, []resolveCase{
		{"craps two wins", 2, PhaseComeOutRoll, 0, OutcomeWon, 200},
		{"craps three wins", 3, PhaseComeOutRoll, 0, OutcomeWon, 200},
		{"bar twelve pushes", 12, PhaseComeOutRoll, 0, OutcomePushed, 100},
		{"natural seven loses", 7, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"natural eleven loses", 11, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"point number sets up", 4, PhaseComeOutRoll, 0, OutcomeActive, 0},
		{"seven out wins", 7, PhasePointRoll, 4, OutcomeWon, 200},
		{"point made loses", 4, PhasePointRoll, 4, OutcomeLost, 0},
		{"no decision", 5, PhasePointRoll, 4, OutcomeActive, 0},
	})
}

func TestResolveComeFirstRoll(t *testing.T) {
	bet := Bet{Kind: KindCome, Amount: amount(100), FirstRoll: true}
	runResolveCases(t, bet, []resolveCase{
		{"seven wins", 7, PhasePointRoll, 5, OutcomeWon, 200},
		{"eleven wins", 11, PhasePointRoll, 5, OutcomeWon, 200},
		{"craps loses", 3, PhasePointRoll, 5, OutcomeLost, 0},
		{"twelve loses", 12, PhasePointRoll, 5, OutcomeLost, 0},
	})

	updated, outcome, _ := resolve(bet, 6, PhasePointRoll, 5)
	assert.Equal(t, OutcomeActive, outcome)
	assert.Equal(t, 6, updated.ComePoint)
	assert.False(t, updated.FirstRoll)
}

func TestResolveComeWithPoint(t *testing.T) {
	bet := Bet{Kind: KindCome, Amount: amount(100), ComePoint: 6}
	runResolveCases(t, bet, []resolveCase{
		{"come point hit", 6, PhasePointRoll, 4, OutcomeWon, 200},
		{"seven kills it", 7, PhasePointRoll, 4, OutcomeLost, 0},
		{"works through come-out", 6, PhaseComeOutRoll, 0, OutcomeWon, 200},
		{"come-out seven kills it", 7, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"no decision", 9, PhasePointRoll, 4, OutcomeActive, 0},
	})
}

func TestResolveDontCome(t *testing.T) {
	first := Bet{Kind: KindDontCome, Amount: amount(100), FirstRoll: true}
	runResolveCases(t, first, []resolveCase{
		{"craps wins", 2, PhasePointRoll, 5, OutcomeWon, 200},
		{"bar twelve pushes", 12, PhasePointRoll, 5, OutcomePushed, 100},
		{"seven loses", 7, PhasePointRoll, 5, OutcomeLost, 0},
		{"eleven loses", 11, PhasePointRoll, 5, OutcomeLost, 0},
	})

	updated, outcome, _ := resolve(first, 8, PhasePointRoll, 5)
	require.Equal(t, OutcomeActive, outcome)
	assert.Equal(t, 8, updated.ComePoint)

	traveled := Bet{Kind: KindDontCome, Amount: amount(100), ComePoint: 8}
	runResolveCases(t, traveled, []resolveCase{
		{"seven wins", 7, PhasePointRoll, 5, OutcomeWon, 200},
		{"come point loses", 8, PhasePointRoll, 5, OutcomeLost, 0},
	})
}

func TestResolvePlacePayouts(t *testing.T) {
	tests := []struct {
		kind   Kind
		total  int
		stake  int64
		payout int64
	}{
		{KindPlace4, 4, 100, 280},  // 100 + floor(100*9/5)
		{KindPlace10, 10, 100, 280},
		{KindPlace5, 5, 100, 240},  // 100 + floor(100*7/5)
		{KindPlace9, 9, 100, 240},
		{KindPlace6, 6, 60, 130},   // 60 + floor(60*7/6)
		{KindPlace8, 8, 60, 130},
		{KindPlace6, 6, 61, 132},   // floor(61*7/6) = 71
	}
	for _, tt := range tests {
		bet := Bet{Kind: tt.kind, Amount: amount(tt.stake)}
		_, outcome, payout := resolve(bet, tt.total, PhasePointRoll, 9)
		assert.Equal(t, OutcomeWon, outcome, "%s on %d", tt.kind, tt.total)
		assert.True(t, payout.Equal(amount(tt.payout)),
			"%s stake %d: payout = %s, want %d", tt.kind, tt.stake, payout, tt.payout)
	}
}

func TestResolvePlaceLifecycle(t *testing.T) {
	bet := Bet{Kind: KindPlace6, Amount: amount(60)}
	runResolveCases(t, bet, []resolveCase{
		{"seven out loses", 7, PhasePointRoll, 4, OutcomeLost, 0},
		{"no decision", 5, PhasePointRoll, 4, OutcomeActive, 0},
		{"off during come-out", 6, PhaseComeOutRoll, 0, OutcomeActive, 0},
		{"safe from come-out seven", 7, PhaseComeOutRoll, 0, OutcomeActive, 0},
	})
}

func TestResolvePropositions(t *testing.T) {
	anyCraps := Bet{Kind: KindAnyCraps, Amount: amount(10)}
	runResolveCases(t, anyCraps, []resolveCase{
		{"two pays eight for one", 2, PhaseComeOutRoll, 0, OutcomeWon, 80},
		{"three pays", 3, PhasePointRoll, 6, OutcomeWon, 80},
		{"twelve pays", 12, PhaseComeOutRoll, 0, OutcomeWon, 80},
		{"anything else loses", 8, PhasePointRoll, 6, OutcomeLost, 0},
	})

	yo := Bet{Kind: KindYoEleven, Amount: amount(10)}
	runResolveCases(t, yo, []resolveCase{
		{"eleven pays eight for one", 11, PhaseComeOutRoll, 0, OutcomeWon, 80},
		{"seven loses", 7, PhaseComeOutRoll, 0, OutcomeLost, 0},
		{"point number loses", 6, PhasePointRoll, 6, OutcomeLost, 0},
	})
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{
		"pass_line", "dont_pass", "come", "dont_come",
		"place_4", "place_5", "place_6", "place_8", "place_9", "place_10",
		"ce_craps", "ce_eleven",
	} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, Kind(name), k)
	}

	_, err := ParseKind("hard_eight")
	assert.Error(t, err)
}
