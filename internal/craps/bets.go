package craps

import (
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// Kind names a bet type as it appears on the wire.
type Kind string

const (
	KindPassLine Kind = "pass_line"
	KindDontPass Kind = "dont_pass"
	KindCome     Kind = "come"
	KindDontCome Kind = "dont_come"
	KindPlace4   Kind = "place_4"
	KindPlace5   Kind = "place_5"
	KindPlace6   Kind = "place_6"
	KindPlace8   Kind = "place_8"
	KindPlace9   Kind = "place_9"
	KindPlace10  Kind = "place_10"
	KindAnyCraps Kind = "ce_craps"
	KindYoEleven Kind = "ce_eleven"
)

var kinds = map[Kind]struct{}{
	KindPassLine: {}, KindDontPass: {}, KindCome: {}, KindDontCome: {},
	KindPlace4: {}, KindPlace5: {}, KindPlace6: {}, KindPlace8: {},
	KindPlace9: {}, KindPlace10: {}, KindAnyCraps: {}, KindYoEleven: {},
}

// ParseKind validates a wire bet-kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", domain.ErrValidation("unknown bet kind: " + s)
	}
	return k, nil
}

// placeNumbers maps each place kind to its number.
var placeNumbers = map[Kind]int{
	KindPlace4: 4, KindPlace5: 5, KindPlace6: 6,
	KindPlace8: 8, KindPlace9: 9, KindPlace10: 10,
}

// placeOdds holds the winnings fraction num/den for each place number.
// Payout on win is stake + floor(stake*num/den).
var placeOdds = map[int][2]int64{
	4: {9, 5}, 10: {9, 5},
	5: {7, 5}, 9: {7, 5},
	6: {7, 6}, 8: {7, 6},
}

// isContract reports whether at most one active bet of this kind may
// exist per player. Proposition bets are one-roll and may be restaked.
func isContract(k Kind) bool {
	return k != KindAnyCraps && k != KindYoEleven
}

// isComeKind reports whether the bet travels to its own come-point.
func isComeKind(k Kind) bool {
	return k == KindCome || k == KindDontCome
}

// allowedIn reports whether a bet of this kind may be newly placed in the
// given phase. Line bets belong to the come-out, come and place bets need
// an established point, and one-roll props ride in either betting window.
func allowedIn(k Kind, p Phase) bool {
	switch k {
	case KindPassLine, KindDontPass:
		return p == PhaseComeOutBetting
	case KindCome, KindDontCome, KindPlace4, KindPlace5, KindPlace6,
		KindPlace8, KindPlace9, KindPlace10:
		return p == PhasePointSetBetting
	case KindAnyCraps, KindYoEleven:
		return p == PhaseComeOutBetting || p == PhasePointSetBetting
	}
	return false
}

// Bet is one active wager on the table. ComePoint is zero until a come or
// don't-come bet travels; FirstRoll marks a come bet that has not yet seen
// a roll.
type Bet struct {
	ID        int64         `json:"id"`
	Owner     domain.Wallet `json:"owner"`
	Kind      Kind          `json:"kind"`
	Amount    money.Amount  `json:"amount"`
	ComePoint int           `json:"come_point,omitempty"`
	FirstRoll bool          `json:"first_roll,omitempty"`
}

// Outcome of evaluating one bet against one roll.
type Outcome string

const (
	OutcomeWon    Outcome = "won"
	OutcomeLost   Outcome = "lost"
	OutcomePushed Outcome = "pushed"
	OutcomeActive Outcome = "active"
)

// Resolution reports a settled bet. Payout is the total returned to the
// player, stake included; zero for a loss.
type Resolution struct {
	Bet     Bet          `json:"bet"`
	Outcome Outcome      `json:"outcome"`
	Payout  money.Amount `json:"payout"`
}
