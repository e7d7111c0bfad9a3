package craps

import "github.com/clawhouse/platform/internal/money"

func isPointNumber(total int) bool {
	switch total {
	case 4, 5, 6, 8, 9, 10:
		return true
	}
	return false
}

func isCraps(total int) bool {
	return total == 2 || total == 3 || total == 12
}

// resolve evaluates one bet against a roll and returns the updated bet,
// the outcome, and the total returned to the player. Bets are evaluated
// against the phase in effect when the dice left the shooter's hand:
// rollPhase is come_out_roll or point_roll and point is the pre-roll
// point (zero on a come-out). Come-point travel is written into the
// returned bet.
func resolve(b Bet, total int, rollPhase Phase, point int) (Bet, Outcome, money.Amount) {
	switch b.Kind {
	case KindPassLine:
		if rollPhase == PhaseComeOutRoll {
			switch {
			case total == 7 || total == 11:
				return b, OutcomeWon, b.Amount.MulRaw(2)
			case isCraps(total):
				return b, OutcomeLost, money.Zero()
			}
			return b, OutcomeActive, money.Zero()
		}
		switch {
		case total == point:
			return b, OutcomeWon, b.Amount.MulRaw(2)
		case total == 7:
			return b, OutcomeLost, money.Zero()
		}
		return b, OutcomeActive, money.Zero()

	case KindDontPass:
		if rollPhase == PhaseComeOutRoll {
			switch {
			case total == 2 || total == 3:
				return b, OutcomeWon, b.Amount.MulRaw(2)
			case total == 12: // bar-12
				return b, OutcomePushed, b.Amount
			case total == 7 || total == 11:
				return b, OutcomeLost, money.Zero()
			}
			return b, OutcomeActive, money.Zero()
		}
		switch {
		case total == 7:
			return b, OutcomeWon, b.Amount.MulRaw(2)
		case total == point:
			return b, OutcomeLost, money.Zero()
		}
		return b, OutcomeActive, money.Zero()

	case KindCome:
		if b.FirstRoll {
			switch {
			case total == 7 || total == 11:
				return b, OutcomeWon, b.Amount.MulRaw(2)
			case isCraps(total):
				return b, OutcomeLost, money.Zero()
			}
			b.FirstRoll = false
			b.ComePoint = total
			return b, OutcomeActive, money.Zero()
		}
		switch {
		case total == b.ComePoint:
			return b, OutcomeWon, b.Amount.MulRaw(2)
		case total == 7:
			return b, OutcomeLost, money.Zero()
		}
		return b, OutcomeActive, money.Zero()

	case KindDontCome:
		if b.FirstRoll {
			switch {
			case total == 2 || total == 3:
				return b, OutcomeWon, b.Amount.MulRaw(2)
			case total == 12: // bar-12
				return b, OutcomePushed, b.Amount
			case total == 7 || total == 11:
				return b, OutcomeLost, money.Zero()
			}
			b.FirstRoll = false
			b.ComePoint = total
			return b, OutcomeActive, money.Zero()
		}
		switch {
		case total == 7:
			return b, OutcomeWon, b.Amount.MulRaw(2)
		case total == b.ComePoint:
			return b, OutcomeLost, money.Zero()
		}
		return b, OutcomeActive, money.Zero()

	case KindPlace4, KindPlace5, KindPlace6, KindPlace8, KindPlace9, KindPlace10:
		// Place bets are off during a come-out.
		if rollPhase != PhasePointRoll {
			return b, OutcomeActive, money.Zero()
		}
		n := placeNumbers[b.Kind]
		switch {
		case total == n:
			odds := placeOdds[n]
			return b, OutcomeWon, b.Amount.Add(money.MulFrac(b.Amount, odds[0], odds[1]))
		case total == 7:
			return b, OutcomeLost, money.Zero()
		}
		return b, OutcomeActive, money.Zero()

	case KindAnyCraps:
		if isCraps(total) {
			return b, OutcomeWon, b.Amount.MulRaw(8)
		}
		return b, OutcomeLost, money.Zero()

	case KindYoEleven:
		if total == 11 {
			return b, OutcomeWon, b.Amount.MulRaw(8)
		}
		return b, OutcomeLost, money.Zero()
	}

	return b, OutcomeActive, money.Zero()
}
