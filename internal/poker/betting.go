package poker

import (
	"fmt"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// ActionKind is a betting action name on the wire.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionBet   ActionKind = "bet"
	ActionRaise ActionKind = "raise"
	ActionAllIn ActionKind = "all_in"
)

// ParseActionKind validates a wire action name.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return k, nil
	}
	return "", domain.ErrValidation(fmt.Sprintf("unknown action %q", s))
}

// ValidAction is one entry of the action menu offered to the seat whose
// turn it is. Bet and raise carry a range; call and all_in carry the
// exact cost.
type ValidAction struct {
	Action ActionKind    `json:"action"`
	Min    *money.Amount `json:"min,omitempty"`
	Max    *money.Amount `json:"max,omitempty"`
	Amount *money.Amount `json:"amount,omitempty"`
}

func amountPtr(a money.Amount) *money.Amount { return &a }

// ValidActions builds the menu for a seat. Bet and raise amounts are
// street totals: raising to 300 means the seat's current_bet becomes 300.
// A raise is offered only while betting is open for the seat; an all-in
// below the minimum raise does not reopen it. The all_in entry is always
// present while the seat has chips.
func (g *Game) ValidActions(seat int) []ValidAction {
	if seat < 0 || seat >= len(g.seats) {
		return nil
	}
	s := g.seats[seat]
	if !s.canAct() || !g.HandInProgress() {
		return nil
	}

	toCall := g.betTo.Sub(s.CurrentBet)
	menu := []ValidAction{{Action: ActionFold}}

	if toCall.IsZero() {
		menu = append(menu, ValidAction{Action: ActionCheck})
	} else {
		cost := toCall
		if s.Stack.LT(cost) {
			cost = s.Stack
		}
		menu = append(menu, ValidAction{Action: ActionCall, Amount: amountPtr(cost)})
	}

	if g.betTo.IsZero() && s.Stack.GTE(g.cfg.BigBlind) {
		menu = append(menu, ValidAction{
			Action: ActionBet,
			Min:    amountPtr(g.cfg.BigBlind),
			Max:    amountPtr(s.Stack),
		})
	}

	if g.betTo.IsPositive() && !g.acted[seat] {
		minTo := g.betTo.Add(g.lastFull)
		maxTo := s.CurrentBet.Add(s.Stack)
		if maxTo.GTE(minTo) {
			menu = append(menu, ValidAction{
				Action: ActionRaise,
				Min:    amountPtr(minTo),
				Max:    amountPtr(maxTo),
			})
		}
	}

	if s.Stack.IsPositive() {
		menu = append(menu, ValidAction{
			Action: ActionAllIn,
			Amount: amountPtr(s.CurrentBet.Add(s.Stack)),
		})
	}
	return menu
}

// ActResult reports an applied action and everything it triggered: street
// deals, a showdown, or an uncontested win.
type ActResult struct {
	Seat   int           `json:"seat"`
	Wallet domain.Wallet `json:"wallet"`
	Action ActionKind    `json:"action"`
	Paid   money.Amount  `json:"paid"`
	AllIn  bool          `json:"all_in,omitempty"`
	Progress
}

// Act applies a betting action for the wallet. Bet and raise amounts are
// street totals; amount is ignored for the other actions.
func (g *Game) Act(wallet domain.Wallet, kind ActionKind, amount money.Amount) (*ActResult, error) {
	switch g.phase {
	case PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver:
	default:
		return nil, domain.ErrBadPhase("no betting round in progress")
	}
	seat := g.SeatOf(wallet)
	if seat < 0 {
		return nil, domain.ErrNotSeated()
	}
	if seat != g.active {
		return nil, domain.ErrNotYourTurn()
	}
	s := g.seats[seat]
	amount = money.OrZero(amount)
	toCall := g.betTo.Sub(s.CurrentBet)

	var paid money.Amount
	switch kind {
	case ActionFold:
		g.fold(seat)
		paid = money.Zero()

	case ActionCheck:
		if toCall.IsPositive() {
			return nil, domain.ErrCannotAct("cannot check facing a bet; call, raise, or fold")
		}
		g.acted[seat] = true
		paid = money.Zero()

	case ActionCall:
		if toCall.IsZero() {
			return nil, domain.ErrCannotAct("nothing to call; check instead")
		}
		target := g.betTo
		if s.Stack.LT(toCall) {
			target = s.CurrentBet.Add(s.Stack)
		}
		paid = g.commitTo(seat, target)

	case ActionBet:
		if g.betTo.IsPositive() {
			return nil, domain.ErrCannotAct("a bet is already open; raise instead")
		}
		if amount.GT(s.Stack) {
			return nil, domain.ErrInsufficientChips()
		}
		if amount.LT(g.cfg.BigBlind) && !amount.Equal(s.Stack) {
			return nil, domain.ErrBelowMinimum("bet", g.cfg.BigBlind.String())
		}
		paid = g.commitTo(seat, amount)

	case ActionRaise:
		if g.betTo.IsZero() {
			return nil, domain.ErrCannotAct("nothing to raise; bet instead")
		}
		if g.acted[seat] {
			return nil, domain.ErrCannotAct("betting was not reopened for this seat")
		}
		maxTo := s.CurrentBet.Add(s.Stack)
		if amount.GT(maxTo) {
			return nil, domain.ErrInsufficientChips()
		}
		if !amount.GT(g.betTo) {
			return nil, domain.ErrCannotAct("raise must exceed the current bet")
		}
		minTo := g.betTo.Add(g.lastFull)
		if amount.LT(minTo) && !amount.Equal(maxTo) {
			return nil, domain.ErrBelowMinimum("raise", minTo.String())
		}
		paid = g.commitTo(seat, amount)

	case ActionAllIn:
		if !s.Stack.IsPositive() {
			return nil, domain.ErrCannotAct("no chips behind")
		}
		paid = g.commitTo(seat, s.CurrentBet.Add(s.Stack))

	default:
		return nil, domain.ErrValidation(fmt.Sprintf("unknown action %q", kind))
	}

	res := &ActResult{
		Seat:   seat,
		Wallet: wallet,
		Action: kind,
		Paid:   paid,
		AllIn:  s.AllIn,
	}
	g.advance(&res.Progress)
	return res, nil
}

// commitTo moves chips so the seat's street total becomes `to`, and
// applies the reopening rules: a full raise resets the acted set and the
// minimum raise size, an all-in under-raise does neither.
func (g *Game) commitTo(seat int, to money.Amount) money.Amount {
	s := g.seats[seat]
	pay := to.Sub(s.CurrentBet)
	s.Stack = s.Stack.Sub(pay)
	s.CurrentBet = to
	s.TotalInvested = s.TotalInvested.Add(pay)
	g.invested[seat] = g.invested[seat].Add(pay)
	if s.Stack.IsZero() {
		s.AllIn = true
	}

	if to.GT(g.betTo) {
		raiseBy := to.Sub(g.betTo)
		switch {
		case g.betTo.IsZero():
			// Opening bet. A short all-in open still leaves the big
			// blind as the minimum raise size.
			g.lastFull = to
			if g.lastFull.LT(g.cfg.BigBlind) {
				g.lastFull = g.cfg.BigBlind
			}
			g.acted = map[int]bool{seat: true}
		case raiseBy.GTE(g.lastFull):
			g.lastFull = raiseBy
			g.acted = map[int]bool{seat: true}
		default:
			g.acted[seat] = true
		}
		g.betTo = to
	} else {
		g.acted[seat] = true
	}
	return pay
}

func (g *Game) fold(seat int) {
	s := g.seats[seat]
	s.Folded = true
	s.HoleCards = nil
	g.folded[seat] = true
	delete(g.acted, seat)
}

// roundComplete reports whether every seat that can still act has both
// acted since the last full raise and matched the current bet.
func (g *Game) roundComplete() bool {
	for i, s := range g.seats {
		if !s.canAct() {
			continue
		}
		if !g.acted[i] || !s.CurrentBet.Equal(g.betTo) {
			return false
		}
	}
	return true
}
