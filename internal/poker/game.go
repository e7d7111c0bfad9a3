// Package poker implements the Molt'em No-Limit Texas Hold'em engine: a
// seven-phase hand machine, a betting controller with the last-full-raise
// rule, a layered side-pot solver, and a 5-to-7 card evaluator. The
// engine owns table chips only; buy-ins and stand-ups settle against the
// ledger in the table runtime.
package poker

import (
	"fmt"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// Phase of the current hand.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseComplete Phase = "complete"
)

// Seat is one chair at the table.
type Seat struct {
	Wallet        domain.Wallet
	Stack         money.Amount
	HoleCards     []Card
	CurrentBet    money.Amount
	TotalInvested money.Amount
	Folded        bool
	AllIn         bool
	SittingOut    bool
}

// inHand reports whether the seat holds live cards.
func (s *Seat) inHand() bool {
	return s != nil && len(s.HoleCards) == 2 && !s.Folded
}

// canAct reports whether the seat still has betting decisions to make.
func (s *Seat) canAct() bool {
	return s.inHand() && !s.AllIn
}

// Config for a table. Shuffle may be replaced to stack the deck.
type Config struct {
	SmallBlind money.Amount
	BigBlind   money.Amount
	MinBuyIn   money.Amount
	MaxBuyIn   money.Amount
	MaxSeats   int
	Shuffle    func(n int, swap func(i, j int))
}

// Game is the hold'em engine. Not safe for concurrent use; the table
// runtime serializes access.
type Game struct {
	cfg       Config
	phase     Phase
	handNum   int64
	seats     []*Seat
	community []Card
	deck      *Deck
	button    int
	active    int
	betTo     money.Amount
	lastFull  money.Amount
	acted     map[int]bool
	invested  []money.Amount
	folded    []bool
}

func NewGame(cfg Config) *Game {
	g := &Game{
		cfg:      cfg,
		phase:    PhaseWaiting,
		seats:    make([]*Seat, cfg.MaxSeats),
		button:   -1,
		active:   -1,
		betTo:    money.Zero(),
		lastFull: money.Zero(),
		acted:    make(map[int]bool),
		invested: make([]money.Amount, cfg.MaxSeats),
		folded:   make([]bool, cfg.MaxSeats),
	}
	for i := range g.invested {
		g.invested[i] = money.Zero()
	}
	return g
}

// Sit places a wallet at seatIdx with the given buy-in, or at the first
// free seat when seatIdx is negative. The buy-in must already be debited
// from the ledger by the caller.
func (g *Game) Sit(wallet domain.Wallet, seatIdx int, buyIn money.Amount) (int, error) {
	if g.SeatOf(wallet) >= 0 {
		return 0, domain.ErrValidation("wallet already seated")
	}
	if buyIn.LT(g.cfg.MinBuyIn) || buyIn.GT(g.cfg.MaxBuyIn) {
		return 0, domain.ErrBuyInOutOfRange(g.cfg.MinBuyIn.String(), g.cfg.MaxBuyIn.String())
	}
	if seatIdx < 0 {
		seatIdx = -1
		for i, s := range g.seats {
			if s == nil {
				seatIdx = i
				break
			}
		}
		if seatIdx < 0 {
			return 0, domain.ErrTableFull()
		}
	} else {
		if seatIdx >= len(g.seats) {
			return 0, domain.ErrValidation(fmt.Sprintf("seat must be 0..%d", len(g.seats)-1))
		}
		if g.seats[seatIdx] != nil {
			return 0, domain.ErrSeatOccupied(seatIdx)
		}
	}

	g.seats[seatIdx] = &Seat{
		Wallet:        wallet,
		Stack:         buyIn,
		CurrentBet:    money.Zero(),
		TotalInvested: money.Zero(),
	}
	return seatIdx, nil
}

// Stand vacates the wallet's seat and returns the remaining stack for the
// caller to credit back. Refused while the seat holds live cards; a
// folded seat may leave mid-hand, its invested chips stay in the pot.
func (g *Game) Stand(wallet domain.Wallet) (money.Amount, error) {
	idx := g.SeatOf(wallet)
	if idx < 0 {
		return money.Zero(), domain.ErrNotSeated()
	}
	if g.seats[idx].inHand() {
		return money.Zero(), domain.ErrHandInProgress()
	}
	stack := g.seats[idx].Stack
	g.seats[idx] = nil
	return stack, nil
}

// BlindPost records a posted blind. A stack shorter than the blind posts
// everything and is all-in on the spot.
type BlindPost struct {
	Seat   int           `json:"seat"`
	Wallet domain.Wallet `json:"wallet"`
	Amount money.Amount  `json:"amount"`
	AllIn  bool          `json:"all_in,omitempty"`
}

// HandStart reports a dealt hand. Hole cards are not carried here; the
// runtime reads them per seat to build private projections.
type HandStart struct {
	HandNum    int64     `json:"hand_num"`
	Button     int       `json:"button"`
	SmallBlind BlindPost `json:"small_blind"`
	BigBlind   BlindPost `json:"big_blind"`
	InHand     []int     `json:"in_hand"`
	FirstToAct int       `json:"first_to_act"`
	Progress
}

// StartHand deals the next hand: move the button, post blinds, deal hole
// cards, and open the preflop round. Fails unless at least two seats hold
// chips and no hand is running.
func (g *Game) StartHand() (*HandStart, error) {
	if g.HandInProgress() {
		return nil, domain.ErrBadPhase("a hand is already in progress")
	}
	for _, s := range g.seats {
		if s != nil && !s.Stack.IsPositive() {
			s.SittingOut = true
		}
	}
	eligible := g.eligibleSeats()
	if len(eligible) < 2 {
		g.phase = PhaseWaiting
		return nil, domain.ErrBadPhase("need at least two players with chips")
	}

	g.handNum++
	g.phase = PhasePreflop
	g.community = nil
	g.deck = NewDeck()
	g.deck.Shuffle(g.cfg.Shuffle)
	g.betTo = money.Zero()
	g.lastFull = money.Zero()
	g.acted = make(map[int]bool)
	for i := range g.invested {
		g.invested[i] = money.Zero()
		g.folded[i] = false
	}
	for _, s := range g.seats {
		if s == nil {
			continue
		}
		s.HoleCards = nil
		s.CurrentBet = money.Zero()
		s.TotalInvested = money.Zero()
		s.Folded = false
		s.AllIn = false
	}

	if g.button < 0 {
		g.button = eligible[0]
	} else {
		g.button = g.nextEligible(g.button)
	}

	// Ring order for this hand, starting one seat past the button. A
	// blind can empty a stack, so the deal walks this snapshot rather
	// than re-checking stacks.
	n := len(eligible)
	bi := 0
	for i, seat := range eligible {
		if seat == g.button {
			bi = i
			break
		}
	}
	ring := make([]int, n)
	for i := range ring {
		ring[i] = eligible[(bi+1+i)%n]
	}

	// Heads-up: the button posts the small blind.
	sbSeat, bbSeat := ring[0], ring[1]
	if n == 2 {
		sbSeat, bbSeat = g.button, ring[0]
	}
	sb := g.postBlind(sbSeat, g.cfg.SmallBlind)
	bb := g.postBlind(bbSeat, g.cfg.BigBlind)
	g.betTo = g.cfg.BigBlind
	g.lastFull = g.cfg.BigBlind

	// Two passes, one card per seat.
	for pass := 0; pass < 2; pass++ {
		for _, seat := range ring {
			g.seats[seat].HoleCards = append(g.seats[seat].HoleCards, g.deck.Deal(1)...)
		}
	}

	start := &HandStart{
		HandNum:    g.handNum,
		Button:     g.button,
		SmallBlind: sb,
		BigBlind:   bb,
		InHand:     eligible,
	}

	if g.roundComplete() {
		// Blinds put everyone all-in; nothing to do but run the board.
		start.FirstToAct = -1
		g.advanceStreet(&start.Progress)
		return start, nil
	}

	if n == 2 {
		g.active = g.nextActorFrom(g.button)
	} else {
		g.active = g.nextActor(bbSeat)
	}
	start.FirstToAct = g.active
	start.NextSeat = g.active
	return start, nil
}

func (g *Game) postBlind(seat int, blind money.Amount) BlindPost {
	s := g.seats[seat]
	pay := blind
	if s.Stack.LT(pay) {
		pay = s.Stack
	}
	s.Stack = s.Stack.Sub(pay)
	s.CurrentBet = s.CurrentBet.Add(pay)
	s.TotalInvested = s.TotalInvested.Add(pay)
	g.invested[seat] = g.invested[seat].Add(pay)
	if s.Stack.IsZero() {
		s.AllIn = true
	}
	return BlindPost{Seat: seat, Wallet: s.Wallet, Amount: pay, AllIn: s.AllIn}
}

// HandInProgress reports whether cards are out.
func (g *Game) HandInProgress() bool {
	switch g.phase {
	case PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown:
		return true
	}
	return false
}

// CanStart reports whether a new hand could be dealt right now.
func (g *Game) CanStart() bool {
	return !g.HandInProgress() && len(g.eligibleSeats()) >= 2
}

// SeatOf returns the wallet's seat index, -1 when not seated.
func (g *Game) SeatOf(wallet domain.Wallet) int {
	for i, s := range g.seats {
		if s != nil && s.Wallet == wallet {
			return i
		}
	}
	return -1
}

// IsSeated reports whether the wallet occupies a seat.
func (g *Game) IsSeated(wallet domain.Wallet) bool { return g.SeatOf(wallet) >= 0 }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// HandNum returns the current hand number.
func (g *Game) HandNum() int64 { return g.handNum }

// Button returns the button seat index.
func (g *Game) Button() int { return g.button }

// ActiveSeat returns the seat index whose action is pending, -1 if none.
func (g *Game) ActiveSeat() int { return g.active }

// ActiveWallet returns the wallet whose action is pending.
func (g *Game) ActiveWallet() (domain.Wallet, bool) {
	if g.active < 0 || g.seats[g.active] == nil {
		return "", false
	}
	return g.seats[g.active].Wallet, true
}

// HoleCardsOf returns the wallet's current hole cards.
func (g *Game) HoleCardsOf(wallet domain.Wallet) []Card {
	idx := g.SeatOf(wallet)
	if idx < 0 {
		return nil
	}
	return append([]Card(nil), g.seats[idx].HoleCards...)
}

// AutoAction is what the turn timer plays for a stalled seat: check when
// checking is free, otherwise fold.
func (g *Game) AutoAction(seat int) ActionKind {
	s := g.seats[seat]
	if s == nil {
		return ActionFold
	}
	if g.betTo.Sub(s.CurrentBet).IsZero() {
		return ActionCheck
	}
	return ActionFold
}

func (g *Game) eligibleSeats() []int {
	var out []int
	for i, s := range g.seats {
		if s != nil && !s.SittingOut && s.Stack.IsPositive() {
			out = append(out, i)
		}
	}
	return out
}

// nextEligible scans clockwise for the next seat that can be dealt into
// a fresh hand. Button rotation helper; runs before any blind is posted.
func (g *Game) nextEligible(from int) int {
	n := len(g.seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		s := g.seats[idx]
		if s != nil && !s.SittingOut && s.Stack.IsPositive() {
			return idx
		}
	}
	return from
}

// nextActor scans clockwise from the seat after `from` for a seat that
// can still act.
func (g *Game) nextActor(from int) int {
	n := len(g.seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if g.seats[idx].canAct() {
			return idx
		}
	}
	return -1
}

// nextActorFrom returns `from` itself when it can act, else scans on.
func (g *Game) nextActorFrom(from int) int {
	if g.seats[from].canAct() {
		return from
	}
	return g.nextActor(from)
}

func (g *Game) inHandCount() int {
	n := 0
	for _, s := range g.seats {
		if s.inHand() {
			n++
		}
	}
	return n
}

func (g *Game) actorCount() int {
	n := 0
	for _, s := range g.seats {
		if s.canAct() {
			n++
		}
	}
	return n
}

func (g *Game) potTotal() money.Amount {
	total := money.Zero()
	for _, inv := range g.invested {
		total = total.Add(inv)
	}
	return total
}
