package poker

import (
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// StreetDeal records community cards hitting the board.
type StreetDeal struct {
	Phase     Phase  `json:"phase"`
	Cards     []Card `json:"cards"`
	Community []Card `json:"community"`
}

// Reveal is one seat's hole cards shown at showdown.
type Reveal struct {
	Seat   int           `json:"seat"`
	Wallet domain.Wallet `json:"wallet"`
	Cards  []Card        `json:"cards"`
	Rank   HandRank      `json:"rank"`
}

// Showdown reports the settled pots of a hand that reached showdown.
type Showdown struct {
	Reveals []Reveal             `json:"reveals"`
	Pots    []PotAward           `json:"pots"`
	Totals  map[int]money.Amount `json:"totals"`
}

// FoldWin reports an uncontested pot. No cards are revealed.
type FoldWin struct {
	Seat   int           `json:"seat"`
	Wallet domain.Wallet `json:"wallet"`
	Amount money.Amount  `json:"amount"`
}

// Progress carries everything an action (or a dealt hand) triggered
// beyond the action itself.
type Progress struct {
	Streets  []StreetDeal `json:"streets,omitempty"`
	Showdown *Showdown    `json:"showdown,omitempty"`
	FoldWin  *FoldWin     `json:"fold_win,omitempty"`
	Complete bool         `json:"complete,omitempty"`
	NextSeat int          `json:"next_seat"`
}

// advance moves the hand forward after an applied action: uncontested
// win, street change, or pass the action clockwise.
func (g *Game) advance(p *Progress) {
	if g.inHandCount() == 1 {
		g.awardFoldWin(p)
		return
	}
	if g.roundComplete() {
		g.advanceStreet(p)
		return
	}
	g.active = g.nextActor(g.active)
	p.NextSeat = g.active
}

// advanceStreet closes the current betting round. When at most one seat
// can still act, the remaining streets are dealt without further betting.
func (g *Game) advanceStreet(p *Progress) {
	g.resetStreetBets()
	runOut := g.actorCount() <= 1
	for {
		if g.phase == PhaseRiver {
			g.showdown(p)
			return
		}
		g.dealNextStreet(p)
		if !runOut {
			g.active = g.nextActor(g.button)
			p.NextSeat = g.active
			return
		}
	}
}

func (g *Game) resetStreetBets() {
	for _, s := range g.seats {
		if s != nil {
			s.CurrentBet = money.Zero()
		}
	}
	g.betTo = money.Zero()
	g.lastFull = g.cfg.BigBlind
	g.acted = make(map[int]bool)
}

func (g *Game) dealNextStreet(p *Progress) {
	g.deck.Burn()
	var n int
	switch g.phase {
	case PhasePreflop:
		g.phase, n = PhaseFlop, 3
	case PhaseFlop:
		g.phase, n = PhaseTurn, 1
	case PhaseTurn:
		g.phase, n = PhaseRiver, 1
	}
	cards := g.deck.Deal(n)
	g.community = append(g.community, cards...)
	p.Streets = append(p.Streets, StreetDeal{
		Phase:     g.phase,
		Cards:     cards,
		Community: append([]Card(nil), g.community...),
	})
}

// showdown evaluates every live hand, carves the side pots, and credits
// the winners.
func (g *Game) showdown(p *Progress) {
	g.phase = PhaseShowdown

	contribs := make([]Contribution, len(g.seats))
	ranks := make(map[int]HandRank)
	var reveals []Reveal
	for i, s := range g.seats {
		contribs[i] = Contribution{Invested: g.invested[i], Folded: g.folded[i]}
		if !s.inHand() {
			continue
		}
		cards := append(append([]Card(nil), s.HoleCards...), g.community...)
		rank, _ := Evaluate(cards)
		ranks[i] = rank
		reveals = append(reveals, Reveal{
			Seat:   i,
			Wallet: s.Wallet,
			Cards:  append([]Card(nil), s.HoleCards...),
			Rank:   rank,
		})
	}

	pots := BuildPots(contribs)
	awards := DistributePots(pots, ranks, g.button, len(g.seats))
	totals := TotalAwards(awards)
	for seat, amt := range totals {
		g.seats[seat].Stack = g.seats[seat].Stack.Add(amt)
	}

	p.Showdown = &Showdown{Reveals: reveals, Pots: awards, Totals: totals}
	g.endHand(p)
}

// awardFoldWin hands the whole pot to the last live seat without
// revealing cards.
func (g *Game) awardFoldWin(p *Progress) {
	winner := -1
	for i, s := range g.seats {
		if s.inHand() {
			winner = i
			break
		}
	}
	pot := g.potTotal()
	s := g.seats[winner]
	s.Stack = s.Stack.Add(pot)
	p.FoldWin = &FoldWin{Seat: winner, Wallet: s.Wallet, Amount: pot}
	g.endHand(p)
}

func (g *Game) endHand(p *Progress) {
	g.phase = PhaseComplete
	g.active = -1
	g.betTo = money.Zero()
	g.lastFull = money.Zero()
	g.acted = make(map[int]bool)
	for i, s := range g.seats {
		g.invested[i] = money.Zero()
		if s == nil {
			continue
		}
		s.HoleCards = nil
		s.CurrentBet = money.Zero()
		s.TotalInvested = money.Zero()
		s.Folded = false
		s.AllIn = false
	}
	p.Complete = true
	p.NextSeat = -1
}
