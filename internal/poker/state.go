package poker

import (
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
)

// SeatView is a seat as seen by a particular viewer. HoleCards is set
// only for the viewer's own seat, or for every dealt seat in the
// observer projection.
type SeatView struct {
	Seat          int           `json:"seat"`
	Wallet        domain.Wallet `json:"wallet"`
	Stack         money.Amount  `json:"stack"`
	CurrentBet    money.Amount  `json:"current_bet"`
	TotalInvested money.Amount  `json:"total_invested"`
	Folded        bool          `json:"folded,omitempty"`
	AllIn         bool          `json:"all_in,omitempty"`
	SittingOut    bool          `json:"sitting_out,omitempty"`
	HasCards      bool          `json:"has_cards,omitempty"`
	HoleCards     []Card        `json:"hole_cards,omitempty"`
}

// State is a full table snapshot. Seats is fixed-length with null
// entries for empty chairs, so seat indexes are stable across frames.
type State struct {
	Phase      Phase         `json:"phase"`
	HandNum    int64         `json:"hand_num"`
	Button     int           `json:"button"`
	ActiveSeat int           `json:"active_seat"`
	BetTo      money.Amount  `json:"bet_to"`
	MinRaise   money.Amount  `json:"min_raise"`
	Pot        money.Amount  `json:"pot"`
	Community  []Card        `json:"community"`
	Seats      []*SeatView   `json:"seats"`
	SmallBlind money.Amount  `json:"small_blind"`
	BigBlind   money.Amount  `json:"big_blind"`
	MinBuyIn   money.Amount  `json:"min_buy_in"`
	MaxBuyIn   money.Amount  `json:"max_buy_in"`
	Actions    []ValidAction `json:"actions,omitempty"`
}

// Snapshot projects the table for a viewer. Pass revealAll for the
// observer projection; an empty viewer wallet yields the spectator one.
// When it is the viewer's turn the snapshot carries their action menu.
func (g *Game) Snapshot(viewer domain.Wallet, revealAll bool) State {
	st := State{
		Phase:      g.phase,
		HandNum:    g.handNum,
		Button:     g.button,
		ActiveSeat: g.active,
		BetTo:      g.betTo,
		MinRaise:   g.lastFull,
		Pot:        g.potTotal(),
		Community:  append([]Card(nil), g.community...),
		Seats:      make([]*SeatView, len(g.seats)),
		SmallBlind: g.cfg.SmallBlind,
		BigBlind:   g.cfg.BigBlind,
		MinBuyIn:   g.cfg.MinBuyIn,
		MaxBuyIn:   g.cfg.MaxBuyIn,
	}
	for i, s := range g.seats {
		if s == nil {
			continue
		}
		view := &SeatView{
			Seat:          i,
			Wallet:        s.Wallet,
			Stack:         s.Stack,
			CurrentBet:    s.CurrentBet,
			TotalInvested: s.TotalInvested,
			Folded:        s.Folded,
			AllIn:         s.AllIn,
			SittingOut:    s.SittingOut,
			HasCards:      len(s.HoleCards) == 2,
		}
		if revealAll || (viewer != "" && s.Wallet == viewer) {
			view.HoleCards = append([]Card(nil), s.HoleCards...)
		}
		st.Seats[i] = view
	}
	if g.active >= 0 && !revealAll && viewer != "" {
		if idx := g.SeatOf(viewer); idx == g.active {
			st.Actions = g.ValidActions(idx)
		}
	}
	return st
}
