// Package craps implements the CRABS dice game: a five-phase state
// machine, a twelve-kind bet catalog, and shooter rotation. The engine
// holds no chips; the table runtime debits and credits the ledger around
// each call.
package craps

import (
	"fmt"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/rng"
)

// Phase of the table. The two roll phases exist only while a roll is
// being evaluated; between calls the table rests in waiting or one of the
// betting phases.
type Phase string

const (
	PhaseWaitingForShooter Phase = "waiting_for_shooter"
	PhaseComeOutBetting    Phase = "come_out_betting"
	PhaseComeOutRoll       Phase = "come_out_roll"
	PhasePointSetBetting   Phase = "point_set_betting"
	PhasePointRoll         Phase = "point_roll"
)

// Config for a craps game. Roll may be replaced to script dice.
type Config struct {
	MinBet money.Amount
	MaxBet money.Amount
	Roll   func() (int, int)
}

// Game is the craps engine. Not safe for concurrent use; the table
// runtime serializes access.
type Game struct {
	phase     Phase
	point     int
	players   []domain.Wallet
	shooters  []domain.Wallet
	bets      []Bet
	lastRoll  *[2]int
	rollCount int
	minBet    money.Amount
	maxBet    money.Amount
	roll      func() (int, int)
	nextBetID int64
}

func NewGame(cfg Config) *Game {
	roll := cfg.Roll
	if roll == nil {
		roll = rng.Dice
	}
	return &Game{
		phase:  PhaseWaitingForShooter,
		minBet: cfg.MinBet,
		maxBet: cfg.MaxBet,
		roll:   roll,
	}
}

// RollResult reports everything one roll did: the dice, the phase the
// dice were evaluated under, settled bets, come-point travel, and the
// resting phase and shooter after the transition.
type RollResult struct {
	Dice             [2]int        `json:"dice"`
	Total            int           `json:"total"`
	RollPhase        Phase         `json:"roll_phase"`
	Phase            Phase         `json:"phase"`
	Point            int           `json:"point,omitempty"`
	PointEstablished bool          `json:"point_established,omitempty"`
	PointMade        bool          `json:"point_made,omitempty"`
	SevenOut         bool          `json:"seven_out,omitempty"`
	ShooterChanged   bool          `json:"shooter_changed,omitempty"`
	Shooter          domain.Wallet `json:"shooter,omitempty"`
	Resolutions      []Resolution  `json:"resolutions"`
	Traveled         []Bet         `json:"traveled,omitempty"`
}

// State is a public snapshot of the table. Craps has no hidden
// information; every bet on the layout is visible.
type State struct {
	Phase     Phase           `json:"phase"`
	Point     int             `json:"point,omitempty"`
	Players   []domain.Wallet `json:"players"`
	Shooter   domain.Wallet   `json:"shooter,omitempty"`
	LastRoll  *[2]int         `json:"last_roll,omitempty"`
	RollCount int             `json:"roll_count"`
	Bets      []Bet           `json:"bets"`
	MinBet    money.Amount    `json:"min_bet"`
	MaxBet    money.Amount    `json:"max_bet"`
}

// Join seats a wallet and appends it to the shooter queue. The first
// player to join a waiting table becomes the shooter and opens betting.
func (g *Game) Join(wallet domain.Wallet) error {
	if g.isSeated(wallet) {
		return domain.ErrValidation("wallet already seated")
	}
	g.players = append(g.players, wallet)
	g.shooters = append(g.shooters, wallet)
	if g.phase == PhaseWaitingForShooter {
		g.phase = PhaseComeOutBetting
		g.rollCount = 0
	}
	return nil
}

// Leave unseats a wallet. Refused while the wallet has any active bet so
// a player cannot walk away from live wagers.
func (g *Game) Leave(wallet domain.Wallet) error {
	if !g.isSeated(wallet) {
		return domain.ErrNotSeated()
	}
	if g.HasBets(wallet) {
		return domain.ErrActiveBets()
	}

	wasShooter := len(g.shooters) > 0 && g.shooters[0] == wallet
	g.players = removeWallet(g.players, wallet)
	g.shooters = removeWallet(g.shooters, wallet)

	if len(g.players) == 0 {
		g.phase = PhaseWaitingForShooter
		g.point = 0
		g.lastRoll = nil
		g.rollCount = 0
		return nil
	}
	if wasShooter {
		// Dice pass to the next player; the point, if any, stays up.
		g.rollCount = 0
	}
	return nil
}

// PlaceBet validates and records a new bet. The stake must already be
// debited from the ledger by the caller.
func (g *Game) PlaceBet(wallet domain.Wallet, kind Kind, amount money.Amount) (Bet, error) {
	if !g.isSeated(wallet) {
		return Bet{}, domain.ErrNotSeated()
	}
	if !allowedIn(kind, g.phase) {
		return Bet{}, domain.ErrBadPhase(fmt.Sprintf("%s cannot be placed during %s", kind, g.phase))
	}
	if amount.LT(g.minBet) || amount.GT(g.maxBet) {
		return Bet{}, domain.ErrBetOutOfRange(g.minBet.String(), g.maxBet.String())
	}
	if isContract(kind) && g.hasKind(wallet, kind) {
		return Bet{}, domain.ErrDuplicateBet(string(kind))
	}

	g.nextBetID++
	bet := Bet{
		ID:        g.nextBetID,
		Owner:     wallet,
		Kind:      kind,
		Amount:    amount,
		FirstRoll: isComeKind(kind),
	}
	g.bets = append(g.bets, bet)
	return bet, nil
}

// Roll throws the dice for the shooter, settles every bet against the
// roll, then transitions the phase. Only the head of the shooter queue
// may roll, and only from a betting phase.
func (g *Game) Roll(wallet domain.Wallet) (*RollResult, error) {
	if len(g.shooters) == 0 || g.shooters[0] != wallet {
		return nil, domain.ErrNotShooter()
	}

	var rollPhase Phase
	switch g.phase {
	case PhaseComeOutBetting:
		rollPhase = PhaseComeOutRoll
	case PhasePointSetBetting:
		rollPhase = PhasePointRoll
	default:
		return nil, domain.ErrBadPhase(fmt.Sprintf("cannot roll during %s", g.phase))
	}

	d1, d2 := g.roll()
	total := d1 + d2
	g.lastRoll = &[2]int{d1, d2}
	g.rollCount++

	result := &RollResult{
		Dice:      [2]int{d1, d2},
		Total:     total,
		RollPhase: rollPhase,
	}

	// Settle every bet against the pre-transition phase. Resolutions on
	// the same roll are independent of each other.
	kept := g.bets[:0]
	for _, b := range g.bets {
		updated, outcome, payout := resolve(b, total, rollPhase, g.point)
		if outcome == OutcomeActive {
			if updated.ComePoint != b.ComePoint {
				result.Traveled = append(result.Traveled, updated)
			}
			kept = append(kept, updated)
			continue
		}
		result.Resolutions = append(result.Resolutions, Resolution{
			Bet:     updated,
			Outcome: outcome,
			Payout:  payout,
		})
	}
	g.bets = kept

	// Phase transition.
	switch rollPhase {
	case PhaseComeOutRoll:
		if isPointNumber(total) {
			g.point = total
			g.phase = PhasePointSetBetting
			result.PointEstablished = true
		} else {
			g.phase = PhaseComeOutBetting
		}
	case PhasePointRoll:
		switch {
		case total == g.point:
			g.point = 0
			g.phase = PhaseComeOutBetting
			result.PointMade = true
		case total == 7:
			g.point = 0
			g.rotateShooter()
			result.SevenOut = true
			result.ShooterChanged = true
			if len(g.shooters) <= 1 {
				// A lone shooter cannot open a new hand.
				g.phase = PhaseWaitingForShooter
			} else {
				g.phase = PhaseComeOutBetting
			}
		default:
			g.phase = PhasePointSetBetting
		}
	}

	result.Phase = g.phase
	result.Point = g.point
	if s, ok := g.Shooter(); ok {
		result.Shooter = s
	}
	return result, nil
}

func (g *Game) rotateShooter() {
	if len(g.shooters) == 0 {
		return
	}
	head := g.shooters[0]
	g.shooters = append(g.shooters[1:], head)
	g.rollCount = 0
}

// Shooter returns the current shooter, if any.
func (g *Game) Shooter() (domain.Wallet, bool) {
	if len(g.shooters) == 0 || g.phase == PhaseWaitingForShooter {
		return "", false
	}
	return g.shooters[0], true
}

// Phase returns the table's resting phase.
func (g *Game) Phase() Phase { return g.phase }

// Point returns the established point, zero when none.
func (g *Game) Point() int { return g.point }

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int { return len(g.players) }

// HasBets reports whether the wallet owns any active bet.
func (g *Game) HasBets(wallet domain.Wallet) bool {
	for _, b := range g.bets {
		if b.Owner == wallet {
			return true
		}
	}
	return false
}

// BetsOf returns copies of the wallet's active bets.
func (g *Game) BetsOf(wallet domain.Wallet) []Bet {
	var out []Bet
	for _, b := range g.bets {
		if b.Owner == wallet {
			out = append(out, b)
		}
	}
	return out
}

// IsSeated reports whether the wallet is at the table.
func (g *Game) IsSeated(wallet domain.Wallet) bool { return g.isSeated(wallet) }

// State snapshots the table for broadcast.
func (g *Game) State() State {
	st := State{
		Phase:     g.phase,
		Point:     g.point,
		Players:   append([]domain.Wallet(nil), g.players...),
		RollCount: g.rollCount,
		Bets:      append([]Bet(nil), g.bets...),
		MinBet:    g.minBet,
		MaxBet:    g.maxBet,
	}
	if s, ok := g.Shooter(); ok {
		st.Shooter = s
	}
	if g.lastRoll != nil {
		roll := *g.lastRoll
		st.LastRoll = &roll
	}
	return st
}

func (g *Game) isSeated(wallet domain.Wallet) bool {
	for _, p := range g.players {
		if p == wallet {
			return true
		}
	}
	return false
}

func (g *Game) hasKind(wallet domain.Wallet, kind Kind) bool {
	for _, b := range g.bets {
		if b.Owner == wallet && b.Kind == kind {
			return true
		}
	}
	return false
}

func removeWallet(list []domain.Wallet, w domain.Wallet) []domain.Wallet {
	out := list[:0]
	for _, v := range list {
		if v != w {
			out = append(out, v)
		}
	}
	return out
}
