package table

import (
	"log/slog"
	"time"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/poker"
)

// Ledger refs for the two poker chip movements. Pots settle inside the
// engine between stacks; the journal only sees chips entering and
// leaving the table.
const (
	refBuyIn = "moltem:buyin"
	refStand = "moltem:stand"
)

// PokerConfig wires the engine rules to the runtime cadence.
type PokerConfig struct {
	Game          poker.Config
	ActionTimeout time.Duration // zero disables the turn timer
	NextHandDelay time.Duration // zero deals the next hand immediately
}

// PokerTable is the Molt'em runtime. It owns the turn timer and the
// between-hands cadence; the engine knows nothing about time.
type PokerTable struct {
	core
	game *poker.Game

	actionTimeout time.Duration
	nextHandDelay time.Duration

	// actionGen invalidates stale deadline firings: it bumps on every
	// applied action and hand start, and an expiry handler whose
	// generation no longer matches is a no-op.
	actionGen   int64
	actionTimer *time.Timer
	dealTimer   *time.Timer
	closed      bool
}

// NewPokerTable creates a table around a fresh engine and its own bus.
func NewPokerTable(cfg PokerConfig, led *ledger.Ledger, logger *slog.Logger) *PokerTable {
	return &PokerTable{
		core:          core{bus: events.NewBus(logger), led: led, logger: logger, now: time.Now},
		game:          poker.NewGame(cfg.Game),
		actionTimeout: cfg.ActionTimeout,
		nextHandDelay: cfg.NextHandDelay,
	}
}

// Close stops the timers. In-flight expiries that already fired become
// no-ops via the generation check.
func (t *PokerTable) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.actionGen++
	if t.actionTimer != nil {
		t.actionTimer.Stop()
	}
	if t.dealTimer != nil {
		t.dealTimer.Stop()
	}
}

// pokerPlayer is the payload of player_joined and player_left.
type pokerPlayer struct {
	Seat   int           `json:"seat"`
	Wallet domain.Wallet `json:"wallet"`
	Stack  money.Amount  `json:"stack"`
}

type handStarted struct {
	HandNum    int64 `json:"hand_num"`
	Button     int   `json:"button"`
	InHand     []int `json:"in_hand"`
	FirstToAct int   `json:"first_to_act"`
}

type blindsPosted struct {
	SmallBlind poker.BlindPost `json:"small_blind"`
	BigBlind   poker.BlindPost `json:"big_blind"`
}

type seatCards struct {
	Seat  int          `json:"seat"`
	Cards []poker.Card `json:"cards"`
}

// holeCards is the payload of hole_cards_dealt. Spectators see the
// seat list only; a player's variant carries their own cards; the
// observer variant carries every seat's cards.
type holeCards struct {
	HandNum int64       `json:"hand_num"`
	Seats   []int       `json:"seats"`
	Cards   []seatCards `json:"cards,omitempty"`
}

type playerActed struct {
	Seat     int           `json:"seat"`
	Wallet   domain.Wallet `json:"wallet"`
	Action   string        `json:"action"`
	Paid     money.Amount  `json:"paid"`
	AllIn    bool          `json:"all_in,omitempty"`
	TimedOut bool          `json:"timed_out,omitempty"`
}

// actionOn is the payload of action_on. The valid-actions menu rides
// only on the active wallet's variant and the observer variant.
type actionOn struct {
	Seat     int                 `json:"seat"`
	Wallet   domain.Wallet       `json:"wallet"`
	Deadline *time.Time          `json:"deadline,omitempty"`
	Actions  []poker.ValidAction `json:"actions,omitempty"`
}

type handComplete struct {
	HandNum int64 `json:"hand_num"`
}

// Sit debits the buy-in, then seats the wallet. An engine rejection
// refunds the debit and surfaces the engine error.
func (t *PokerTable) Sit(wallet domain.Wallet, seatIdx int, buyIn money.Amount) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ok, err := t.led.PlaceWager(wallet, buyIn, refBuyIn)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrInsufficientChips()
	}

	seat, err := t.game.Sit(wallet, seatIdx, buyIn)
	if err != nil {
		if rerr := t.led.RefundWager(wallet, buyIn, refBuyIn); rerr != nil {
			t.logger.Error("buy-in refund failed", "wallet", wallet, "error", rerr)
			return 0, rerr
		}
		return 0, err
	}
	t.logger.Info("player sat", "wallet", wallet, "seat", seat, "buy_in", buyIn)

	t.bus.Publish(events.Broadcast{
		Type:   events.TypePlayerJoined,
		Public: pokerPlayer{Seat: seat, Wallet: wallet, Stack: buyIn},
	})
	t.maybeDeal()
	return seat, nil
}

// Stand releases the seat and credits the remaining stack back to the
// ledger. The engine refuses while the seat still holds cards.
func (t *PokerTable) Stand(wallet domain.Wallet) (money.Amount, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat := t.game.SeatOf(wallet)
	stack, err := t.game.Stand(wallet)
	if err != nil {
		return money.Zero(), err
	}
	if stack.IsPositive() {
		if err := t.led.SettleWon(wallet, stack, refStand); err != nil {
			t.logger.Error("stack credit failed", "wallet", wallet, "stack", stack, "error", err)
			return money.Zero(), err
		}
	}
	t.logger.Info("player stood", "wallet", wallet, "seat", seat, "stack", stack)

	t.bus.Publish(events.Broadcast{
		Type:   events.TypePlayerLeft,
		Public: pokerPlayer{Seat: seat, Wallet: wallet, Stack: stack},
	})
	return stack, nil
}

// Act applies a betting action for the wallet and publishes everything
// that follows from it: the action itself, any streets it closed, and
// either the next turn or the hand's settlement.
func (t *PokerTable) Act(wallet domain.Wallet, kind poker.ActionKind, amount money.Amount) (*poker.ActResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.game.Act(wallet, kind, amount)
	if err != nil {
		return nil, err
	}
	t.logger.Info("player acted", "wallet", wallet, "seat", res.Seat, "action", res.Action, "paid", res.Paid)
	t.publishAct(res, false)
	return res, nil
}

// maybeDeal schedules the next hand when the table can play one. With a
// zero delay the hand starts inside the current critical section.
func (t *PokerTable) maybeDeal() {
	if t.closed || t.game.HandInProgress() || !t.game.CanStart() {
		return
	}
	if t.nextHandDelay <= 0 {
		t.startHand()
		return
	}
	if t.dealTimer != nil {
		t.dealTimer.Stop()
	}
	t.dealTimer = time.AfterFunc(t.nextHandDelay, t.dealExpired)
}

func (t *PokerTable) dealExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.game.HandInProgress() || !t.game.CanStart() {
		return
	}
	t.startHand()
}

// startHand deals under the table lock and publishes the opening burst:
// hand_started, blinds_posted, hole_cards_dealt, then the first turn.
// Blinds can put every stack all-in, so the opening burst may run all
// the way to a settled hand.
func (t *PokerTable) startHand() {
	start, err := t.game.StartHand()
	if err != nil {
		t.logger.Error("hand start failed", "error", err)
		return
	}
	t.logger.Info("hand started", "hand", start.HandNum, "button", start.Button, "seats", len(start.InHand))

	t.bus.Publish(events.Broadcast{
		Type: events.TypeHandStarted,
		Public: handStarted{
			HandNum:    start.HandNum,
			Button:     start.Button,
			InHand:     start.InHand,
			FirstToAct: start.FirstToAct,
		},
	})
	t.bus.Publish(events.Broadcast{
		Type:   events.TypeBlindsPosted,
		Public: blindsPosted{SmallBlind: start.SmallBlind, BigBlind: start.BigBlind},
	})
	t.publishHoleCards(start)
	t.publishProgress(&start.Progress)
}

func (t *PokerTable) publishHoleCards(start *poker.HandStart) {
	public := holeCards{HandNum: start.HandNum, Seats: start.InHand}

	all := make([]seatCards, 0, len(start.InHand))
	perWallet := make(map[domain.Wallet]any, len(start.InHand))
	for _, view := range t.game.Snapshot("", true).Seats {
		if view == nil || !view.HasCards {
			continue
		}
		own := seatCards{Seat: view.Seat, Cards: view.HoleCards}
		all = append(all, own)
		private := public
		private.Cards = []seatCards{own}
		perWallet[view.Wallet] = private
	}
	observer := public
	observer.Cards = all

	t.bus.Publish(events.Broadcast{
		Type:      events.TypeHoleCardsDealt,
		Public:    public,
		PerWallet: perWallet,
		Observer:  observer,
	})
}

func (t *PokerTable) publishAct(res *poker.ActResult, timedOut bool) {
	t.bus.Publish(events.Broadcast{
		Type: events.TypePlayerActed,
		Public: playerActed{
			Seat:     res.Seat,
			Wallet:   res.Wallet,
			Action:   string(res.Action),
			Paid:     res.Paid,
			AllIn:    res.AllIn,
			TimedOut: timedOut,
		},
	})
	t.publishProgress(&res.Progress)
}

// publishProgress walks what one applied action (or a freshly dealt
// hand) did to the table: streets, showdown or uncontested win, and
// either the next turn or the next-hand schedule.
func (t *PokerTable) publishProgress(p *poker.Progress) {
	for i := range p.Streets {
		t.bus.Publish(events.Broadcast{Type: streetEventType(p.Streets[i].Phase), Public: p.Streets[i]})
	}
	if p.Showdown != nil {
		t.bus.Publish(events.Broadcast{Type: events.TypeShowdown, Public: p.Showdown})
		for i := range p.Showdown.Pots {
			t.bus.Publish(events.Broadcast{Type: events.TypePotAwarded, Public: p.Showdown.Pots[i]})
		}
	}
	if p.FoldWin != nil {
		award := poker.PotAward{
			Amount:   p.FoldWin.Amount,
			Eligible: []int{p.FoldWin.Seat},
			Winners:  []int{p.FoldWin.Seat},
			Shares:   map[int]money.Amount{p.FoldWin.Seat: p.FoldWin.Amount},
		}
		t.bus.Publish(events.Broadcast{Type: events.TypePotAwarded, Public: award})
	}
	if p.Complete {
		t.bus.Publish(events.Broadcast{Type: events.TypeHandComplete, Public: handComplete{HandNum: t.game.HandNum()}})
		t.armActionTimer()
		t.maybeDeal()
		return
	}
	if p.NextSeat >= 0 {
		t.emitActionOn()
	}
}

func streetEventType(p poker.Phase) string {
	switch p {
	case poker.PhaseFlop:
		return events.TypeFlopDealt
	case poker.PhaseTurn:
		return events.TypeTurnDealt
	default:
		return events.TypeRiverDealt
	}
}

// emitActionOn announces whose turn it is. The public variant names the
// seat; the active wallet's variant and the observer variant carry the
// valid-actions menu.
func (t *PokerTable) emitActionOn() {
	seat := t.game.ActiveSeat()
	if seat < 0 {
		return
	}
	wallet, ok := t.game.ActiveWallet()
	if !ok {
		return
	}

	public := actionOn{Seat: seat, Wallet: wallet}
	if t.actionTimeout > 0 {
		deadline := t.now().Add(t.actionTimeout)
		public.Deadline = &deadline
	}
	private := public
	private.Actions = t.game.ValidActions(seat)

	t.bus.Publish(events.Broadcast{
		Type:      events.TypeActionOn,
		Public:    public,
		PerWallet: map[domain.Wallet]any{wallet: private},
		Observer:  private,
	})
	t.armActionTimer()
}

// armActionTimer starts the deadline for the current seat. It always
// bumps the generation, so a stale expiry for the previous turn cannot
// act even if it already fired.
func (t *PokerTable) armActionTimer() {
	t.actionGen++
	if t.actionTimer != nil {
		t.actionTimer.Stop()
	}
	if t.closed || t.actionTimeout <= 0 {
		return
	}
	seat := t.game.ActiveSeat()
	if seat < 0 {
		return
	}
	gen := t.actionGen
	t.actionTimer = time.AfterFunc(t.actionTimeout, func() { t.actionExpired(gen, seat) })
}

// actionExpired auto-checks or auto-folds a seat whose deadline passed.
// It re-validates under the lock; a bumped generation or a moved turn
// means the firing is stale.
func (t *PokerTable) actionExpired(gen int64, seat int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || gen != t.actionGen || t.game.ActiveSeat() != seat {
		return
	}
	wallet, ok := t.game.ActiveWallet()
	if !ok {
		return
	}
	kind := t.game.AutoAction(seat)
	res, err := t.game.Act(wallet, kind, money.Zero())
	if err != nil {
		t.logger.Error("timeout action failed", "seat", seat, "action", kind, "error", err)
		return
	}
	t.logger.Info("action timed out", "seat", seat, "wallet", wallet, "auto", kind)
	t.publishAct(res, true)
}

// Chat broadcasts a table message from a seated player.
func (t *PokerTable) Chat(wallet domain.Wallet, message string) (events.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.game.IsSeated(wallet) {
		return events.Event{}, domain.ErrNotSeated()
	}
	return t.core.chat(wallet, message)
}

// RequestCashout creates a pending cashout. Seated wallets must stand
// first so chips in play cannot be withdrawn.
func (t *PokerTable) RequestCashout(wallet domain.Wallet, amount money.Amount, to domain.Wallet) (*ledger.CashoutRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game.IsSeated(wallet) {
		return nil, domain.ErrCannotAct("stand up before requesting a cashout")
	}
	return t.requestCashout(wallet, amount, to)
}

// Subscribe attaches a consumer and hands it a snapshot as its first
// event. Players get their own hole cards; observers see every card.
func (t *PokerTable) Subscribe(role events.Role, wallet domain.Wallet) *events.Subscriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch role {
	case events.RoleObserver:
		return t.bus.Subscribe(role, wallet, t.game.Snapshot("", true))
	case events.RolePlayer:
		return t.bus.Subscribe(role, wallet, t.game.Snapshot(wallet, false))
	default:
		return t.bus.Subscribe(events.RoleSpectator, "", t.game.Snapshot("", false))
	}
}

// State is the public snapshot.
func (t *PokerTable) State() poker.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.Snapshot("", false)
}

// PokerPlayerView is the private projection for one wallet.
type PokerPlayerView struct {
	State   poker.State  `json:"state"`
	Seat    int          `json:"seat"`
	Balance money.Amount `json:"balance"`
}

// PlayerView reports the table with the wallet's own hole cards, their
// seat index (-1 when standing), and their ledger balance.
func (t *PokerTable) PlayerView(wallet domain.Wallet) PokerPlayerView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return PokerPlayerView{
		State:   t.game.Snapshot(wallet, false),
		Seat:    t.game.SeatOf(wallet),
		Balance: t.led.Balance(wallet),
	}
}

// IsSeated reports whether the wallet holds a seat.
func (t *PokerTable) IsSeated(wallet domain.Wallet) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.IsSeated(wallet)
}
