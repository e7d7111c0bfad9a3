package table

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/clawhouse/platform/internal/craps"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
)

// CrapsTable is the CRABS runtime. It wraps the dice engine with ledger
// reconciliation and the event feed. Craps has no turn timer; the
// shooter rolls when ready.
type CrapsTable struct {
	core
	game *craps.Game
}

// NewCrapsTable creates a table around a fresh engine and its own bus.
func NewCrapsTable(cfg craps.Config, led *ledger.Ledger, logger *slog.Logger) *CrapsTable {
	return &CrapsTable{
		core: core{bus: events.NewBus(logger), led: led, logger: logger, now: time.Now},
		game: craps.NewGame(cfg),
	}
}

// crapsPlayer is the payload of player_joined and player_left.
type crapsPlayer struct {
	Wallet  domain.Wallet `json:"wallet"`
	Players int           `json:"players"`
	Shooter domain.Wallet `json:"shooter,omitempty"`
}

type shooterChange struct {
	Shooter domain.Wallet `json:"shooter,omitempty"`
}

// Join seats a wallet at the rail. Joining moves no chips.
func (t *CrapsTable) Join(wallet domain.Wallet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pre := t.game.Phase()
	if err := t.game.Join(wallet); err != nil {
		return err
	}
	t.logger.Info("player joined", "wallet", wallet, "players", t.game.PlayerCount())

	shooter, _ := t.game.Shooter()
	t.bus.Publish(events.Broadcast{
		Type:   events.TypePlayerJoined,
		Public: crapsPlayer{Wallet: wallet, Players: t.game.PlayerCount(), Shooter: shooter},
	})
	t.phaseEvent(pre)
	return nil
}

// Leave releases the seat. The engine refuses while the wallet has any
// active bet on the layout.
func (t *CrapsTable) Leave(wallet domain.Wallet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pre := t.game.Phase()
	preShooter, _ := t.game.Shooter()
	if err := t.game.Leave(wallet); err != nil {
		return err
	}
	t.logger.Info("player left", "wallet", wallet, "players", t.game.PlayerCount())

	t.bus.Publish(events.Broadcast{
		Type:   events.TypePlayerLeft,
		Public: crapsPlayer{Wallet: wallet, Players: t.game.PlayerCount()},
	})
	if shooter, ok := t.game.Shooter(); ok && shooter != preShooter {
		t.bus.Publish(events.Broadcast{Type: events.TypeShooterChanged, Public: shooterChange{Shooter: shooter}})
	}
	t.phaseEvent(pre)
	return nil
}

// PlaceBet debits the stake, then hands the bet to the engine. An
// engine rejection refunds the debit and surfaces the engine error.
func (t *CrapsTable) PlaceBet(wallet domain.Wallet, kind craps.Kind, amount money.Amount) (craps.Bet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ref := fmt.Sprintf("crabs:%s", kind)
	ok, err := t.led.PlaceWager(wallet, amount, ref)
	if err != nil {
		return craps.Bet{}, err
	}
	if !ok {
		return craps.Bet{}, domain.ErrInsufficientChips()
	}

	bet, err := t.game.PlaceBet(wallet, kind, amount)
	if err != nil {
		if rerr := t.led.RefundWager(wallet, amount, ref); rerr != nil {
			t.logger.Error("refund after rejected bet failed", "wallet", wallet, "error", rerr)
			return craps.Bet{}, rerr
		}
		return craps.Bet{}, err
	}

	t.logger.Info("bet placed", "wallet", wallet, "kind", kind, "amount", amount, "bet", bet.ID)
	t.bus.Publish(events.Broadcast{Type: events.TypeBetPlaced, Public: bet})
	return bet, nil
}

// Roll throws the dice for the shooter, settles every resolved bet with
// the ledger, and publishes the roll. Settlement lands in the journal
// before any event goes out, so a subscriber who hears dice_rolled and
// queries a balance sees the credit.
func (t *CrapsTable) Roll(wallet domain.Wallet) (*craps.RollResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pre := t.game.Phase()
	res, err := t.game.Roll(wallet)
	if err != nil {
		return nil, err
	}
	if err := t.settleRoll(res); err != nil {
		return nil, err
	}
	t.logger.Info("dice rolled", "shooter", wallet, "dice", res.Dice, "total", res.Total, "resolved", len(res.Resolutions))

	t.bus.Publish(events.Broadcast{Type: events.TypeDiceRolled, Public: res})
	for i := range res.Resolutions {
		t.bus.Publish(events.Broadcast{Type: events.TypeBetResolved, Public: res.Resolutions[i]})
	}
	if res.ShooterChanged {
		t.bus.Publish(events.Broadcast{Type: events.TypeShooterChanged, Public: shooterChange{Shooter: res.Shooter}})
	}
	t.phaseEvent(pre)
	return res, nil
}

func (t *CrapsTable) settleRoll(res *craps.RollResult) error {
	for _, r := range res.Resolutions {
		ref := fmt.Sprintf("crabs:%s:#%d", r.Bet.Kind, r.Bet.ID)
		var err error
		switch r.Outcome {
		case craps.OutcomeWon:
			err = t.led.SettleWon(r.Bet.Owner, r.Payout, ref)
		case craps.OutcomeLost:
			err = t.led.SettleLost(r.Bet.Owner, r.Bet.Amount, ref)
		case craps.OutcomePushed:
			err = t.led.SettlePushed(r.Bet.Owner, r.Bet.Amount, ref)
		}
		if err != nil {
			t.logger.Error("bet settlement failed", "bet", r.Bet.ID, "outcome", r.Outcome, "error", err)
			return err
		}
	}
	return nil
}

func (t *CrapsTable) phaseEvent(pre craps.Phase) {
	if t.game.Phase() == pre {
		return
	}
	t.bus.Publish(events.Broadcast{
		Type:   events.TypePhaseChanged,
		Public: phaseChange{From: string(pre), To: string(t.game.Phase()), Point: t.game.Point()},
	})
}

// Chat broadcasts a table message from a seated player.
func (t *CrapsTable) Chat(wallet domain.Wallet, message string) (events.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.game.IsSeated(wallet) {
		return events.Event{}, domain.ErrNotSeated()
	}
	return t.core.chat(wallet, message)
}

// RequestCashout creates a pending cashout. Players must leave the
// table first so chips in play cannot be withdrawn.
func (t *CrapsTable) RequestCashout(wallet domain.Wallet, amount money.Amount, to domain.Wallet) (*ledger.CashoutRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game.IsSeated(wallet) {
		return nil, domain.ErrCannotAct("leave the table before requesting a cashout")
	}
	return t.requestCashout(wallet, amount, to)
}

// Subscribe attaches a consumer and hands it a snapshot as its first
// event. Craps has no hidden state, so every role sees the same table.
func (t *CrapsTable) Subscribe(role events.Role, wallet domain.Wallet) *events.Subscriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bus.Subscribe(role, wallet, t.game.State())
}

// State is the public snapshot.
func (t *CrapsTable) State() craps.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.State()
}

// CrapsPlayerView is the private projection for one wallet.
type CrapsPlayerView struct {
	State   craps.State  `json:"state"`
	Seated  bool         `json:"seated"`
	Bets    []craps.Bet  `json:"bets"`
	Balance money.Amount `json:"balance"`
}

// PlayerView reports the table along with the wallet's own bets and
// ledger balance.
func (t *CrapsTable) PlayerView(wallet domain.Wallet) CrapsPlayerView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CrapsPlayerView{
		State:   t.game.State(),
		Seated:  t.game.IsSeated(wallet),
		Bets:    t.game.BetsOf(wallet),
		Balance: t.led.Balance(wallet),
	}
}

// IsSeated reports whether the wallet is at the rail.
func (t *CrapsTable) IsSeated(wallet domain.Wallet) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.IsSeated(wallet)
}
