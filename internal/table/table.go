// Package table hosts the per-game runtimes. A table owns one rule
// engine, one event bus, and the critical section that serializes
// engine mutations, ledger reconciliation, and event emission for that
// table. The locking contract is: acquire the table lock, perform any
// ledger debit, invoke the engine, publish events, release. Subscriber
// delivery happens off the lock inside the bus.
package table

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
)

// maxChatLen bounds a chat message in runes.
const maxChatLen = 280

// core carries what both table kinds share: the lock, the bus, the
// ledger, and a clock hook for tests.
type core struct {
	mu     sync.Mutex
	bus    *events.Bus
	led    *ledger.Ledger
	logger *slog.Logger
	now    func() time.Time
}

// Unsubscribe removes a subscriber and closes its event channel.
func (c *core) Unsubscribe(id string) { c.bus.Unsubscribe(id) }

// Activity returns the most recent public events, oldest first.
func (c *core) Activity(limit int) []events.Event { return c.bus.Activity(limit) }

// Announce publishes a ledger lifecycle event on the table feed. The
// operator endpoints use it for deposit and cashout notifications that
// do not pass through a game action.
func (c *core) Announce(eventType string, data any) events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus.Publish(events.Broadcast{Type: eventType, Public: data})
}

// ChatMessage is the payload of a chat event.
type ChatMessage struct {
	Wallet  domain.Wallet `json:"wallet"`
	Message string        `json:"message"`
}

// chat validates and broadcasts a message. Callers hold the table lock
// and have already checked that the wallet is seated.
func (c *core) chat(wallet domain.Wallet, message string) (events.Event, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return events.Event{}, domain.ErrValidation("message is empty")
	}
	if utf8.RuneCountInString(message) > maxChatLen {
		return events.Event{}, domain.ErrValidation(fmt.Sprintf("message exceeds %d characters", maxChatLen))
	}
	return c.bus.Publish(events.Broadcast{
		Type:   events.TypeChat,
		Public: ChatMessage{Wallet: wallet, Message: message},
	}), nil
}

// requestCashout runs the shared cashout path once the caller has
// verified the wallet is not at the table.
func (c *core) requestCashout(wallet domain.Wallet, amount money.Amount, to domain.Wallet) (*ledger.CashoutRecord, error) {
	rec, err := c.led.RequestCashout(wallet, amount, to)
	if err != nil {
		return nil, err
	}
	c.logger.Info("cashout requested", "wallet", wallet, "amount", amount, "id", rec.ID)
	c.bus.Publish(events.Broadcast{Type: events.TypeCashoutRequested, Public: rec})
	return rec, nil
}

// phaseChange is the payload of a phase_changed event.
type phaseChange struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Point int    `json:"point,omitempty"`
}

// Runtime is the table surface the HTTP/WS layer consumes. Both game
// runtimes implement it; the game-specific operations stay on the
// concrete types.
type Runtime interface {
	Snapshot() any
	PlayerSnapshot(wallet domain.Wallet) any
	Activity(limit int) []events.Event
	Chat(wallet domain.Wallet, message string) (events.Event, error)
	RequestCashout(wallet domain.Wallet, amount money.Amount, to domain.Wallet) (*ledger.CashoutRecord, error)
	Subscribe(role events.Role, wallet domain.Wallet) *events.Subscriber
	Unsubscribe(id string)
	Announce(eventType string, data any) events.Event
	IsSeated(wallet domain.Wallet) bool
}

var (
	_ Runtime = (*CrapsTable)(nil)
	_ Runtime = (*PokerTable)(nil)
)

// Snapshot implements Runtime for the craps table.
func (t *CrapsTable) Snapshot() any { return t.State() }

// PlayerSnapshot implements Runtime for the craps table.
func (t *CrapsTable) PlayerSnapshot(wallet domain.Wallet) any { return t.PlayerView(wallet) }

// Snapshot implements Runtime for the poker table.
func (t *PokerTable) Snapshot() any { return t.State() }

// PlayerSnapshot implements Runtime for the poker table.
func (t *PokerTable) PlayerSnapshot(wallet domain.Wallet) any { return t.PlayerView(wallet) }
