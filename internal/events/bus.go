// Package events carries a table's typed event stream to its subscribers.
// The table publishes under its own lock; the bus fans out to bounded
// per-subscriber queues so a slow consumer is disconnected instead of
// stalling the game.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
)

// Role decides which projection of an event a subscriber receives.
type Role string

const (
	RoleSpectator Role = "spectator"
	RolePlayer    Role = "player"
	RoleObserver  Role = "observer"
)

const (
	defaultQueueSize = 256
	activityCap      = 128
)

// Broadcast is one logical event with its visibility variants. Public is
// what spectators see; PerWallet carries private views for specific
// wallets; Observer, when set, is the unredacted view for operator
// observer sessions.
type Broadcast struct {
	Type      string
	Public    any
	PerWallet map[domain.Wallet]any
	Observer  any
}

func (bc Broadcast) dataFor(sub *Subscriber) any {
	if sub.Role == RoleObserver && bc.Observer != nil {
		return bc.Observer
	}
	if sub.Wallet != "" {
		if data, ok := bc.PerWallet[sub.Wallet]; ok {
			return data
		}
	}
	return bc.Public
}

// Subscriber is one connected consumer. Identity is fixed at subscribe
// time. The bus owns the channel and closes it on disconnect.
type Subscriber struct {
	ID     string
	Role   Role
	Wallet domain.Wallet
	ch     chan Event
}

// Events yields the subscriber's stream. The channel closes when the
// subscriber is removed, whether by Unsubscribe or by overflow.
func (s *Subscriber) Events() <-chan Event { return s.ch }

// Bus is a per-table event fan-out with a monotonic sequence and a small
// ring of recent public events for the activity endpoint.
type Bus struct {
	mu       sync.Mutex
	subs     map[string]*Subscriber
	seq      int64
	queue    int
	activity []Event
	logger   *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]*Subscriber),
		queue:  defaultQueueSize,
		logger: logger,
	}
}

// Subscribe registers a consumer and queues a snapshot event carrying the
// given state. Callers must build the snapshot and call Subscribe inside
// the table's critical section so no event falls between the two.
func (b *Bus) Subscribe(role Role, wallet domain.Wallet, snapshot any) *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscriber{
		ID:     uuid.NewString(),
		Role:   role,
		Wallet: wallet,
		ch:     make(chan Event, b.queue),
	}
	b.subs[sub.ID] = sub
	sub.ch <- Event{Seq: b.seq, Type: TypeSnapshot, At: time.Now().UTC(), Data: snapshot}
	return sub
}

// Unsubscribe removes a consumer and closes its channel. Safe to call for
// a subscriber the bus already dropped.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}

// Publish assigns the next sequence number and fans the event out. A
// subscriber whose queue is full is dropped on the spot. Returns the
// public variant of the event.
func (b *Bus) Publish(bc Broadcast) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	public := Event{Seq: b.seq, Type: bc.Type, At: time.Now().UTC(), Data: bc.Public}

	b.activity = append(b.activity, public)
	if len(b.activity) > activityCap {
		b.activity = b.activity[len(b.activity)-activityCap:]
	}

	for id, sub := range b.subs {
		ev := public
		ev.Data = bc.dataFor(sub)
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warn("subscriber queue overflow, disconnecting",
				"subscriber", id, "role", sub.Role, "seq", ev.Seq)
			delete(b.subs, id)
			close(sub.ch)
		}
	}
	return public
}

// Activity returns up to limit recent public events, oldest first.
func (b *Bus) Activity(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.activity)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, n)
	copy(out, b.activity[len(b.activity)-n:])
	return out
}

// Seq returns the sequence number of the most recently published event.
func (b *Bus) Seq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Count returns the number of connected subscribers.
func (b *Bus) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
