package events

import "time"

// Event type names as they appear on the wire.
const (
	TypeSnapshot = "snapshot"

	// Lifecycle.
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeHandStarted  = "hand_started"
	TypeHandComplete = "hand_complete"
	TypePhaseChanged = "phase_changed"

	// Craps.
	TypeBetPlaced      = "bet_placed"
	TypeDiceRolled     = "dice_rolled"
	TypeBetResolved    = "bet_resolved"
	TypeShooterChanged = "shooter_changed"

	// Poker.
	TypeBlindsPosted   = "blinds_posted"
	TypeHoleCardsDealt = "hole_cards_dealt"
	TypeActionOn       = "action_on"
	TypePlayerActed    = "player_acted"
	TypeFlopDealt      = "flop_dealt"
	TypeTurnDealt      = "turn_dealt"
	TypeRiverDealt     = "river_dealt"
	TypeShowdown       = "showdown"
	TypePotAwarded     = "pot_awarded"

	// Chat.
	TypeChat = "chat"

	// Ledger.
	TypeDepositConfirmed = "deposit_confirmed"
	TypeCashoutRequested = "cashout_requested"
	TypeCashoutCompleted = "cashout_completed"
)

// Event is one frame on a table's stream. Seq increases by one per event
// within a table; subscribers observe events in Seq order with no gaps.
type Event struct {
	Seq  int64     `json:"seq"`
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}
