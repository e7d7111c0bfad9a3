package handler

import (
	"github.com/clawhouse/platform/internal/craps"
	"github.com/clawhouse/platform/internal/poker"
)

// Rules is the GET /rules payload: everything an agent programmer needs
// to drive the table, including the full recoverable-error catalog.
type Rules struct {
	Game        string            `json:"game"`
	Description string            `json:"description"`
	Auth        []string          `json:"auth"`
	Endpoints   map[string]string `json:"endpoints"`
	Actions     []string          `json:"actions,omitempty"`
	BetKinds    []string          `json:"bet_kinds,omitempty"`
	Limits      map[string]string `json:"limits"`
	Errors      map[string]string `json:"errors"`
	Events      []string          `json:"events"`
}

// errorCatalog is shared by both games. Keyed by machine code.
var errorCatalog = map[string]string{
	"validation_error":      "a request field is missing or malformed",
	"bad_address":           "wallet address is not 20-byte hex",
	"bad_amount":            "amount is not an unsigned decimal integer string",
	"no_token":              "missing Authorization: Bearer token",
	"bad_token":             "session token is malformed or has a bad signature",
	"token_expired":         "session token expired; authenticate again",
	"bad_signature":         "challenge signature does not recover to the wallet",
	"no_challenge":          "no pending challenge; request a new one",
	"challenge_mismatch":    "nonce or message differs from the issued challenge",
	"challenge_expired":     "challenge older than 5 minutes; request a new one",
	"operator_key_required": "endpoint requires the X-Operator-Key header",
	"not_seated":            "wallet is not at the table",
	"not_shooter":           "only the head of the shooter queue may roll",
	"not_your_turn":         "action is not on this seat",
	"bad_phase":             "operation not allowed in the current phase",
	"cannot_act":            "operation refused in the current table situation",
	"active_bets":           "cannot leave while bets are live; let them resolve",
	"hand_in_progress":      "cannot stand while holding cards in an active hand",
	"insufficient_chips":    "ledger balance is below the requested amount",
	"below_minimum":         "amount is below the configured minimum",
	"table_full":            "no free seats",
	"seat_occupied":         "requested seat is taken",
	"buyin_out_of_range":    "buy-in outside the configured bracket",
	"bet_out_of_range":      "bet outside the table limits",
	"duplicate_bet":         "an active contract bet of this kind already exists",
	"cashout_not_pending":   "cashout already completed or failed",
	"not_found":             "no such record",
	"rate_limited":          "quota exceeded; Retry-After carries the wait in seconds",
	"journal_write":         "ledger persistence failed; the action did not apply",
	"internal_error":        "unexpected server error",
}

var authFlow = []string{
	"GET /auth/challenge?wallet=0x... returns {nonce, message, expires_at}",
	"sign the message with the wallet key (EIP-191 personal message)",
	"POST /auth/verify {wallet, signature, nonce, message} returns {token, expires_at}",
	"send Authorization: Bearer <token> on every authenticated request",
	"challenges are one-shot and expire after 5 minutes; tokens last 24 hours",
}

// CrapsRules builds the /rules payload for a CRABS table.
func CrapsRules(cfg craps.Config) Rules {
	return Rules{
		Game: "crabs",
		Description: "Crypto craps. Join the table, place bets during a betting phase, " +
			"and roll when you hold the dice. All amounts are decimal strings in base token units.",
		Auth: authFlow,
		Endpoints: map[string]string{
			"GET /rules":         "this document",
			"GET /table/state":   "public table snapshot",
			"GET /activity":      "recent public events",
			"GET /player/{addr}": "public balance and seat status",
			"GET /player/me":     "private view with own bets (auth)",
			"POST /table/join":   "take a place at the rail (auth)",
			"POST /table/leave":  "leave; refused with active bets (auth)",
			"POST /bet/place":    "{kind, amount} place a bet (auth)",
			"POST /shooter/roll": "roll the dice; shooter only (auth)",
			"POST /chat":         "{message} table chat, max 280 chars (auth)",
			"POST /cashout":      "{amount, to_address?} redeem chips (auth, not at table)",
			"GET /ws":            "event stream; ?role=spectator|player|observer",
		},
		BetKinds: []string{
			"pass_line", "dont_pass", "come", "dont_come",
			"place_4", "place_5", "place_6", "place_8", "place_9", "place_10",
			"ce_craps", "ce_eleven",
		},
		Limits: map[string]string{
			"min_bet": cfg.MinBet.String(),
			"max_bet": cfg.MaxBet.String(),
		},
		Errors: errorCatalog,
		Events: []string{
			"snapshot", "player_joined", "player_left", "phase_changed",
			"bet_placed", "dice_rolled", "bet_resolved", "shooter_changed",
			"chat", "deposit_confirmed", "cashout_requested", "cashout_completed",
		},
	}
}

// PokerRules builds the /rules payload for a Molt'em table.
func PokerRules(cfg poker.Config) Rules {
	return Rules{
		Game: "moltem",
		Description: "No-Limit Texas Hold'em. Sit with a buy-in, act when action_on names " +
			"your seat, and stand to move your stack back to the ledger. All amounts are " +
			"decimal strings in base token units.",
		Auth: authFlow,
		Endpoints: map[string]string{
			"GET /rules":         "this document",
			"GET /table/state":   "public table snapshot",
			"GET /activity":      "recent public events",
			"GET /player/{addr}": "public balance and seat status",
			"GET /player/me":     "private view with own hole cards (auth)",
			"POST /table/sit":    "{seat, buy_in} take a seat (auth)",
			"POST /table/stand":  "leave the seat; refused mid-hand with cards (auth)",
			"POST /action":       "{action, amount?} betting action (auth)",
			"POST /chat":         "{message} table chat, max 280 chars (auth)",
			"POST /cashout":      "{amount, to_address?} redeem chips (auth, not seated)",
			"GET /ws":            "event stream; ?role=spectator|player|observer",
		},
		Actions: []string{"fold", "check", "call", "bet", "raise", "all_in"},
		Limits: map[string]string{
			"small_blind": cfg.SmallBlind.String(),
			"big_blind":   cfg.BigBlind.String(),
			"min_buy_in":  cfg.MinBuyIn.String(),
			"max_buy_in":  cfg.MaxBuyIn.String(),
		},
		Errors: errorCatalog,
		Events: []string{
			"snapshot", "player_joined", "player_left", "hand_started", "hand_complete",
			"blinds_posted", "hole_cards_dealt", "action_on", "player_acted",
			"flop_dealt", "turn_dealt", "river_dealt", "showdown", "pot_awarded",
			"chat", "deposit_confirmed", "cashout_requested", "cashout_completed",
		},
	}
}
