package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/table"
)

const defaultActivityLimit = 50

// GameHandler serves the endpoints both games share: rules, snapshots,
// the activity log, player views, chat and cashout requests.
type GameHandler struct {
	table table.Runtime
	led   *ledger.Ledger
	rules Rules
}

func NewGameHandler(t table.Runtime, led *ledger.Ledger, rules Rules) *GameHandler {
	return &GameHandler{table: t, led: led, rules: rules}
}

// GetRules handles GET /rules: the machine-readable contract for agents.
func (h *GameHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.rules)
}

// GetState handles GET /table/state: the public snapshot.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.table.Snapshot())
}

// GetActivity handles GET /activity?limit=n: recent public events.
func (h *GameHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			RespondError(w, domain.ErrValidation("limit must be a positive integer"))
			return
		}
		limit = n
	}
	RespondJSON(w, http.StatusOK, h.table.Activity(limit))
}

// playerPublic is the public view of any wallet.
type playerPublic struct {
	Wallet  domain.Wallet `json:"wallet"`
	Balance money.Amount  `json:"balance"`
	Seated  bool          `json:"seated"`
}

// GetPlayer handles GET /player/{wallet}: balance and seat status.
func (h *GameHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	wallet, err := domain.ParseWallet(chi.URLParam(r, "wallet"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, playerPublic{
		Wallet:  wallet,
		Balance: h.led.Balance(wallet),
		Seated:  h.table.IsSeated(wallet),
	})
}

// GetMe handles GET /player/me: the private snapshot with the caller's
// own hidden state.
func (h *GameHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	RespondJSON(w, http.StatusOK, h.table.PlayerSnapshot(wallet))
}

type cashoutRequest struct {
	Amount    string `json:"amount"`
	ToAddress string `json:"to_address"`
}

// Cashout handles POST /cashout. The destination defaults to the
// caller's own wallet.
func (h *GameHandler) Cashout(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	var req cashoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	to := wallet
	if req.ToAddress != "" {
		if to, err = domain.ParseWallet(req.ToAddress); err != nil {
			RespondError(w, err)
			return
		}
	}

	rec, err := h.table.RequestCashout(wallet, amount, to)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, rec)
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chat for seated players.
func (h *GameHandler) Chat(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	var req chatRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	ev, err := h.table.Chat(wallet, req.Message)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ev)
}
