package handler

import (
	"net/http"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/poker"
	"github.com/clawhouse/platform/internal/table"
)

// PokerHandler serves the Molt'em-specific endpoints.
type PokerHandler struct {
	table *table.PokerTable
}

func NewPokerHandler(t *table.PokerTable) *PokerHandler {
	return &PokerHandler{table: t}
}

type sitRequest struct {
	Seat  *int   `json:"seat"`
	BuyIn string `json:"buy_in"`
}

// Sit handles POST /table/sit. A missing seat means any free seat.
func (h *PokerHandler) Sit(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	var req sitRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	buyIn, err := money.Parse(req.BuyIn)
	if err != nil {
		RespondError(w, err)
		return
	}
	seatIdx := -1
	if req.Seat != nil {
		seatIdx = *req.Seat
	}

	seat, err := h.table.Sit(wallet, seatIdx, buyIn)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]int{"seat": seat})
}

// Stand handles POST /table/stand.
func (h *PokerHandler) Stand(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	stack, err := h.table.Stand(wallet)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]money.Amount{"returned": stack})
}

type actionRequest struct {
	Action string `json:"action"`
	Amount string `json:"amount"`
}

// Act handles POST /action. Amount is required for bet and raise and
// ignored elsewhere.
func (h *PokerHandler) Act(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	var req actionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	kind, err := poker.ParseActionKind(req.Action)
	if err != nil {
		RespondError(w, err)
		return
	}
	amount := money.Zero()
	if req.Amount != "" {
		if amount, err = money.Parse(req.Amount); err != nil {
			RespondError(w, err)
			return
		}
	}

	res, err := h.table.Act(wallet, kind, amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}
