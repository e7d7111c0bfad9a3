package handler

import (
	"net/http"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/craps"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/table"
)

// CrapsHandler serves the CRABS-specific endpoints.
type CrapsHandler struct {
	table *table.CrapsTable
}

func NewCrapsHandler(t *table.CrapsTable) *CrapsHandler {
	return &CrapsHandler{table: t}
}

// Join handles POST /table/join.
func (h *CrapsHandler) Join(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	if err := h.table.Join(wallet); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, h.table.State())
}

// Leave handles POST /table/leave.
func (h *CrapsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	if err := h.table.Leave(wallet); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, h.table.State())
}

type placeBetRequest struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// PlaceBet handles POST /bet/place.
func (h *CrapsHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	var req placeBetRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	kind, err := craps.ParseKind(req.Kind)
	if err != nil {
		RespondError(w, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}

	bet, err := h.table.PlaceBet(wallet, kind, amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, bet)
}

// Roll handles POST /shooter/roll.
func (h *CrapsHandler) Roll(w http.ResponseWriter, r *http.Request) {
	wallet, ok := auth.WalletFromContext(r.Context())
	if !ok {
		RespondError(w, domain.ErrNoToken())
		return
	}
	res, err := h.table.Roll(wallet)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}
