package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/money"
	"github.com/clawhouse/platform/internal/table"
)

// OperatorHandler serves the X-Operator-Key endpoints: deposit injection
// from the chain watcher, cashout completion, and ledger reporting.
type OperatorHandler struct {
	led   *ledger.Ledger
	table table.Runtime
}

func NewOperatorHandler(led *ledger.Ledger, t table.Runtime) *OperatorHandler {
	return &OperatorHandler{led: led, table: t}
}

type depositRequest struct {
	Wallet string `json:"wallet"`
	Amount string `json:"amount"`
	TxRef  string `json:"tx_ref"`
}

// Deposit handles POST /operator/deposit: a confirmed on-chain deposit.
// Idempotent on (wallet, tx_ref); a replay returns the original record.
func (h *OperatorHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	wallet, err := domain.ParseWallet(req.Wallet)
	if err != nil {
		RespondError(w, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	if req.TxRef == "" {
		RespondError(w, domain.ErrValidation("tx_ref is required"))
		return
	}

	rec, err := h.led.ConfirmDeposit(wallet, amount, req.TxRef)
	if err != nil {
		RespondError(w, err)
		return
	}
	h.table.Announce(events.TypeDepositConfirmed, rec)
	RespondJSON(w, http.StatusOK, rec)
}

type completeCashoutRequest struct {
	ID    string `json:"id"`
	TxRef string `json:"tx_ref"`
}

// CompleteCashout handles POST /operator/cashout/complete.
func (h *OperatorHandler) CompleteCashout(w http.ResponseWriter, r *http.Request) {
	var req completeCashoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		RespondError(w, domain.ErrValidation("id is not a uuid"))
		return
	}
	if req.TxRef == "" {
		RespondError(w, domain.ErrValidation("tx_ref is required"))
		return
	}

	rec, err := h.led.CompleteCashout(id, req.TxRef)
	if err != nil {
		RespondError(w, err)
		return
	}
	h.table.Announce(events.TypeCashoutCompleted, rec)
	RespondJSON(w, http.StatusOK, rec)
}

// ListCashouts handles GET /operator/cashouts: open requests in order.
func (h *OperatorHandler) ListCashouts(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.led.ListPendingCashouts())
}

// House handles GET /operator/house: aggregate P&L.
func (h *OperatorHandler) House(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.led.HousePnL())
}

// LedgerDump handles GET /operator/ledger?wallet=&limit=: the journal.
func (h *OperatorHandler) LedgerDump(w http.ResponseWriter, r *http.Request) {
	var wallet domain.Wallet
	if s := r.URL.Query().Get("wallet"); s != "" {
		var err error
		if wallet, err = domain.ParseWallet(s); err != nil {
			RespondError(w, err)
			return
		}
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			RespondError(w, domain.ErrValidation("limit must be a positive integer"))
			return
		}
		limit = n
	}
	RespondJSON(w, http.StatusOK, h.led.Journal(wallet, limit))
}
