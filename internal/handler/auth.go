package handler

import (
	"net/http"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/domain"
)

// AuthHandler serves the wallet-signature login flow.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Challenge handles GET /auth/challenge?wallet=0x...
func (h *AuthHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	wallet, err := domain.ParseWallet(r.URL.Query().Get("wallet"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, h.svc.IssueChallenge(wallet))
}

type verifyRequest struct {
	Wallet    string `json:"wallet"`
	Signature string `json:"signature"`
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
}

// Verify handles POST /auth/verify. A valid signature over the pending
// challenge trades for a bearer session token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	wallet, err := domain.ParseWallet(req.Wallet)
	if err != nil {
		RespondError(w, err)
		return
	}

	session, err := h.svc.VerifyChallenge(wallet, req.Signature, req.Nonce, req.Message)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, session)
}
