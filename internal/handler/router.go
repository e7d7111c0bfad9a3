package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/guard"
)

// RouterDeps is everything a game server mounts. MountActions adds the
// game-specific authenticated action routes (join/bet/roll or
// sit/stand/action) inside the action-rate-limited group.
type RouterDeps struct {
	Logger       *slog.Logger
	AuthSvc      *auth.Service
	AuthHandler  *AuthHandler
	Guards       *guard.Set
	Game         *GameHandler
	Operator     *OperatorHandler
	WS           *WSHandler
	Health       http.HandlerFunc
	OperatorKey  string
	CORSOrigins  string
	MountActions func(r chi.Router)
}

// NewRouter assembles the full HTTP surface. Middleware order follows
// the platform convention: Recovery → RequestID → RequestLogger → CORS →
// JSONContentType, then per-class rate limits, then bearer auth.
func NewRouter(d RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(Recovery(d.Logger))
	r.Use(RequestID)
	r.Use(RequestLogger(d.Logger))
	r.Use(CORS(d.CORSOrigins))
	r.Use(JSONContentType)

	r.Get("/health", d.Health)

	// Auth class: strict per-IP quota.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitByIP(d.Guards.Auth))
		r.Get("/auth/challenge", d.AuthHandler.Challenge)
		r.Post("/auth/verify", d.AuthHandler.Verify)
	})

	// Query class: public reads.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitByIP(d.Guards.Query))
		r.Get("/rules", d.Game.GetRules)
		r.Get("/table/state", d.Game.GetState)
		r.Get("/activity", d.Game.GetActivity)
		r.Get("/player/{wallet}", d.Game.GetPlayer)
	})

	// Long-lived subscription channel; rate limiting a socket upgrade
	// would only punish reconnects.
	r.Get("/ws", d.WS.Subscribe)

	// Authenticated player surface.
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(d.AuthSvc))

		r.With(RateLimitByIP(d.Guards.Query)).Get("/player/me", d.Game.GetMe)

		r.Group(func(r chi.Router) {
			r.Use(RateLimitByWallet(d.Guards.Action))
			r.Post("/cashout", d.Game.Cashout)
			r.Post("/chat", d.Game.Chat)
			if d.MountActions != nil {
				d.MountActions(r)
			}
		})
	})

	// Operator surface behind the shared key.
	r.Route("/operator", func(r chi.Router) {
		r.Use(auth.RequireOperator(d.OperatorKey))
		r.Post("/deposit", d.Operator.Deposit)
		r.Post("/cashout/complete", d.Operator.CompleteCashout)
		r.Get("/cashouts", d.Operator.ListCashouts)
		r.Get("/house", d.Operator.House)
		r.Get("/ledger", d.Operator.LedgerDump)
	})

	return r
}
