package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/events"
	"github.com/clawhouse/platform/internal/table"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

// WSHandler upgrades GET /ws into a table event subscription. The role
// query parameter picks the projection: spectators need nothing, players
// present a session token, observers present the operator key.
type WSHandler struct {
	table       table.Runtime
	auth        *auth.Service
	operatorKey string
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

func NewWSHandler(t table.Runtime, authSvc *auth.Service, operatorKey string, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		table:       t,
		auth:        authSvc,
		operatorKey: operatorKey,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The HTTP surface is origin-agnostic; agents connect from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /ws?role=spectator|player|observer.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	role, wallet, err := h.identify(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := h.table.Subscribe(role, wallet)
	h.logger.Info("subscriber connected", "id", sub.ID, "role", role, "wallet", wallet)

	go h.writePump(conn, sub)
	go h.readPump(conn, sub)
}

// identify resolves the subscriber's fixed identity from the query
// before the upgrade, so a bad credential still gets a JSON error.
func (h *WSHandler) identify(r *http.Request) (events.Role, domain.Wallet, error) {
	switch r.URL.Query().Get("role") {
	case "", "spectator":
		return events.RoleSpectator, "", nil
	case "player":
		wallet, err := h.auth.VerifyToken(r.URL.Query().Get("token"))
		if err != nil {
			return "", "", err
		}
		return events.RolePlayer, wallet, nil
	case "observer":
		key := r.URL.Query().Get("key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.operatorKey)) != 1 {
			return "", "", domain.ErrOperatorKeyRequired()
		}
		return events.RoleObserver, "", nil
	default:
		return "", "", domain.ErrValidation("role must be spectator, player or observer")
	}
}

// writePump drains the subscriber's queue to the socket. The bus closes
// the channel on unsubscribe or overflow, which ends the pump.
func (h *WSHandler) writePump(conn *websocket.Conn, sub *events.Subscriber) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("subscriber write failed", "id", sub.ID, "error", err)
				h.table.Unsubscribe(sub.ID)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.table.Unsubscribe(sub.ID)
				return
			}
		}
	}
}

// readPump discards client frames; it exists to notice disconnects and
// service pong control frames.
func (h *WSHandler) readPump(conn *websocket.Conn, sub *events.Subscriber) {
	defer func() {
		h.table.Unsubscribe(sub.ID)
		conn.Close()
		h.logger.Info("subscriber disconnected", "id", sub.ID)
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
