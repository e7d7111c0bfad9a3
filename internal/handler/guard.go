package handler

import (
	"net"
	"net/http"
	"strconv"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/domain"
	"github.com/clawhouse/platform/internal/guard"
)

// RateLimitByIP throttles a route group keyed by client IP. Used for the
// auth and query endpoint classes.
func RateLimitByIP(rl *guard.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(w, rl, clientIP(r)) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByWallet throttles the game-action class keyed by the
// authenticated wallet, falling back to the client IP when the request
// has not passed bearer auth yet.
func RateLimitByWallet(rl *guard.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if wallet, ok := auth.WalletFromContext(r.Context()); ok {
				key = wallet.String()
			}
			if !allow(w, rl, key) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allow(w http.ResponseWriter, rl *guard.RateLimiter, key string) bool {
	d := rl.Check(key)
	if d.Allowed {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter))
	RespondError(w, domain.ErrRateLimited(d.RetryAfter))
	return false
}

// clientIP strips the port from RemoteAddr. The servers sit behind no
// trusted proxy, so forwarding headers are deliberately ignored.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
