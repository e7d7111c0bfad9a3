package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clawhouse/platform/internal/domain"
)

type contextKey string

const walletContextKey contextKey = "auth_wallet"

// WalletFromContext returns the authenticated wallet stored by Authenticate.
func WalletFromContext(ctx context.Context) (domain.Wallet, bool) {
	wallet, ok := ctx.Value(walletContextKey).(domain.Wallet)
	return wallet, ok
}

// Authenticate requires a valid bearer token and stores the wallet in the
// request context.
func Authenticate(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wallet, err := extractAndValidate(svc, r)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), walletContextKey, wallet)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperator gates an endpoint behind the shared operator key carried
// in the X-Operator-Key header.
func RequireOperator(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Operator-Key")
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				writeAuthError(w, domain.ErrOperatorKeyRequired())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractAndValidate(svc *Service, r *http.Request) (domain.Wallet, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrNoToken()
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrBadToken()
	}

	return svc.VerifyToken(strings.TrimSpace(parts[1]))
}

func writeAuthError(w http.ResponseWriter, err error) {
	appErr := domain.AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}
