package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
)

// RealmPlayer is the only realm tokens are minted for. Operator endpoints
// authenticate with a shared key instead of a bearer token.
const RealmPlayer = "player"

// Claims carried inside a signed session token. Subject is the wallet
// address in canonical lowercase form.
type Claims struct {
	jwt.RegisteredClaims
	Realm string `json:"realm"`
}

// TokenManager mints and validates HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Generate mints a session token for the given wallet.
func (m *TokenManager) Generate(wallet domain.Wallet) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Realm: RealmPlayer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, domain.ErrInternal("sign token", err)
	}
	return signed, expiresAt, nil
}

// Validate parses a token and returns the wallet it was minted for.
func (m *TokenManager) Validate(tokenString string) (domain.Wallet, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired()
		}
		return "", domain.ErrBadToken()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Realm != RealmPlayer {
		return "", domain.ErrBadToken()
	}

	wallet, err := domain.ParseWallet(claims.Subject)
	if err != nil {
		return "", domain.ErrBadToken()
	}
	return wallet, nil
}
