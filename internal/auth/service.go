// Package auth implements wallet-signature login. A client asks for a
// challenge, signs its message with the wallet's key (EIP-191 personal
// message), and trades the signature for a bearer token good for the
// token TTL. Challenges are one-shot and expire after five minutes.
package auth

import (
	"log/slog"
	"time"

	"github.com/clawhouse/platform/internal/domain"
)

// Session is the result of a successful challenge verification.
type Session struct {
	Token     string        `json:"token"`
	Wallet    domain.Wallet `json:"wallet"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Service owns the challenge store and token manager for one game server.
type Service struct {
	challenges *challengeStore
	tokens     *TokenManager
	logger     *slog.Logger
}

func NewService(game string, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{
		challenges: newChallengeStore(game),
		tokens:     tokens,
		logger:     logger,
	}
}

// IssueChallenge creates a login challenge for the wallet. Any earlier
// unconsumed challenge for the same wallet is replaced.
func (s *Service) IssueChallenge(wallet domain.Wallet) Challenge {
	return s.challenges.issue(wallet)
}

// VerifyChallenge consumes the pending challenge and, when the signature
// checks out, mints a session token. Failed signature checks still consume
// the challenge; the client must request a new one.
func (s *Service) VerifyChallenge(wallet domain.Wallet, signature, nonce, message string) (*Session, error) {
	ch, err := s.challenges.take(wallet, nonce, message)
	if err != nil {
		return nil, err
	}

	if err := VerifyPersonalSignature(wallet, ch.Message, signature); err != nil {
		s.logger.Warn("signature verification failed", "wallet", wallet.Short())
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(wallet)
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet authenticated", "wallet", wallet.Short())
	return &Session{Token: token, Wallet: wallet, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates a bearer token and returns its wallet.
func (s *Service) VerifyToken(token string) (domain.Wallet, error) {
	return s.tokens.Validate(token)
}
