package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clawhouse/platform/internal/domain"
)

const (
	challengeTTL  = 5 * time.Minute
	maxChallenges = 4096
)

// Challenge is a one-shot login nonce a wallet must sign to prove ownership.
type Challenge struct {
	Wallet    domain.Wallet `json:"wallet"`
	Nonce     string        `json:"nonce"`
	Message   string        `json:"message"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type challengeStore struct {
	mu      sync.Mutex
	pending map[domain.Wallet]Challenge
	game    string
	ttl     time.Duration
	now     func() time.Time
}

func newChallengeStore(game string) *challengeStore {
	return &challengeStore{
		pending: make(map[domain.Wallet]Challenge),
		game:    game,
		ttl:     challengeTTL,
		now:     time.Now,
	}
}

// issue creates a fresh challenge for the wallet, replacing any earlier one.
func (s *challengeStore) issue(wallet domain.Wallet) Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.pending) >= maxChallenges {
		s.evictExpiredLocked(now)
	}

	nonce := uuid.NewString()
	ch := Challenge{
		Wallet:    wallet,
		Nonce:     nonce,
		Message:   challengeMessage(s.game, wallet, nonce, now),
		ExpiresAt: now.Add(s.ttl),
	}
	s.pending[wallet] = ch
	return ch
}

// take removes and returns the pending challenge for the wallet after
// checking the echoed nonce and message. A challenge can be taken once.
func (s *challengeStore) take(wallet domain.Wallet, nonce, message string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.pending[wallet]
	if !ok {
		return Challenge{}, domain.ErrNoChallenge()
	}
	if ch.Nonce != nonce || ch.Message != message {
		return Challenge{}, domain.ErrChallengeMismatch()
	}
	delete(s.pending, wallet)
	if s.now().After(ch.ExpiresAt) {
		return Challenge{}, domain.ErrChallengeExpired()
	}
	return ch, nil
}

func (s *challengeStore) evictExpiredLocked(now time.Time) {
	for wallet, ch := range s.pending {
		if now.After(ch.ExpiresAt) {
			delete(s.pending, wallet)
		}
	}
}

func challengeMessage(game string, wallet domain.Wallet, nonce string, issuedAt time.Time) string {
	return fmt.Sprintf(
		"Clawhouse %s login\n\nWallet: %s\nNonce: %s\nIssued: %s\n\nSigning this message proves you control the wallet. It costs nothing and sends no transaction.",
		game, wallet, nonce, issuedAt.UTC().Format(time.RFC3339),
	)
}
