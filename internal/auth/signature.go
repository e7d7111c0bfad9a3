package auth

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/clawhouse/platform/internal/domain"
)

// personalHash computes the EIP-191 personal-message digest: the message is
// prefixed with "\x19Ethereum Signed Message:\n" and its byte length before
// hashing, which keeps signatures from doubling as valid transactions.
func personalHash(message []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// VerifyPersonalSignature checks that signatureHex is a valid EIP-191
// signature over message by the given wallet. The recovery byte may be
// 0/1 or the legacy 27/28 form wallets emit.
func VerifyPersonalSignature(wallet domain.Wallet, message, signatureHex string) error {
	raw := strings.TrimPrefix(signatureHex, "0x")
	sig, err := hex.DecodeString(raw)
	if err != nil || len(sig) != crypto.SignatureLength {
		return domain.ErrBadSignature()
	}

	// Work on a copy so the caller's bytes stay untouched.
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] == 27 || normalized[64] == 28 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return domain.ErrBadSignature()
	}

	pub, err := crypto.SigToPub(personalHash([]byte(message)), normalized)
	if err != nil {
		return domain.ErrBadSignature()
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), wallet.String()) {
		return domain.ErrBadSignature()
	}
	return nil
}
