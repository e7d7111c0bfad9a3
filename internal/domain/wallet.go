package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet is a normalized 20-byte hex address. Equality between two Wallet
// values is exact because both sides are lowercased at construction.
type Wallet string

// ParseWallet validates and normalizes a wallet address.
func ParseWallet(s string) (Wallet, error) {
	if s == "" {
		return "", ErrValidation("wallet is required")
	}
	if !common.IsHexAddress(s) {
		return "", ErrBadAddress(s)
	}
	return Wallet(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// MustWallet panics on an invalid address. Test helper.
func MustWallet(s string) Wallet {
	w, err := ParseWallet(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Wallet) String() string { return string(w) }

// Short returns a truncated form for logs and chat display.
func (w Wallet) Short() string {
	if len(w) <= 10 {
		return string(w)
	}
	return string(w[:6]) + ".." + string(w[len(w)-4:])
}
