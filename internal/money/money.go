// Package money holds token amounts in the smallest on-chain unit.
// Amounts are exact integers of arbitrary magnitude and serialize as
// decimal strings on every wire and storage surface.
package money

import (
	"strings"

	"cosmossdk.io/math"

	"github.com/clawhouse/platform/internal/domain"
)

// Amount is an integer number of base token units.
type Amount = math.Int

// Zero returns a zero amount.
func Zero() Amount { return math.ZeroInt() }

// NewFromInt64 builds an amount from a small constant. Test and config helper.
func NewFromInt64(v int64) Amount { return math.NewInt(v) }

// Parse reads a non-negative integer decimal string.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, domain.ErrBadAmount("amount is required")
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Amount{}, domain.ErrBadAmount("amount must be an unsigned integer")
	}
	a, ok := math.NewIntFromString(s)
	if !ok {
		return Amount{}, domain.ErrBadAmount("amount is not an integer: " + s)
	}
	if a.IsNegative() {
		return Amount{}, domain.ErrBadAmount("amount must not be negative")
	}
	return a, nil
}

// MustParse panics on a malformed amount. For constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// OrZero maps the nil zero-value to a usable zero. Applied after JSON
// decoding, where absent fields leave the big.Int unset.
func OrZero(a Amount) Amount {
	if a.IsNil() {
		return Zero()
	}
	return a
}

// IsPositive reports a > 0 treating nil as zero.
func IsPositive(a Amount) bool { return !a.IsNil() && a.IsPositive() }

// MulFrac returns floor(a * num / den). Division truncates toward zero,
// which for non-negative operands is the floor the payout tables require.
func MulFrac(a Amount, num, den int64) Amount {
	return a.MulRaw(num).QuoRaw(den)
}
