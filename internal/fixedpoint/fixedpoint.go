// Package fixedpoint implements 1e18-scaled fixed-point arithmetic on big
// integers. Token amounts are plain integers in the token's smallest unit;
// fractions (slippage, fee percentages, oracle rates) are integers scaled by
// 1e18, so a fraction of 1e18 means 1.0 (100%).
package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"

	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// Decimals is the number of decimal places in the fixed-point scale.
const Decimals = 18

// One is the fixed-point representation of 1.0.
func One() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)
}

// Zero returns a zero-valued amount.
func Zero() *big.Int {
	return new(big.Int)
}

// FromUnits returns n whole token units scaled to the fixed-point base,
// i.e. FromUnits(50) == 50e18.
func FromUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), One())
}

// MulDown multiplies amount by a 1e18-scaled fraction, rounding toward zero.
// This is the product used for minimum-output and fee-bound math, matching
// the truncating division of the original fixed-point implementation.
func MulDown(amount, fraction *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, fraction)
	return out.Quo(out, One())
}

// MulUp multiplies amount by a 1e18-scaled fraction, rounding away from zero.
// Used where rounding must never short the receiving side, such as relayer
// cost conversion.
func MulUp(amount, fraction *big.Int) *big.Int {
	product := new(big.Int).Mul(amount, fraction)
	one := One()
	out, rem := new(big.Int).QuoRem(product, one, new(big.Int))
	if rem.Sign() != 0 {
		out.Add(out, big.NewInt(1))
	}
	return out
}

// Complement returns 1.0 − fraction. The fraction must be ≤ 1.0.
func Complement(fraction *big.Int) *big.Int {
	return new(big.Int).Sub(One(), fraction)
}

// GTOne reports whether a 1e18-scaled fraction is strictly greater than 1.0.
func GTOne(fraction *big.Int) bool {
	return fraction.Cmp(One()) > 0
}

// Min returns the smaller of a and b as a fresh value.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Parse converts a non-negative integer string into a big integer. It is the
// inverse of String for values stored in NUMERIC database columns.
func Parse(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "empty number")
	}
	out, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid number %q", s))
	}
	if out.Sign() < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("negative number %q", s))
	}
	return out, nil
}

// ParseDecimal converts a decimal string such as "0.01" into a 1e18-scaled
// fraction. At most 18 fractional digits are accepted; extra digits are an
// error rather than a silent truncation.
func ParseDecimal(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "empty decimal")
	}
	if strings.HasPrefix(s, "-") {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("negative decimal %q", s))
	}

	whole, frac := s, ""
	if idx := strings.Index(s, "."); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > Decimals {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("decimal %q has more than %d fractional digits", s, Decimals),
		)
	}
	// Right-pad the fractional part to the full scale.
	frac += strings.Repeat("0", Decimals-len(frac))

	wholePart, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid decimal %q", s))
	}
	fracPart := big.NewInt(0)
	if frac != strings.Repeat("0", Decimals) {
		fracPart, ok = new(big.Int).SetString(frac, 10)
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid decimal %q", s))
		}
	}

	out := new(big.Int).Mul(wholePart, One())
	return out.Add(out, fracPart), nil
}

// String renders a big integer for storage in NUMERIC database columns.
// Nil is rendered as "0" so unset limits behave as unbounded.
func String(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
