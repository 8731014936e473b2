// Package service provides vault collaborator services.
package service

import (
	"math/big"
	"strings"

	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
)

// PriceOracle converts a native gas cost into an amount of a paying token.
// The conversion rounds up, so relayers are never under-reimbursed; the
// action's txCostLimit still caps the final amount.
type PriceOracle interface {
	// Convert returns the paying-token amount equivalent to nativeCost.
	Convert(nativeCost *big.Int, token string) (*big.Int, error)
}

// ErrRateNotConfigured indicates the oracle has no rate for the token.
var ErrRateNotConfigured = apperrors.Wrap(apperrors.ErrNotFound, "price rate not configured for token")

// staticPriceOracle implements PriceOracle with configured fixed-point rates.
// Rates are 1e18-scale: rate 1e18 means one token unit per native unit.
type staticPriceOracle struct {
	rates map[string]*big.Int
}

// NewStaticPriceOracle creates a PriceOracle from a token→rate map. Token
// addresses are matched case-insensitively.
func NewStaticPriceOracle(rates map[string]*big.Int) PriceOracle {
	normalized := make(map[string]*big.Int, len(rates))
	for token, rate := range rates {
		normalized[strings.ToLower(token)] = new(big.Int).Set(rate)
	}
	return &staticPriceOracle{rates: normalized}
}

// Convert multiplies the native cost by the token's configured rate with
// ceiling rounding.
func (s *staticPriceOracle) Convert(nativeCost *big.Int, token string) (*big.Int, error) {
	rate, ok := s.rates[strings.ToLower(token)]
	if !ok {
		return nil, apperrors.Wrapf(ErrRateNotConfigured, "token %s", token)
	}

	return fixedpoint.MulUp(nativeCost, rate), nil
}

// ParseRates parses a comma-separated "token=rate" list, where each rate is a
// decimal fraction (e.g. "0x11..11=2.5,0x22..22=1"). Used to load oracle
// rates from configuration.
func ParseRates(s string) (map[string]*big.Int, error) {
	rates := make(map[string]*big.Int)
	if strings.TrimSpace(s) == "" {
		return rates, nil
	}

	for _, pair := range strings.Split(s, ",") {
		token, rateStr, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || token == "" {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "malformed oracle rate entry %q", pair)
		}

		rate, err := fixedpoint.ParseDecimal(rateStr)
		if err != nil {
			return nil, apperrors.Wrapf(err, "malformed oracle rate for token %s", token)
		}

		rates[token] = rate
	}

	return rates, nil
}
