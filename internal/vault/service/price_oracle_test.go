package service

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultactions/internal/fixedpoint"
)

const oracleToken = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestStaticPriceOracle_Convert(t *testing.T) {
	t.Run("Success_OneToOneRate", func(t *testing.T) {
		oracle := NewStaticPriceOracle(map[string]*big.Int{
			oracleToken: fixedpoint.One(),
		})

		converted, err := oracle.Convert(big.NewInt(1000), oracleToken)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1000), converted)
	})

	t.Run("Success_FractionalRateRoundsUp", func(t *testing.T) {
		// Rate 0.3: 10 native units -> 3 exactly, 11 -> 3.3 rounded up to 4.
		rate, err := fixedpoint.ParseDecimal("0.3")
		require.NoError(t, err)

		oracle := NewStaticPriceOracle(map[string]*big.Int{oracleToken: rate})

		converted, err := oracle.Convert(big.NewInt(10), oracleToken)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(3), converted)

		converted, err = oracle.Convert(big.NewInt(11), oracleToken)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(4), converted)
	})

	t.Run("Success_CaseInsensitiveTokenMatch", func(t *testing.T) {
		oracle := NewStaticPriceOracle(map[string]*big.Int{
			oracleToken: fixedpoint.One(),
		})

		_, err := oracle.Convert(big.NewInt(1), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		assert.NoError(t, err)
	})

	t.Run("Failure_UnknownToken", func(t *testing.T) {
		oracle := NewStaticPriceOracle(nil)

		_, err := oracle.Convert(big.NewInt(1), oracleToken)
		assert.ErrorIs(t, err, ErrRateNotConfigured)
	})
}

func TestParseRates(t *testing.T) {
	t.Run("Success_MultipleEntries", func(t *testing.T) {
		rates, err := ParseRates(oracleToken + "=2.5, 0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb=1")
		require.NoError(t, err)
		require.Len(t, rates, 2)

		expected, err := fixedpoint.ParseDecimal("2.5")
		require.NoError(t, err)
		assert.Equal(t, expected, rates[oracleToken])
	})

	t.Run("Success_EmptyString", func(t *testing.T) {
		rates, err := ParseRates("  ")
		require.NoError(t, err)
		assert.Empty(t, rates)
	})

	t.Run("Failure_MissingSeparator", func(t *testing.T) {
		_, err := ParseRates(oracleToken)
		assert.Error(t, err)
	})

	t.Run("Failure_MalformedRate", func(t *testing.T) {
		_, err := ParseRates(oracleToken + "=abc")
		assert.Error(t, err)
	})
}
