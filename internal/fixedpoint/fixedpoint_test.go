package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOne(t *testing.T) {
	expected, ok := new(big.Int).SetString("1000000000000000000", 10)
	require.True(t, ok)
	assert.Zero(t, One().Cmp(expected))
}

func TestFromUnits(t *testing.T) {
	expected, ok := new(big.Int).SetString("50000000000000000000", 10)
	require.True(t, ok)
	assert.Zero(t, FromUnits(50).Cmp(expected))
}

func TestMulDown(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		fraction string
		expected string
	}{
		{"one percent of fifty units", FromUnits(50), "0.01", "500000000000000000"},
		{"full fraction", FromUnits(10), "1", "10000000000000000000"},
		{"zero fraction", FromUnits(10), "0", "0"},
		{"truncates remainder", big.NewInt(3), "0.5", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fraction, err := ParseDecimal(tt.fraction)
			require.NoError(t, err)

			expected, err := Parse(tt.expected)
			require.NoError(t, err)

			assert.Zero(t, MulDown(tt.amount, fraction).Cmp(expected))
		})
	}
}

func TestMulUp(t *testing.T) {
	half, err := ParseDecimal("0.5")
	require.NoError(t, err)

	// 3 × 0.5 rounds up to 2 instead of truncating to 1.
	assert.Zero(t, MulUp(big.NewInt(3), half).Cmp(big.NewInt(2)))

	// Exact products are not bumped.
	assert.Zero(t, MulUp(big.NewInt(4), half).Cmp(big.NewInt(2)))
}

func TestComplement(t *testing.T) {
	slippage, err := ParseDecimal("0.01")
	require.NoError(t, err)

	expected, err := ParseDecimal("0.99")
	require.NoError(t, err)

	assert.Zero(t, Complement(slippage).Cmp(expected))
}

func TestGTOne(t *testing.T) {
	assert.False(t, GTOne(One()))
	assert.True(t, GTOne(new(big.Int).Add(One(), big.NewInt(1))))
	assert.False(t, GTOne(big.NewInt(0)))
}

func TestMin(t *testing.T) {
	a := big.NewInt(10)
	b := big.NewInt(20)
	assert.Zero(t, Min(a, b).Cmp(a))
	assert.Zero(t, Min(b, a).Cmp(a))

	// The result is a copy, not an alias.
	m := Min(a, b)
	m.SetInt64(99)
	assert.Zero(t, a.Cmp(big.NewInt(10)))
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		n, err := Parse("123456789")
		require.NoError(t, err)
		assert.Zero(t, n.Cmp(big.NewInt(123456789)))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse("")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Parse("12x3")
		assert.Error(t, err)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := Parse("-5")
		assert.Error(t, err)
	})
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"one percent", "0.01", "10000000000000000", false},
		{"point two percent", "0.002", "2000000000000000", false},
		{"one", "1", "1000000000000000000", false},
		{"one point zero", "1.0", "1000000000000000000", false},
		{"above one", "1.5", "1500000000000000000", false},
		{"bare fraction", ".25", "250000000000000000", false},
		{"zero", "0", "0", false},
		{"too many digits", "0.0000000000000000001", "", true},
		{"negative", "-0.01", "", true},
		{"empty", "", "", true},
		{"garbage", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			expected, ok := new(big.Int).SetString(tt.expected, 10)
			require.True(t, ok)
			assert.Zero(t, got.Cmp(expected), "got %s, expected %s", got, expected)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "0", String(nil))
	assert.Equal(t, "42", String(big.NewInt(42)))
}
