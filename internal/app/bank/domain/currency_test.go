package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRates(t *testing.T) *RateTable {
	t.Helper()
	table, err := NewRateTable("CAD", map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("0.5"),
		"MXN": decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return table
}

func TestNormalizeReferenceIsIdentity(t *testing.T) {
	rates := newTestRates(t)

	for _, s := range []string{"0.0001", "1", "100", "12345.6789"} {
		amount := decimal.RequireFromString(s)
		got, err := rates.Normalize(amount, "CAD")
		require.NoError(t, err)
		assert.True(t, amount.Equal(got), "CAD %s -> %s", amount, got)
	}
}

func TestNormalizeConfiguredRates(t *testing.T) {
	rates := newTestRates(t)

	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"100", "USD", "200"},
		{"50", "USD", "100"},
		{"100", "MXN", "10"},
		{"10", "MXN", "1"},
		{"1", "MXN", "0.1"},
		{"0.00005", "MXN", "0"},
		{"0.00015", "MXN", "0"},
		{"0.0005", "MXN", "0.0001"},
	}
	for _, tt := range tests {
		got, err := rates.Normalize(decimal.RequireFromString(tt.amount), tt.currency)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s %s: got %s want %s", tt.amount, tt.currency, got, tt.want)
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	rates := newTestRates(t)
	amounts := []string{"0.01", "0.5", "1", "9.99", "10", "100", "1000.25"}

	for _, code := range rates.Codes() {
		prev := decimal.Zero
		for _, s := range amounts {
			got, err := rates.Normalize(decimal.RequireFromString(s), code)
			require.NoError(t, err)
			assert.True(t, got.GreaterThanOrEqual(prev), "%s not monotonic at %s", code, s)
			prev = got
		}
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	rates := newTestRates(t)

	_, err := rates.Normalize(decimal.NewFromInt(1), "EUR")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	assert.False(t, rates.Supports("EUR"))
	assert.True(t, rates.Supports("USD"))
	assert.Equal(t, []string{"CAD", "MXN", "USD"}, rates.Codes())
}

func TestNewRateTableRejectsNonPositiveRate(t *testing.T) {
	_, err := NewRateTable("CAD", map[string]decimal.Decimal{"USD": decimal.Zero})
	require.Error(t, err)

	_, err = NewRateTable("", nil)
	require.Error(t, err)
}

func TestWithinPrecision(t *testing.T) {
	cases := []struct {
		amount string
		ok     bool
	}{
		{"0.0001", true},
		{"12345.6789", true},
		{"9999999999999999.9999", true},
		{"0.000000000000000001", true},
		{"10000000000000000", false},
		{"1e16", false},
		{"1e50000000", false},
		{"1e-50000000", false},
		{"0.0000000000000000001", false},
	}
	for _, c := range cases {
		amount := decimal.RequireFromString(c.amount)
		assert.Equal(t, c.ok, WithinPrecision(amount), c.amount)
	}
}
