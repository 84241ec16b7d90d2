package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, year int, month time.Month) time.Time {
	t.Helper()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func TestNewFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain", input: "1234.56", want: 123456},
		{name: "thousands separators", input: "1,234.56", want: 123456},
		{name: "rupee symbol", input: "₹2000.00", want: 200000},
		{name: "mis-decoded rupee symbol", input: "â‚¹2000.00", want: 200000},
		{name: "dollar symbol", input: "$99.99", want: 9999},
		{name: "surrounding whitespace", input: "  450.00  ", want: 45000},
		{name: "garbage", input: "12,34,abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromString(tt.input, INR)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Amount())
			assert.Equal(t, INR, m.Currency())
		})
	}
}

func TestAddSubtract(t *testing.T) {
	a := New(100050, INR) // 1000.50
	b := New(49950, INR)  // 499.50

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(50100), diff.Amount())
}

func TestAddCurrencyMismatch(t *testing.T) {
	a := New(100, INR)
	b := New(100, USD)

	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestMultiply(t *testing.T) {
	unitPrice := New(100000, INR) // 1000.00
	total := unitPrice.Multiply(2)
	assert.Equal(t, int64(200000), total.Amount())
	assert.Equal(t, "2000.00", total.String())
}

func TestTotal(t *testing.T) {
	subtotal := New(500000, INR) // 5000.00
	tax := New(90000, INR)       // 900.00
	discount := New(25000, INR)  // 250.00

	total, err := Total(subtotal, tax, discount)
	require.NoError(t, err)
	assert.Equal(t, "5650.00", total.String())
}

func TestSum(t *testing.T) {
	total, err := Sum(New(100, INR), New(200, INR), New(300, INR))
	require.NoError(t, err)
	assert.Equal(t, int64(600), total.Amount())

	empty, err := Sum()
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestPercentage(t *testing.T) {
	subtotal := New(500000, INR) // 5000.00
	gst := subtotal.Percentage(decimal.NewFromInt(18))
	assert.Equal(t, "900.00", gst.String())
}

func TestToDecimalRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1234.56")
	m := NewFromDecimal(d, INR)
	assert.True(t, d.Equal(m.ToDecimal()))
}

func TestNilSafety(t *testing.T) {
	var m *Money
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, int64(0), m.Amount())
	assert.Equal(t, "0.00", m.String())

	sum, err := m.Add(New(100, INR))
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum.Amount())
}

func TestCompare(t *testing.T) {
	small := New(100, INR)
	big := New(200, INR)

	assert.Equal(t, -1, small.Compare(big))
	assert.Equal(t, 1, big.Compare(small))
	assert.Equal(t, 0, small.Compare(New(100, INR)))
	assert.True(t, small.Equals(New(100, INR)))
}

func TestMonthlySeriesGenerator(t *testing.T) {
	g := NewTestDataGeneratorWithSeed(42)
	periods, values := g.MonthlySeries(12, mustDate(t, 2026, 6), 1000, 50)

	require.Len(t, periods, 12)
	require.Len(t, values, 12)
	assert.Equal(t, 1, periods[0].Day())
	assert.True(t, periods[0].Before(periods[11]))
}
