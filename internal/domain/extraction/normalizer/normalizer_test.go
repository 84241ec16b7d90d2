package normalizer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain number", input: "2000.00", want: "2000.00"},
		{name: "thousands separators", input: "1,23,456.78", want: "123456.78"},
		{name: "rupee glyph", input: "₹2000.00", want: "2000.00"},
		{name: "mis-decoded rupee glyph", input: "â‚¹2000.00", want: "2000.00"},
		{name: "dollar sign", input: "$450.50", want: "450.50"},
		{name: "surrounding whitespace", input: "  99.00  ", want: "99.00"},
		{name: "empty becomes zero", input: "", want: "0"},
		{name: "whitespace only becomes zero", input: "   ", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanAmount(tt.input)
			assert.Equal(t, tt.want, got)

			// cleaning an already-clean string changes nothing
			assert.Equal(t, got, CleanAmount(got))
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("₹1,250.75")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1250.75")))

	got, err = ParseAmount("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseAmount("12.34.56")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedAmount))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already canonical", input: "15-04-2025", want: "15-04-2025"},
		{name: "slash day first", input: "15/04/2025", want: "15-04-2025"},
		{name: "slash month first", input: "04/15/2025", want: "15-04-2025"},
		{name: "abbreviated month", input: "15-Apr-2025", want: "15-04-2025"},
		{name: "iso", input: "2025-04-15", want: "15-04-2025"},
		{name: "long month", input: "15 April 2025", want: "15-04-2025"},
		{name: "whitespace trimmed", input: "  15-04-2025 ", want: "15-04-2025"},
		{name: "unparseable", input: "April the 15th", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.input))
		})
	}
}

func TestParseDateAmbiguousPrefersDayFirst(t *testing.T) {
	// 03/04/2025 is valid as both DD/MM and MM/DD; day-first wins.
	assert.Equal(t, "03-04-2025", ParseDate("03/04/2025"))
}

func TestParseAddress(t *testing.T) {
	addr := ParseAddress("123 Tech Street, Bangalore, Karnataka - 560001, India")
	assert.Equal(t, "123 Tech Street", addr.Street)
	assert.Equal(t, "Bangalore", addr.City)
	assert.Equal(t, "Karnataka", addr.State)
	assert.Equal(t, "560001", addr.Zipcode)
	assert.Equal(t, "India", addr.Country)
}

func TestParseAddressPartial(t *testing.T) {
	addr := ParseAddress("456 Global Avenue, New York")
	assert.Equal(t, "456 Global Avenue", addr.Street)
	assert.Equal(t, "New York", addr.City)
	assert.Empty(t, addr.State)
	assert.Empty(t, addr.Zipcode)
	assert.Empty(t, addr.Country)
}

func TestParseAddressMalformedStateSegment(t *testing.T) {
	addr := ParseAddress("789 NexGen Road, Toronto, Ontario, Canada")
	assert.Equal(t, "Toronto", addr.City)
	// no "<state> - <zip>" pattern in segment 2
	assert.Empty(t, addr.State)
	assert.Empty(t, addr.Zipcode)
	assert.Equal(t, "Canada", addr.Country)
}

func TestParseAddressEmpty(t *testing.T) {
	addr := ParseAddress("")
	assert.Empty(t, addr.Street)
	assert.Empty(t, addr.City)
}
