package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_ISO(t *testing.T) {
	d := ParseDate("2024-03-05")
	require.False(t, d.IsZero())
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 5, d.Day())
}

func TestParseDate_DayFirst(t *testing.T) {
	// 05/03/2024 is day/month/year, so the 5th of March
	d := ParseDate("05/03/2024")
	require.False(t, d.IsZero())
	assert.Equal(t, "2024-03-05", FormatDate(d))
}

func TestParseDate_DayFirstSeparators(t *testing.T) {
	for _, s := range []string{"5-3-2024", "5.3.2024", "5/3/2024"} {
		d := ParseDate(s)
		require.False(t, d.IsZero(), "expected %q to parse", s)
		assert.Equal(t, "2024-03-05", FormatDate(d))
	}
}

func TestParseDate_InvalidMonth(t *testing.T) {
	assert.True(t, ParseDate("05/13/2024").IsZero())
	assert.True(t, ParseDate("32/01/2024").IsZero())
}

func TestParseDate_Garbage(t *testing.T) {
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("not a date").IsZero())
	assert.True(t, ParseDate("12/31").IsZero())
}

func TestFormatDate_Zero(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestParseAmount(t *testing.T) {
	assert.InDelta(t, 1234.56, ParseAmount("$1,234.56"), 0.0001)
	assert.InDelta(t, 100.50, ParseAmount("100.50"), 0.0001)
	assert.InDelta(t, -45.00, ParseAmount("-$45.00"), 0.0001)
	assert.InDelta(t, 1500.0, ParseAmount("1 500 MXN"), 0.0001)
}

func TestParseAmount_SecondDecimalPointDropped(t *testing.T) {
	// Thousand-separator confusion: only the first point survives
	assert.InDelta(t, 1.23456, ParseAmount("1.234.56"), 0.0001)
}

func TestParseAmount_NotANumber(t *testing.T) {
	assert.True(t, math.IsNaN(ParseAmount("N/A")))
	assert.True(t, math.IsNaN(ParseAmount("")))
	assert.True(t, math.IsNaN(ParseAmount("--")))
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "nofactura", FieldKey("No. Factura"))
	assert.Equal(t, "invoicenumber", FieldKey("Invoice Number"))
	assert.Equal(t, "fecha", FieldKey("  FECHA  "))
	assert.Equal(t, "", FieldKey("---"))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, 2, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDaysBetween_RoundsToNearestDay(t *testing.T) {
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 11, 13, 0, 0, 0, time.UTC) // 1.54 days
	assert.Equal(t, 2, DaysBetween(a, b))
}
