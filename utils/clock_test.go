package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, ok := ParseClock("13:05")
	require.True(t, ok)
	assert.Equal(t, 13*60+5, m)

	m, ok = ParseClock("00:00")
	require.True(t, ok)
	assert.Equal(t, 0, m)

	for _, bad := range []string{"", "24:00", "12:60", "12:5", "noon", "12"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "06:00", FormatClock(360))
	assert.Equal(t, "23:59", FormatClock(-1))
	assert.Equal(t, "00:30", FormatClock(24*60+30))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-03-05", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate("2024-02-30", time.UTC)
	assert.False(t, ok)
	_, ok = ParseDate("03/05/2024", time.UTC)
	assert.False(t, ok)
}

func TestDayWindowPosition(t *testing.T) {
	w := DayWindow
	assert.Equal(t, 0.0, w.Position(6*60))
	assert.Equal(t, 1.0, w.Position(21*60))
	assert.InDelta(t, 0.5, w.Position(13*60+30), 1e-9)

	// clipped to the edges
	assert.Equal(t, 0.0, w.Position(5*60))
	assert.Equal(t, 1.0, w.Position(23*60))
}

func TestOvernightWindowPosition(t *testing.T) {
	w := OvernightWindow
	require.True(t, w.Wraps())
	assert.Equal(t, 15*60, w.Length())

	assert.Equal(t, 0.0, w.Position(18*60))
	assert.Equal(t, 1.0, w.Position(9*60))
	assert.InDelta(t, 6.0/15, w.Position(0), 1e-9)
	assert.InDelta(t, 4.0/15, w.Position(22*60), 1e-9)

	// daytime is clipped to whichever edge is closer
	assert.Equal(t, 1.0, w.Position(10*60))
	assert.Equal(t, 0.0, w.Position(17*60))
}

func TestWindowPositionStaysInBounds(t *testing.T) {
	for _, w := range []ClockWindow{DayWindow, OvernightWindow} {
		for m := 0; m < 24*60; m++ {
			p := w.Position(m)
			if p < 0 || p > 1 {
				t.Fatalf("window %+v: position(%d) = %v", w, m, p)
			}
		}
	}
}

func TestAgeInWeeks(t *testing.T) {
	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, AgeInWeeks(&birth, birth.AddDate(0, 0, 73)))
	assert.Equal(t, 0, AgeInWeeks(nil, birth))
	assert.Equal(t, 0, AgeInWeeks(&birth, birth.AddDate(0, 0, -1)))
}
