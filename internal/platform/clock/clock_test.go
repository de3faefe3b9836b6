package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC del 14 es todavía el 13 en New York.
	ts := time.Date(2026, 10, 14, 2, 30, 0, 0, time.UTC)
	got := StartOfDay(ts, loc)

	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, loc), got)
}

func TestWeekStart_IsMostRecentSunday(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC), time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"sunday itself", time.Date(2026, 10, 11, 23, 59, 0, 0, time.UTC), time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC), time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)},
		{"crosses month", time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC), time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeekStart(tc.in, time.UTC))
		})
	}
}

func TestAddDays_KeepsMidnightAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-11-01 termina el horario de verano en New York.
	day := time.Date(2026, 11, 2, 0, 0, 0, 0, loc)
	prev := AddDays(day, -1)

	assert.Equal(t, 0, prev.Hour())
	assert.Equal(t, 1, prev.Day())
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 10, 14, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(b, c, time.UTC))
}

func TestHoursSince(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, HoursSince(now, now))
	assert.Equal(t, 0.0, HoursSince(now.Add(time.Hour), now), "futuro no resta")
	assert.Equal(t, 0.0, HoursSince(time.Time{}, now))
	assert.InDelta(t, 2.5, HoursSince(now.Add(-150*time.Minute), now), 1e-9)
}

func TestDayOf_ComparableKey(t *testing.T) {
	a := DayOf(time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC), time.UTC)
	b := DayOf(time.Date(2026, 10, 14, 22, 0, 0, 0, time.UTC), nil)

	seen := map[Day]bool{a: true}
	assert.True(t, seen[b])
	assert.Equal(t, Day{Year: 2026, Month: time.October, Day: 14}, a)
}
