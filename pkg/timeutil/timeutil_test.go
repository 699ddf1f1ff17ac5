package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	ts := DateTime(2026, 3, 15, 18, 45, 12)
	start := StartOfDay(ts)

	assert.Equal(t, Date(2026, 3, 15), start)
	assert.Equal(t, time.UTC, start.Location())
}

func TestStartOfDay_NormalizesZone(t *testing.T) {
	almaty := time.FixedZone("ALMT", 5*60*60)
	// 03:00 по Алматы - ещё предыдущий день по UTC.
	local := time.Date(2026, 3, 15, 3, 0, 0, 0, almaty)

	assert.Equal(t, Date(2026, 3, 14), StartOfDay(local))
}

func TestIsSameDay(t *testing.T) {
	assert.True(t, IsSameDay(DateTime(2026, 3, 15, 0, 0, 1), DateTime(2026, 3, 15, 23, 59, 59)))
	assert.False(t, IsSameDay(DateTime(2026, 3, 15, 23, 59, 59), DateTime(2026, 3, 16, 0, 0, 1)))
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay(Date(2026, 3, 15), Date(2026, 3, 16)))
	assert.False(t, IsConsecutiveDay(Date(2026, 3, 15), Date(2026, 3, 17)))
	assert.False(t, IsConsecutiveDay(Date(2026, 3, 15), Date(2026, 3, 15)))

	// Через границу месяца и года.
	assert.True(t, IsConsecutiveDay(Date(2026, 2, 28), Date(2026, 3, 1)))
	assert.True(t, IsConsecutiveDay(Date(2025, 12, 31), Date(2026, 1, 1)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(DateTime(2026, 3, 15, 1, 0, 0), DateTime(2026, 3, 15, 23, 0, 0)))
	assert.Equal(t, 1, DaysBetween(Date(2026, 3, 15), Date(2026, 3, 16)))
	assert.Equal(t, 31, DaysBetween(Date(2026, 3, 1), Date(2026, 4, 1)))

	// Порядок аргументов не важен.
	assert.Equal(t, 5, DaysBetween(Date(2026, 3, 20), Date(2026, 3, 15)))
}

func TestDaysDiff(t *testing.T) {
	assert.Equal(t, 0, DaysDiff(DateTime(2026, 3, 15, 1, 0, 0), DateTime(2026, 3, 15, 23, 0, 0)))
	assert.Equal(t, 1, DaysDiff(Date(2026, 3, 15), Date(2026, 3, 16)))

	// В отличие от DaysBetween, разница знаковая.
	assert.Equal(t, -5, DaysDiff(Date(2026, 3, 20), Date(2026, 3, 15)))
}

func TestStartOfWeek(t *testing.T) {
	// 2026-03-15 - воскресенье; неделя началась в понедельник 9-го.
	assert.Equal(t, Date(2026, 3, 9), StartOfWeek(Date(2026, 3, 15)))
	// Понедельник - начало своей же недели.
	assert.Equal(t, Date(2026, 3, 9), StartOfWeek(DateTime(2026, 3, 9, 12, 0, 0)))
}

func TestEndOfWeek(t *testing.T) {
	end := EndOfWeek(Date(2026, 3, 11))
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date(2026, 3, 15), parsed)

	_, err = ParseDate("15.03.2026")
	assert.Error(t, err)
}

func TestFormatRelative(t *testing.T) {
	now := Now()

	assert.Equal(t, "just now", FormatRelative(now.Add(-30*time.Second)))
	assert.Equal(t, "5m ago", FormatRelative(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", FormatRelative(now.Add(-3*time.Hour)))
	assert.Equal(t, "yesterday", FormatRelative(now.Add(-25*time.Hour)))
	assert.Equal(t, "in 2h", FormatRelative(now.Add(2*time.Hour+time.Minute)))
}
