package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression(t *testing.T) {
	expr, err := ParseCronExpression("0 4 * * *")
	require.NoError(t, err)
	assert.Equal(t, "0 4 * * *", expr.String())

	_, err = ParseCronExpression("0 4 * *")
	assert.Error(t, err, "four fields are not enough")

	_, err = ParseCronExpression("61 * * * *")
	assert.Error(t, err, "minute out of range")

	_, err = ParseCronExpression("*/0 * * * *")
	assert.Error(t, err, "zero step")
}

func TestCronExpression_NextDaily(t *testing.T) {
	expr := MustParseCronExpression("0 4 * * *")

	// До 04:00 - сегодня.
	after := time.Date(2026, 3, 15, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC), expr.Next(after))

	// После 04:00 - завтра.
	after = time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 4, 0, 0, 0, time.UTC), expr.Next(after))
}

func TestCronExpression_NextStep(t *testing.T) {
	expr := MustParseCronExpression(Every15Minutes)

	after := time.Date(2026, 3, 15, 10, 7, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 15, 0, 0, time.UTC), expr.Next(after))

	// Ровно на границе шага: следующий слот, не текущий.
	after = time.Date(2026, 3, 15, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), expr.Next(after))
}

func TestCronExpression_NextWeekday(t *testing.T) {
	expr := MustParseCronExpression(EveryMonday)

	// 2026-03-15 - воскресенье; ближайший понедельник - 16-е.
	after := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), expr.Next(after))
}

func TestCronExpression_ListField(t *testing.T) {
	expr, err := ParseCronExpression("0 9,18 * * *")
	require.NoError(t, err)

	after := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), expr.Next(after))
}
