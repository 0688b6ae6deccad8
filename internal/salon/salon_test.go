package salon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 2, hour, min, 0, 0, time.UTC)
}

func TestWindowContains(t *testing.T) {
	w := Window{OpensAt: 8 * 60, ClosesAt: 20 * 60}

	assert.True(t, w.Contains(at(8, 0), at(8, 30)), "starting at opening time")
	assert.True(t, w.Contains(at(19, 0), at(20, 0)), "ending exactly at close")
	assert.True(t, w.Contains(at(12, 0), at(13, 15)))

	assert.False(t, w.Contains(at(7, 59), at(8, 30)), "starts before opening")
	assert.False(t, w.Contains(at(19, 30), at(20, 1)), "runs past close")
	assert.False(t, w.Contains(at(20, 0), at(21, 0)))
}

func TestWindowContainsSeconds(t *testing.T) {
	w := Window{OpensAt: 8 * 60, ClosesAt: 20 * 60}

	// A few seconds past close is still past close
	end := time.Date(2026, 9, 2, 20, 0, 30, 0, time.UTC)
	assert.False(t, w.Contains(at(19, 0), end))
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(8*60, 20*60))
	assert.NoError(t, ValidateWindow(0, 24*60))

	assert.ErrorIs(t, ValidateWindow(20*60, 8*60), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow(9*60, 9*60), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow(-10, 600), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow(600, 25*60), ErrInvalidWindow)
}

func TestClockRoundTrip(t *testing.T) {
	minutes, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, minutes)
	assert.Equal(t, "08:30", FormatClock(minutes))

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("8am")
	assert.Error(t, err)
}

func TestDefaultWindowIsValid(t *testing.T) {
	assert.NoError(t, ValidateWindow(DefaultOpensAt, DefaultClosesAt))
}
