package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), r.From)
	require.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), r.To)
}

func TestParseDateRangeOpenBounds(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	require.True(t, r.IsZero())

	r, err = ParseDateRange("2026-01-01", "")
	require.NoError(t, err)
	require.False(t, r.From.IsZero())
	require.True(t, r.To.IsZero())
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	_, err := ParseDateRange("2026-02-01", "2026-01-01")
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseDateRangeRejectsGarbage(t *testing.T) {
	_, err := ParseDateRange("01/02/2026", "")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidRange)
}

func TestDateRangeContains(t *testing.T) {
	r, err := ParseDateRange("2026-01-10", "2026-01-20")
	require.NoError(t, err)

	require.True(t, r.Contains(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	require.True(t, r.Contains(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	require.False(t, r.Contains(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
	require.False(t, r.Contains(time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)))
}

func TestDateRangeUpperOnly(t *testing.T) {
	r, err := ParseDateRange("2026-01-10", "2026-01-20")
	require.NoError(t, err)

	u := r.UpperOnly()
	require.True(t, u.From.IsZero())
	require.Equal(t, r.To, u.To)
}
