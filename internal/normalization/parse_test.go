package normalization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-lab/internal/domain"
)

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"APR 10, 2022", time.Date(2022, time.April, 10, 0, 0, 0, 0, time.UTC)},
		{"Oct 19, 2021", time.Date(2021, time.October, 19, 0, 0, 0, 0, time.UTC)},
		{" NOV 01, 2023 ", time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseGameDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: got %v", tt.in, got)
	}

	for _, bad := range []string{"", "10/04/2022", "APRIL 10 2022", "APR 32, 2022"} {
		_, err := ParseGameDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseResult(t *testing.T) {
	r, err := ParseResult("W")
	require.NoError(t, err)
	assert.Equal(t, domain.ResultWin, r)

	r, err = ParseResult("l")
	require.NoError(t, err)
	assert.Equal(t, domain.ResultLoss, r)

	_, err = ParseResult("T")
	assert.ErrorIs(t, err, errBadResult)
}

func TestParseMatchup(t *testing.T) {
	home, opp, err := ParseMatchup("NYK vs. BOS")
	require.NoError(t, err)
	assert.True(t, home)
	assert.Equal(t, "BOS", opp)

	home, opp, err = ParseMatchup("NYK @ BOS")
	require.NoError(t, err)
	assert.False(t, home)
	assert.Equal(t, "BOS", opp)

	for _, bad := range []string{"", "NYK BOS", "NYK vs BOS", "NYK @"} {
		_, _, err := ParseMatchup(bad)
		assert.ErrorIs(t, err, errBadMatchup, bad)
	}
}
