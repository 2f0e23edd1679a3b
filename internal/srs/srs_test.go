package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNext(t *testing.T) {
	testCases := []struct {
		name      string
		level     int
		quality   Quality
		wantLevel int
		wantDays  int
	}{
		{name: "level 1 good", level: 1, quality: Good, wantLevel: 2, wantDays: 3},
		{name: "level 2 good", level: 2, quality: Good, wantLevel: 3, wantDays: 7},
		{name: "level 3 good", level: 3, quality: Good, wantLevel: 4, wantDays: 14},
		{name: "level 4 good", level: 4, quality: Good, wantLevel: 5, wantDays: 30},
		{name: "ceiling holds", level: 5, quality: Good, wantLevel: 5, wantDays: 30},
		{name: "level 1 again", level: 1, quality: Again, wantLevel: 1, wantDays: 1},
		{name: "level 4 again", level: 4, quality: Again, wantLevel: 1, wantDays: 1},
		{name: "level 5 again", level: 5, quality: Again, wantLevel: 1, wantDays: 1},
		{name: "level 0 good", level: 0, quality: Good, wantLevel: 1, wantDays: 1},
		{name: "negative level good", level: -3, quality: Good, wantLevel: 1, wantDays: 1},
		{name: "above range good", level: 9, quality: Good, wantLevel: 5, wantDays: 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Next(tc.level, tc.quality, now)
			assert.Equal(t, tc.wantLevel, res.Level)
			assert.Equal(t, time.Duration(tc.wantDays)*24*time.Hour, res.Due.Sub(now))
		})
	}
}

func TestNextDueMatchesIntervalTable(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		res := Next(level-1, Good, now)
		require.Equal(t, level, res.Level)
		assert.Equal(t, int64(intervals[level])*86400000, res.Due.Sub(now).Milliseconds())
	}
}

func TestNextUsesWallClockSafely(t *testing.T) {
	before := time.Now()
	res := Next(1, Good, time.Now())
	after := time.Now()

	assert.False(t, res.Due.Before(before.Add(3*Day)))
	assert.False(t, res.Due.After(after.Add(3*Day)))
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("good")
	require.NoError(t, err)
	assert.Equal(t, Good, q)

	q, err = ParseQuality("again")
	require.NoError(t, err)
	assert.Equal(t, Again, q)

	_, err = ParseQuality("easy")
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestQualityText(t *testing.T) {
	var q Quality
	require.NoError(t, q.UnmarshalText([]byte("again")))
	assert.Equal(t, Again, q)

	assert.ErrorIs(t, q.UnmarshalText([]byte("Good")), ErrInvalidQuality)

	_, err := Quality("hard").MarshalText()
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 1*Day, interval(1))
	assert.Equal(t, 3*Day, interval(2))
	assert.Equal(t, 30*Day, interval(MaxLevel))
}
