package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForPriority(t *testing.T) {
	assert.Equal(t, PointsHigh, PointsForPriority(PriorityHigh))
	assert.Equal(t, PointsMedium, PointsForPriority(PriorityMedium))
	assert.Equal(t, PointsLow, PointsForPriority(PriorityLow))
	assert.Equal(t, PointsMedium, PointsForPriority(Priority("bogus")))
}

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestAddPointsKeepsLevelDerived(t *testing.T) {
	user := User{Level: 1}

	for i := 0; i < 20; i++ {
		user.AddPoints(PointsHigh)
		assert.Equal(t, user.Points/100+1, user.Level)
	}
	assert.Equal(t, 600, user.Points)
	assert.Equal(t, 7, user.Level)
}

func TestPointsToNextLevel(t *testing.T) {
	user := User{Level: 1}
	assert.Equal(t, 100, user.PointsToNextLevel())

	user.AddPoints(30)
	assert.Equal(t, 70, user.PointsToNextLevel())

	user.AddPoints(70)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 100, user.PointsToNextLevel())
}

func TestBadgeForCompletedCount(t *testing.T) {
	t.Run("exact thresholds", func(t *testing.T) {
		for count, want := range map[int64]string{
			1:   BadgeFirstStep,
			10:  BadgeTaskMaster,
			50:  BadgeProductivityLegend,
			100: BadgeCenturyClub,
		} {
			name, ok := BadgeForCompletedCount(count)
			assert.True(t, ok, "count=%d", count)
			assert.Equal(t, want, name)
		}
	})

	t.Run("between thresholds nothing fires", func(t *testing.T) {
		for _, count := range []int64{0, 2, 9, 11, 49, 51, 99, 101} {
			_, ok := BadgeForCompletedCount(count)
			assert.False(t, ok, "count=%d", count)
		}
	})
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want Priority
		ok   bool
	}{
		{"", PriorityMedium, true},
		{"low", PriorityLow, true},
		{"medium", PriorityMedium, true},
		{"high", PriorityHigh, true},
		{"urgent", PriorityMedium, false},
	}
	for _, tc := range cases {
		got, ok := ParsePriority(tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
	}
}
