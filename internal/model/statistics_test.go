package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	empty := &UsageStatistics{}
	assert.Equal(t, 0.0, empty.SuccessRate(), "no attempts means no rate")

	s := &UsageStatistics{TotalActivations: 4, FailedActivations: 1}
	assert.InDelta(t, 0.75, s.SuccessRate(), 1e-9)
}

func TestActivityOn(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	s := &UsageStatistics{DailyActivity: []DailyActivity{
		{Date: day, Activations: 2, Searches: 5},
	}}

	got := s.ActivityOn(time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC))
	assert.NotNil(t, got)
	assert.Equal(t, 5, got.Searches)

	assert.Nil(t, s.ActivityOn(day.AddDate(0, 0, 1)))
}
