package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultForecast(t *testing.T) {
	cfg := DefaultForecast()

	assert.Equal(t, 90, cfg.MinDailyPoints)
	assert.Equal(t, 12, cfg.MinWeeklyPoints)
	assert.Equal(t, 30, cfg.Horizon)
	assert.Equal(t, 30, cfg.ValidationPeriods)
	assert.Equal(t, 0.3, cfg.MAPEThreshold)
	assert.Equal(t, 1.5, cfg.IQRMultiplier)
	assert.Equal(t, 1.0, cfg.SkewThreshold)
	assert.Equal(t, 7, cfg.MovingAverageWindow)
	assert.Equal(t, 0.05, cfg.ChangepointPriorScale)
	assert.Equal(t, 10.0, cfg.SeasonalityPriorScale)
	assert.Equal(t, 0.8, cfg.IntervalWidth)
	assert.Equal(t, 1.28, cfg.ServiceLevelZ)
	assert.Equal(t, 7, cfg.DefaultLeadTimeDays)
	assert.Equal(t, 4, cfg.TrainWorkers)
}
