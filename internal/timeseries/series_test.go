package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func dailySeries(values ...float64) *Series {
	s := &Series{Interval: Daily, Values: values}
	for i := range values {
		s.Dates = append(s.Dates, day(i))
	}
	return s
}

func TestIntervalDays(t *testing.T) {
	assert.Equal(t, 1, Daily.Days())
	assert.Equal(t, 7, Weekly.Days())
}

func TestIntervalNext(t *testing.T) {
	assert.Equal(t, day(1), Daily.Next(day(0)))
	assert.Equal(t, day(7), Weekly.Next(day(0)))
}

func TestLastDate(t *testing.T) {
	empty := &Series{Interval: Daily}
	assert.True(t, empty.LastDate().IsZero())

	s := dailySeries(1, 2, 3)
	assert.Equal(t, day(2), s.LastDate())
}

func TestTail(t *testing.T) {
	s := dailySeries(1, 2, 3, 4, 5)

	assert.Equal(t, []float64{4, 5}, s.Tail(2))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, s.Tail(10))
}

func TestHead(t *testing.T) {
	s := dailySeries(1, 2, 3, 4, 5)
	s.LogSpace = true

	head := s.Head(3)
	assert.Equal(t, []float64{1, 2, 3}, head.Values)
	assert.Equal(t, day(2), head.LastDate())
	assert.Equal(t, Daily, head.Interval)
	assert.True(t, head.LogSpace)

	assert.Equal(t, 0, s.Head(-1).Len())
	assert.Equal(t, 5, s.Head(99).Len())
}

func TestFutureDates(t *testing.T) {
	s := dailySeries(1, 2, 3)

	future := s.FutureDates(3)
	require.Len(t, future, 3)
	assert.Equal(t, day(3), future[0])
	assert.Equal(t, day(5), future[2])

	weekly := &Series{Interval: Weekly, Dates: []time.Time{day(0), day(7)}, Values: []float64{1, 2}}
	future = weekly.FutureDates(2)
	require.Len(t, future, 2)
	assert.Equal(t, day(14), future[0])
	assert.Equal(t, day(21), future[1])
}

func TestDetectInterval(t *testing.T) {
	assert.Equal(t, Daily, DetectInterval(nil))
	assert.Equal(t, Daily, DetectInterval([]time.Time{day(0)}))

	assert.Equal(t, Daily, DetectInterval([]time.Time{day(0), day(1), day(2)}))
	assert.Equal(t, Weekly, DetectInterval([]time.Time{day(0), day(7), day(14)}))

	// Mostly daily with one gap stays daily.
	assert.Equal(t, Daily, DetectInterval([]time.Time{day(0), day(1), day(2), day(9), day(10)}))

	// Irregular gaps default to daily.
	assert.Equal(t, Daily, DetectInterval([]time.Time{day(0), day(3)}))
}
