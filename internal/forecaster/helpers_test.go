package forecaster

import (
	"time"

	"github.com/stocksight/trendwise/internal/timeseries"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func dailySeries(values ...float64) *timeseries.Series {
	s := &timeseries.Series{Interval: timeseries.Daily, Values: values}
	for i := range values {
		s.Dates = append(s.Dates, day(i))
	}
	return s
}

func flatSeries(n int, value float64) *timeseries.Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return dailySeries(values...)
}
