// Package timeseries provides the regularized per-SKU series type and the
// descriptive statistics the forecasting pipeline is built on.
package timeseries

import "time"

// Interval is the sampling interval of a regularized series.
type Interval string

const (
	Daily  Interval = "daily"
	Weekly Interval = "weekly"
)

// Days returns the interval length in days.
func (i Interval) Days() int {
	if i == Weekly {
		return 7
	}
	return 1
}

// Next returns the date one interval after t.
func (i Interval) Next(t time.Time) time.Time {
	return t.AddDate(0, 0, i.Days())
}

// Series is an ordered, gap-free (date, value) sequence for one SKU.
// Dates are strictly increasing with a uniform step of Interval.
type Series struct {
	Dates    []time.Time `json:"dates"`
	Values   []float64   `json:"values"`
	Interval Interval    `json:"interval"`

	// LogSpace is set when the series was log1p-transformed during
	// preprocessing. Downstream consumers do not invert the transform.
	LogSpace bool `json:"log_space"`
}

func (s *Series) Len() int {
	return len(s.Values)
}

// LastDate returns the final date of the series, or the zero time when empty.
func (s *Series) LastDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// Tail returns the trailing n values. The slice aliases the series.
func (s *Series) Tail(n int) []float64 {
	if n >= len(s.Values) {
		return s.Values
	}
	return s.Values[len(s.Values)-n:]
}

// Head returns a view of the first n points as a series.
func (s *Series) Head(n int) *Series {
	if n > len(s.Values) {
		n = len(s.Values)
	}
	if n < 0 {
		n = 0
	}
	return &Series{
		Dates:    s.Dates[:n],
		Values:   s.Values[:n],
		Interval: s.Interval,
		LogSpace: s.LogSpace,
	}
}

// FutureDates returns the n dates immediately following the last observed
// date at the series' interval.
func (s *Series) FutureDates(n int) []time.Time {
	dates := make([]time.Time, 0, n)
	cur := s.LastDate()
	for i := 0; i < n; i++ {
		cur = s.Interval.Next(cur)
		dates = append(dates, cur)
	}
	return dates
}

// DetectInterval infers the sampling interval from sorted dates by taking the
// most frequent gap between consecutive dates. A 1-day gap means daily, a
// 7-day gap weekly; anything else defaults to daily.
func DetectInterval(dates []time.Time) Interval {
	if len(dates) < 2 {
		return Daily
	}

	gapCounts := make(map[int]int)
	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		gapCounts[gap]++
	}

	mostCommon, best := 1, 0
	for gap, count := range gapCounts {
		if count > best {
			mostCommon, best = gap, count
		}
	}

	switch mostCommon {
	case 7:
		return Weekly
	default:
		return Daily
	}
}
