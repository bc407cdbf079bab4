package domain

import (
	"bytes"
	"math"
	"strconv"
)

// Metric is a validation-error value that survives JSON round-trips even
// when infinite. Candidates that never produced a usable forecast carry an
// infinite error.
type Metric float64

func (m Metric) IsInf() bool {
	return math.IsInf(float64(m), 1)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsInf(f, 1) || math.IsNaN(f) {
		return []byte(`"inf"`), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`"inf"`)) {
		*m = Metric(math.Inf(1))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}
