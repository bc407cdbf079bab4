package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMarshalFinite(t *testing.T) {
	data, err := json.Marshal(Metric(0.25))
	require.NoError(t, err)
	assert.Equal(t, "0.25", string(data))
}

func TestMetricMarshalInfinite(t *testing.T) {
	data, err := json.Marshal(Metric(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, `"inf"`, string(data))

	data, err = json.Marshal(Metric(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, `"inf"`, string(data))
}

func TestMetricUnmarshal(t *testing.T) {
	var m Metric
	require.NoError(t, json.Unmarshal([]byte("0.5"), &m))
	assert.Equal(t, Metric(0.5), m)

	require.NoError(t, json.Unmarshal([]byte(`"inf"`), &m))
	assert.True(t, m.IsInf())

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &m))
}

func TestMetricInsideStruct(t *testing.T) {
	// Plain float64 fields reject Inf at encode time; Metric must not.
	in := TrainResult{ModelKind: KindNaive, ValidationError: Metric(math.Inf(1))}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out TrainResult
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.ValidationError.IsInf())
	assert.Equal(t, KindNaive, out.ModelKind)
}
