package forecaster

import "errors"

// SchemaError indicates the input violated the required record schema. The
// whole call is rejected; no partial processing happens.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

var (
	// ErrNoModel is returned when a forecast is requested for a SKU that
	// has no usable trained model.
	ErrNoModel = errors.New("no trained model")

	// ErrEmptySeries is returned when a forecast is requested against an
	// empty regularized series.
	ErrEmptySeries = errors.New("empty series")
)
