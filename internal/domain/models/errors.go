package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the market data source has nothing for the ticker and range.
	ErrNoData = errors.New("no market data")
	// ErrInsufficientData means the series is too short for complete features or a train/test split.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNotInitialized means a forecast was requested before a model was selected.
	ErrNotInitialized = errors.New("prediction system not initialized")
)

// ModelFitError reports a candidate regressor that rejected its training data.
type ModelFitError struct {
	Kind string
	Err  error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("fit %s: %v", e.Kind, e.Err)
}

func (e *ModelFitError) Unwrap() error { return e.Err }
