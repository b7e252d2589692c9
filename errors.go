package filter

import "errors"

var (
	// ErrDimensionMismatch is returned when vector or matrix dimensions do not agree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidCovariance is returned when a covariance matrix is not square,
	// symmetric and positive semi-definite.
	ErrInvalidCovariance = errors.New("invalid covariance")
	// ErrOutOfOrder is returned by strict filters when Update is not preceded by Predict
	// or Predict is called twice in a row.
	ErrOutOfOrder = errors.New("filter step out of order")
	// ErrNumerical is returned when a filter step produces non-numeric values.
	ErrNumerical = errors.New("numerical failure")
)
