// Package metrics scores predicted trajectories against the truth.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/milosgajdos/go-enkf/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when prediction and truth differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrEmpty is returned when there is nothing to score.
	ErrEmpty = errors.New("empty input")
	// ErrZeroVariance is returned when a score is normalized by the spread
	// of a constant truth.
	ErrZeroVariance = errors.New("zero variance of truth")
)

// Report holds all scores of a single prediction.
type Report struct {
	// RMSE is root mean square error
	RMSE float64
	// NRMSE is RMSE normalized by the population standard deviation of truth
	NRMSE float64
	// NSE is Nash-Sutcliffe efficiency
	NSE float64
}

// String implements fmt.Stringer
func (r Report) String() string {
	return fmt.Sprintf("RMSE: %.6f NRMSE: %.6f NSE: %.6f", r.RMSE, r.NRMSE, r.NSE)
}

func check(pred, truth []float64) error {
	if len(pred) != len(truth) {
		return fmt.Errorf("%w: prediction %d, truth %d", ErrLengthMismatch, len(pred), len(truth))
	}

	if len(truth) == 0 {
		return ErrEmpty
	}

	return nil
}

// constant reports whether all values of x are equal.
func constant(x []float64) bool {
	return floats.Max(x) == floats.Min(x)
}

// RMSE returns root mean square error of pred with respect to truth:
//
//	sqrt(mean((pred - truth)^2))
func RMSE(pred, truth []float64) (float64, error) {
	if err := check(pred, truth); err != nil {
		return 0, err
	}

	return floats.Distance(pred, truth, 2) / math.Sqrt(float64(len(truth))), nil
}

// NRMSE returns RMSE divided by the population standard deviation of truth.
// It returns ErrZeroVariance if truth is constant.
func NRMSE(pred, truth []float64) (float64, error) {
	rmse, err := RMSE(pred, truth)
	if err != nil {
		return 0, err
	}

	if constant(truth) {
		return 0, fmt.Errorf("%w: cannot normalize RMSE", ErrZeroVariance)
	}

	_, std := stat.PopMeanStdDev(truth, nil)

	return rmse / std, nil
}

// NSE returns Nash-Sutcliffe efficiency of pred with respect to truth:
//
//	1 - sum((truth - pred)^2) / sum((truth - mean(truth))^2)
//
// Perfect prediction scores 1. It returns ErrZeroVariance if truth is constant.
func NSE(pred, truth []float64) (float64, error) {
	if err := check(pred, truth); err != nil {
		return 0, err
	}

	if constant(truth) {
		return 0, fmt.Errorf("%w: cannot compute efficiency", ErrZeroVariance)
	}

	mean := stat.Mean(truth, nil)

	var num, den float64
	for i := range truth {
		d := truth[i] - pred[i]
		num += d * d
		m := truth[i] - mean
		den += m * m
	}

	return 1 - num/den, nil
}

// Evaluate computes all scores of pred with respect to truth.
func Evaluate(pred, truth []float64) (*Report, error) {
	rmse, err := RMSE(pred, truth)
	if err != nil {
		return nil, err
	}

	nrmse, err := NRMSE(pred, truth)
	if err != nil {
		return nil, err
	}

	nse, err := NSE(pred, truth)
	if err != nil {
		return nil, err
	}

	return &Report{
		RMSE:  rmse,
		NRMSE: nrmse,
		NSE:   nse,
	}, nil
}

// EvaluateMatrix scores trajectory pred against truth trajectory.
// Both matrices are flattened so the scores are computed over all elements,
// with the spread of truth taken over all of its elements.
// It returns ErrLengthMismatch if the matrices differ in dimensions.
func EvaluateMatrix(pred, truth mat.Matrix) (*Report, error) {
	pr, pc := pred.Dims()
	tr, tc := truth.Dims()
	if pr != tr || pc != tc {
		return nil, fmt.Errorf("%w: prediction [%d x %d], truth [%d x %d]", ErrLengthMismatch, pr, pc, tr, tc)
	}

	return Evaluate(matrix.Flatten(pred), matrix.Flatten(truth))
}
