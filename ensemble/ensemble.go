// Package ensemble provides a fixed size collection of state vectors
// which represents the probability distribution of the estimated state.
package ensemble

import (
	"fmt"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/go-enkf/estimate"
	"github.com/milosgajdos/go-enkf/matrix"
	"github.com/milosgajdos/go-enkf/rand"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Ensemble is an ensemble of state vectors.
// Ensemble members are stored in the rows of a matrix;
// the number of members and their dimension never change.
type Ensemble struct {
	// x stores ensemble members in rows
	x *mat.Dense
}

// New creates new ensemble from members stored in rows of m and returns it.
// The members are copied: the ensemble does not alias m.
// It returns error if m is nil or has no rows or columns.
func New(m mat.Matrix) (*Ensemble, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil ensemble", filter.ErrDimensionMismatch)
	}

	if r, c := m.Dims(); r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: ensemble [%d x %d]", filter.ErrDimensionMismatch, r, c)
	}

	return &Ensemble{x: mat.DenseCopyOf(m)}, nil
}

// NewFromInitCond creates new ensemble of n members drawn from a normal distribution
// centered around ic.State() with covariance ic.Cov().
// If src is nil the global random source is used.
// It returns error if n is non-positive or the members fail to be drawn.
func NewFromInitCond(ic filter.InitCond, n int, src xrand.Source) (*Ensemble, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid ensemble size: %d", n)
	}

	state := ic.State()
	cov := ic.Cov()
	if state.Len() != cov.SymmetricDim() {
		return nil, fmt.Errorf("%w: state %d, cov %d", filter.ErrDimensionMismatch, state.Len(), cov.SymmetricDim())
	}

	// samples are drawn in columns
	x, err := rand.WithCovN(cov, n, src)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ensemble members: %w", err)
	}

	members := mat.DenseCopyOf(x.T())
	for i := 0; i < n; i++ {
		row := members.RowView(i).(*mat.VecDense)
		row.AddVec(row, state)
	}

	return &Ensemble{x: members}, nil
}

// Dims returns the number of ensemble members n and their dimension d.
func (e *Ensemble) Dims() (n, d int) {
	return e.x.Dims()
}

// Size returns the number of ensemble members.
func (e *Ensemble) Size() int {
	n, _ := e.x.Dims()
	return n
}

// Dim returns the dimension of ensemble members.
func (e *Ensemble) Dim() int {
	_, d := e.x.Dims()
	return d
}

// Member returns a copy of i-th ensemble member.
// It panics if i is out of range.
func (e *Ensemble) Member(i int) mat.Vector {
	m := &mat.VecDense{}
	m.CloneFromVec(e.x.RowView(i))

	return m
}

// Matrix returns a copy of ensemble members stored in rows.
func (e *Ensemble) Matrix() *mat.Dense {
	return mat.DenseCopyOf(e.x)
}

// Set replaces ensemble members with the rows of m.
// It returns error if m dimensions differ from the ensemble dimensions.
func (e *Ensemble) Set(m mat.Matrix) error {
	n, d := e.x.Dims()
	if r, c := m.Dims(); r != n || c != d {
		return fmt.Errorf("%w: ensemble [%d x %d], members [%d x %d]", filter.ErrDimensionMismatch, n, d, r, c)
	}

	e.x.Copy(m)

	return nil
}

// Mean returns ensemble mean.
func (e *Ensemble) Mean() *mat.VecDense {
	mean := matrix.ColMeans(e.x)
	return mat.NewVecDense(len(mean), mean)
}

// Cov returns ensemble sample covariance.
// Ensemble with a single member has zero covariance.
func (e *Ensemble) Cov() *mat.SymDense {
	n, d := e.x.Dims()
	cov := mat.NewSymDense(d, nil)
	if n < 2 {
		return cov
	}

	stat.CovarianceMatrix(cov, e.x, nil)

	return cov
}

// Estimate returns ensemble mean and covariance as filter estimate.
// Estimate of a single member ensemble has zero covariance.
func (e *Ensemble) Estimate() (filter.Estimate, error) {
	var (
		est *estimate.Base
		err error
	)

	if e.Size() < 2 {
		est, err = estimate.NewBase(e.Mean())
	} else {
		est, err = estimate.NewBaseWithCov(e.Mean(), e.Cov())
	}

	if err != nil {
		return nil, err
	}

	return est, nil
}

// String implements the Stringer interface.
func (e *Ensemble) String() string {
	return fmt.Sprintf("Ensemble{\nMembers=%v\n}", mat.Formatted(e.x, mat.Prefix("        "), mat.Squeeze()))
}
