package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Observer is a linear observation model
//
//	y = C*x
type Observer struct {
	// C is observation matrix
	C *mat.Dense
}

// NewObserver creates new linear observer with observation matrix C.
// It returns error if C is nil.
func NewObserver(C mat.Matrix) (*Observer, error) {
	if C == nil {
		return nil, fmt.Errorf("observation matrix must be defined")
	}

	return &Observer{C: mat.DenseCopyOf(C)}, nil
}

// Identity creates an observer which observes the full state of length n.
func Identity(n int) (*Observer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid state dimension: %d", n)
	}

	C, err := matrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, err
	}

	return &Observer{C: mat.DenseCopyOf(C)}, nil
}

// Observe returns external/observable state given internal state x.
func (o *Observer) Observe(x mat.Vector) (mat.Vector, error) {
	ny, nx := o.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("%w: state length %d, observer %d", filter.ErrDimensionMismatch, x.Len(), nx)
	}

	out := mat.NewVecDense(ny, nil)
	out.MulVec(o.C, x)

	return out, nil
}

// Dims returns output (ny) and state (nx) dimensions.
func (o *Observer) Dims() (ny, nx int) {
	return o.C.Dims()
}
