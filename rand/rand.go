package rand

import (
	"fmt"
	"math"

	filter "github.com/milosgajdos/go-enkf"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// psdTol is the relative tolerance used when deciding whether an eigenvalue is negative.
const psdTol = 1e-10

// SqrtCov returns a matrix L such that L*L' = cov.
// It uses the eigendecomposition of cov so that (almost) singular covariance
// matrices, including the zero matrix, are supported.
// It fails with filter.ErrInvalidCovariance if cov has non-finite entries,
// is not positive semi-definite or if its eigendecomposition fails.
func SqrtCov(cov mat.Symmetric) (*mat.Dense, error) {
	if cov == nil {
		return nil, fmt.Errorf("%w: nil matrix", filter.ErrInvalidCovariance)
	}

	n := cov.SymmetricDim()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", filter.ErrInvalidCovariance)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := cov.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite entry at (%d, %d)", filter.ErrInvalidCovariance, i, j)
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition failed", filter.ErrInvalidCovariance)
	}

	vals := eig.Values(nil)
	maxAbs := 0.0
	for _, v := range vals {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	for i, v := range vals {
		if v < -psdTol*math.Max(1, maxAbs) {
			return nil, fmt.Errorf("%w: negative eigenvalue %g", filter.ErrInvalidCovariance, v)
		}
		// clamp round-off noise around zero
		vals[i] = math.Sqrt(math.Max(v, 0))
	}

	L := new(mat.Dense)
	eig.VectorsTo(L)
	L.Mul(L, mat.NewDiagDense(n, vals))

	return L, nil
}

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov.
// It returns matrix which contains the randomly generated samples stored in its columns.
// If src is nil the global random source is used.
// It fails with error if n is non-positive or if cov is not a valid covariance matrix.
func WithCovN(cov mat.Symmetric, n int, src rand.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	L, err := SqrtCov(cov)
	if err != nil {
		return nil, err
	}

	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	rows := cov.SymmetricDim()
	data := make([]float64, rows*n)
	for i := range data {
		data[i] = std.Rand()
	}
	samples := mat.NewDense(rows, n, data)
	samples.Mul(L, samples)

	return samples, nil
}
