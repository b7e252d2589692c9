package noise

import (
	"fmt"
	"time"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/go-enkf/rand"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution.
	// It is nil when cov is singular.
	dist *distmv.Normal
	// std draws standard normal values for singular covariances
	std distuv.Normal
	// sqrt is a square root of cov: sqrt*sqrt' = cov
	sqrt *mat.Dense
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
	// seed seeds the random source
	seed uint64
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// The random source is seeded from the current time.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov mat.Symmetric) (*Gaussian, error) {
	return NewGaussianWithSeed(mean, cov, uint64(time.Now().UnixNano()))
}

// NewGaussianWithSeed creates new Gaussian noise with given mean and covariance
// whose random source is seeded with seed.
// cov must be positive semi-definite; singular covariances (including zero) are allowed.
// It returns error if mean and cov dimensions differ or if cov is not a valid covariance.
func NewGaussianWithSeed(mean []float64, cov mat.Symmetric, seed uint64) (*Gaussian, error) {
	if cov == nil {
		return nil, fmt.Errorf("%w: nil covariance", filter.ErrInvalidCovariance)
	}

	size := cov.SymmetricDim()
	if len(mean) != size {
		return nil, fmt.Errorf("%w: mean %d, cov %d x %d", filter.ErrDimensionMismatch, len(mean), size, size)
	}

	sqrt, err := rand.SqrtCov(cov)
	if err != nil {
		return nil, err
	}

	m := make([]float64, size)
	copy(m, mean)

	c := mat.NewSymDense(size, nil)
	c.CopySym(cov)

	g := &Gaussian{
		sqrt: sqrt,
		mean: m,
		cov:  c,
		seed: seed,
	}
	g.init()

	return g, nil
}

func (g *Gaussian) init() {
	src := xrand.NewSource(g.seed)
	g.std = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	// distmv requires positive definite covariance
	g.dist, _ = distmv.NewNormal(g.mean, g.cov, src)
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	if g.dist != nil {
		r := g.dist.Rand(nil)
		return mat.NewVecDense(len(r), r)
	}

	z := mat.NewVecDense(len(g.mean), nil)
	for i := 0; i < z.Len(); i++ {
		z.SetVec(i, g.std.Rand())
	}

	sample := mat.NewVecDense(len(g.mean), nil)
	sample.MulVec(g.sqrt, z)
	sample.AddVec(sample, mat.NewVecDense(len(g.mean), g.Mean()))

	return sample
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	return cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset resets Gaussian noise: the random source is reseeded
// with the original seed so the sequence of samples is replayed.
func (g *Gaussian) Reset() error {
	g.init()

	return nil
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
