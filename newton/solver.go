// Package newton finds the roots of complex polynomials with Newton's method.
//
// Closed-form roots do not exist for arbitrary degree, so FindAll discovers
// them numerically: every seed of a square grid is iterated to convergence and
// the results are deduplicated by Quantize. Each distinct root is the
// attractor of one basin of the Newton fractal.
package newton

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/stewi1014/gpufractal/poly"
)

const (
	// MaxIterations caps the iterations of Converge.
	MaxIterations = 1000
	// Epsilon is the step length below which Converge stops early.
	Epsilon = 1e-5
	// MaxMagnitude bounds the components of a usable final iterate.
	MaxMagnitude = 1e12
)

var (
	ErrZeroDerivative = errors.New("newton: derivative is zero")
	ErrNonFinite      = errors.New("newton: iterate is not finite")
	ErrOutOfRange     = errors.New("newton: iterate out of range")
	ErrInvalidGrid    = errors.New("newton: invalid seed grid")
)

// Solver iterates Newton's method for one polynomial.
type Solver struct {
	p  poly.Polynomial
	dx poly.Polynomial
}

// NewSolver returns a Solver for p. The derivative is computed once.
func NewSolver(p poly.Polynomial) *Solver {
	return &Solver{
		p:  p,
		dx: p.Derivative(),
	}
}

// Polynomial returns the polynomial being solved.
func (s *Solver) Polynomial() poly.Polynomial {
	return s.p
}

// Derivative returns the derivative of the polynomial being solved.
func (s *Solver) Derivative() poly.Polynomial {
	return s.dx
}

// Converge runs up to MaxIterations steps of z ← z − P(z)/P'(z) from seed and
// returns the last iterate. Running out of iterations is not an error: the
// best available iterate is returned as is.
//
// If P'(z) is zero at an iterate the step is undefined and ErrZeroDerivative is
// returned. An iterate that overflows returns ErrNonFinite. In both cases the
// returned value is the last finite iterate and must not be used as a root.
// A final iterate with a component beyond MaxMagnitude returns ErrOutOfRange.
func (s *Solver) Converge(seed complex128) (complex128, error) {
	z := seed
	for i := 0; i < MaxIterations; i++ {
		d := s.dx.Eval(z)
		if d == 0 {
			return z, fmt.Errorf("%w at %v (seed %v, iteration %d)", ErrZeroDerivative, z, seed, i)
		}

		next := z - s.p.Eval(z)/d
		if cmplx.IsNaN(next) || cmplx.IsInf(next) {
			return z, fmt.Errorf("%w (seed %v, iteration %d)", ErrNonFinite, seed, i)
		}

		step := cmplx.Abs(next - z)
		z = next
		if step < Epsilon {
			break
		}
	}

	if math.Abs(real(z)) > MaxMagnitude || math.Abs(imag(z)) > MaxMagnitude {
		return z, fmt.Errorf("%w: %v (seed %v)", ErrOutOfRange, z, seed)
	}
	return z, nil
}

// FindAll scans the square [-fieldSize/2, fieldSize/2)² with spacing stepSize,
// converges every seed and returns the distinct roots sorted by Key.
// Seeds that fail to converge with an error are skipped.
func (s *Solver) FindAll(fieldSize, stepSize float64) ([]complex128, error) {
	res, err := s.Discover(context.Background(), fieldSize, stepSize, Options{Workers: 1})
	return res.Roots, err
}

// FindAllContext is FindAll spread over opts.Workers goroutines. The result
// is identical to FindAll.
func (s *Solver) FindAllContext(ctx context.Context, fieldSize, stepSize float64, opts Options) ([]complex128, error) {
	res, err := s.Discover(ctx, fieldSize, stepSize, opts)
	return res.Roots, err
}

// gridAxis returns the coordinates of one grid axis: min + i*step for every i
// with a value below max.
func gridAxis(fieldSize, stepSize float64) ([]float64, error) {
	if !(fieldSize > 0) || !(stepSize > 0) || math.IsInf(fieldSize, 0) || math.IsInf(stepSize, 0) {
		return nil, fmt.Errorf("%w: field size %v, step size %v", ErrInvalidGrid, fieldSize, stepSize)
	}
	if fieldSize/stepSize > maxAxisSeeds {
		return nil, fmt.Errorf("%w: %v seeds per axis exceeds %d", ErrInvalidGrid, math.Ceil(fieldSize/stepSize), maxAxisSeeds)
	}

	lower, upper := -fieldSize/2, fieldSize/2
	var axis []float64
	for i := 0; ; i++ {
		v := lower + float64(i)*stepSize
		if v >= upper {
			break
		}
		axis = append(axis, v)
	}
	return axis, nil
}

const maxAxisSeeds = 1 << 14
