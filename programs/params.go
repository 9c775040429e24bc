package programs

import (
	"errors"
	"fmt"
	"math"

	"github.com/stewi1014/gpufractal/poly"
)

// MaxTerms is the number of polynomial coefficients the Newton shader holds.
const MaxTerms = 16

var (
	ErrInvalidParams = errors.New("programs: invalid parameters")
	ErrTooManyTerms  = fmt.Errorf("%w: polynomial has more than %d terms", ErrInvalidParams, MaxTerms)
	ErrDegreeTooLow  = fmt.Errorf("%w: polynomial degree must be at least 1", ErrInvalidParams)
)

// Params configures one fractal kind. It is implemented by MandelbrotParams,
// JuliaParams and NewtonParams only.
type Params interface {
	Kind() Kind
	Validate() error
	params()
}

// MandelbrotParams iterates z ← z² + c from z = c for every pixel c.
type MandelbrotParams struct {
	MaxIterations int
	// Cutoff is the escape radius.
	Cutoff float64
}

// JuliaParams iterates z ← z² + C from every pixel z. The pixel is not added
// on the first step, so the first iterate is z² + C rather than z² + z + C.
type JuliaParams struct {
	MaxIterations int
	Cutoff        float64
	C             complex128
}

// NewtonParams colours every pixel by the root its Newton iteration reaches.
type NewtonParams struct {
	MaxIterations int
	// Cutoff is the step length that ends the iteration of a pixel.
	Cutoff float64
	// Poly holds the polynomial coefficients in ascending exponent order.
	Poly []complex128

	// DarkenBrightenShift, DarkenBrightenClamp and DarkenBrightenExp shade
	// pixels by how many iterations they took.
	DarkenBrightenShift float64
	DarkenBrightenClamp float64
	DarkenBrightenExp   float64

	// FieldSize and StepSize are the seed grid used to discover the roots.
	FieldSize float64
	StepSize  float64
}

// DefaultMandelbrot returns the default Mandelbrot parameters.
func DefaultMandelbrot() MandelbrotParams {
	return MandelbrotParams{
		MaxIterations: 40,
		Cutoff:        10,
	}
}

// DefaultJulia returns the default Julia parameters.
func DefaultJulia() JuliaParams {
	return JuliaParams{
		MaxIterations: 40,
		Cutoff:        10,
		C:             complex(-0.8, 0.156),
	}
}

// DefaultNewton returns the default Newton parameters, rendering 3 + x³.
func DefaultNewton() NewtonParams {
	return NewtonParams{
		MaxIterations:       50,
		Cutoff:              1e-4,
		Poly:                []complex128{3, 0, 0, 1},
		DarkenBrightenShift: 0.75,
		DarkenBrightenClamp: 0.5,
		DarkenBrightenExp:   0.6,
		FieldSize:           5,
		StepSize:            0.1,
	}
}

// Default returns the default parameters of kind k.
func Default(k Kind) (Params, error) {
	switch k {
	case KindMandelbrot:
		return DefaultMandelbrot(), nil
	case KindJulia:
		return DefaultJulia(), nil
	case KindNewton:
		return DefaultNewton(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}
}

func (MandelbrotParams) Kind() Kind { return KindMandelbrot }
func (JuliaParams) Kind() Kind      { return KindJulia }
func (NewtonParams) Kind() Kind     { return KindNewton }

func (MandelbrotParams) params() {}
func (JuliaParams) params()      {}
func (NewtonParams) params()     {}

func (p MandelbrotParams) Validate() error {
	return validateEscape(p.MaxIterations, p.Cutoff)
}

func (p JuliaParams) Validate() error {
	if err := validateEscape(p.MaxIterations, p.Cutoff); err != nil {
		return err
	}
	if !finite(real(p.C)) || !finite(imag(p.C)) {
		return fmt.Errorf("%w: julia constant %v", ErrInvalidParams, p.C)
	}
	return nil
}

func (p NewtonParams) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	}
	if !(p.Cutoff > 0) || !finite(p.Cutoff) {
		return fmt.Errorf("%w: cutoff %v", ErrInvalidParams, p.Cutoff)
	}
	if len(p.Poly) > MaxTerms {
		return fmt.Errorf("%w (got %d)", ErrTooManyTerms, len(p.Poly))
	}
	if len(p.Poly) < 2 || p.Poly[len(p.Poly)-1] == 0 {
		return ErrDegreeTooLow
	}
	for _, c := range p.Poly {
		if !finite(real(c)) || !finite(imag(c)) {
			return fmt.Errorf("%w: coefficient %v", ErrInvalidParams, c)
		}
	}
	if !(p.DarkenBrightenExp > 0) {
		return fmt.Errorf("%w: darken/brighten exponent %v", ErrInvalidParams, p.DarkenBrightenExp)
	}
	if !(p.FieldSize > 0) || !(p.StepSize > 0) {
		return fmt.Errorf("%w: seed grid %v/%v", ErrInvalidParams, p.FieldSize, p.StepSize)
	}
	return nil
}

// Polynomial returns p.Poly as a polynomial.
func (p NewtonParams) Polynomial() (poly.Polynomial, error) {
	return poly.New(p.Poly...)
}

func validateEscape(maxIterations int, cutoff float64) error {
	if maxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, maxIterations)
	}
	if !(cutoff > 0) || !finite(cutoff) {
		return fmt.Errorf("%w: cutoff %v", ErrInvalidParams, cutoff)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
