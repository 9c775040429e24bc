package programs

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/gpufractal"
	"github.com/stewi1014/gpufractal/navigator"
	"github.com/stewi1014/gpufractal/newton"
)

var ErrTooManyRoots = fmt.Errorf("%w: more roots than the shader holds", ErrInvalidParams)

func init() {
	gob.Register(MandelbrotParams{})
	gob.Register(JuliaParams{})
	gob.Register(NewtonParams{})
}

// Scene is what gets rendered, independent of where the view is.
type Scene struct {
	Params Params
}

// Uniforms returns the uniform block rendering s over frame. Newton roots are
// solved on every call; use a Compiler to reuse them between frames.
func (s Scene) Uniforms(frame navigator.Frame) (Block, error) {
	var c Compiler
	return c.Compile(context.Background(), s, frame)
}

// Compiler turns scenes into uniform blocks, keeping the Newton roots of the
// last polynomial it solved. A Compiler must not be used concurrently.
type Compiler struct {
	// Workers bounds the goroutines used for root discovery.
	Workers int

	solved bool
	coeffs []complex128
	field  float64
	step   float64
	roots  []complex128
}

// Compile validates s and returns its uniform block for frame.
func (c *Compiler) Compile(ctx context.Context, s Scene, frame navigator.Frame) (Block, error) {
	if s.Params == nil {
		return nil, fmt.Errorf("%w: scene has no parameters", ErrInvalidParams)
	}
	if err := s.Params.Validate(); err != nil {
		return nil, err
	}

	center, size := vec2(frame.Center), vec2(frame.Size)

	switch p := s.Params.(type) {
	case MandelbrotParams:
		return MandelbrotUniforms{
			Center:        center,
			Size:          size,
			MaxIterations: int32(p.MaxIterations),
			Cutoff:        float32(p.Cutoff),
			IsMandelbrot:  1,
		}, nil

	case JuliaParams:
		return MandelbrotUniforms{
			Center:        center,
			Size:          size,
			MaxIterations: int32(p.MaxIterations),
			Cutoff:        float32(p.Cutoff),
			JuliaCoeff:    complexVec(p.C),
		}, nil

	case NewtonParams:
		roots, err := c.Roots(ctx, p)
		if err != nil {
			return nil, err
		}

		polynomial, err := p.Polynomial()
		if err != nil {
			return nil, err
		}

		u := NewtonUniforms{
			Center:              center,
			Size:                size,
			PolyDegree:          int32(polynomial.Degree()),
			SolutionCount:       int32(len(roots)),
			MaxIterations:       int32(p.MaxIterations),
			Cutoff:              float32(p.Cutoff),
			DarkenBrightenShift: float32(p.DarkenBrightenShift),
			DarkenBrightenClamp: float32(p.DarkenBrightenClamp),
			DarkenBrightenExp:   float32(p.DarkenBrightenExp),
		}
		for i, coeff := range polynomial.Coeffs() {
			u.PolyCoeffs[i] = complexVec(coeff)
		}
		for i, coeff := range polynomial.Derivative().Coeffs() {
			u.PolyDxCoeffs[i] = complexVec(coeff)
		}
		for i, root := range roots {
			u.Solutions[i] = complexVec(root)
		}
		return u, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, p)
	}
}

// Roots returns the sorted roots of p.Poly discovered over p's seed grid. The
// result is reused while the polynomial and grid stay the same.
func (c *Compiler) Roots(ctx context.Context, p NewtonParams) ([]complex128, error) {
	if c.solved && slices.Equal(c.coeffs, p.Poly) && c.field == p.FieldSize && c.step == p.StepSize {
		return slices.Clone(c.roots), nil
	}

	polynomial, err := p.Polynomial()
	if err != nil {
		return nil, err
	}

	roots, err := newton.NewSolver(polynomial).FindAllContext(ctx, p.FieldSize, p.StepSize, newton.Options{
		Workers: c.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("solving %v: %w", polynomial, err)
	}
	if len(roots) > MaxTerms {
		return nil, fmt.Errorf("%w (found %d for %v)", ErrTooManyRoots, len(roots), polynomial)
	}

	gpufractal.Logger().Debug("newton roots solved", "poly", polynomial.String(), "roots", len(roots))

	c.solved = true
	c.coeffs = slices.Clone(p.Poly)
	c.field, c.step = p.FieldSize, p.StepSize
	c.roots = roots
	return slices.Clone(roots), nil
}

// EncodeScene writes s to w with encoding/gob.
func EncodeScene(w io.Writer, s Scene) error {
	if s.Params == nil {
		return fmt.Errorf("%w: scene has no parameters", ErrInvalidParams)
	}
	if err := s.Params.Validate(); err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(s)
}

// DecodeScene reads a scene written by EncodeScene.
func DecodeScene(r io.Reader) (Scene, error) {
	var s Scene
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decoding scene: %w", err)
	}
	if s.Params == nil {
		return Scene{}, fmt.Errorf("%w: scene has no parameters", ErrInvalidParams)
	}
	if err := s.Params.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func vec2(v mgl64.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}

func complexVec(c complex128) mgl32.Vec2 {
	return mgl32.Vec2{float32(real(c)), float32(imag(c))}
}
