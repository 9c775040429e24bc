package programs

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/gpufractal/navigator"
)

type recordingSink struct {
	ints   map[string][]int32
	floats map[string][]float32
	vecs   map[string][]mgl32.Vec2
	order  []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		ints:   make(map[string][]int32),
		floats: make(map[string][]float32),
		vecs:   make(map[string][]mgl32.Vec2),
	}
}

func (s *recordingSink) Uniform1iv(name string, values []int32) {
	s.ints[name] = values
	s.order = append(s.order, name)
}

func (s *recordingSink) Uniform1fv(name string, values []float32) {
	s.floats[name] = values
	s.order = append(s.order, name)
}

func (s *recordingSink) Uniform2fv(name string, values []mgl32.Vec2) {
	s.vecs[name] = values
	s.order = append(s.order, name)
}

func TestLoadUniforms(t *testing.T) {
	block := MandelbrotUniforms{
		Center:        mgl32.Vec2{-0.5, 0.25},
		Size:          mgl32.Vec2{4, 3},
		MaxIterations: 40,
		Cutoff:        10,
		IsMandelbrot:  1,
	}

	sink := newRecordingSink()
	if err := LoadUniforms(block, sink); err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"center", "size", "max_iterations", "cutoff", "is_mandelbrot", "julia_coeff"}
	if !slices.Equal(sink.order, wantOrder) {
		t.Errorf("loaded %v, want %v", sink.order, wantOrder)
	}
	if got := sink.vecs["center"]; len(got) != 1 || got[0] != block.Center {
		t.Errorf("center = %v", got)
	}
	if got := sink.ints["max_iterations"]; len(got) != 1 || got[0] != 40 {
		t.Errorf("max_iterations = %v", got)
	}
	if got := sink.floats["cutoff"]; len(got) != 1 || got[0] != 10 {
		t.Errorf("cutoff = %v", got)
	}
}

func TestLoadUniformsPointer(t *testing.T) {
	sink := newRecordingSink()
	if err := LoadUniforms(&NewtonUniforms{PolyDegree: 3}, sink); err != nil {
		t.Fatal(err)
	}

	if got := len(sink.vecs["poly_coeffs"]); got != MaxTerms {
		t.Errorf("poly_coeffs has %d elements, want %d", got, MaxTerms)
	}
	if got := len(sink.vecs["poly_dx_coeffs"]); got != MaxTerms-1 {
		t.Errorf("poly_dx_coeffs has %d elements, want %d", got, MaxTerms-1)
	}
	if got := sink.ints["poly_degree"]; len(got) != 1 || got[0] != 3 {
		t.Errorf("poly_degree = %v", got)
	}
}

func TestLoadUniformsUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		block any
	}{
		{"int field", struct {
			X int `uniform:"x"`
		}{}},
		{"float64 array", struct {
			X [2]float64 `uniform:"x"`
		}{}},
		{"not a struct", 5},
		{"nil pointer", (*NewtonUniforms)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := LoadUniforms(tt.block, newRecordingSink()); !errors.Is(err, ErrUnsupportedUniform) {
				t.Errorf("LoadUniforms() = %v, want ErrUnsupportedUniform", err)
			}
		})
	}
}

func TestLoadUniformsSkipsUntagged(t *testing.T) {
	block := struct {
		Name  string
		Scale float32 `uniform:"scale"`
	}{Name: "ignored", Scale: 2}

	sink := newRecordingSink()
	if err := LoadUniforms(block, sink); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(sink.order, []string{"scale"}) {
		t.Errorf("loaded %v, want [scale]", sink.order)
	}
}

func TestCompileNewton(t *testing.T) {
	frame := navigator.Frame{Center: mgl64.Vec2{0, 0}, Size: mgl64.Vec2{4, 4}}

	var c Compiler
	block, err := c.Compile(context.Background(), Scene{Params: DefaultNewton()}, frame)
	if err != nil {
		t.Fatal(err)
	}
	u := block.(NewtonUniforms)

	if u.PolyDegree != 3 || u.SolutionCount != 3 {
		t.Errorf("degree %d with %d solutions, want 3 and 3", u.PolyDegree, u.SolutionCount)
	}
	if u.PolyCoeffs[0] != (mgl32.Vec2{3, 0}) || u.PolyCoeffs[3] != (mgl32.Vec2{1, 0}) || u.PolyCoeffs[4] != (mgl32.Vec2{}) {
		t.Errorf("poly_coeffs = %v", u.PolyCoeffs[:5])
	}
	if u.PolyDxCoeffs[2] != (mgl32.Vec2{3, 0}) {
		t.Errorf("poly_dx_coeffs = %v", u.PolyDxCoeffs[:4])
	}
	if u.Size != (mgl32.Vec2{4, 4}) || u.MaxIterations != 50 {
		t.Errorf("size %v max iterations %d", u.Size, u.MaxIterations)
	}

	// x^3 = -3 has the real root -∛3.
	if root := u.Solutions[0]; math.Abs(float64(root[0])+1.4422496) > 1e-5 || math.Abs(float64(root[1])) > 1e-5 {
		t.Errorf("first solution = %v, want (-1.44225, 0)", root)
	}
}

func TestCompilerCachesRoots(t *testing.T) {
	p := DefaultNewton()

	var c Compiler
	first, err := c.Roots(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	first[0] = 99

	second, err := c.Roots(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if second[0] == 99 {
		t.Error("Roots returned the cached slice")
	}

	// A canceled context fails only when solving is needed.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Roots(ctx, p); err != nil {
		t.Errorf("cached Roots with canceled context = %v", err)
	}

	p.Poly = []complex128{-1, 0, 1}
	if _, err := c.Roots(ctx, p); !errors.Is(err, context.Canceled) {
		t.Errorf("Roots of new polynomial with canceled context = %v, want context.Canceled", err)
	}
}

func TestCompileRejectsInvalidScene(t *testing.T) {
	var c Compiler
	if _, err := c.Compile(context.Background(), Scene{}, navigator.Frame{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Compile(empty scene) = %v, want ErrInvalidParams", err)
	}

	if _, err := (Scene{Params: MandelbrotParams{}}).Uniforms(navigator.Frame{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Uniforms(zero params) = %v, want ErrInvalidParams", err)
	}
}
