package newton

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/stewi1014/gpufractal/poly"
)

var cubeRootsOfUnity = []complex128{
	complex(-0.5, -math.Sqrt(3)/2),
	complex(-0.5, math.Sqrt(3)/2),
	1,
}

func TestConverge(t *testing.T) {
	s := NewSolver(poly.MustNew(-1, 0, 0, 1))

	tests := []struct {
		name string
		seed complex128
		want complex128
	}{
		{"near one", 1.2 + 0.1i, 1},
		{"far negative real", -99.4, 1},
		{"upper half", -1 + 1i, cubeRootsOfUnity[1]},
		{"lower half", -1 - 1i, cubeRootsOfUnity[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Converge(tt.seed)
			if err != nil {
				t.Fatal(err)
			}
			if cmplx.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Converge(%v) = %v, want %v", tt.seed, got, tt.want)
			}
		})
	}
}

func TestConvergeZeroDerivative(t *testing.T) {
	s := NewSolver(poly.MustNew(-1, 0, 0, 1))
	if _, err := s.Converge(0); !errors.Is(err, ErrZeroDerivative) {
		t.Errorf("Converge(0) error = %v, want ErrZeroDerivative", err)
	}
}

func TestConvergeWithoutConvergenceIsNotAnError(t *testing.T) {
	// x^2 + 1 has no real roots, so a real seed wanders the real axis forever.
	s := NewSolver(poly.MustNew(1, 0, 1))
	z, err := s.Converge(0.5)
	if err != nil {
		t.Fatalf("Converge error = %v, want nil", err)
	}
	if imag(z) != 0 {
		t.Errorf("Converge(0.5) = %v, want a real iterate", z)
	}
}

func TestFindAllCubeRootsOfUnity(t *testing.T) {
	s := NewSolver(poly.MustNew(-1, 0, 0, 1))
	roots, err := s.FindAll(5, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 3 {
		t.Fatalf("FindAll returned %d roots %v, want 3", len(roots), roots)
	}
	for i, want := range cubeRootsOfUnity {
		if cmplx.Abs(roots[i]-want) > 1e-3 {
			t.Errorf("roots[%d] = %v, want %v", i, roots[i], want)
		}
	}
}

func TestFindAllComplexCoefficients(t *testing.T) {
	// 3 - 3i x^2 + 3i x^3 = 3i (x - r1)(x - r2)(x - r3)
	p := poly.MustNew(3, 0, -3i, 3i)
	roots, err := NewSolver(p).FindAll(5, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 3 {
		t.Fatalf("FindAll returned %d roots %v, want 3", len(roots), roots)
	}
	for _, r := range roots {
		if v := cmplx.Abs(p.Eval(r)); v > 1e-6 {
			t.Errorf("|P(%v)| = %v, want ~0", r, v)
		}
	}
}

func TestFindAllParallelMatchesSequential(t *testing.T) {
	s := NewSolver(poly.MustNew(-16, 0, 0, 0, 15, 0, 0, 0, 1))
	want, err := s.FindAll(4, 0.05)
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{0, 2, 7} {
		got, err := s.FindAllContext(context.Background(), 4, 0.05, Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("workers=%d: %d roots, want %d", workers, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("workers=%d: roots[%d] = %v, want %v", workers, i, got[i], want[i])
			}
		}
	}
}

func TestDiscoverCountsSkippedSeeds(t *testing.T) {
	// The grid contains the origin, where the derivative of x^3 - 1 vanishes.
	res, err := NewSolver(poly.MustNew(-1, 0, 0, 1)).Discover(context.Background(), 2, 0.5, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Seeds != 16 {
		t.Errorf("Seeds = %d, want 16", res.Seeds)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
}

func TestFindAllConstantPolynomial(t *testing.T) {
	res, err := NewSolver(poly.MustNew(2)).Discover(context.Background(), 1, 0.25, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Roots) != 0 {
		t.Errorf("Roots = %v, want none", res.Roots)
	}
	if res.Skipped != res.Seeds {
		t.Errorf("Skipped = %d, want all %d seeds", res.Skipped, res.Seeds)
	}
}

func TestFindAllInvalidGrid(t *testing.T) {
	s := NewSolver(poly.MustNew(-1, 1))
	for _, g := range [][2]float64{{0, 0.1}, {-1, 0.1}, {5, 0}, {5, -1}, {math.NaN(), 1}, {math.Inf(1), 1}, {1e9, 1e-9}} {
		if _, err := s.FindAll(g[0], g[1]); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("FindAll(%v, %v) error = %v, want ErrInvalidGrid", g[0], g[1], err)
		}
	}
}

func TestFindAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSolver(poly.MustNew(-1, 0, 0, 1)).FindAllContext(ctx, 5, 0.1, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGridAxis(t *testing.T) {
	axis, err := gridAxis(5, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(axis) != 50 {
		t.Errorf("len(axis) = %d, want 50", len(axis))
	}
	if axis[0] != -2.5 {
		t.Errorf("axis[0] = %v, want -2.5 (start is inclusive)", axis[0])
	}
	if last := axis[len(axis)-1]; last >= 2.5 {
		t.Errorf("last seed %v, want < 2.5 (end is exclusive)", last)
	}
}

func TestCatchPanic(t *testing.T) {
	err := func() (err error) {
		defer catchPanic(&err)
		panic("boom")
	}()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want recovered panic", err)
	}
}

func TestConvergeOutOfRange(t *testing.T) {
	// The only root, 1e16, lies beyond MaxMagnitude.
	s := NewSolver(poly.MustNew(-1e16, 1))
	if _, err := s.Converge(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Converge(0) error = %v, want ErrOutOfRange", err)
	}

	res, err := s.Discover(context.Background(), 2, 0.5, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Roots) != 0 || res.Skipped != res.Seeds {
		t.Errorf("Discover kept %d roots and skipped %d of %d seeds", len(res.Roots), res.Skipped, res.Seeds)
	}
}
