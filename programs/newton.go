package programs

import (
	_ "embed"
	"math/cmplx"

	"github.com/stewi1014/gpufractal/poly"
)

//go:embed shaders/newton.frag
var newtonFragment string

// NewtonBasin iterates Newton's method from z the way newton.frag does and
// returns the index of the closest of roots and the iterations taken. The
// index is -1 when roots is empty.
func NewtonBasin(p NewtonParams, roots []complex128, z complex128) (index, iterations int) {
	polynomial, err := p.Polynomial()
	if err != nil {
		return -1, 0
	}
	return newtonBasin(polynomial, polynomial.Derivative(), p.MaxIterations, p.Cutoff, roots, z)
}

func newtonBasin(p, dx poly.Polynomial, maxIterations int, cutoff float64, roots []complex128, z complex128) (int, int) {
	i := 0
	for ; i < maxIterations; i++ {
		d := dx.Eval(z)
		if d == 0 {
			break
		}

		next := z - p.Eval(z)/d
		step := cmplx.Abs(next - z)
		z = next
		if step < cutoff {
			break
		}
	}

	closest, best := -1, 0.0
	for j, r := range roots {
		if d := cmplx.Abs(r - z); closest < 0 || d < best {
			closest, best = j, d
		}
	}
	return closest, i
}
