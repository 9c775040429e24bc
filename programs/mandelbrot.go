package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"math/cmplx"
)

var ErrNoCPUImplementation = errors.New("programs: fractal does not have a CPU implementation")

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

// EscapeCount returns the iteration at which the orbit of c leaves the cutoff
// radius, or MaxIterations if it never does. It matches mandelbrot.frag.
func EscapeCount(p Params, c complex128) (int, error) {
	switch p := p.(type) {
	case MandelbrotParams:
		return escape(c, c, p.MaxIterations, p.Cutoff), nil
	case JuliaParams:
		return escape(c, p.C, p.MaxIterations, p.Cutoff), nil
	default:
		return 0, fmt.Errorf("%w: %v is not an escape-time fractal", ErrNoCPUImplementation, p.Kind())
	}
}

func escape(z, add complex128, maxIterations int, cutoff float64) int {
	i := 0
	for ; i < maxIterations; i++ {
		z = z*z + add
		if cmplx.Abs(z) > cutoff {
			break
		}
	}
	return i
}
