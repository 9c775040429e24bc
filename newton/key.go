package newton

import (
	"math"
	"slices"
)

// Resolution is the quantization scale of Key: values are compared at four
// decimal digits.
const Resolution = 1e4

// Key is a complex value quantized to Resolution. Converged iterates with
// equal keys are the same root.
type Key struct {
	Re, Im int64
}

// keyLimit bounds quantized components so the int64 conversion is defined.
const keyLimit = 1 << 62

// Quantize rounds both components of z to 1/Resolution, half to even.
// Components beyond ±2⁶²/Resolution saturate.
func Quantize(z complex128) Key {
	return Key{
		Re: quantize(real(z)),
		Im: quantize(imag(z)),
	}
}

func quantize(x float64) int64 {
	return int64(math.Max(-keyLimit, math.Min(keyLimit, math.RoundToEven(x*Resolution))))
}

// Less orders keys by real part, then imaginary part.
func (k Key) Less(o Key) bool {
	if k.Re != o.Re {
		return k.Re < o.Re
	}
	return k.Im < o.Im
}

// Compare returns -1, 0 or +1 following Less.
func (k Key) Compare(o Key) int {
	switch {
	case k.Less(o):
		return -1
	case o.Less(k):
		return 1
	}
	return 0
}

// Complex returns the center of the quantization cell.
func (k Key) Complex() complex128 {
	return complex(float64(k.Re)/Resolution, float64(k.Im)/Resolution)
}

// SortRoots sorts roots in place by their quantized key.
func SortRoots(roots []complex128) {
	slices.SortStableFunc(roots, func(a, b complex128) int {
		return Quantize(a).Compare(Quantize(b))
	})
}
