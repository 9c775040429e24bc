// Package poly implements immutable polynomials with complex coefficients.
package poly

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrNoCoefficients = errors.New("poly: polynomial needs at least one coefficient")
	ErrInvalidComplex = errors.New("poly: invalid complex value")
)

// Polynomial is a polynomial with complex coefficients. The coefficient at
// index i belongs to x^i, so index 0 is the constant term.
//
// The zero value and the derivative of a constant have no coefficients and
// report a degree of -1; they evaluate to 0 everywhere.
type Polynomial struct {
	coeffs []complex128
}

// New returns the polynomial with the given coefficients, lowest exponent first.
func New(coeffs ...complex128) (Polynomial, error) {
	if len(coeffs) == 0 {
		return Polynomial{}, ErrNoCoefficients
	}

	return Polynomial{coeffs: append([]complex128(nil), coeffs...)}, nil
}

// MustNew is like New but panics on error. It is meant for literals.
func MustNew(coeffs ...complex128) Polynomial {
	p, err := New(coeffs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Degree returns len(coefficients)-1.
func (p Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Coeffs returns a copy of the coefficients, lowest exponent first.
func (p Polynomial) Coeffs() []complex128 {
	return append([]complex128(nil), p.coeffs...)
}

// Coeff returns the coefficient of x^exponent, or 0 if it is out of range.
func (p Polynomial) Coeff(exponent int) complex128 {
	if exponent < 0 || exponent >= len(p.coeffs) {
		return 0
	}
	return p.coeffs[exponent]
}

// Pairs returns the coefficients as (real, imag) pairs, lowest exponent first.
func (p Polynomial) Pairs() [][2]float64 {
	pairs := make([][2]float64, len(p.coeffs))
	for i, c := range p.coeffs {
		pairs[i] = [2]float64{real(c), imag(c)}
	}
	return pairs
}

// Eval evaluates the polynomial at z using Horner's method.
func (p Polynomial) Eval(z complex128) complex128 {
	var result complex128
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result*z + p.coeffs[i]
	}
	return result
}

// Derivative returns the symbolic derivative. Its degree is one less than p's.
func (p Polynomial) Derivative() Polynomial {
	if len(p.coeffs) <= 1 {
		return Polynomial{}
	}

	d := make([]complex128, len(p.coeffs)-1)
	for e := range d {
		d[e] = complex(float64(e+1), 0) * p.coeffs[e+1]
	}
	return Polynomial{coeffs: d}
}

// Equal reports whether p and q have identical coefficients.
func (p Polynomial) Equal(q Polynomial) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i := range p.coeffs {
		if p.coeffs[i] != q.coeffs[i] {
			return false
		}
	}
	return true
}

// String formats the nonzero terms from the highest exponent down, e.g.
// "(1+0i) x^3 + (-1+0i)". A polynomial with only zero terms prints as "0".
func (p Polynomial) String() string {
	var terms []string
	for e := len(p.coeffs) - 1; e >= 0; e-- {
		c := p.coeffs[e]
		if c == 0 {
			continue
		}

		coeff := strconv.FormatComplex(c, 'g', -1, 128)
		switch e {
		case 0:
			terms = append(terms, coeff)
		case 1:
			terms = append(terms, coeff+" x")
		default:
			terms = append(terms, fmt.Sprintf("%s x^%d", coeff, e))
		}
	}

	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

// ParseCoefficient parses "re" or "re,im" into a complex value. A leading
// "r" scales the value by a random real in [0, 1), a leading "R" by a random
// complex value with both parts in [0, 1). A bare prefix stands for 1.
func ParseCoefficient(text string) (complex128, error) {
	return ParseCoefficientRand(text, nil)
}

// ParseCoefficientRand is ParseCoefficient drawing random scales from rng.
// A nil rng uses the global source of math/rand/v2.
func ParseCoefficientRand(text string, rng *rand.Rand) (complex128, error) {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}

	value := strings.TrimSpace(text)
	scale := complex(1, 0)
	switch {
	case strings.HasPrefix(value, "r"):
		scale = complex(float(), 0)
		value = strings.TrimPrefix(value, "r")
	case strings.HasPrefix(value, "R"):
		im := float()
		scale = complex(float(), im)
		value = strings.TrimPrefix(value, "R")
	default:
		return parseComplex(text, value)
	}
	if value == "" {
		value = "1"
	}

	c, err := parseComplex(text, value)
	return c * scale, err
}

func parseComplex(text, value string) (complex128, error) {
	reText, imText, hasImag := strings.Cut(value, ",")

	re, err := strconv.ParseFloat(strings.TrimSpace(reText), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidComplex, text, err)
	}

	var im float64
	if hasImag {
		im, err = strconv.ParseFloat(strings.TrimSpace(imText), 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", ErrInvalidComplex, text, err)
		}
	}

	return complex(re, im), nil
}

// Parse builds a polynomial from coefficient strings, lowest exponent first.
// Each field is parsed by ParseCoefficient.
func Parse(fields ...string) (Polynomial, error) {
	coeffs := make([]complex128, 0, len(fields))
	for i, field := range fields {
		c, err := ParseCoefficient(field)
		if err != nil {
			return Polynomial{}, fmt.Errorf("coefficient %d: %w", i, err)
		}
		coeffs = append(coeffs, c)
	}

	return New(coeffs...)
}
