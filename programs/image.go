package programs

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/stewi1014/gpufractal/navigator"
)

var ErrInvalidImage = errors.New("programs: invalid image")

// rows rendered per goroutine
const chunkSize = 50

// Render samples s over frame on the CPU into a width×height image. Escape
// counts and Newton basins index palette the way the shaders index their
// palette texture.
func (c *Compiler) Render(ctx context.Context, s Scene, frame navigator.Frame, width, height int, palette color.Palette) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidImage, width, height)
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidImage)
	}
	if s.Params == nil {
		return nil, fmt.Errorf("%w: scene has no parameters", ErrInvalidParams)
	}
	if err := s.Params.Validate(); err != nil {
		return nil, err
	}

	sample, err := c.sampler(ctx, s.Params, palette)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	g, ctx := errgroup.WithContext(ctx)
	for chunkMin := 0; chunkMin < height; chunkMin += chunkSize {
		chunkMax := min(chunkMin+chunkSize, height)
		g.Go(func() error {
			for y := chunkMin; y < chunkMax; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				// Image rows run downwards, logical y upwards.
				ty := 1 - (float64(y)+0.5)/float64(height)
				for x := 0; x < width; x++ {
					tx := (float64(x) + 0.5) / float64(width)
					z := complex(
						frame.Center[0]+frame.Size[0]*(tx-0.5),
						frame.Center[1]+frame.Size[1]*(ty-0.5),
					)
					img.Set(x, y, sample(z))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func (c *Compiler) sampler(ctx context.Context, params Params, palette color.Palette) (func(complex128) color.Color, error) {
	switch p := params.(type) {
	case MandelbrotParams:
		return escapeSampler(p, p.MaxIterations, palette), nil

	case JuliaParams:
		return escapeSampler(p, p.MaxIterations, palette), nil

	case NewtonParams:
		roots, err := c.Roots(ctx, p)
		if err != nil {
			return nil, err
		}
		polynomial, err := p.Polynomial()
		if err != nil {
			return nil, err
		}
		dx := polynomial.Derivative()

		return func(z complex128) color.Color {
			index, iterations := newtonBasin(polynomial, dx, p.MaxIterations, p.Cutoff, roots, z)
			base := paletteAt(palette, float64(max(index, 0))/float64(max(len(roots)-1, 1)))
			return brighten(base, p.shade(iterations))
		}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrNoCPUImplementation, p)
	}
}

func escapeSampler(p Params, maxIterations int, palette color.Palette) func(complex128) color.Color {
	return func(z complex128) color.Color {
		n, _ := EscapeCount(p, z)
		return paletteAt(palette, float64(n)/float64(max(maxIterations-1, 1)))
	}
}

// shade maps an iteration count to a brightness offset, as newton.frag does.
func (p NewtonParams) shade(iterations int) float64 {
	s := float64(iterations)/float64(p.MaxIterations)*2 - 1
	s = math.Max(-1, math.Min(1, s+p.DarkenBrightenShift)) * p.DarkenBrightenClamp
	return math.Copysign(math.Pow(math.Abs(s), p.DarkenBrightenExp), s)
}

// paletteAt returns the palette entry at t in [0, 1].
func paletteAt(palette color.Palette, t float64) color.NRGBA {
	i := int(math.Round(t * float64(len(palette)-1)))
	i = max(0, min(i, len(palette)-1))
	return color.NRGBAModel.Convert(palette[i]).(color.NRGBA)
}

func brighten(c color.NRGBA, offset float64) color.NRGBA {
	channel := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, float64(v)+offset*255)))
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: c.A}
}
