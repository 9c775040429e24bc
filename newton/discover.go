package newton

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/stewi1014/gpufractal"
)

// Options controls a grid discovery.
type Options struct {
	// Workers is the number of goroutines scanning grid columns.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

// Result is the outcome of Discover.
type Result struct {
	// Roots are the distinct roots sorted by Key.
	Roots []complex128
	// Seeds is the number of grid seeds iterated.
	Seeds int
	// Skipped counts seeds dropped by a zero derivative or overflow.
	Skipped int
}

type column struct {
	keys    []Key
	values  []complex128
	skipped int
}

// Discover is FindAll with statistics. Grid columns are scanned in parallel;
// merging happens in column order so the first seed in scan order (x outer,
// y inner) supplies each root's value regardless of scheduling.
func (s *Solver) Discover(ctx context.Context, fieldSize, stepSize float64, opts Options) (Result, error) {
	axis, err := gridAxis(fieldSize, stepSize)
	if err != nil {
		return Result{}, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	columns := make([]column, len(axis))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, x := range axis {
		g.Go(func() (err error) {
			defer catchPanic(&err)
			if err := gctx.Err(); err != nil {
				return err
			}
			columns[i] = s.scanColumn(x, axis)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Seeds: len(axis) * len(axis)}
	seen := make(map[Key]struct{})
	for _, col := range columns {
		res.Skipped += col.skipped
		for j, key := range col.keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			res.Roots = append(res.Roots, col.values[j])
		}
	}
	SortRoots(res.Roots)

	log := gpufractal.Logger()
	log.Debug("newton roots discovered",
		"polynomial", s.p.String(),
		"seeds", res.Seeds,
		"skipped", res.Skipped,
		"roots", len(res.Roots),
	)
	if len(res.Roots) > s.p.Degree() {
		log.Warn("newton found more roots than the polynomial degree; some seeds did not converge",
			"degree", s.p.Degree(),
			"roots", len(res.Roots),
		)
	}

	return res, nil
}

// scanColumn converges every seed x+iy of one grid column, keeping the first
// value seen per key.
func (s *Solver) scanColumn(x float64, axis []float64) column {
	var col column
	seen := make(map[Key]struct{})
	for _, y := range axis {
		z, err := s.Converge(complex(x, y))
		if err != nil {
			col.skipped++
			continue
		}

		key := Quantize(z)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		col.keys = append(col.keys, key)
		col.values = append(col.values, z)
	}
	return col
}

func catchPanic(err *error) {
	if v := recover(); v != nil {
		e, ok := v.(error)
		if !ok {
			e = fmt.Errorf("panic: %v", v)
		}
		*err = fmt.Errorf("%w\n%s", e, debug.Stack())
	}
}
