// Package gpufractal is the host-side numeric core of a GPU fractal viewer.
//
// The per-pixel work (Mandelbrot, Julia and Newton-basin iteration) runs in a
// fragment shader owned by the caller. The packages below supply everything the
// shader needs that is not a one-shot GL call:
//
//   - [github.com/stewi1014/gpufractal/poly]: immutable complex polynomials.
//   - [github.com/stewi1014/gpufractal/newton]: Newton–Raphson root discovery
//     over a seed grid, producing the fixed root palette of the Newton shader.
//   - [github.com/stewi1014/gpufractal/viewport]: device/logical coordinate
//     mapping with cursor-anchored zoom and panning.
//   - [github.com/stewi1014/gpufractal/gesture]: the press-drag-release state
//     machine layered on raw mouse events.
//   - [github.com/stewi1014/gpufractal/navigator]: gestures and wheel events
//     applied to a viewport with copy-on-write drags.
//   - [github.com/stewi1014/gpufractal/programs]: the closed set of fractal
//     programs, their typed parameters and uniform blocks.
//
// Nothing here depends on a windowing or graphics API.
package gpufractal
