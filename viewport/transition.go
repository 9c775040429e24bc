package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition animates between two viewports over time.
//
// The logical size is interpolated geometrically, so every frame zooms by the
// same ratio. When the two windows differ in size, the interpolation keeps the
// logical point that both windows map to the same device point fixed: a zoom
// anchored at the cursor stays anchored there for the whole animation.
type Transition struct {
	from, to *Viewport
	tween    *gween.Tween
	current  *Viewport
}

// NewTransition starts a transition from one viewport to another lasting
// duration seconds. Both viewports are copied. The device size of to is used
// throughout.
func NewTransition(from, to *Viewport, duration float32, easeFn ease.TweenFunc) *Transition {
	if easeFn == nil {
		easeFn = ease.Linear
	}

	current := from.Clone()
	current.deviceSize = to.deviceSize
	return &Transition{
		from:    from.Clone(),
		to:      to.Clone(),
		tween:   gween.New(0, 1, duration, easeFn),
		current: current,
	}
}

// Update advances the transition by dt seconds and returns the viewport to
// display and whether the transition has finished. The finished viewport is
// an exact copy of the target.
func (t *Transition) Update(dt float32) (*Viewport, bool) {
	progress, done := t.tween.Update(dt)
	if done {
		t.current = t.to.Clone()
		return t.current, true
	}

	t.current = interpolate(t.from, t.to, float64(progress))
	return t.current, false
}

// Current returns the viewport of the last Update.
func (t *Transition) Current() *Viewport {
	return t.current
}

// Target returns the viewport the transition ends at.
func (t *Transition) Target() *Viewport {
	return t.to
}

func interpolate(from, to *Viewport, p float64) *Viewport {
	v := to.Clone()
	fromLower, toLower := from.LogicalLower(), to.LogicalLower()

	var size, lower mgl64.Vec2
	for i := range 2 {
		s0, s1 := from.size[i], to.size[i]
		size[i] = s0 * math.Pow(s1/s0, p)

		if math.Abs(s1-s0) <= 1e-12*math.Max(s0, s1) {
			lower[i] = fromLower[i] + (toLower[i]-fromLower[i])*p
			continue
		}

		// Logical coordinate at the same device ratio in both windows.
		fixed := (fromLower[i]*s1 - toLower[i]*s0) / (s1 - s0)
		ratio := (fixed - fromLower[i]) / s0
		lower[i] = fixed - ratio*size[i]
	}

	v.size = size
	v.center = lower.Add(size.Mul(0.5))
	return v
}
