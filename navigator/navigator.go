// Package navigator applies mouse input to a viewport: dragging with the pan
// button moves the view, the wheel zooms around the cursor.
//
// Drags are copy-on-write. The committed viewport is cloned when a drag
// starts and every motion recomputes the displayed clone from the committed
// one; the clone replaces the committed viewport only when the button is
// released. A cancelled drag leaves the committed viewport untouched.
package navigator

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"

	"github.com/stewi1014/gpufractal"
	"github.com/stewi1014/gpufractal/gesture"
	"github.com/stewi1014/gpufractal/viewport"
)

// DefaultZoomStep is the zoom factor of one wheel detent.
const DefaultZoomStep = 1.1

// Config tunes a Navigator. The zero value pans with the left button and
// zooms instantly by DefaultZoomStep.
type Config struct {
	PanButton gesture.Button
	// ZoomStep is the zoom factor per wheel detent. Values not above 1 mean
	// DefaultZoomStep.
	ZoomStep float64
	// ZoomDuration animates wheel zooms over this many seconds. Zero zooms
	// instantly.
	ZoomDuration float32
	// Ease shapes animated zooms. Nil means ease.OutQuad.
	Ease ease.TweenFunc
}

// Frame is the logical window to render, as consumed by the shader uniforms
// center and size.
type Frame struct {
	Center mgl64.Vec2
	Size   mgl64.Vec2
}

// Navigator owns a viewport and the drag state feeding it. All positions
// passed to it are window coordinates with a top-left origin.
type Navigator struct {
	cfg      Config
	gestures *gesture.Controller

	committed   *viewport.Viewport
	speculative *viewport.Viewport
	transition  *viewport.Transition
}

// New returns a Navigator starting at a copy of v.
func New(v *viewport.Viewport, cfg Config) *Navigator {
	if !(cfg.ZoomStep > 1) {
		cfg.ZoomStep = DefaultZoomStep
	}
	if cfg.Ease == nil {
		cfg.Ease = ease.OutQuad
	}

	n := &Navigator{
		cfg:       cfg,
		committed: v.Clone(),
	}
	n.gestures = gesture.NewController(handler{n})
	return n
}

// Button feeds a button event at window position (x, y).
func (n *Navigator) Button(button gesture.Button, action gesture.Action, x, y float64) {
	n.gestures.Button(button, action, x, y)
}

// Motion feeds a pointer motion to window position (x, y).
func (n *Navigator) Motion(x, y float64) {
	n.gestures.Motion(x, y)
}

// Cancel abandons a drag in progress, restoring the committed view.
func (n *Navigator) Cancel() {
	n.gestures.Cancel()
	n.speculative = nil
}

// Dragging reports whether a pan is being displayed but not yet committed.
func (n *Navigator) Dragging() bool {
	return n.speculative != nil
}

// Resize sets the device size of the committed and displayed viewports and
// skips any zoom animation to its end.
func (n *Navigator) Resize(width, height float64) error {
	if err := n.committed.SetDeviceSize(width, height); err != nil {
		return err
	}
	if n.speculative != nil {
		if err := n.speculative.SetDeviceSize(width, height); err != nil {
			return err
		}
	}
	n.transition = nil
	return nil
}

// Update advances a zoom animation by dt seconds. It reports whether the
// view changed and needs to be redrawn.
func (n *Navigator) Update(dt float32) bool {
	if n.transition == nil {
		return false
	}
	if _, done := n.transition.Update(dt); done {
		n.transition = nil
	}
	return true
}

// Viewport returns a copy of the committed viewport.
func (n *Navigator) Viewport() *viewport.Viewport {
	return n.committed.Clone()
}

// View returns a copy of the viewport to display now: the drag in progress,
// the current step of a zoom animation, or the committed viewport.
func (n *Navigator) View() *viewport.Viewport {
	return n.view().Clone()
}

func (n *Navigator) view() *viewport.Viewport {
	switch {
	case n.speculative != nil:
		return n.speculative
	case n.transition != nil:
		return n.transition.Current()
	}
	return n.committed
}

// Frame returns the logical window of View.
func (n *Navigator) Frame() Frame {
	v := n.view()
	return Frame{
		Center: v.LogicalCenter(),
		Size:   v.LogicalSize(),
	}
}

func (n *Navigator) zoom(button gesture.Button, pos mgl64.Vec2) {
	if n.speculative != nil {
		gpufractal.Logger().Debug("zoom ignored during drag", "button", button)
		return
	}

	target := n.committed.Clone()
	device := target.FromWindow(pos.X(), pos.Y())

	var err error
	if button == gesture.ButtonWheelUp {
		err = target.ZoomInAroundDevice(n.cfg.ZoomStep, device.X(), device.Y())
	} else {
		err = target.ZoomOutAroundDevice(n.cfg.ZoomStep, device.X(), device.Y())
	}
	if err != nil {
		gpufractal.Logger().Warn("zoom rejected", "button", button, "err", err)
		return
	}

	if n.cfg.ZoomDuration > 0 {
		n.transition = viewport.NewTransition(n.view(), target, n.cfg.ZoomDuration, n.cfg.Ease)
	}
	n.committed = target
}

// pan returns the committed viewport moved so the content under the window
// position origin ends up under current.
func (n *Navigator) pan(origin, current mgl64.Vec2) *viewport.Viewport {
	v := n.committed.Clone()
	// Window y grows downwards, device y upwards: only x is negated.
	v.MoveRelativeDevice(-(current.X() - origin.X()), current.Y()-origin.Y())
	return v
}

// handler adapts Navigator to gesture.Handler without exporting the
// callbacks on Navigator itself.
type handler struct {
	n *Navigator
}

func (h handler) DragStart(button gesture.Button, origin mgl64.Vec2) {
	if button != h.n.cfg.PanButton {
		return
	}
	h.n.transition = nil
	h.n.speculative = h.n.committed.Clone()
}

func (h handler) DragMotion(button gesture.Button, origin, current mgl64.Vec2, finished bool) {
	if button != h.n.cfg.PanButton || h.n.speculative == nil {
		return
	}

	v := h.n.pan(origin, current)
	if finished {
		h.n.committed = v
		h.n.speculative = nil
		return
	}
	h.n.speculative = v
}

func (h handler) ButtonEvent(button gesture.Button, action gesture.Action, pos mgl64.Vec2) {
	if action == gesture.ActionDown && button.IsWheel() {
		h.n.zoom(button, pos)
	}
}
