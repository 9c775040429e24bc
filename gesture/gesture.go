// Package gesture turns raw mouse button and motion events into drag
// gestures.
//
// A Controller moves through three states. A button press arms a drag
// without emitting anything. The first motion afterwards makes the drag
// active, emitting DragStart once followed by DragMotion. Releasing the same
// button emits a final DragMotion with finished set, if the drag was active,
// and returns to Idle. A press and release with no motion in between is a
// plain click and emits no drag events.
package gesture

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/gpufractal"
)

// Button identifies a mouse button. The wheel is reported as two buttons
// that are pressed and released once per detent.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// IsWheel reports whether b is a wheel direction. Wheel buttons never start
// a drag.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown
}

// Action is a button transition.
type Action int

const (
	ActionDown Action = iota
	ActionUp
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// State is the drag state of a Controller.
type State int

const (
	// Idle: no button is held.
	Idle State = iota
	// Armed: a button is held but the pointer has not moved yet.
	Armed
	// Active: the pointer moved while the button was held.
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Handler receives drag gestures.
type Handler interface {
	// DragStart is called once, on the first motion of a drag.
	DragStart(button Button, origin mgl64.Vec2)
	// DragMotion is called for every motion of an active drag, and once
	// more with finished set when the button is released.
	DragMotion(button Button, origin, current mgl64.Vec2, finished bool)
}

// ButtonHandler is optionally implemented by a Handler to receive every raw
// button event, including the ones the drag logic ignores.
type ButtonHandler interface {
	ButtonEvent(button Button, action Action, pos mgl64.Vec2)
}

// Session describes the drag in progress.
type Session struct {
	Button Button
	Origin mgl64.Vec2
	// Moving is false while the drag is armed.
	Moving bool
}

// Controller is the drag state machine. It is not safe for concurrent use;
// feed it events from the thread that receives them.
type Controller struct {
	handler Handler
	state   State
	button  Button
	origin  mgl64.Vec2
}

// NewController returns an idle Controller reporting to h, which must not be
// nil.
func NewController(h Handler) *Controller {
	return &Controller{handler: h}
}

// State returns the current drag state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the drag in progress, if any.
func (c *Controller) Session() (Session, bool) {
	if c.state == Idle {
		return Session{}, false
	}
	return Session{
		Button: c.button,
		Origin: c.origin,
		Moving: c.state == Active,
	}, true
}

// Button feeds a button event at position (x, y).
//
// A press while Idle arms a drag; presses while a drag is pending are ignored.
// A release of the pending button ends the drag; other releases are ignored.
func (c *Controller) Button(button Button, action Action, x, y float64) {
	pos := mgl64.Vec2{x, y}
	if bh, ok := c.handler.(ButtonHandler); ok {
		bh.ButtonEvent(button, action, pos)
	}

	switch action {
	case ActionDown:
		if c.state != Idle || button.IsWheel() {
			return
		}
		c.state = Armed
		c.button = button
		c.origin = pos

	case ActionUp:
		if c.state == Idle || button != c.button {
			return
		}
		wasActive := c.state == Active
		c.state = Idle
		if wasActive {
			gpufractal.Logger().Debug("drag finished", "button", button, "origin", c.origin, "pos", pos)
			c.handler.DragMotion(button, c.origin, pos, true)
		}
	}
}

// Motion feeds a pointer motion to (x, y). Motion while Idle is ignored.
func (c *Controller) Motion(x, y float64) {
	pos := mgl64.Vec2{x, y}

	switch c.state {
	case Idle:
		return
	case Armed:
		c.state = Active
		gpufractal.Logger().Debug("drag started", "button", c.button, "origin", c.origin)
		c.handler.DragStart(c.button, c.origin)
	}

	c.handler.DragMotion(c.button, c.origin, pos, false)
}

// Cancel abandons the pending drag without a final DragMotion.
func (c *Controller) Cancel() {
	c.state = Idle
}
