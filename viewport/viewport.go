// Package viewport maps between device (pixel) coordinates and logical
// (fractal-plane) coordinates.
//
// Device coordinates have their origin at the bottom-left corner of the render
// target, matching the logical y axis. Window systems usually report the
// top-left corner; use FromWindow to convert.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidDeviceSize  = errors.New("viewport: device size must be positive")
	ErrInvalidLogicalSize = errors.New("viewport: logical size must be positive and finite")
	ErrInvalidCenter      = errors.New("viewport: logical center must be finite")
	ErrInvalidZoomFactor  = errors.New("viewport: zoom factor must be positive and finite")
	ErrZoomLimit          = errors.New("viewport: zoom exceeds floating point range")
)

// Options are the initial logical window of a Viewport.
type Options struct {
	// Center is the logical point shown in the middle of the device.
	Center mgl64.Vec2
	// Size is the logical extent of the device. The zero value means {1, 1}.
	Size mgl64.Vec2
	// KeepAspectRatio locks the logical aspect ratio to the device's. The
	// logical width is kept and the height recomputed on every resize.
	KeepAspectRatio bool
}

// Viewport is a logical window onto a device. Copy it with Clone; a Viewport
// shares no state with its clones.
type Viewport struct {
	deviceSize mgl64.Vec2
	center     mgl64.Vec2
	size       mgl64.Vec2
	keepAspect bool
}

// New returns a Viewport for a device of the given size.
func New(deviceWidth, deviceHeight float64, opts Options) (*Viewport, error) {
	size := opts.Size
	if size == (mgl64.Vec2{}) {
		size = mgl64.Vec2{1, 1}
	}
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogicalSize, size)
	}
	if !finite(opts.Center) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCenter, opts.Center)
	}

	v := &Viewport{
		center:     opts.Center,
		size:       size,
		keepAspect: opts.KeepAspectRatio,
	}
	if err := v.SetDeviceSize(deviceWidth, deviceHeight); err != nil {
		return nil, err
	}

	return v, nil
}

// DeviceSize returns the device width and height in pixels.
func (v *Viewport) DeviceSize() mgl64.Vec2 { return v.deviceSize }

// LogicalCenter returns the logical point in the middle of the device.
func (v *Viewport) LogicalCenter() mgl64.Vec2 { return v.center }

// LogicalSize returns the logical extent of the device.
func (v *Viewport) LogicalSize() mgl64.Vec2 { return v.size }

// KeepAspectRatio reports whether the logical aspect ratio follows the device.
func (v *Viewport) KeepAspectRatio() bool { return v.keepAspect }

// LogicalLower returns the logical point at the device origin.
func (v *Viewport) LogicalLower() mgl64.Vec2 {
	return v.center.Sub(v.size.Mul(0.5))
}

// LogicalUpper returns the logical point at the device corner opposite the origin.
func (v *Viewport) LogicalUpper() mgl64.Vec2 {
	return v.center.Add(v.size.Mul(0.5))
}

// SetDeviceSize replaces the device size. The logical window is unchanged
// unless the aspect ratio is locked, in which case the logical height is
// recomputed from the logical width.
func (v *Viewport) SetDeviceSize(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDeviceSize, width, height)
	}

	if v.keepAspect {
		size := mgl64.Vec2{v.size.X(), v.size.X() * height / width}
		if !validSize(size) {
			return fmt.Errorf("%w: %v", ErrInvalidLogicalSize, size)
		}
		v.size = size
	}

	v.deviceSize = mgl64.Vec2{width, height}
	return nil
}

// SetLogicalCenter moves the logical window so center is in the middle.
func (v *Viewport) SetLogicalCenter(center mgl64.Vec2) error {
	if !finite(center) {
		return fmt.Errorf("%w: %v", ErrInvalidCenter, center)
	}
	v.center = center
	return nil
}

// SetLogicalSize resizes the logical window about its center. With a locked
// aspect ratio only the width of size is used.
func (v *Viewport) SetLogicalSize(size mgl64.Vec2) error {
	if v.keepAspect {
		size[1] = size.X() * v.deviceSize.Y() / v.deviceSize.X()
	}
	if !validSize(size) {
		return fmt.Errorf("%w: %v", ErrInvalidLogicalSize, size)
	}
	v.size = size
	return nil
}

// FromWindow converts a window position with a top-left origin to device
// coordinates.
func (v *Viewport) FromWindow(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, v.FlipY(y)}
}

// FlipY mirrors a y coordinate between top-left and bottom-left origins.
func (v *Viewport) FlipY(y float64) float64 {
	return v.deviceSize.Y() - y
}

// DeviceToLogical maps a device point to the logical plane.
func (v *Viewport) DeviceToLogical(dx, dy float64) mgl64.Vec2 {
	ratio := compDiv(mgl64.Vec2{dx, dy}, v.deviceSize)
	return v.LogicalLower().Add(compMul(ratio, v.size))
}

// LogicalToDevice maps a logical point to device coordinates. It is the
// inverse of DeviceToLogical.
func (v *Viewport) LogicalToDevice(lx, ly float64) mgl64.Vec2 {
	ratio := compDiv(mgl64.Vec2{lx, ly}.Sub(v.LogicalLower()), v.size)
	return compMul(ratio, v.deviceSize)
}

// ZoomIn shrinks the logical window by factor about its center.
func (v *Viewport) ZoomIn(factor float64) error {
	if err := checkFactor(factor); err != nil {
		return err
	}
	return v.resize(1/factor, v.deviceSize.Mul(0.5))
}

// ZoomOut grows the logical window by factor about its center.
func (v *Viewport) ZoomOut(factor float64) error {
	if err := checkFactor(factor); err != nil {
		return err
	}
	return v.resize(factor, v.deviceSize.Mul(0.5))
}

// ZoomInAroundDevice shrinks the logical window by factor while the logical
// point under the device point (dx, dy) stays where it is.
func (v *Viewport) ZoomInAroundDevice(factor, dx, dy float64) error {
	if err := checkFactor(factor); err != nil {
		return err
	}
	return v.resize(1/factor, mgl64.Vec2{dx, dy})
}

// ZoomOutAroundDevice grows the logical window by factor while the logical
// point under the device point (dx, dy) stays where it is.
func (v *Viewport) ZoomOutAroundDevice(factor, dx, dy float64) error {
	if err := checkFactor(factor); err != nil {
		return err
	}
	return v.resize(factor, mgl64.Vec2{dx, dy})
}

// resize scales the logical size by scale, anchored at a device point.
// The viewport is unchanged when the result would leave float64 range.
func (v *Viewport) resize(scale float64, anchor mgl64.Vec2) error {
	size := v.size.Mul(scale)
	if !validSize(size) {
		return fmt.Errorf("%w: logical size %v", ErrZoomLimit, size)
	}

	fixed := v.DeviceToLogical(anchor.X(), anchor.Y())
	ratio := compDiv(anchor, v.deviceSize)
	lower := fixed.Sub(compMul(ratio, size))
	center := lower.Add(size.Mul(0.5))
	if !finite(center) {
		return fmt.Errorf("%w: logical center %v", ErrZoomLimit, center)
	}

	v.size = size
	v.center = center
	return nil
}

// MoveRelativeDevice pans the logical window by a device-space delta.
func (v *Viewport) MoveRelativeDevice(ddx, ddy float64) {
	delta := compDiv(compMul(mgl64.Vec2{ddx, ddy}, v.size), v.deviceSize)
	v.center = v.center.Add(delta)
}

// Clone returns an independent copy of v.
func (v *Viewport) Clone() *Viewport {
	c := *v
	return &c
}

func (v *Viewport) String() string {
	lower, upper := v.LogicalLower(), v.LogicalUpper()
	return fmt.Sprintf("(%.3f, %.3f) - (%.3f, %.3f) onto device (%.0f, %.0f)",
		lower.X(), lower.Y(), upper.X(), upper.Y(), v.deviceSize.X(), v.deviceSize.Y())
}

func checkFactor(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoomFactor, factor)
	}
	return nil
}
