package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func compMul(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{a.X() * b.X(), a.Y() * b.Y()}
}

func compDiv(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{a.X() / b.X(), a.Y() / b.Y()}
}

func finite(v mgl64.Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// validSize reports whether both components are positive and finite.
func validSize(v mgl64.Vec2) bool {
	return v.X() > 0 && v.Y() > 0 && finite(v)
}
