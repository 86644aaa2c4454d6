package component

import "github.com/go-gl/mathgl/mgl64"

// Bounds is the axis-aligned box simulated entities must stay inside.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Contains reports whether p lies inside the box, borders included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

var BoundsComponent = NewComponent[Bounds]()
