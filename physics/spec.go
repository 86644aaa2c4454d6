package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidSpec is returned when a body or collider description cannot be
// handed to the solver.
var ErrInvalidSpec = errors.New("physics: invalid spec")

type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyStatic
	BodyKinematic
)

func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// BodySpec describes a body at insertion time. The solver works in the X/Y
// plane: Position.Z is carried through unchanged and Angle is a rotation
// about the Z axis.
type BodySpec struct {
	Kind            BodyKind
	Position        mgl64.Vec3
	Angle           float64
	LinearVelocity  mgl64.Vec3
	AngularVelocity float64
	// Mass defaults to 1 for dynamic bodies when zero.
	Mass          float64
	FixedRotation bool
}

func DynamicBody(pos mgl64.Vec3) BodySpec {
	return BodySpec{Kind: BodyDynamic, Position: pos, Mass: 1}
}

func StaticBody(pos mgl64.Vec3) BodySpec {
	return BodySpec{Kind: BodyStatic, Position: pos}
}

func KinematicBody(pos mgl64.Vec3, vel mgl64.Vec3) BodySpec {
	return BodySpec{Kind: BodyKinematic, Position: pos, LinearVelocity: vel}
}

type ShapeKind int

const (
	ShapeBox ShapeKind = iota + 1
	ShapeSphere
	ShapePlane
	ShapeHeightfield
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	case ShapeHeightfield:
		return "heightfield"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ColliderSpec describes the shape attached to a body.
type ColliderSpec struct {
	Shape       ShapeKind
	HalfExtents mgl64.Vec3
	Radius      float64
	// Heights are sampled every Spacing units along X, centred on the body.
	Heights    []float64
	Spacing    float64
	Friction   float64
	Elasticity float64
	Sensor     bool
}

const defaultFriction = 0.5

func Box(hx, hy, hz float64) ColliderSpec {
	return ColliderSpec{Shape: ShapeBox, HalfExtents: mgl64.Vec3{hx, hy, hz}, Friction: defaultFriction}
}

func Sphere(radius float64) ColliderSpec {
	return ColliderSpec{Shape: ShapeSphere, Radius: radius, Friction: defaultFriction}
}

// Plane is an unbounded ground surface through the body origin with its
// normal along +Y.
func Plane() ColliderSpec {
	return ColliderSpec{Shape: ShapePlane, Friction: defaultFriction}
}

func Heightfield(heights []float64, spacing float64) ColliderSpec {
	hs := append([]float64(nil), heights...)
	return ColliderSpec{Shape: ShapeHeightfield, Heights: hs, Spacing: spacing, Friction: defaultFriction}
}

func (s BodySpec) validate() error {
	if !finiteVec(s.Position) || !finite(s.Angle) {
		return fmt.Errorf("%w: non-finite transform", ErrInvalidSpec)
	}
	if !finiteVec(s.LinearVelocity) || !finite(s.AngularVelocity) {
		return fmt.Errorf("%w: non-finite velocity", ErrInvalidSpec)
	}
	switch s.Kind {
	case BodyDynamic:
		if !finite(s.Mass) || s.Mass < 0 {
			return fmt.Errorf("%w: dynamic body mass %v", ErrInvalidSpec, s.Mass)
		}
	case BodyStatic, BodyKinematic:
	default:
		return fmt.Errorf("%w: unknown body kind %v", ErrInvalidSpec, s.Kind)
	}
	return nil
}

func (c ColliderSpec) validate(kind BodyKind) error {
	if !finite(c.Friction) || c.Friction < 0 || !finite(c.Elasticity) || c.Elasticity < 0 {
		return fmt.Errorf("%w: friction %v elasticity %v", ErrInvalidSpec, c.Friction, c.Elasticity)
	}
	switch c.Shape {
	case ShapeBox:
		if !finiteVec(c.HalfExtents) || c.HalfExtents.X() <= 0 || c.HalfExtents.Y() <= 0 || c.HalfExtents.Z() < 0 {
			return fmt.Errorf("%w: box half extents %v", ErrInvalidSpec, c.HalfExtents)
		}
	case ShapeSphere:
		if !finite(c.Radius) || c.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius %v", ErrInvalidSpec, c.Radius)
		}
	case ShapePlane:
		if kind == BodyDynamic {
			return fmt.Errorf("%w: plane on a dynamic body", ErrInvalidSpec)
		}
	case ShapeHeightfield:
		if kind == BodyDynamic {
			return fmt.Errorf("%w: heightfield on a dynamic body", ErrInvalidSpec)
		}
		if len(c.Heights) < 2 || !finite(c.Spacing) || c.Spacing <= 0 {
			return fmt.Errorf("%w: heightfield needs two samples and positive spacing", ErrInvalidSpec)
		}
		for _, h := range c.Heights {
			if !finite(h) {
				return fmt.Errorf("%w: non-finite height", ErrInvalidSpec)
			}
		}
	default:
		return fmt.Errorf("%w: unknown shape %v", ErrInvalidSpec, c.Shape)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v mgl64.Vec3) bool {
	return finite(v.X()) && finite(v.Y()) && finite(v.Z())
}
