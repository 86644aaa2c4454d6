package physics

import "github.com/go-gl/mathgl/mgl64"

var zAxis = mgl64.Vec3{0, 0, 1}

// BodyState is a snapshot of a body's simulated pose and motion.
type BodyState struct {
	Kind            BodyKind
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Sleeping        bool
}

// ColliderState describes a live collider.
type ColliderState struct {
	Body       BodyHandle
	Shape      ShapeKind
	Friction   float64
	Elasticity float64
	Sensor     bool
}

// Contact pairs two colliders whose contact began during the last step.
type Contact struct {
	A ColliderHandle
	B ColliderHandle
}
