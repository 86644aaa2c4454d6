package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

const collisionTypeBody cp.CollisionType = 1

// planeHalfWidth bounds the segment standing in for an unbounded plane.
const planeHalfWidth = 1e4

// Registry owns every body and collider of one simulation and advances them
// with a fixed time step. It is not safe for concurrent use.
type Registry struct {
	cfg   Config
	space *cp.Space
	log   *zap.Logger

	bodies    arena[*bodyEntry]
	colliders arena[*colliderEntry]

	shapeToCollider map[*cp.Shape]ColliderHandle
	contacts        []Contact
	steps           uint64
}

type bodyEntry struct {
	kind      BodyKind
	body      *cp.Body
	z         float64
	colliders []ColliderHandle
}

type colliderEntry struct {
	owner  BodyHandle
	spec   ColliderSpec
	shapes []*cp.Shape
}

// New creates an active registry. Zero or invalid config fields fall back to
// DefaultConfig values.
func New(cfg Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: cfg.Gravity.X(), Y: cfg.Gravity.Y()})
	space.SetDamping(cfg.Damping)
	space.SleepTimeThreshold = cfg.SleepTimeThreshold
	space.SetCollisionSlop(cfg.CollisionSlop)

	r := &Registry{
		cfg:             cfg,
		space:           space,
		log:             logger,
		shapeToCollider: make(map[*cp.Shape]ColliderHandle),
	}
	r.setupHandlers()
	return r
}

// Config returns the effective configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

// Insert builds a body with one attached collider.
func (r *Registry) Insert(body BodySpec, collider ColliderSpec) (Model, error) {
	if err := body.validate(); err != nil {
		return Model{}, err
	}
	if err := collider.validate(body.Kind); err != nil {
		return Model{}, err
	}

	cpBody := r.newBody(body, collider)
	r.space.AddBody(cpBody)

	entry := &bodyEntry{kind: body.Kind, body: cpBody, z: body.Position.Z()}
	bh := BodyHandle{r.bodies.insert(entry)}

	shapes := newShapes(cpBody, collider)
	ch := ColliderHandle{r.colliders.insert(&colliderEntry{owner: bh, spec: collider, shapes: shapes})}
	for _, shape := range shapes {
		r.space.AddShape(shape)
		r.shapeToCollider[shape] = ch
	}
	entry.colliders = append(entry.colliders, ch)

	r.log.Debug("physics: inserted body",
		zap.Stringer("body", bh),
		zap.Stringer("kind", body.Kind),
		zap.Stringer("shape", collider.Shape),
	)
	return Model{Body: bh, Collider: ch}, nil
}

func (r *Registry) newBody(spec BodySpec, collider ColliderSpec) *cp.Body {
	var body *cp.Body
	switch spec.Kind {
	case BodyStatic:
		body = cp.NewStaticBody()
	case BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := spec.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := momentFor(mass, collider)
		if spec.FixedRotation {
			moment = cp.INFINITY
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: spec.Position.X(), Y: spec.Position.Y()})
	body.SetAngle(spec.Angle)
	if spec.Kind != BodyStatic {
		body.SetVelocity(spec.LinearVelocity.X(), spec.LinearVelocity.Y())
		body.SetAngularVelocity(spec.AngularVelocity)
	}
	return body
}

func momentFor(mass float64, c ColliderSpec) float64 {
	switch c.Shape {
	case ShapeSphere:
		return cp.MomentForCircle(mass, 0, c.Radius, cp.Vector{})
	default:
		return cp.MomentForBox(mass, 2*c.HalfExtents.X(), 2*c.HalfExtents.Y())
	}
}

func newShapes(body *cp.Body, c ColliderSpec) []*cp.Shape {
	var shapes []*cp.Shape
	switch c.Shape {
	case ShapeBox:
		shapes = append(shapes, cp.NewBox(body, 2*c.HalfExtents.X(), 2*c.HalfExtents.Y(), 0))
	case ShapeSphere:
		shapes = append(shapes, cp.NewCircle(body, c.Radius, cp.Vector{}))
	case ShapePlane:
		a := cp.Vector{X: -planeHalfWidth, Y: 0}
		b := cp.Vector{X: planeHalfWidth, Y: 0}
		shapes = append(shapes, cp.NewSegment(body, a, b, 0))
	case ShapeHeightfield:
		n := len(c.Heights)
		x0 := -float64(n-1) * c.Spacing / 2
		for i := 0; i < n-1; i++ {
			a := cp.Vector{X: x0 + float64(i)*c.Spacing, Y: c.Heights[i]}
			b := cp.Vector{X: x0 + float64(i+1)*c.Spacing, Y: c.Heights[i+1]}
			shapes = append(shapes, cp.NewSegment(body, a, b, 0))
		}
	}
	for _, shape := range shapes {
		shape.SetFriction(c.Friction)
		shape.SetElasticity(c.Elasticity)
		shape.SetSensor(c.Sensor)
		shape.SetCollisionType(collisionTypeBody)
	}
	return shapes
}

// Lookup returns the current state of a body. Stale, zero, and unknown
// handles report false.
func (r *Registry) Lookup(h BodyHandle) (BodyState, bool) {
	entry, ok := r.bodies.get(h.Handle)
	if !ok {
		return BodyState{}, false
	}
	return entry.state(), true
}

func (e *bodyEntry) state() BodyState {
	p := e.body.Position()
	v := e.body.Velocity()
	return BodyState{
		Kind:            e.kind,
		Position:        mgl64.Vec3{p.X, p.Y, e.z},
		Orientation:     mgl64.QuatRotate(e.body.Angle(), zAxis),
		LinearVelocity:  mgl64.Vec3{v.X, v.Y, 0},
		AngularVelocity: mgl64.Vec3{0, 0, e.body.AngularVelocity()},
		Sleeping:        e.body.IsSleeping(),
	}
}

// LookupCollider returns the state of a collider, or false for stale handles.
func (r *Registry) LookupCollider(h ColliderHandle) (ColliderState, bool) {
	entry, ok := r.colliders.get(h.Handle)
	if !ok {
		return ColliderState{}, false
	}
	return ColliderState{
		Body:       entry.owner,
		Shape:      entry.spec.Shape,
		Friction:   entry.spec.Friction,
		Elasticity: entry.spec.Elasticity,
		Sensor:     entry.spec.Sensor,
	}, true
}

// Step advances the simulation by one fixed time step.
func (r *Registry) Step() {
	r.contacts = r.contacts[:0]
	r.space.Step(r.cfg.TimeStep)
	r.steps++
}

// Steps reports how many times Step has run.
func (r *Registry) Steps() uint64 {
	return r.steps
}

// Time is the simulated time elapsed, in seconds.
func (r *Registry) Time() float64 {
	return float64(r.steps) * r.cfg.TimeStep
}

// Contacts returns the contacts that began during the last Step. The slice is
// reused by the next Step.
func (r *Registry) Contacts() []Contact {
	return r.contacts
}

// Remove deletes a body together with its colliders. It reports false when
// the handle is already stale.
func (r *Registry) Remove(h BodyHandle) bool {
	entry, ok := r.bodies.remove(h.Handle)
	if !ok {
		return false
	}
	for _, ch := range entry.colliders {
		c, ok := r.colliders.remove(ch.Handle)
		if !ok {
			continue
		}
		for _, shape := range c.shapes {
			r.space.RemoveShape(shape)
			delete(r.shapeToCollider, shape)
		}
	}
	r.space.RemoveBody(entry.body)

	r.log.Debug("physics: removed body", zap.Stringer("body", h), zap.Int("colliders", len(entry.colliders)))
	return true
}

// Len reports the number of live bodies.
func (r *Registry) Len() int {
	return r.bodies.len()
}

// Bodies visits every live body in slot order.
func (r *Registry) Bodies(fn func(BodyHandle, BodyState)) {
	r.bodies.each(func(h Handle, e *bodyEntry) {
		fn(BodyHandle{h}, e.state())
	})
}

// DebugDraw renders the solver's view of the world.
func (r *Registry) DebugDraw(d cp.Drawer) {
	cp.DrawSpace(r.space, d)
}

func (r *Registry) setupHandlers() {
	handler := r.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = r
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		reg, ok := userData.(*Registry)
		if !ok || reg == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := reg.shapeToCollider[shapeA]
		b, okB := reg.shapeToCollider[shapeB]
		if !okA || !okB || a == b {
			return true
		}
		reg.contacts = append(reg.contacts, Contact{A: a, B: b})
		return true
	}
}
