package system

import (
	"errors"

	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/milk9111/rigidbridge/physics"
	"go.uber.org/zap"
)

var ErrAlreadySimulated = errors.New("physics system: entity already has a model")

// PhysicsSystem steps the registry once per tick and copies the simulated
// pose of every body back into its entity's Transform.
type PhysicsSystem struct {
	registry     *physics.Registry
	syncRotation bool
	log          *zap.Logger

	owned            map[ecs.Entity]physics.Model
	colliderToEntity map[physics.ColliderHandle]ecs.Entity
}

type PhysicsOption func(*PhysicsSystem)

// WithRotationSync controls whether orientation is copied along with
// translation.
func WithRotationSync(enabled bool) PhysicsOption {
	return func(ps *PhysicsSystem) {
		ps.syncRotation = enabled
	}
}

func WithLogger(logger *zap.Logger) PhysicsOption {
	return func(ps *PhysicsSystem) {
		if logger != nil {
			ps.log = logger
		}
	}
}

func NewPhysicsSystem(registry *physics.Registry, opts ...PhysicsOption) *PhysicsSystem {
	ps := &PhysicsSystem{
		registry:         registry,
		syncRotation:     true,
		log:              zap.NewNop(),
		owned:            make(map[ecs.Entity]physics.Model),
		colliderToEntity: make(map[physics.ColliderHandle]ecs.Entity),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

func (ps *PhysicsSystem) Registry() *physics.Registry {
	if ps == nil {
		return nil
	}
	return ps.registry
}

// Spawn inserts a body for e and attaches the resulting Model. The entity's
// Transform is set to the body's initial pose, keeping any existing scale.
func (ps *PhysicsSystem) Spawn(w *ecs.World, e ecs.Entity, body physics.BodySpec, collider physics.ColliderSpec) (physics.Model, error) {
	if !w.IsAlive(e) {
		return physics.Model{}, component.ErrEntityNotAlive
	}
	if ecs.Has(w, e, component.ModelComponent) {
		return physics.Model{}, ErrAlreadySimulated
	}

	model, err := ps.registry.Insert(body, collider)
	if err != nil {
		return physics.Model{}, err
	}

	transform, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		transform = component.NewTransform(body.Position)
	}
	transform.Position = body.Position
	if st, ok := ps.registry.Lookup(model.Body); ok {
		transform.Rotation = st.Orientation
	}

	if err := ecs.Add(w, e, component.TransformComponent, transform); err != nil {
		ps.registry.Remove(model.Body)
		return physics.Model{}, err
	}
	if err := ecs.Add(w, e, component.ModelComponent, model); err != nil {
		ps.registry.Remove(model.Body)
		return physics.Model{}, err
	}

	ps.owned[e] = model
	ps.colliderToEntity[model.Collider] = e
	return model, nil
}

// Despawn detaches e's Model and then removes its body, so no live Model
// ever points at a removed body.
func (ps *PhysicsSystem) Despawn(w *ecs.World, e ecs.Entity) bool {
	model, ok := ecs.Get(w, e, component.ModelComponent)
	if ok {
		ecs.Remove(w, e, component.ModelComponent)
	} else if model, ok = ps.owned[e]; !ok {
		return false
	}
	ps.release(e, model)
	return true
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.registry == nil || w == nil {
		return
	}

	ps.reap(w)
	ps.registry.Step()
	ps.syncTransforms(w)
	ps.emitContacts(w)
}

// reap removes bodies whose entity died or lost its Model since last tick.
func (ps *PhysicsSystem) reap(w *ecs.World) {
	for e, model := range ps.owned {
		if w.IsAlive(e) {
			current, ok := ecs.Get(w, e, component.ModelComponent)
			if ok && current == model {
				continue
			}
		}
		ps.log.Debug("physics system: reaping body", zap.Stringer("entity", e), zap.Stringer("body", model.Body))
		ps.release(e, model)
	}
}

func (ps *PhysicsSystem) release(e ecs.Entity, model physics.Model) {
	if owned, ok := ps.owned[e]; ok && owned == model {
		delete(ps.owned, e)
	}
	delete(ps.colliderToEntity, model.Collider)
	ps.registry.Remove(model.Body)
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	entities := w.Query(component.ModelComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		model, ok := ecs.Get(w, e, component.ModelComponent)
		if !ok {
			continue
		}
		st, ok := ps.registry.Lookup(model.Body)
		if !ok {
			// removed behind our back: leave the transform as it was
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		transform.Position = st.Position
		if ps.syncRotation {
			transform.Rotation = st.Orientation
		}
		if err := ecs.Add(w, e, component.TransformComponent, transform); err != nil {
			panic("physics system: update transform: " + err.Error())
		}
	}
}

func (ps *PhysicsSystem) emitContacts(w *ecs.World) {
	for _, c := range ps.registry.Contacts() {
		a, okA := ps.colliderToEntity[c.A]
		b, okB := ps.colliderToEntity[c.B]
		if !okA || !okB || !w.IsAlive(a) || !w.IsAlive(b) {
			continue
		}
		w.Events().Push(ecs.Event{Type: ecs.EventContact, Data: ecs.ContactEvent{A: a, B: b}})
	}
}
