package ecs

import "github.com/milk9111/rigidbridge/ecs/component"

// World owns entities, their components, and the per-frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) {
		out = append(out, e)
	})
	return out
}

func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if kind == nil || !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	store, ok := w.stores[kind.ID()]
	if !ok {
		store = &SparseSet{}
		w.stores[kind.ID()] = store
	}
	store.Set(e, value)
	return nil
}

func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if kind == nil || !w.IsAlive(e) {
		return nil, false
	}
	return w.stores[kind.ID()].Get(e)
}

func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if kind == nil || !w.IsAlive(e) {
		return false
	}
	return w.stores[kind.ID()].Has(e)
}

func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if kind == nil || !w.IsAlive(e) {
		return false
	}
	return w.stores[kind.ID()].Remove(e)
}

// Query returns the entities carrying every listed component kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, kind := range kinds {
		if kind == nil {
			return nil
		}
		store, ok := w.stores[kind.ID()]
		if !ok || store.Len() == 0 {
			return nil
		}
		sets = append(sets, store)
	}
	return IntersectEntities(sets...)
}

// First returns any one entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
