package system

import (
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
)

// TTLSystem counts down TTL components and destroys entities whose time is
// up.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.TTLComponent.Kind()) {
		ttl, ok := ecs.Get(w, e, component.TTLComponent)
		if !ok {
			continue
		}

		if ttl.Frames > 1 {
			ttl.Frames--
			_ = ecs.Add(w, e, component.TTLComponent, ttl)
			continue
		}

		w.DestroyEntity(e)
	}
}
