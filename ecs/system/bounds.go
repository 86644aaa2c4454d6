package system

import (
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"go.uber.org/zap"
)

// BoundsSystem destroys simulated entities that leave the world bounds.
// Without a Bounds component in the world it does nothing.
type BoundsSystem struct {
	log *zap.Logger
}

func NewBoundsSystem(logger *zap.Logger) *BoundsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoundsSystem{log: logger}
}

func (s *BoundsSystem) Update(w *ecs.World) {
	boundsEntity, ok := w.First(component.BoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.BoundsComponent)
	if !ok {
		return
	}

	for _, e := range w.Query(component.ModelComponent.Kind(), component.TransformComponent.Kind()) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok || bounds.Contains(t.Position) {
			continue
		}
		s.log.Info("out of bounds",
			zap.String("entity", entityLabel(w, e)),
			zap.Float64("x", t.Position.X()),
			zap.Float64("y", t.Position.Y()),
			zap.Float64("z", t.Position.Z()),
		)
		w.DestroyEntity(e)
	}
}
