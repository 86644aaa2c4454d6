package system

import (
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"go.uber.org/zap"
)

// ReportSystem logs every simulated entity's position at a fixed interval
// and every contact as it happens.
type ReportSystem struct {
	log   *zap.Logger
	every int
	ticks int
}

func NewReportSystem(logger *zap.Logger, every int) *ReportSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportSystem{log: logger, every: every}
}

func (rs *ReportSystem) Update(w *ecs.World) {
	rs.ticks++

	for _, evt := range w.Events().Peek() {
		if evt.Type != ecs.EventContact {
			continue
		}
		c, ok := evt.Data.(ecs.ContactEvent)
		if !ok {
			continue
		}
		rs.log.Info("contact",
			zap.Int("tick", rs.ticks),
			zap.String("a", entityLabel(w, c.A)),
			zap.String("b", entityLabel(w, c.B)),
		)
	}

	if rs.every <= 0 || rs.ticks%rs.every != 0 {
		return
	}
	for _, e := range w.Query(component.ModelComponent.Kind(), component.TransformComponent.Kind()) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		rs.log.Info("pose",
			zap.Int("tick", rs.ticks),
			zap.String("entity", entityLabel(w, e)),
			zap.Float64("x", t.Position.X()),
			zap.Float64("y", t.Position.Y()),
			zap.Float64("z", t.Position.Z()),
		)
	}
}

// Ticks reports how many updates have run.
func (rs *ReportSystem) Ticks() int {
	return rs.ticks
}

func entityLabel(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent); ok && n != "" {
		return string(n)
	}
	return e.String()
}
