package system

import (
	"github.com/milk9111/rigidbridge/common"
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera towards its target entity's position.
func (cs *CameraSystem) Update(w *ecs.World) {
	if !w.IsAlive(cs.camEntity) {
		cs.camEntity = 0
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			cs.camEntity = camEntity
		}
	}

	camComp, ok := ecs.Get(w, cs.camEntity, component.CameraComponent)
	if !ok {
		return
	}

	if !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findEntityByName(w, camComp.TargetName)
	}

	targetTransform, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent)
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent)
	if !ok {
		return
	}

	t := 1.0
	if camComp.Smoothness > 0 && camComp.Smoothness < 1 {
		t = 1 - camComp.Smoothness
	}
	for i := 0; i < 3; i++ {
		camTransform.Position[i] = common.Lerp(camTransform.Position[i], targetTransform.Position[i], t)
	}
	if err := ecs.Add(w, cs.camEntity, component.TransformComponent, camTransform); err != nil {
		panic("camera system: update transform: " + err.Error())
	}
}

func findEntityByName(w *ecs.World, name string) ecs.Entity {
	if name == "" {
		return 0
	}
	for _, e := range w.Query(component.NameComponent.Kind()) {
		if n, ok := ecs.Get(w, e, component.NameComponent); ok && string(n) == name {
			return e
		}
	}
	return 0
}
