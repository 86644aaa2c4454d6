package scene

import (
	"fmt"

	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/milk9111/rigidbridge/ecs/system"
)

// Spawn creates one entity per scene object, inserts its body through the
// physics system and tags it as scene-owned. Named entities are returned by
// name. On failure everything spawned so far is despawned again.
func Spawn(w *ecs.World, ps *system.PhysicsSystem, spec SceneSpec) (map[string]ecs.Entity, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	named := make(map[string]ecs.Entity, len(spec.Objects)+1)
	spawned := make([]ecs.Entity, 0, len(spec.Objects)+1)
	for _, obj := range spec.Objects {
		e, err := spawnObject(w, ps, obj)
		if err != nil {
			destroy(w, ps, spawned)
			return nil, fmt.Errorf("scene: spawn %q: %w", obj.Name, err)
		}
		spawned = append(spawned, e)
		if obj.Name != "" {
			named[obj.Name] = e
		}
	}

	if spec.Bounds != nil {
		e := w.CreateEntity()
		spawned = append(spawned, e)
		bounds := component.Bounds{Min: spec.Bounds.Min.Vec3, Max: spec.Bounds.Max.Vec3}
		if err := tag(w, e, ""); err != nil {
			destroy(w, ps, spawned)
			return nil, fmt.Errorf("scene: spawn bounds: %w", err)
		}
		if err := ecs.Add(w, e, component.BoundsComponent, bounds); err != nil {
			destroy(w, ps, spawned)
			return nil, fmt.Errorf("scene: spawn bounds: %w", err)
		}
	}

	if spec.Camera != nil {
		e, err := spawnCamera(w, *spec.Camera)
		if err != nil {
			destroy(w, ps, spawned)
			return nil, fmt.Errorf("scene: spawn camera: %w", err)
		}
		if spec.Camera.Name != "" {
			named[spec.Camera.Name] = e
		}
	}

	return named, nil
}

func spawnObject(w *ecs.World, ps *system.PhysicsSystem, obj ObjectSpec) (ecs.Entity, error) {
	body, err := obj.BodySpec()
	if err != nil {
		return 0, err
	}
	collider, err := obj.ColliderSpec()
	if err != nil {
		return 0, err
	}

	e := w.CreateEntity()
	if err := tag(w, e, obj.Name); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	if obj.Transform.Scale != nil {
		t := component.NewTransform(body.Position)
		t.Scale = obj.Transform.Scale.Vec3
		if err := ecs.Add(w, e, component.TransformComponent, t); err != nil {
			w.DestroyEntity(e)
			return 0, err
		}
	}
	if obj.TTL > 0 {
		if err := ecs.Add(w, e, component.TTLComponent, component.TTL{Frames: obj.TTL}); err != nil {
			w.DestroyEntity(e)
			return 0, err
		}
	}
	if _, err := ps.Spawn(w, e, body, collider); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	return e, nil
}

func spawnCamera(w *ecs.World, spec CameraSpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := tag(w, e, spec.Name); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	camera := component.Camera{
		TargetName: spec.Target,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	}
	if err := ecs.Add(w, e, component.CameraComponent, camera); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.NewTransform(spec.Transform.Position.Vec3)); err != nil {
		w.DestroyEntity(e)
		return 0, err
	}
	return e, nil
}

func tag(w *ecs.World, e ecs.Entity, name string) error {
	if err := ecs.Add(w, e, component.SceneTagComponent, component.SceneTag{}); err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	return ecs.Add(w, e, component.NameComponent, component.Name(name))
}

// Despawn removes every scene-owned entity. Bodies are released through the
// physics system before the entity is destroyed. It returns the number of
// entities removed.
func Despawn(w *ecs.World, ps *system.PhysicsSystem) int {
	entities := w.Query(component.SceneTagComponent.Kind())
	destroy(w, ps, entities)
	return len(entities)
}

func destroy(w *ecs.World, ps *system.PhysicsSystem, entities []ecs.Entity) {
	for _, e := range entities {
		if ps != nil {
			ps.Despawn(w, e)
		}
		w.DestroyEntity(e)
	}
}

// Reload replaces the current scene with the one in filename. A scene that
// fails to load leaves the current one in place.
func Reload(w *ecs.World, ps *system.PhysicsSystem, filename string) (map[string]ecs.Entity, error) {
	spec, err := LoadSceneSpec(filename)
	if err != nil {
		return nil, err
	}
	Despawn(w, ps)
	return Spawn(w, ps, spec)
}
