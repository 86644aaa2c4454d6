package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidbridge/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("scene: invalid scene")

const defaultFriction = 0.5

type SceneSpec struct {
	Name    string       `yaml:"name"`
	Camera  *CameraSpec  `yaml:"camera"`
	Bounds  *BoundsSpec  `yaml:"bounds"`
	Objects []ObjectSpec `yaml:"objects"`
}

// BoundsSpec is the box simulated objects are destroyed on leaving.
type BoundsSpec struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

type CameraSpec struct {
	Name       string        `yaml:"name"`
	Transform  TransformSpec `yaml:"transform"`
	Target     string        `yaml:"target"`
	Zoom       float64       `yaml:"zoom"`
	Smoothness float64       `yaml:"smoothness"`
}

type ObjectSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
	Body      BodySpec      `yaml:"body"`
	Collider  ColliderSpec  `yaml:"collider"`
	// TTL destroys the object after this many ticks. Zero keeps it forever.
	TTL int `yaml:"ttl"`
}

type TransformSpec struct {
	Position Vec3    `yaml:"position"`
	Angle    float64 `yaml:"angle"`
	Scale    *Vec3   `yaml:"scale"`
}

type BodySpec struct {
	Kind            string  `yaml:"kind"`
	Mass            float64 `yaml:"mass"`
	LinearVelocity  Vec3    `yaml:"linear_velocity"`
	AngularVelocity float64 `yaml:"angular_velocity"`
	FixedRotation   bool    `yaml:"fixed_rotation"`
}

type ColliderSpec struct {
	Shape       string    `yaml:"shape"`
	HalfExtents Vec3      `yaml:"half_extents"`
	Radius      float64   `yaml:"radius"`
	Heights     []float64 `yaml:"heights"`
	Spacing     float64   `yaml:"spacing"`
	Friction    *float64  `yaml:"friction"`
	Elasticity  float64   `yaml:"elasticity"`
	Sensor      bool      `yaml:"sensor"`
}

// Vec3 accepts either a [x, y, z] sequence or an {x, y, z} mapping.
type Vec3 struct {
	mgl64.Vec3
}

func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector needs 3 components, got %d", len(xs))
		}
		v.Vec3 = mgl64.Vec3{xs[0], xs[1], xs[2]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		v.Vec3 = mgl64.Vec3{m.X, m.Y, m.Z}
		return nil
	default:
		return fmt.Errorf("vector must be a sequence or mapping")
	}
}

// LoadSpec reads and decodes a YAML file through Load.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scene: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return SceneSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return SceneSpec{}, fmt.Errorf("scene: %s: %w", filename, err)
	}
	return spec, nil
}

// Validate checks the parts of a scene the registry cannot: kind names and
// duplicate object names. Numeric checks happen on insert.
func (s SceneSpec) Validate() error {
	seen := make(map[string]bool, len(s.Objects))
	for i, obj := range s.Objects {
		if obj.Name != "" {
			if seen[obj.Name] {
				return fmt.Errorf("object %d: duplicate name %q: %w", i, obj.Name, ErrInvalidScene)
			}
			seen[obj.Name] = true
		}
		if _, err := parseBodyKind(obj.Body.Kind); err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
		if _, err := parseShapeKind(obj.Collider.Shape); err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
		if obj.TTL < 0 {
			return fmt.Errorf("object %q: negative ttl: %w", obj.Name, ErrInvalidScene)
		}
	}
	if b := s.Bounds; b != nil {
		for i := 0; i < 3; i++ {
			if !(b.Min.Vec3[i] < b.Max.Vec3[i]) {
				return fmt.Errorf("bounds min must be below max: %w", ErrInvalidScene)
			}
		}
	}
	if s.Camera != nil && s.Camera.Target != "" && !seen[s.Camera.Target] {
		return fmt.Errorf("camera target %q not found: %w", s.Camera.Target, ErrInvalidScene)
	}
	return nil
}

// BodySpec converts the object into a registry body description.
func (o ObjectSpec) BodySpec() (physics.BodySpec, error) {
	kind, err := parseBodyKind(o.Body.Kind)
	if err != nil {
		return physics.BodySpec{}, err
	}
	return physics.BodySpec{
		Kind:            kind,
		Position:        o.Transform.Position.Vec3,
		Angle:           o.Transform.Angle,
		LinearVelocity:  o.Body.LinearVelocity.Vec3,
		AngularVelocity: o.Body.AngularVelocity,
		Mass:            o.Body.Mass,
		FixedRotation:   o.Body.FixedRotation,
	}, nil
}

// ColliderSpec converts the object into a registry collider description.
func (o ObjectSpec) ColliderSpec() (physics.ColliderSpec, error) {
	shape, err := parseShapeKind(o.Collider.Shape)
	if err != nil {
		return physics.ColliderSpec{}, err
	}
	friction := defaultFriction
	if o.Collider.Friction != nil {
		friction = *o.Collider.Friction
	}
	return physics.ColliderSpec{
		Shape:       shape,
		HalfExtents: o.Collider.HalfExtents.Vec3,
		Radius:      o.Collider.Radius,
		Heights:     append([]float64(nil), o.Collider.Heights...),
		Spacing:     o.Collider.Spacing,
		Friction:    friction,
		Elasticity:  o.Collider.Elasticity,
		Sensor:      o.Collider.Sensor,
	}, nil
}

func parseBodyKind(s string) (physics.BodyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dynamic":
		return physics.BodyDynamic, nil
	case "static":
		return physics.BodyStatic, nil
	case "kinematic":
		return physics.BodyKinematic, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q: %w", s, ErrInvalidScene)
	}
}

func parseShapeKind(s string) (physics.ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "cuboid":
		return physics.ShapeBox, nil
	case "sphere", "ball":
		return physics.ShapeSphere, nil
	case "plane", "halfspace":
		return physics.ShapePlane, nil
	case "heightfield":
		return physics.ShapeHeightfield, nil
	default:
		return 0, fmt.Errorf("unknown collider shape %q: %w", s, ErrInvalidScene)
	}
}
