package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/milk9111/rigidbridge/physics"
)

const (
	debugDotSize     = 3
	defaultDebugZoom = 40
)

var (
	staticColor    = cp.FColor{R: 0.6, G: 0.6, B: 0.6, A: 1}
	kinematicColor = cp.FColor{R: 1, G: 0.6, B: 0.1, A: 1}
	dynamicColor   = cp.FColor{R: 0.2, G: 1, B: 0.2, A: 1}
	sleepingColor  = cp.FColor{R: 0.2, G: 0.4, B: 0.8, A: 1}
)

// PhysicsDebugSystem draws the solver's shapes and a pose listing. It has no
// per-tick work of its own.
type PhysicsDebugSystem struct {
	registry *physics.Registry
}

func NewPhysicsDebugSystem(registry *physics.Registry) *PhysicsDebugSystem {
	return &PhysicsDebugSystem{registry: registry}
}

func (ds *PhysicsDebugSystem) Update(w *ecs.World) {}

func (ds *PhysicsDebugSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	DrawPhysicsDebug(ds.registry, w, screen)
	DrawPoseDebug(ds.registry, w, screen)
}

func DrawPhysicsDebug(registry *physics.Registry, w *ecs.World, screen *ebiten.Image) {
	if registry == nil || w == nil || screen == nil {
		return
	}

	camX, camY, zoom := debugCameraTransform(w)
	bounds := screen.Bounds()
	drawer := &physicsDebugDrawer{
		screen: screen,
		camX:   camX,
		camY:   camY,
		zoom:   zoom,
		halfW:  float64(bounds.Dx()) / 2,
		halfH:  float64(bounds.Dy()) / 2,
	}
	registry.DebugDraw(drawer)
}

func DrawPoseDebug(registry *physics.Registry, w *ecs.World, screen *ebiten.Image) {
	if registry == nil || w == nil || screen == nil {
		return
	}
	text := fmt.Sprintf("t=%.2fs steps=%d bodies=%d\n", registry.Time(), registry.Steps(), registry.Len())
	for _, e := range w.Query(component.ModelComponent.Kind(), component.TransformComponent.Kind()) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		text += fmt.Sprintf("%s: (%.3f, %.3f, %.3f)\n", entityLabel(w, e), t.Position.X(), t.Position.Y(), t.Position.Z())
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
	halfW  float64
	halfH  float64
}

// Strokes use the fill colour so body kinds stay distinguishable.
func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.strokeCircle(pos, radius, fill)
	d.strokeLine(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.strokeLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.strokeLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.strokeLine(verts[i], verts[(i+1)%count], fill)
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.strokeCircle(pos, debugDotSize/d.zoom, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return dynamicColor
}

// ShapeColor picks a colour per body kind. Sleeping bodies are dimmed.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	body := shape.Body()
	switch {
	case body == nil:
		return dynamicColor
	case body.GetType() == cp.BODY_STATIC:
		return staticColor
	case body.GetType() == cp.BODY_KINEMATIC:
		return kinematicColor
	case body.IsSleeping():
		return sleepingColor
	default:
		return dynamicColor
	}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return kinematicColor
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 1}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) strokeLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) strokeCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	x, y := d.toScreen(center)
	vector.StrokeCircle(d.screen, float32(x), float32(y), float32(radius*d.zoom), 1, toNRGBA(c), true)
}

// toScreen maps world units (Y up) to pixels (Y down) around the camera.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return d.halfW + (v.X-d.camX)*d.zoom, d.halfH - (v.Y-d.camY)*d.zoom
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func debugCameraTransform(w *ecs.World) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := float64(defaultDebugZoom)
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return camX, camY, zoom
	}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		camX = camTransform.Position.X()
		camY = camTransform.Position.Y()
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent); ok {
		if camComp.Zoom > 0 {
			zoom = camComp.Zoom
		}
	}
	return camX, camY, zoom
}
