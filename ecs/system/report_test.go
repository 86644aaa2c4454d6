package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/milk9111/rigidbridge/physics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReportSystemLogsPoseEveryN(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w, ps := newBridge(t)
	spawn(t, w, ps, "cube", physics.DynamicBody(mgl64.Vec3{0, 20, 0}), physics.Box(1, 1, 1))
	rs := NewReportSystem(zap.New(core), 10)
	sched := ecs.NewScheduler(ps, rs)

	for i := 0; i < 25; i++ {
		sched.Update(w)
	}

	require.Equal(t, 25, rs.Ticks())
	poses := logs.FilterMessage("pose").All()
	require.Len(t, poses, 2)
	fields := poses[1].ContextMap()
	require.Equal(t, "cube", fields["entity"])
	require.Equal(t, int64(20), fields["tick"])
	require.Less(t, fields["y"].(float64), 20.0)
}

func TestReportSystemLogsContacts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := ecs.NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	require.NoError(t, ecs.Add(w, a, component.NameComponent, component.Name("ground")))

	rs := NewReportSystem(zap.New(core), 0)
	w.Events().Push(ecs.Event{Type: ecs.EventContact, Data: ecs.ContactEvent{A: a, B: b}})
	w.Events().Push(ecs.Event{Type: "other"})
	rs.Update(w)

	contacts := logs.FilterMessage("contact").All()
	require.Len(t, contacts, 1)
	fields := contacts[0].ContextMap()
	require.Equal(t, "ground", fields["a"])
	require.Equal(t, b.String(), fields["b"])
	require.Zero(t, logs.FilterMessage("pose").Len())
}

func TestCameraSystemFollowsTarget(t *testing.T) {
	cases := []struct {
		name       string
		smoothness float64
		wantX      float64
	}{
		{"snap", 0, 10},
		{"half", 0.5, 5},
		{"out_of_range_snaps", 1.5, 10},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			target := w.CreateEntity()
			require.NoError(t, ecs.Add(w, target, component.NameComponent, component.Name("cube")))
			require.NoError(t, ecs.Add(w, target, component.TransformComponent, component.NewTransform(mgl64.Vec3{10, 4, 0})))

			cam := w.CreateEntity()
			require.NoError(t, ecs.Add(w, cam, component.CameraComponent, component.Camera{TargetName: "cube", Smoothness: c.smoothness}))
			require.NoError(t, ecs.Add(w, cam, component.TransformComponent, component.NewTransform(mgl64.Vec3{})))

			NewCameraSystem().Update(w)

			tr, ok := ecs.Get(w, cam, component.TransformComponent)
			require.True(t, ok)
			require.InDelta(t, c.wantX, tr.Position.X(), 1e-9)
		})
	}
}

func TestCameraSystemWithoutTargetIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	cam := w.CreateEntity()
	require.NoError(t, ecs.Add(w, cam, component.CameraComponent, component.Camera{TargetName: "missing"}))
	require.NoError(t, ecs.Add(w, cam, component.TransformComponent, component.NewTransform(mgl64.Vec3{1, 2, 3})))

	require.NotPanics(t, func() { NewCameraSystem().Update(w) })
	tr, _ := ecs.Get(w, cam, component.TransformComponent)
	require.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
}
