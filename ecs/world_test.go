package ecs

import (
	"testing"

	"github.com/milk9111/rigidbridge/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for dead entity")
				}
				if len(w.Entities()) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(w.Entities()))
				}
			}
		})
	}
}

func TestRecycledEntityIsNotAliasOfOldHandle(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, fresh)
	}
	if fresh == old {
		t.Fatalf("recycled entity must carry a new generation")
	}
	if Has(w, fresh, h) {
		t.Fatalf("recycled entity inherited a component")
	}
	if Has(w, old, h) {
		t.Fatalf("stale handle still resolves")
	}
	if err := Add(w, old, h, 2); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if (Entity(0)).Valid() {
		t.Fatalf("zero entity must be invalid")
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2, "a"); err != nil {
					return err
				}
				return Add(w, e2, h2, "b")
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2) || !Has(w, e2, h2) {
					t.Fatalf("expected both entities to have string component")
				}
				if v, _ := Get(w, e2, h2); v != "b" {
					t.Fatalf("expected b, got %q", v)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2) },
		},
		{
			name:  "overwrite_float",
			setup: func() error { _ = Add(w, e1, h3, 1.0); return Add(w, e1, h3, 1.23) },
			check: func(t *testing.T) {
				if v, ok := Get(w, e1, h3); !ok || v != 1.23 {
					t.Fatalf("expected overwritten float, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e1, h3) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := w.AddComponent(e1, component.ComponentKind[int]{}, 1); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := w.CreateEntity()
				e2 := w.CreateEntity()
				e3 := w.CreateEntity()

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()

				for _, add := range []struct {
					e Entity
					k component.Kind
				}{{e1, ka}, {e2, ka}, {e2, kb}, {e3, kb}} {
					if err := w.AddComponent(add.e, add.k, 1); err != nil {
						t.Fatal(err)
					}
				}

				res := w.Query(ka, kb)
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()
				ka := component.NewComponentKind[int]()
				if err := w.AddComponent(e, ka, 1); err != nil {
					t.Fatal(err)
				}
				w.DestroyEntity(e)
				if res := w.Query(ka); len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
				if _, ok := w.First(ka); ok {
					t.Fatalf("First should find nothing")
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				if err := w.AddComponent(e, ka, 1); err != nil {
					t.Fatal(err)
				}
				if res := w.Query(ka, kb); res != nil {
					t.Fatalf("expected nil when other store missing, got %v", res)
				}
			},
		},
		{
			name: "survives_swap_remove",
			run: func(t *testing.T) {
				w := NewWorld()
				ka := component.NewComponentKind[int]()
				ents := []Entity{w.CreateEntity(), w.CreateEntity(), w.CreateEntity()}
				for i, e := range ents {
					if err := w.AddComponent(e, ka, i); err != nil {
						t.Fatal(err)
					}
				}
				w.RemoveComponent(ents[0], ka)
				res := w.Query(ka)
				if len(res) != 2 {
					t.Fatalf("expected 2 entities, got %v", res)
				}
				v, ok := w.GetComponent(ents[2], ka)
				if !ok || v.(int) != 2 {
					t.Fatalf("moved value lost: %v", v)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct {
	calls  int
	events int
}

func (s *countingSystem) Update(w *World) {
	s.calls++
	s.events = len(w.Events().Peek())
	w.Events().Push(Event{Type: "tick"})
}

func TestSchedulerRunsSystemsAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	a := &countingSystem{}
	b := &countingSystem{}
	s := NewScheduler(a, nil, b)

	if len(s.Systems()) != 2 {
		t.Fatalf("nil system should be skipped, got %d", len(s.Systems()))
	}

	for i := 0; i < 3; i++ {
		s.Update(w)
	}
	if a.calls != 3 || b.calls != 3 {
		t.Fatalf("expected 3 calls each, got %d and %d", a.calls, b.calls)
	}
	// b sees the event a pushed in the same tick, a never sees last tick's
	if a.events != 0 || b.events != 1 {
		t.Fatalf("unexpected event visibility a=%d b=%d", a.events, b.events)
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("events should be flushed after Update")
	}
}
