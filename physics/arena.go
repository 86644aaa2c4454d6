package physics

// arena stores values in reusable slots. Each slot carries a generation that
// is bumped on removal so handles to a freed slot stop resolving.
type arena[T any] struct {
	slots []arenaSlot[T]
	free  []slotIndex
	live  int
}

type arenaSlot[T any] struct {
	gen   generation
	alive bool
	value T
}

func (a *arena[T]) insert(v T) Handle {
	var idx slotIndex
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = slotIndex(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{gen: 1})
	}
	s := &a.slots[idx]
	s.alive = true
	s.value = v
	a.live++
	return makeHandle(idx, s.gen)
}

func (a *arena[T]) get(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	return s.value, true
}

func (a *arena[T]) remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.alive = false
	s.gen++
	if s.gen == 0 {
		// wrapped: retire the slot instead of handing out generation 0
		a.live--
		return v, true
	}
	a.free = append(a.free, h.slot())
	a.live--
	return v, true
}

func (a *arena[T]) lookup(h Handle) *arenaSlot[T] {
	if !h.Valid() {
		return nil
	}
	idx := int(h.slot())
	if idx >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if !s.alive || s.gen != h.generation() {
		return nil
	}
	return s
}

func (a *arena[T]) len() int {
	return a.live
}

// each visits live slots in slot order.
func (a *arena[T]) each(fn func(Handle, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.alive {
			continue
		}
		fn(makeHandle(slotIndex(i), s.gen), s.value)
	}
}
