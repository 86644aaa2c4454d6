package physics

import "strconv"

// Handle packs a slot index and a generation into one value. The zero Handle
// never refers to a live slot.
type Handle uint64

type slotIndex uint32
type generation uint32

const slotBits = 32

func makeHandle(slot slotIndex, gen generation) Handle {
	return Handle(uint64(gen)<<slotBits | uint64(slot))
}

func (h Handle) slot() slotIndex {
	return slotIndex(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.slot()), 10) + "v" + strconv.FormatUint(uint64(h.generation()), 10)
}

func (h Handle) Valid() bool {
	return h.generation() != 0
}

// BodyHandle references a Body inside a Registry.
type BodyHandle struct{ Handle }

// ColliderHandle references a Collider inside a Registry.
type ColliderHandle struct{ Handle }

// Model links a presentation entity to its simulated counterpart.
type Model struct {
	Body     BodyHandle
	Collider ColliderHandle
}
