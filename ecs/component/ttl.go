package component

// TTL destroys an entity once Frames reaches zero. Entities with a Model
// release their body on the following physics tick.
type TTL struct {
	// Frames remaining, in update ticks.
	Frames int
}

var TTLComponent = NewComponent[TTL]()
