package component

// Camera frames the debug view. The camera entity's Transform holds the
// world point drawn at the centre of the screen.
type Camera struct {
	TargetName string
	// Zoom is screen pixels per world unit.
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
