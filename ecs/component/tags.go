package component

// Name labels an entity, usually with the scene object it was built from.
type Name string

var NameComponent = NewComponent[Name]()

// SceneTag marks entities owned by the loaded scene.
type SceneTag struct{}

var SceneTagComponent = NewComponent[SceneTag]()
