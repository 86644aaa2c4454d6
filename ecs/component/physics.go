package component

import "github.com/milk9111/rigidbridge/physics"

// ModelComponent links an entity to its body and collider in the registry.
var ModelComponent = NewComponent[physics.Model]()
