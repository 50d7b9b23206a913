package component

import "github.com/lixenwraith/planet/core"

// ObjectComponent identifies an entity's catalog section and behavior kind
type ObjectComponent struct {
	Name     string    // Catalog section (model name)
	Kind     core.Kind // Behavior dispatch tag
	IsObject bool      // Set by the generic creation hook; consumable by other systems
	Glyph    rune      // Display rune, zero when undeclared
}
