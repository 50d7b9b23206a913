package core

import "strconv"

// Entity is an opaque handle to a live game object
// Zero is never allocated and means "no entity"
type Entity uint64

// String renders the handle as a decimal id, the form used by console commands
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// ParseEntity parses a decimal entity id as produced by Entity.String
func ParseEntity(s string) (Entity, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Entity(id), nil
}

// Kind tags an entity with the behavior set that drives it
type Kind uint8

const (
	KindGeneric Kind = iota
	KindPlanet
	KindDropper
)

// String returns the config spelling of the kind
func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindDropper:
		return "dropper"
	default:
		return "object"
	}
}

// ParseKind maps a config value to a Kind, unknown values fall back to KindGeneric
func ParseKind(s string) Kind {
	switch s {
	case "planet", "Planet":
		return KindPlanet
	case "dropper", "Dropper":
		return KindDropper
	default:
		return KindGeneric
	}
}
