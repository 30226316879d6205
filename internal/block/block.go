package block

import (
	"fmt"
	"strings"
)

// Type identifies the material stored in one grid cell.
type Type uint8

const (
	Air Type = iota
	Water
	Stone
	Sand
	Dirt
	Grass
	Wood
	Tree
	Leaves
	GameCube

	numTypes
)

var names = [numTypes]string{
	Air:      "air",
	Water:    "water",
	Stone:    "stone",
	Sand:     "sand",
	Dirt:     "dirt",
	Grass:    "grass",
	Wood:     "wood",
	Tree:     "tree",
	Leaves:   "leaves",
	GameCube: "gamecube",
}

// IsSolid reports whether t blocks movement, hides faces and can be selected.
func IsSolid(t Type) bool {
	return t != Air && t != Water
}

// Valid reports whether t is a recognized block kind.
func Valid(t Type) bool {
	return t < numTypes
}

func (t Type) String() string {
	if !Valid(t) {
		return fmt.Sprintf("block(%d)", uint8(t))
	}
	return names[t]
}

// Parse returns the block kind with the given name (case-insensitive).
func Parse(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range names {
		if s == n {
			return Type(i), nil
		}
	}
	return Air, fmt.Errorf("unknown block %q", name)
}

// All returns every recognized kind in enum order.
func All() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}
