package inventory

import (
	"errors"
	"fmt"

	"cubecraft/internal/block"
)

const (
	NumSlots   = 8
	StackLimit = 99
)

// ErrInvalidSlots is returned by Restore for malformed saved slots.
var ErrInvalidSlots = errors.New("inventory: invalid slots")

// Slot holds a stack of one block kind. A slot with Count 0 is empty but
// remembers its last kind.
type Slot struct {
	Type  block.Type
	Count int
}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool {
	return s.Count == 0
}

// Inventory is the player's hotbar.
type Inventory struct {
	Slots   [NumSlots]Slot
	Current int // Index 0-7
}

func New() *Inventory {
	return &Inventory{}
}

// Add puts one block of kind t into the inventory. A slot already holding t
// below the stack limit is preferred, then the first empty slot. It returns
// false when there is no room or t cannot be held.
func (inv *Inventory) Add(t block.Type) bool {
	if !block.IsSolid(t) {
		return false
	}

	// 1. Try to merge with an existing stack
	for i := range inv.Slots {
		if inv.Slots[i].Type == t && inv.Slots[i].Count < StackLimit {
			inv.Slots[i].Count++
			return true
		}
	}

	// 2. Place in the first empty slot
	for i := range inv.Slots {
		if inv.Slots[i].Empty() {
			inv.Slots[i] = Slot{Type: t, Count: 1}
			return true
		}
	}
	return false
}

// Selected returns the currently selected slot.
func (inv *Inventory) Selected() Slot {
	return inv.Slots[inv.Current]
}

// Take removes one block from the selected slot.
func (inv *Inventory) Take() (block.Type, bool) {
	s := &inv.Slots[inv.Current]
	if s.Empty() {
		return block.Air, false
	}
	s.Count--
	return s.Type, true
}

// Cycle moves the selection by direction, wrapping around the hotbar.
func (inv *Inventory) Cycle(direction int) {
	if direction > 0 {
		direction = 1
	} else if direction < 0 {
		direction = -1
	}
	inv.Current = (inv.Current + direction + NumSlots) % NumSlots
}

// Count returns the total number of blocks of kind t held.
func (inv *Inventory) Count(t block.Type) int {
	n := 0
	for _, s := range inv.Slots {
		if s.Type == t {
			n += s.Count
		}
	}
	return n
}

// Snapshot returns the slots for saving.
func (inv *Inventory) Snapshot() []Slot {
	return append([]Slot(nil), inv.Slots[:]...)
}

// Restore replaces the slots with saved ones. Missing trailing slots are
// empty; the selection is reset.
func (inv *Inventory) Restore(slots []Slot) error {
	if len(slots) > NumSlots {
		return fmt.Errorf("%w: %d slots, max %d", ErrInvalidSlots, len(slots), NumSlots)
	}
	var next [NumSlots]Slot
	for i, s := range slots {
		if s.Count < 0 || s.Count > StackLimit {
			return fmt.Errorf("%w: slot %d count %d", ErrInvalidSlots, i, s.Count)
		}
		if !block.Valid(s.Type) {
			return fmt.Errorf("%w: slot %d kind %d", ErrInvalidSlots, i, s.Type)
		}
		next[i] = s
	}
	inv.Slots = next
	inv.Current = 0
	return nil
}
