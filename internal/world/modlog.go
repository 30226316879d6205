package world

import (
	"errors"
	"fmt"

	"cubecraft/internal/block"
)

// ErrInvalidModification is returned when a logged edit is out of range or
// names an unknown block kind.
var ErrInvalidModification = errors.New("world: invalid block modification")

// BlockModification is one edit in chunk-local coordinates.
type BlockModification struct {
	X, Y, Z int
	Type    block.Type
}

// Validate checks the coordinates and block kind.
func (m BlockModification) Validate() error {
	if m.X < 0 || m.X >= ChunkWidth || m.Y < 0 || m.Y >= ChunkHeight || m.Z < 0 || m.Z >= ChunkWidth {
		return fmt.Errorf("%w: position (%d, %d, %d)", ErrInvalidModification, m.X, m.Y, m.Z)
	}
	if !block.Valid(m.Type) {
		return fmt.Errorf("%w: block kind %d", ErrInvalidModification, m.Type)
	}
	return nil
}

// ChunkModification lists the edits made to one chunk column, oldest first.
type ChunkModification struct {
	X, Z   int
	Blocks []BlockModification
}

// ModificationLog is the append-only record of player edits. Chunks are
// regenerated from the seed and then have their entry replayed, so edits
// survive eviction.
type ModificationLog struct {
	entries []ChunkModification
	index   map[ChunkCoord]int
}

// NewModificationLog builds a log from saved entries. Entries for the same
// chunk are merged in order. Every edit is validated.
func NewModificationLog(entries []ChunkModification) (*ModificationLog, error) {
	l := &ModificationLog{index: make(map[ChunkCoord]int)}
	for _, e := range entries {
		coord := ChunkCoord{X: e.X, Z: e.Z}
		for _, m := range e.Blocks {
			if err := m.Validate(); err != nil {
				return nil, fmt.Errorf("chunk (%d, %d): %w", e.X, e.Z, err)
			}
		}
		i, ok := l.index[coord]
		if !ok {
			i = len(l.entries)
			l.entries = append(l.entries, ChunkModification{X: e.X, Z: e.Z})
			l.index[coord] = i
		}
		l.entries[i].Blocks = append(l.entries[i].Blocks, e.Blocks...)
	}
	return l, nil
}

// Len returns the number of modified chunks.
func (l *ModificationLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Lookup returns the entry index for chunk (cx, cz).
func (l *ModificationLog) Lookup(cx, cz int) (int, bool) {
	if l == nil {
		return noModification, false
	}
	i, ok := l.index[ChunkCoord{X: cx, Z: cz}]
	if !ok {
		return noModification, false
	}
	return i, true
}

// Append records m against c, creating the chunk's entry on its first edit.
func (l *ModificationLog) Append(c *Chunk, m BlockModification) {
	if c.modIndex == noModification {
		i, ok := l.Lookup(c.X, c.Z)
		if !ok {
			i = len(l.entries)
			l.entries = append(l.entries, ChunkModification{X: c.X, Z: c.Z})
			l.index[ChunkCoord{X: c.X, Z: c.Z}] = i
		}
		c.modIndex = i
	}
	l.entries[c.modIndex].Blocks = append(l.entries[c.modIndex].Blocks, m)
}

// Replay applies the logged edits for c in order and links c to its entry.
// It returns the number of edits applied.
func (l *ModificationLog) Replay(c *Chunk) int {
	i, ok := l.Lookup(c.X, c.Z)
	if !ok {
		c.modIndex = noModification
		return 0
	}
	c.modIndex = i
	blocks := l.entries[i].Blocks
	for _, m := range blocks {
		c.blocks[m.X][m.Y][m.Z] = m.Type
	}
	return len(blocks)
}

// Entries returns a deep copy of the log.
func (l *ModificationLog) Entries() []ChunkModification {
	if l == nil {
		return nil
	}
	out := make([]ChunkModification, len(l.entries))
	for i, e := range l.entries {
		out[i] = ChunkModification{
			X:      e.X,
			Z:      e.Z,
			Blocks: append([]BlockModification(nil), e.Blocks...),
		}
	}
	return out
}

// Edits returns the total number of logged block edits.
func (l *ModificationLog) Edits() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.entries {
		n += len(e.Blocks)
	}
	return n
}
