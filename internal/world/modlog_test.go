package world

import (
	"errors"
	"testing"

	"cubecraft/internal/block"
)

func TestModificationLogValidation(t *testing.T) {
	tests := []struct {
		name string
		mod  BlockModification
	}{
		{"negative x", BlockModification{X: -1, Y: 0, Z: 0, Type: block.Stone}},
		{"x too large", BlockModification{X: ChunkWidth, Y: 0, Z: 0, Type: block.Stone}},
		{"y too large", BlockModification{X: 0, Y: ChunkHeight, Z: 0, Type: block.Stone}},
		{"z too large", BlockModification{X: 0, Y: 0, Z: 16, Type: block.Stone}},
		{"unknown kind", BlockModification{X: 0, Y: 0, Z: 0, Type: block.Type(200)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModificationLog([]ChunkModification{{X: 1, Z: 1, Blocks: []BlockModification{tt.mod}}})
			if !errors.Is(err, ErrInvalidModification) {
				t.Fatalf("got %v, want ErrInvalidModification", err)
			}
		})
	}
}

func TestModificationLogMergesDuplicates(t *testing.T) {
	l, err := NewModificationLog([]ChunkModification{
		{X: 0, Z: 0, Blocks: []BlockModification{{1, 1, 1, block.Stone}}},
		{X: 2, Z: -1, Blocks: []BlockModification{{0, 5, 0, block.Wood}}},
		{X: 0, Z: 0, Blocks: []BlockModification{{1, 1, 1, block.Air}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	i, ok := l.Lookup(0, 0)
	if !ok {
		t.Fatal("chunk (0,0) missing")
	}
	blocks := l.Entries()[i].Blocks
	if len(blocks) != 2 || blocks[1].Type != block.Air {
		t.Errorf("merged entry = %+v, want stone then air", blocks)
	}

	c := &Chunk{X: 0, Z: 0}
	if n := l.Replay(c); n != 2 {
		t.Errorf("replayed %d edits, want 2", n)
	}
	if c.Block(1, 1, 1) != block.Air {
		t.Error("later edit must win on replay")
	}
	if c.ModificationIndex() != i {
		t.Errorf("modIndex = %d, want %d", c.ModificationIndex(), i)
	}
}

func TestModificationLogAppend(t *testing.T) {
	l, err := NewModificationLog(nil)
	if err != nil {
		t.Fatal(err)
	}
	c := &Chunk{X: -4, Z: 3, modIndex: noModification}
	l.Append(c, BlockModification{X: 2, Y: 70, Z: 9, Type: block.Sand})
	l.Append(c, BlockModification{X: 3, Y: 70, Z: 9, Type: block.Sand})

	if c.ModificationIndex() != 0 || l.Len() != 1 || l.Edits() != 2 {
		t.Fatalf("index %d, len %d, edits %d", c.ModificationIndex(), l.Len(), l.Edits())
	}

	entries := l.Entries()
	entries[0].Blocks[0].Type = block.Stone
	if l.Entries()[0].Blocks[0].Type != block.Sand {
		t.Error("Entries must return a deep copy")
	}
}

func TestNilModificationLog(t *testing.T) {
	var l *ModificationLog
	c := &Chunk{}
	if n := l.Replay(c); n != 0 || c.ModificationIndex() != noModification {
		t.Error("nil log must replay nothing")
	}
	if l.Len() != 0 || l.Entries() != nil {
		t.Error("nil log must be empty")
	}
}
