package world

import (
	"fmt"
	"log"

	"cubecraft/internal/profiling"
)

// DefaultTableWidth is the default side length of the chunk table.
const DefaultTableWidth = 16

// Stats counts chunk table traffic.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Replayed   uint64
	MeshBuilds uint64
}

// ChunkStore is a direct-mapped table of resident chunks. Chunk (cx, cz)
// lives in slot (cx mod W, cz mod W); a lookup that finds another chunk in
// its slot evicts it and regenerates. Not safe for concurrent use.
type ChunkStore struct {
	width int
	slots []*Chunk

	gen  TerrainGenerator
	mods *ModificationLog

	logger  *log.Logger
	verbose bool
	stats   Stats
}

// NewChunkStore creates a W x W table. width must be a power of two of at
// least 4 so a chunk and its meshing neighbours never share a slot.
func NewChunkStore(width int, gen TerrainGenerator, mods *ModificationLog, logger *log.Logger) *ChunkStore {
	if width < 4 || width&(width-1) != 0 {
		panic(fmt.Sprintf("world: chunk table width %d is not a power of two >= 4", width))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ChunkStore{
		width:  width,
		slots:  make([]*Chunk, width*width),
		gen:    gen,
		mods:   mods,
		logger: logger,
	}
}

// SetVerbose enables per-chunk generation and eviction logging.
func (cs *ChunkStore) SetVerbose(v bool) {
	cs.verbose = v
}

// Width returns the table side length.
func (cs *ChunkStore) Width() int {
	return cs.width
}

// Slot returns the table slot for chunk (cx, cz).
func (cs *ChunkStore) Slot(cx, cz int) (int, int) {
	return mod(cx, cs.width), mod(cz, cs.width)
}

// Chunk returns the chunk at (cx, cz), generating it if it is not resident.
// miss reports whether generation happened; the previous occupant of the
// slot, if any, has been evicted. The result is never nil.
func (cs *ChunkStore) Chunk(cx, cz int) (c *Chunk, miss bool) {
	sx, sz := cs.Slot(cx, cz)
	i := sx*cs.width + sz
	c = cs.slots[i]
	if c != nil && c.active && c.X == cx && c.Z == cz {
		cs.stats.Hits++
		return c, false
	}

	cs.stats.Misses++
	if c == nil {
		c = &Chunk{}
		cs.slots[i] = c
	} else if c.active {
		cs.evict(c)
	}

	c.X, c.Z = cx, cz
	cs.generate(c)
	return c, true
}

// Resident returns the chunk at (cx, cz) only if it is already loaded.
func (cs *ChunkStore) Resident(cx, cz int) *Chunk {
	sx, sz := cs.Slot(cx, cz)
	c := cs.slots[sx*cs.width+sz]
	if c != nil && c.active && c.X == cx && c.Z == cz {
		return c
	}
	return nil
}

func (cs *ChunkStore) generate(c *Chunk) {
	defer profiling.Track("world.GenerateChunk")()
	if cs.verbose {
		cs.logger.Printf("world: generating chunk (%d, %d)", c.X, c.Z)
	}
	n := GenerateChunk(cs.gen, c, cs.mods)
	if n > 0 {
		cs.stats.Replayed += uint64(n)
		if cs.verbose {
			cs.logger.Printf("world: replayed %d edits into chunk (%d, %d)", n, c.X, c.Z)
		}
	}
	profiling.Count("world.chunks_generated", 1)
}

func (cs *ChunkStore) evict(c *Chunk) {
	if cs.verbose {
		cs.logger.Printf("world: evicting chunk (%d, %d)", c.X, c.Z)
	}
	c.releaseMesh()
	c.active = false
	cs.stats.Evictions++
}

// ForEach calls fn for every resident chunk in slot order.
func (cs *ChunkStore) ForEach(fn func(c *Chunk)) {
	for _, c := range cs.slots {
		if c != nil && c.active {
			fn(c)
		}
	}
}

// Stats returns a copy of the traffic counters.
func (cs *ChunkStore) Stats() Stats {
	return cs.stats
}

// Close releases every mesh and deactivates all chunks.
func (cs *ChunkStore) Close() {
	for _, c := range cs.slots {
		if c == nil {
			continue
		}
		c.releaseMesh()
		c.active = false
	}
}
