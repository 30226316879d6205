package world

import (
	"fmt"

	"cubecraft/internal/block"
	"cubecraft/internal/meshing"
)

const (
	// Chunk dimensions. ChunkWidth must be a power of two.
	ChunkWidth  = meshing.Width
	ChunkHeight = meshing.Height

	noModification = -1
)

// ChunkCoord addresses a column in the chunk grid.
type ChunkCoord struct {
	X, Z int
}

// Chunk is a ChunkWidth x ChunkHeight x ChunkWidth column of blocks.
type Chunk struct {
	X, Z int

	active   bool
	blocks   [ChunkWidth][ChunkHeight][ChunkWidth]block.Type // [x][y][z]
	mesh     *meshing.Mesh
	modIndex int
}

func checkLocal(x, y, z int) {
	if x < 0 || x >= ChunkWidth || y < 0 || y >= ChunkHeight || z < 0 || z >= ChunkWidth {
		panic(fmt.Sprintf("world: local block (%d, %d, %d) out of range", x, y, z))
	}
}

// Block returns the block at local coordinates. It panics if they are out of range.
func (c *Chunk) Block(x, y, z int) block.Type {
	checkLocal(x, y, z)
	return c.blocks[x][y][z]
}

// SetBlock writes the block at local coordinates without touching the mesh
// or the modification log. It panics if they are out of range.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) {
	checkLocal(x, y, z)
	c.blocks[x][y][z] = t
}

// Coord returns the chunk grid coordinate.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Z: c.Z}
}

// Active reports whether the chunk currently holds generated terrain.
func (c *Chunk) Active() bool {
	return c.active
}

// Mesh returns the current mesh, or nil when it has been invalidated.
func (c *Chunk) Mesh() *meshing.Mesh {
	return c.mesh
}

// ModificationIndex returns the chunk's entry in the modification log, or -1.
func (c *Chunk) ModificationIndex() int {
	return c.modIndex
}

// releaseMesh frees the mesh; it reports whether there was one.
func (c *Chunk) releaseMesh() bool {
	if c.mesh == nil {
		return false
	}
	c.mesh.Release()
	c.mesh = nil
	return true
}

// reset prepares the chunk for new terrain at (cx, cz).
func (c *Chunk) reset(cx, cz int) {
	c.X = cx
	c.Z = cz
	c.active = true
	c.blocks = [ChunkWidth][ChunkHeight][ChunkWidth]block.Type{}
	c.mesh = nil
	c.modIndex = noModification
}

// Snapshot copies the block grid, for comparisons and previews.
func (c *Chunk) Snapshot() [ChunkWidth][ChunkHeight][ChunkWidth]block.Type {
	return c.blocks
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ToChunkCoord converts a world block coordinate to a chunk coordinate.
func ToChunkCoord(v int) int {
	return floorDiv(v, ChunkWidth)
}

// ToLocalCoord converts a world block coordinate to its in-chunk index.
func ToLocalCoord(v int) int {
	return mod(v, ChunkWidth)
}
