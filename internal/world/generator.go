package world

import (
	"cubecraft/internal/block"
	"cubecraft/internal/profiling"
)

// Terrain shape.
const (
	LandHeightMin = 51
	LandHeightMax = 67

	stoneBelow = 53
	sandBelow  = 56

	// MaxTrees is the number of tree placement attempts per chunk.
	MaxTrees = 4
)

// TerrainGenerator fills freshly reset chunks. Implementations must be pure
// functions of their configuration and the chunk coordinate.
type TerrainGenerator interface {
	PopulateChunk(c *Chunk)
	HeightAt(worldX, worldZ int) int
}

// Generator is the standard noise terrain: stone, sand, dirt and grass
// strata, a few trees and one buried game cube per chunk.
type Generator struct {
	noise Noise
}

// NewGenerator creates the standard generator for seed.
func NewGenerator(seed uint16) *Generator {
	return &Generator{noise: NewNoise(seed)}
}

// HeightAt returns the column height (first air y) at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.HeightNoise(worldX, worldZ)
	return int(LandHeightMin + float32(LandHeightMax-LandHeightMin)*n)
}

// PopulateChunk writes terrain for c.X, c.Z into c.
func (g *Generator) PopulateChunk(c *Chunk) {
	defer profiling.Track("world.PopulateChunk")()

	baseX := c.X * ChunkWidth
	baseZ := c.Z * ChunkWidth

	var heights [ChunkWidth][ChunkWidth]int
	for x := 0; x < ChunkWidth; x++ {
		for z := 0; z < ChunkWidth; z++ {
			height := g.HeightAt(baseX+x, baseZ+z)
			heights[x][z] = height
			for y := 0; y < height; y++ {
				var t block.Type
				switch {
				case y < stoneBelow:
					t = block.Stone
				case y < sandBelow:
					t = block.Sand
				case y == height-1:
					t = block.Grass
				default:
					t = block.Dirt
				}
				c.blocks[x][y][z] = t
			}
		}
	}

	d := g.decorations(baseX, baseZ)
	for _, site := range d.trees {
		x, z := site[0], site[1]
		y := heights[x][z]
		if c.blocks[x][y-1][z] == block.Grass {
			placeTree(c, x, y, z)
		}
	}

	gx, gz := d.cube[0], d.cube[2]
	gy := d.cube[1] % (heights[gx][gz] - 1)
	c.blocks[gx][gy][gz] = block.GameCube
}

// decorationSites holds local tree positions and the game cube position
// before its y is folded into the column height.
type decorationSites struct {
	trees [MaxTrees][2]int
	cube  [3]int
}

// decorations walks the hash chain for the chunk at world origin
// (baseX, baseZ). The chain starts from the chunk's hash fraction scaled
// back to 16 bits, which truncates one below the raw hash for about half
// of all chunks. Existing saves depend on that value.
func (g *Generator) decorations(baseX, baseZ int) decorationSites {
	rnd := uint16(65535.0 * float64(g.noise.HashFraction(baseX, baseZ)))
	next := func() int {
		rnd = g.noise.Hash(int(rnd))
		return int(rnd)
	}

	var d decorationSites
	for i := range d.trees {
		d.trees[i][0] = 2 + next()%(ChunkWidth-4)
		d.trees[i][1] = 2 + next()%(ChunkWidth-4)
	}
	d.cube[0] = next() % ChunkWidth
	d.cube[1] = next()
	d.cube[2] = next() % ChunkWidth
	return d
}

// placeTree plants a four-block trunk at (x, y, z) with a leaf crown. The
// crown is 3x3 at y+3 and y+6 and 5x5 at y+4 and y+5. Callers keep x and z
// at least two cells from the chunk border.
func placeTree(c *Chunk, x, y, z int) {
	crown := []struct{ dy, r int }{{3, 1}, {4, 2}, {5, 2}, {6, 1}}
	for _, layer := range crown {
		for dx := -layer.r; dx <= layer.r; dx++ {
			for dz := -layer.r; dz <= layer.r; dz++ {
				c.blocks[x+dx][y+layer.dy][z+dz] = block.Leaves
			}
		}
	}
	for dy := 0; dy < 4; dy++ {
		c.blocks[x][y+dy][z] = block.Tree
	}
}

// FlatGenerator fills every column with Block below Height. A zero Height
// produces empty chunks.
type FlatGenerator struct {
	Height int
	Block  block.Type
}

// NewFlatGenerator returns a generator producing a flat floor of t.
func NewFlatGenerator(height int, t block.Type) *FlatGenerator {
	return &FlatGenerator{Height: height, Block: t}
}

// HeightAt returns the fixed height.
func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.Height
}

// PopulateChunk fills the floor.
func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	h := min(max(g.Height, 0), ChunkHeight)
	for x := 0; x < ChunkWidth; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < ChunkWidth; z++ {
				c.blocks[x][y][z] = g.Block
			}
		}
	}
}

// GenerateChunk clears c, populates it with gen at c.X, c.Z and replays any
// logged edits for that column. It returns the number of edits replayed.
func GenerateChunk(gen TerrainGenerator, c *Chunk, mods *ModificationLog) int {
	c.reset(c.X, c.Z)
	gen.PopulateChunk(c)
	return mods.Replay(c)
}
