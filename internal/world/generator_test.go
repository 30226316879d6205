package world

import (
	"crypto/sha256"
	"testing"

	"cubecraft/internal/block"
)

func TestStandardGeneratorImplementsInterface(t *testing.T) {
	var _ TerrainGenerator = NewGenerator(123)
}

func TestFlatGeneratorImplementsInterface(t *testing.T) {
	var _ TerrainGenerator = NewFlatGenerator(10, block.Stone)
}

// hashChunkBlocks computes a SHA-256 hash of all blocks in a chunk
func hashChunkBlocks(c *Chunk) [32]byte {
	h := sha256.New()
	for lx := 0; lx < ChunkWidth; lx++ {
		for ly := 0; ly < ChunkHeight; ly++ {
			for lz := 0; lz < ChunkWidth; lz++ {
				h.Write([]byte{byte(c.Block(lx, ly, lz))})
			}
		}
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

func generated(gen TerrainGenerator, cx, cz int) *Chunk {
	c := &Chunk{X: cx, Z: cz}
	GenerateChunk(gen, c, nil)
	return c
}

func TestGeneratorDeterminism(t *testing.T) {
	coords := []ChunkCoord{{0, 0}, {3, -2}, {-7, 11}}
	for _, cc := range coords {
		a := hashChunkBlocks(generated(NewGenerator(12345), cc.X, cc.Z))
		b := hashChunkBlocks(generated(NewGenerator(12345), cc.X, cc.Z))
		if a != b {
			t.Errorf("chunk %v: generation not deterministic", cc)
		}
	}

	differ := false
	for _, cc := range coords {
		if hashChunkBlocks(generated(NewGenerator(1), cc.X, cc.Z)) != hashChunkBlocks(generated(NewGenerator(2), cc.X, cc.Z)) {
			differ = true
		}
	}
	if !differ {
		t.Error("different seeds produced identical terrain")
	}
}

func TestGeneratorReusedChunkMatchesFresh(t *testing.T) {
	g := NewGenerator(99)
	c := generated(g, 5, 5)
	c.X, c.Z = 1, 2
	GenerateChunk(g, c, nil)
	if hashChunkBlocks(c) != hashChunkBlocks(generated(g, 1, 2)) {
		t.Error("regenerating into a used chunk left stale blocks")
	}
}

func TestGeneratorStrata(t *testing.T) {
	g := NewGenerator(4321)
	for _, cc := range []ChunkCoord{{0, 0}, {-1, 2}} {
		c := generated(g, cc.X, cc.Z)
		for x := 0; x < ChunkWidth; x++ {
			for z := 0; z < ChunkWidth; z++ {
				h := g.HeightAt(cc.X*ChunkWidth+x, cc.Z*ChunkWidth+z)
				if h < LandHeightMin || h > LandHeightMax {
					t.Fatalf("height %d outside [%d, %d]", h, LandHeightMin, LandHeightMax)
				}
				for y := 0; y < h; y++ {
					var want block.Type
					switch {
					case y < stoneBelow:
						want = block.Stone
					case y < sandBelow:
						want = block.Sand
					case y == h-1:
						want = block.Grass
					default:
						want = block.Dirt
					}
					got := c.Block(x, y, z)
					if got != want && got != block.GameCube {
						t.Fatalf("chunk %v (%d,%d,%d): got %v, want %v", cc, x, y, z, got, want)
					}
				}
			}
		}
	}
}

func TestGeneratorPlacesOneGameCube(t *testing.T) {
	g := NewGenerator(777)
	for _, cc := range []ChunkCoord{{0, 0}, {1, 0}, {-3, -3}, {10, -4}} {
		c := generated(g, cc.X, cc.Z)
		count := 0
		for x := 0; x < ChunkWidth; x++ {
			for y := 0; y < ChunkHeight; y++ {
				for z := 0; z < ChunkWidth; z++ {
					if c.Block(x, y, z) != block.GameCube {
						continue
					}
					count++
					if h := g.HeightAt(cc.X*ChunkWidth+x, cc.Z*ChunkWidth+z); y >= h-1 {
						t.Errorf("chunk %v: game cube at y=%d is not buried (height %d)", cc, y, h)
					}
				}
			}
		}
		if count != 1 {
			t.Errorf("chunk %v: %d game cubes, want 1", cc, count)
		}
	}
}

func TestGeneratorDecorationSites(t *testing.T) {
	// Seed of the string "hello". Chunk (-7, 3) has a raw hash of 19129
	// that scales back to 19128.
	g := NewGenerator(SeedFromString("hello"))
	cases := []struct {
		cc    ChunkCoord
		trees [MaxTrees][2]int
		cube  [3]int
	}{
		{ChunkCoord{-7, 3}, [MaxTrees][2]int{{12, 5}, {2, 3}, {13, 3}, {9, 10}}, [3]int{0, 61433, 5}},
		{ChunkCoord{0, 0}, [MaxTrees][2]int{{6, 3}, {12, 12}, {8, 3}, {5, 10}}, [3]int{8, 63181, 9}},
		{ChunkCoord{2, -5}, [MaxTrees][2]int{{3, 7}, {5, 11}, {4, 11}, {11, 4}}, [3]int{0, 16281, 14}},
	}
	for _, tc := range cases {
		d := g.decorations(tc.cc.X*ChunkWidth, tc.cc.Z*ChunkWidth)
		if d.trees != tc.trees {
			t.Errorf("chunk %v: trees %v, want %v", tc.cc, d.trees, tc.trees)
		}
		if d.cube != tc.cube {
			t.Errorf("chunk %v: game cube %v, want %v", tc.cc, d.cube, tc.cube)
		}

		c := generated(g, tc.cc.X, tc.cc.Z)
		x, z := tc.cube[0], tc.cube[2]
		y := tc.cube[1] % (g.HeightAt(tc.cc.X*ChunkWidth+x, tc.cc.Z*ChunkWidth+z) - 1)
		if got := c.Block(x, y, z); got != block.GameCube {
			t.Errorf("chunk %v: block at (%d, %d, %d) = %v, want game cube", tc.cc, x, y, z, got)
		}
	}
}

func TestPlaceTreeShape(t *testing.T) {
	c := &Chunk{}
	placeTree(c, 5, 60, 7)

	counts := make(map[block.Type]int)
	for x := 0; x < ChunkWidth; x++ {
		for y := 0; y < ChunkHeight; y++ {
			for z := 0; z < ChunkWidth; z++ {
				counts[c.Block(x, y, z)]++
			}
		}
	}
	if counts[block.Tree] != 4 {
		t.Errorf("trunk blocks = %d, want 4", counts[block.Tree])
	}
	// 9 + 25 + 25 + 9 leaves, one replaced by the trunk top.
	if counts[block.Leaves] != 67 {
		t.Errorf("leaf blocks = %d, want 67", counts[block.Leaves])
	}
	if c.Block(5, 63, 7) != block.Tree {
		t.Error("trunk must overwrite the lowest leaf layer")
	}
	if c.Block(3, 64, 5) != block.Leaves || c.Block(3, 63, 5) != block.Air {
		t.Error("wide layers must span 5x5 and narrow layers 3x3")
	}
}

func TestFlatGeneratorPopulate(t *testing.T) {
	c := generated(NewFlatGenerator(5, block.Dirt), -2, 9)
	for y := 0; y < 5; y++ {
		if b := c.Block(3, y, 3); b != block.Dirt {
			t.Errorf("Expected Dirt at 3,%d,3, got %v", y, b)
		}
	}
	if b := c.Block(3, 5, 3); b != block.Air {
		t.Errorf("Expected Air at 3,5,3, got %v", b)
	}

	empty := generated(NewFlatGenerator(0, block.Stone), 0, 0)
	if hashChunkBlocks(empty) != hashChunkBlocks(&Chunk{}) {
		t.Error("zero-height flat generator must produce an empty chunk")
	}
}

func BenchmarkPopulateChunk(b *testing.B) {
	g := NewGenerator(1)
	c := &Chunk{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.X = i % 64
		GenerateChunk(g, c, nil)
	}
}

func BenchmarkHeightAt(b *testing.B) {
	g := NewGenerator(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.HeightAt(i%1024, (i*31)%1024)
	}
}
