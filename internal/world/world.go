package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"cubecraft/internal/block"
	"cubecraft/internal/meshing"
	"cubecraft/internal/profiling"
)

// Options configures a World.
type Options struct {
	Seed uint16
	// Generator overrides the standard noise generator for Seed.
	Generator TerrainGenerator
	// Modifications are previously saved edits, replayed on generation.
	Modifications []ChunkModification
	// TableWidth is the chunk table side; 0 selects DefaultTableWidth.
	TableWidth int
	// MaxFaces bounds a single chunk mesh; 0 means unlimited.
	MaxFaces int
	// MeshWorkers sizes the pool used by MeshesAround; 0 uses one per CPU.
	MeshWorkers int
	Logger      *log.Logger
	Verbose     bool
}

// World owns the chunk table, the generator and the edit log. It is not
// safe for concurrent use.
type World struct {
	store    *ChunkStore
	mods     *ModificationLog
	maxFaces int
	pool     *meshing.WorkerPool
	logger   *log.Logger
	meshes   uint64
}

// New opens a world. It fails only if opts.Modifications is invalid.
func New(opts Options) (*World, error) {
	mods, err := NewModificationLog(opts.Modifications)
	if err != nil {
		return nil, fmt.Errorf("open world: %w", err)
	}
	gen := opts.Generator
	if gen == nil {
		gen = NewGenerator(opts.Seed)
	}
	width := opts.TableWidth
	if width == 0 {
		width = DefaultTableWidth
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	store := NewChunkStore(width, gen, mods, logger)
	store.SetVerbose(opts.Verbose)

	w := &World{
		store:    store,
		mods:     mods,
		maxFaces: opts.MaxFaces,
		pool:     meshing.NewWorkerPool(opts.MeshWorkers),
		logger:   logger,
	}
	logger.Printf("world: opened seed=%d modified chunks=%d", opts.Seed, mods.Len())
	return w, nil
}

// Store exposes the chunk table.
func (w *World) Store() *ChunkStore {
	return w.store
}

// Chunk returns chunk (cx, cz), generating it on a miss.
func (w *World) Chunk(cx, cz int) *Chunk {
	c, _ := w.store.Chunk(cx, cz)
	return c
}

// ChunkContaining returns the chunk holding world position (x, z).
func (w *World) ChunkContaining(x, z float32) *Chunk {
	bx := int(math.Floor(float64(x)))
	bz := int(math.Floor(float64(z)))
	return w.Chunk(ToChunkCoord(bx), ToChunkCoord(bz))
}

func checkY(y int) {
	if y < 0 || y >= ChunkHeight {
		panic(fmt.Sprintf("world: block y %d out of range [0, %d)", y, ChunkHeight))
	}
}

// Block returns the block at world coordinates. It panics if y is outside
// the column.
func (w *World) Block(x, y, z int) block.Type {
	checkY(y)
	c := w.Chunk(ToChunkCoord(x), ToChunkCoord(z))
	return c.blocks[ToLocalCoord(x)][y][ToLocalCoord(z)]
}

// BlockAt returns the block containing a world-space point.
func (w *World) BlockAt(x, y, z float32) block.Type {
	return w.Block(
		int(math.Floor(float64(x))),
		int(math.Floor(float64(y))),
		int(math.Floor(float64(z))),
	)
}

// IsSolid reports whether the block at world coordinates is solid. Cells
// above or below the column are never solid.
func (w *World) IsSolid(x, y, z int) bool {
	if y < 0 || y >= ChunkHeight {
		return false
	}
	return block.IsSolid(w.Block(x, y, z))
}

// SurfaceHeight returns one above the highest solid block in column x,z, or
// 0 for an empty column.
func (w *World) SurfaceHeight(x, z int) int {
	c := w.Chunk(ToChunkCoord(x), ToChunkCoord(z))
	lx, lz := ToLocalCoord(x), ToLocalCoord(z)
	for y := ChunkHeight - 1; y >= 0; y-- {
		if block.IsSolid(c.blocks[lx][y][lz]) {
			return y + 1
		}
	}
	return 0
}

// SetBlock writes t at world coordinates, records the edit and rebuilds the
// meshes that can see the cell. The edit is kept even when a rebuild fails;
// the failing mesh is left invalid and the error wraps meshing.ErrFaceLimit.
// It panics if y is outside the column or t is not a known block kind.
func (w *World) SetBlock(x, y, z int, t block.Type) error {
	checkY(y)
	if !block.Valid(t) {
		panic(fmt.Sprintf("world: invalid block kind %v", t))
	}
	c := w.Chunk(ToChunkCoord(x), ToChunkCoord(z))
	lx, lz := ToLocalCoord(x), ToLocalCoord(z)
	c.blocks[lx][y][lz] = t
	w.mods.Append(c, BlockModification{X: lx, Y: y, Z: lz, Type: t})

	errs := []error{w.rebuildMesh(c)}
	switch lx {
	case 0:
		errs = append(errs, w.rebuildMesh(w.Chunk(c.X-1, c.Z)))
	case ChunkWidth - 1:
		errs = append(errs, w.rebuildMesh(w.Chunk(c.X+1, c.Z)))
	}
	switch lz {
	case 0:
		errs = append(errs, w.rebuildMesh(w.Chunk(c.X, c.Z-1)))
	case ChunkWidth - 1:
		errs = append(errs, w.rebuildMesh(w.Chunk(c.X, c.Z+1)))
	}
	return errors.Join(errs...)
}

// Mesh returns the mesh of chunk (cx, cz), building it if needed.
func (w *World) Mesh(cx, cz int) (*meshing.Mesh, error) {
	c := w.Chunk(cx, cz)
	if c.mesh != nil {
		return c.mesh, nil
	}
	if err := w.rebuildMesh(c); err != nil {
		return nil, err
	}
	return c.mesh, nil
}

// rebuildMesh replaces c's mesh. The -X and -Z neighbours supply the border
// predecessors; with a table width of at least 4 loading them cannot evict c.
func (w *World) rebuildMesh(c *Chunk) error {
	defer profiling.Track("world.buildMesh")()
	c.releaseMesh()

	prevX := w.Chunk(c.X-1, c.Z)
	prevZ := w.Chunk(c.X, c.Z-1)
	faces, err := meshing.BuildFaces(c, prevX, prevZ, w.maxFaces)
	if err != nil {
		return fmt.Errorf("mesh chunk (%d, %d): %w", c.X, c.Z, err)
	}
	c.mesh = meshing.NewMesh(c.X, c.Z, faces)
	w.meshes++
	return nil
}

// Modifications returns a deep copy of the edit log for saving.
func (w *World) Modifications() []ChunkModification {
	return w.mods.Entries()
}

// Stats returns chunk table counters.
func (w *World) Stats() Stats {
	s := w.store.Stats()
	s.MeshBuilds = w.meshes
	return s
}

// Close releases every mesh and stops the mesh workers. The world must not
// be used afterwards.
func (w *World) Close() {
	w.pool.Shutdown()
	w.store.Close()
	w.logger.Printf("world: closed, %d chunks modified (%d edits)", w.mods.Len(), w.mods.Edits())
}

// MeshesAround returns the meshes of the chunks within renderRange/2 of the
// chunk containing (x, z). Missing meshes are built on the worker pool. The
// range is clamped so the square and its -X/-Z meshing neighbours fit the
// table without collisions, which keeps every chunk loaded here resident
// until the builds finish. Chunks whose mesh exceeds the face budget are
// skipped and their errors joined.
func (w *World) MeshesAround(x, z float32, renderRange int) ([]*meshing.Mesh, error) {
	defer profiling.Track("world.MeshesAround")()

	center := w.ChunkContaining(x, z)
	cx, cz := center.X, center.Z
	half := min(max(renderRange, 0)/2, (w.store.Width()-2)/2)

	var (
		jobs    []meshing.Job
		pending []*Chunk
	)
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			c := w.Chunk(cx+i, cz+j)
			if c.mesh != nil {
				continue
			}
			jobs = append(jobs, meshing.Job{
				X:        c.X,
				Z:        c.Z,
				Cur:      c,
				PrevX:    w.Chunk(c.X-1, c.Z),
				PrevZ:    w.Chunk(c.X, c.Z-1),
				MaxFaces: w.maxFaces,
			})
			pending = append(pending, c)
		}
	}

	var errs []error
	for k, r := range w.pool.Build(context.Background(), jobs) {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("mesh chunk (%d, %d): %w", r.X, r.Z, r.Err))
			continue
		}
		pending[k].mesh = r.Mesh
		w.meshes++
	}

	out := make([]*meshing.Mesh, 0, (2*half+1)*(2*half+1))
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			if m := w.Chunk(cx+i, cz+j).mesh; m != nil {
				out = append(out, m)
			}
		}
	}
	return out, errors.Join(errs...)
}
