package meshing

import (
	"errors"

	"cubecraft/internal/block"

	"github.com/go-gl/mathgl/mgl32"
)

// Column dimensions the mesher walks. They mirror world.ChunkWidth and
// world.ChunkHeight; meshing cannot import world without a cycle.
const (
	Width  = 16
	Height = 256
)

// ErrFaceLimit is returned when a chunk produces more faces than the
// caller's budget allows.
var ErrFaceLimit = errors.New("meshing: face limit exceeded")

// Volume is a read-only Width x Height x Width block grid in local coordinates.
type Volume interface {
	Block(x, y, z int) block.Type
}

// Vertex is a chunk-local integer corner position.
type Vertex struct {
	X, Y, Z int16
}

// Face is one exposed quad of a block surface.
type Face struct {
	Dir      Direction
	Tile     int
	Light    int
	Vertices [4]Vertex
}

func newFace(x, y, z int, d Direction, t block.Type) Face {
	shape := shapeOf(d)
	f := Face{
		Dir:   d,
		Tile:  blockTiles[t][d],
		Light: shape.light,
	}
	for i, v := range shape.vertices {
		f.Vertices[i] = Vertex{
			X: v.X + int16(x),
			Y: v.Y + int16(y),
			Z: v.Z + int16(z),
		}
	}
	return f
}

// BuildFaces extracts the exposed faces of cur. Each cell is compared with
// its predecessor on every axis; predecessors across the x=0 and z=0 borders
// are read from prevX (at x=Width-1) and prevZ (at z=Width-1). Faces come out
// in x, y, z loop order. maxFaces <= 0 disables the budget.
func BuildFaces(cur, prevX, prevZ Volume, maxFaces int) ([]Face, error) {
	faces := make([]Face, 0, 1024)
	add := func(x, y, z int, d Direction, t block.Type) bool {
		if maxFaces > 0 && len(faces) >= maxFaces {
			return false
		}
		faces = append(faces, newFace(x, y, z, d, t))
		return true
	}

	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			for z := 0; z < Width; z++ {
				curr := cur.Block(x, y, z)

				var px, pz block.Type
				if x == 0 {
					px = prevX.Block(Width-1, y, z)
				} else {
					px = cur.Block(x-1, y, z)
				}
				if z == 0 {
					pz = prevZ.Block(x, y, Width-1)
				} else {
					pz = cur.Block(x, y, z-1)
				}
				// Nothing lies below the column floor.
				py := block.Air
				if y > 0 {
					py = cur.Block(x, y-1, z)
				}

				ok := true
				if block.IsSolid(curr) {
					if !block.IsSolid(px) {
						ok = ok && add(x, y, z, XBack, curr)
					}
					if y > 0 && !block.IsSolid(py) {
						ok = ok && add(x, y, z, YBack, curr)
					}
					if !block.IsSolid(pz) {
						ok = ok && add(x, y, z, ZBack, curr)
					}
				} else {
					if block.IsSolid(px) {
						ok = ok && add(x, y, z, XFront, px)
					}
					if block.IsSolid(py) {
						ok = ok && add(x, y, z, YFront, py)
					}
					if block.IsSolid(pz) {
						ok = ok && add(x, y, z, ZFront, pz)
					}
				}
				if !ok {
					return nil, ErrFaceLimit
				}
			}
		}
	}
	return faces, nil
}

// Mesh is the renderable face list of one chunk. It is owned by the chunk
// and must be released before it is rebuilt or the chunk is evicted.
type Mesh struct {
	X, Z     int
	Faces    []Face
	released bool
}

// NewMesh wraps faces built for chunk (cx, cz).
func NewMesh(cx, cz int, faces []Face) *Mesh {
	return &Mesh{X: cx, Z: cz, Faces: faces}
}

// Release drops the face storage. Calling it twice is a no-op.
func (m *Mesh) Release() {
	if m == nil {
		return
	}
	m.Faces = nil
	m.released = true
}

// Released reports whether Release has been called.
func (m *Mesh) Released() bool {
	return m.released
}

// Len returns the number of faces.
func (m *Mesh) Len() int {
	return len(m.Faces)
}

// WorldVertices returns the corners of face i in world space.
func (m *Mesh) WorldVertices(i int) [4]mgl32.Vec3 {
	ox := float32(m.X * Width)
	oz := float32(m.Z * Width)
	var out [4]mgl32.Vec3
	for j, v := range m.Faces[i].Vertices {
		out[j] = mgl32.Vec3{ox + float32(v.X), float32(v.Y), oz + float32(v.Z)}
	}
	return out
}
