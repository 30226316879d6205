package physics

import (
	"math"

	"cubecraft/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Column bounds the traversal stays within.
const (
	MinY = 0
	MaxY = 256
)

// Terrain answers solidity queries in world block coordinates. Cells outside
// the world's vertical range must report false.
type Terrain interface {
	IsSolid(x, y, z int) bool
}

// Selection is the result of SelectBlock.
type Selection struct {
	Hit bool
	// Block is the selected solid cell.
	Block [3]int
	// Face is the unit normal of the face the ray entered through; a new
	// block goes at Block+Face.
	Face [3]int
}

// Place returns the cell adjacent to the selected face.
func (s Selection) Place() [3]int {
	return [3]int{s.Block[0] + s.Face[0], s.Block[1] + s.Face[1], s.Block[2] + s.Face[2]}
}

// Direction returns the unit look vector for yaw and pitch in degrees.
// Yaw 0 looks toward -Z, positive yaw turns right, positive pitch looks up.
func Direction(yaw, pitch float32) mgl32.Vec3 {
	y := float64(mgl32.DegToRad(90 - yaw))
	p := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(-math.Sin(y) * math.Cos(p)),
	}
}

// SelectBlock walks the voxel grid from origin along the look direction
// (Amanatides & Woo) and returns the first solid cell. The origin cell is
// not tested. The walk stops once the per-axis step counts reach maxRadius
// in Euclidean length, or when it leaves the vertical range.
func SelectBlock(t Terrain, origin mgl32.Vec3, yaw, pitch, maxRadius float32) Selection {
	defer profiling.Track("physics.SelectBlock")()

	dir := Direction(yaw, pitch)

	var pos, step, radius [3]int
	tMax := [3]float32{inf, inf, inf}
	tDelta := [3]float32{inf, inf, inf}
	for i := 0; i < 3; i++ {
		o := origin[i]
		cell := float32(math.Floor(float64(o)))
		pos[i] = int(cell)
		switch {
		case dir[i] > 0:
			step[i] = 1
			tDelta[i] = 1 / dir[i]
			tMax[i] = (cell + 1 - o) / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tDelta[i] = -1 / dir[i]
			tMax[i] = (o - cell) / -dir[i]
		}
	}

	var face [3]int
	r2 := maxRadius * maxRadius
	for float32(radius[0]*radius[0]+radius[1]*radius[1]+radius[2]*radius[2]) < r2 {
		axis := nextAxis(tMax)
		if step[axis] == 0 {
			// Every remaining boundary is at infinity.
			return Selection{}
		}
		tMax[axis] += tDelta[axis]
		pos[axis] += step[axis]
		radius[axis]++
		face = [3]int{}
		face[axis] = -step[axis]

		if pos[1] < MinY || pos[1] >= MaxY {
			return Selection{}
		}
		if t.IsSolid(pos[0], pos[1], pos[2]) {
			return Selection{Hit: true, Block: pos, Face: face}
		}
	}
	return Selection{}
}

var inf = float32(math.Inf(1))

// nextAxis picks the axis whose boundary is nearest. Ties go to Z, then Y.
func nextAxis(tMax [3]float32) int {
	if tMax[0] < tMax[1] {
		if tMax[0] < tMax[2] {
			return 0
		}
		return 2
	}
	if tMax[1] < tMax[2] {
		return 1
	}
	return 2
}
