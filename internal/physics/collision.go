package physics

import (
	"math"

	"cubecraft/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Player bounding prism: x and z within PlayerRadius of the position, y from
// the feet up to PlayerHeight.
const (
	PlayerRadius = 0.25
	PlayerHeight = 1.5

	// MaxFallStep is the largest downward motion applied in one frame.
	MaxFallStep = 1.0
)

// State is the body's movement state.
type State int

const (
	Standing State = iota
	Midair
	// Swimming is reserved; no motion rule produces it yet.
	Swimming
)

func (s State) String() string {
	switch s {
	case Standing:
		return "standing"
	case Midair:
		return "midair"
	case Swimming:
		return "swimming"
	}
	return "unknown"
}

// Body is the vertical movement state carried between frames.
type Body struct {
	State     State
	YVelocity float32
}

func floor(v float32) int {
	return int(math.Floor(float64(v)))
}

// span is the range of cells a prism covers on one axis.
type span struct{ min, max int }

func spanAround(c, r float32) span { return span{floor(c - r), floor(c + r)} }

func anySolid(t Terrain, xs, ys, zs span) bool {
	for x := xs.min; x <= xs.max; x++ {
		for y := ys.min; y <= ys.max; y++ {
			for z := zs.min; z <= zs.max; z++ {
				if t.IsSolid(x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

// ResolveMove applies motion to the prism at pos one axis at a time, X then
// Y then Z. An axis whose leading edge would enter a solid cell is dropped.
// Landing snaps the feet to the top of the blocking cell and sets Standing;
// hitting a ceiling zeroes the vertical velocity. A standing body with no
// solid cell under its centre starts falling.
func ResolveMove(t Terrain, pos, motion mgl32.Vec3, body Body) (mgl32.Vec3, Body) {
	defer profiling.Track("physics.ResolveMove")()

	if motion.Y() < -MaxFallStep {
		motion[1] = -MaxFallStep
	}

	if mx := motion.X(); mx != 0 {
		x := floor(pos.X() + PlayerRadius + mx)
		if mx < 0 {
			x = floor(pos.X() - PlayerRadius + mx)
		}
		ys := span{floor(pos.Y()), floor(pos.Y() + PlayerHeight)}
		if !anySolid(t, span{x, x}, ys, spanAround(pos.Z(), PlayerRadius)) {
			pos[0] += mx
		}
	}

	if my := motion.Y(); my != 0 {
		y := floor(pos.Y() + PlayerHeight + my)
		if my < 0 {
			y = floor(pos.Y() + my)
		}
		if anySolid(t, spanAround(pos.X(), PlayerRadius), span{y, y}, spanAround(pos.Z(), PlayerRadius)) {
			if my < 0 {
				pos[1] = float32(y + 1)
				body.State = Standing
			}
			body.YVelocity = 0
		} else {
			pos[1] += my
		}
	}

	if mz := motion.Z(); mz != 0 {
		z := floor(pos.Z() + PlayerRadius + mz)
		if mz < 0 {
			z = floor(pos.Z() - PlayerRadius + mz)
		}
		ys := span{floor(pos.Y()), floor(pos.Y() + PlayerHeight)}
		if !anySolid(t, spanAround(pos.X(), PlayerRadius), ys, span{z, z}) {
			pos[2] += mz
		}
	}

	if body.State == Standing && !t.IsSolid(floor(pos.X()), floor(pos.Y()-1), floor(pos.Z())) {
		body.State = Midair
	}
	return pos, body
}
