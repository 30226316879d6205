package meshing

import (
	"fmt"

	"cubecraft/internal/block"
)

// Direction names one of the six quad orientations. Front faces are seen
// looking toward the negative axis, back faces looking toward the positive axis.
type Direction int

const (
	XFront Direction = iota
	XBack
	YFront
	YBack
	ZFront
	ZBack

	numDirections
)

// Tile ids inside the block texture strip.
const (
	TileStone = iota
	TileSand
	TileDirt
	TileGrassSide
	TileGrass
	TileWood
	TileTreeSide
	TileTreeTop
	TileLeaves
	TileGameCubeFront
	TileGameCubeTop
	TileGameCubeSide
	TileGameCubeBack
	TileGameCubeBottom

	NumTiles
)

// faceShape is the unit quad for a direction. Vertices are clockwise as
// seen from outside the solid volume.
type faceShape struct {
	vertices [4]Vertex
	light    int
	normal   [3]int
}

/* Unit cell corners used by the table below:
 *
 *        (0,1,0)-------(1,1,0)
 *          /|             |
 *      (0,1,1)            |
 *         | (0,0,0)-------(1,0,0)  x+
 *         | /             /
 *      (0,0,1)-------(1,0,1)
 *        z+
 */
var faceShapes = [numDirections]faceShape{
	XFront: {[4]Vertex{{0, 1, 1}, {0, 1, 0}, {0, 0, 0}, {0, 0, 1}}, 13, [3]int{1, 0, 0}},
	XBack:  {[4]Vertex{{0, 1, 0}, {0, 1, 1}, {0, 0, 1}, {0, 0, 0}}, 9, [3]int{-1, 0, 0}},
	YFront: {[4]Vertex{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, 15, [3]int{0, 1, 0}},
	YBack:  {[4]Vertex{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {1, 0, 0}}, 5, [3]int{0, -1, 0}},
	ZFront: {[4]Vertex{{0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}}, 11, [3]int{0, 0, 1}},
	ZBack:  {[4]Vertex{{1, 1, 0}, {0, 1, 0}, {0, 0, 0}, {1, 0, 0}}, 7, [3]int{0, 0, -1}},
}

// blockTiles maps a block and face direction to its tile. Non-solid kinds
// never produce faces and are left zero.
var blockTiles = map[block.Type][numDirections]int{
	block.Stone:    {TileStone, TileStone, TileStone, TileStone, TileStone, TileStone},
	block.Sand:     {TileSand, TileSand, TileSand, TileSand, TileSand, TileSand},
	block.Dirt:     {TileDirt, TileDirt, TileDirt, TileDirt, TileDirt, TileDirt},
	block.Grass:    {TileGrassSide, TileGrassSide, TileGrass, TileDirt, TileGrassSide, TileGrassSide},
	block.Wood:     {TileWood, TileWood, TileWood, TileWood, TileWood, TileWood},
	block.Tree:     {TileTreeSide, TileTreeSide, TileTreeTop, TileTreeTop, TileTreeSide, TileTreeSide},
	block.Leaves:   {TileLeaves, TileLeaves, TileLeaves, TileLeaves, TileLeaves, TileLeaves},
	block.GameCube: {TileGameCubeSide, TileGameCubeSide, TileGameCubeTop, TileGameCubeBottom, TileGameCubeFront, TileGameCubeBack},
}

func (d Direction) String() string {
	switch d {
	case XFront:
		return "x-front"
	case XBack:
		return "x-back"
	case YFront:
		return "y-front"
	case YBack:
		return "y-back"
	case ZFront:
		return "z-front"
	case ZBack:
		return "z-back"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

func shapeOf(d Direction) faceShape {
	if d < 0 || d >= numDirections {
		panic(fmt.Sprintf("meshing: bad face direction %d", int(d)))
	}
	return faceShapes[d]
}

// Light returns the fixed shading level (0-15) for faces facing d.
func (d Direction) Light() int {
	return shapeOf(d).light
}

// Normal returns the outward unit normal of faces facing d.
func (d Direction) Normal() [3]int {
	return shapeOf(d).normal
}

// Tile returns the texture tile used when block t shows a face toward d.
func Tile(t block.Type, d Direction) int {
	shapeOf(d)
	return blockTiles[t][d]
}
