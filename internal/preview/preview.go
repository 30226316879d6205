// Package preview renders top-down terrain maps of a world.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"cubecraft/internal/block"
	"cubecraft/internal/profiling"
	"cubecraft/internal/world"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var palette = map[block.Type]color.NRGBA{
	block.Water:    {64, 96, 224, 255},
	block.Stone:    {128, 128, 128, 255},
	block.Sand:     {220, 210, 160, 255},
	block.Dirt:     {134, 96, 67, 255},
	block.Grass:    {96, 160, 64, 255},
	block.Wood:     {160, 120, 70, 255},
	block.Tree:     {110, 80, 50, 255},
	block.Leaves:   {60, 130, 50, 255},
	block.GameCube: {110, 90, 200, 255},
}

var (
	background = color.NRGBA{0, 0, 0, 255}
	gridColor  = color.NRGBA{0, 0, 0, 96}
	labelColor = color.NRGBA{255, 255, 255, 255}
)

// ColumnColor returns the map colour of a column whose highest block is t
// at height y. Higher columns are brighter.
func ColumnColor(t block.Type, y int) color.NRGBA {
	c, ok := palette[t]
	if !ok {
		return background
	}
	shade := 0.55 + float64(y-world.LandHeightMin+8)/48
	shade = min(max(shade, 0.3), 1.2)
	scale := func(v uint8) uint8 {
		return uint8(min(float64(v)*shade, 255))
	}
	return color.NRGBA{scale(c.R), scale(c.G), scale(c.B), 255}
}

// topBlock returns the highest non-air block of a column and its height.
func topBlock(c *world.Chunk, x, z int) (block.Type, int) {
	for y := world.ChunkHeight - 1; y >= 0; y-- {
		if t := c.Block(x, y, z); t != block.Air {
			return t, y
		}
	}
	return block.Air, -1
}

// Render draws the (2*radius+1)^2 chunks centred on (cx, cz), one pixel per
// column magnified by scale. -Z is up. At scale 2 and above chunk borders
// are outlined and each chunk is labelled with its coordinate.
func Render(w *world.World, cx, cz, radius, scale int) *image.NRGBA {
	defer profiling.Track("preview.Render")()

	radius = max(radius, 0)
	scale = max(scale, 1)
	n := 2*radius + 1
	side := n * world.ChunkWidth

	src := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := w.Chunk(cx-radius+i, cz-radius+j)
			for x := 0; x < world.ChunkWidth; x++ {
				for z := 0; z < world.ChunkWidth; z++ {
					t, y := topBlock(c, x, z)
					src.SetNRGBA(i*world.ChunkWidth+x, j*world.ChunkWidth+z, ColumnColor(t, y))
				}
			}
		}
	}
	if scale == 1 {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, side*scale, side*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	cell := world.ChunkWidth * scale
	grid := image.NewUniform(gridColor)
	for k := 0; k <= n; k++ {
		p := min(k*cell, side*scale-1)
		draw.Draw(dst, image.Rect(p, 0, p+1, side*scale), grid, image.Point{}, draw.Over)
		draw.Draw(dst, image.Rect(0, p, side*scale, p+1), grid, image.Point{}, draw.Over)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: basicfont.Face7x13}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			label := fmt.Sprintf("%d,%d", cx-radius+i, cz-radius+j)
			if d.MeasureString(label).Ceil() > cell-4 {
				continue
			}
			d.Dot = fixed.P(i*cell+2, j*cell+basicfont.Face7x13.Ascent+2)
			d.DrawString(label)
		}
	}
	return dst
}

// Caption adds a title bar above img using the Go regular font.
func Caption(img *image.NRGBA, text string, size float64) (*image.NRGBA, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	m := face.Metrics()
	bar := (m.Ascent + m.Descent).Ceil() + 4
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+bar))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), bar), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, bar, b.Dx(), b.Dy()+bar), img, b.Min, draw.Src)

	d := &font.Drawer{Dst: out, Src: image.NewUniform(labelColor), Face: face}
	d.Dot = fixed.Point26_6{X: fixed.I(2), Y: m.Ascent + fixed.I(2)}
	d.DrawString(text)
	return out, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
