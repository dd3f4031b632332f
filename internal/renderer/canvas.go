package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// canvas accumulates filled shapes in a rasterizer and flushes them in one colour
type canvas struct {
	dst *image.RGBA
	r   *vector.Rasterizer
}

func newCanvas(dst *image.RGBA) *canvas {
	b := dst.Bounds()
	return &canvas{dst: dst, r: vector.NewRasterizer(b.Dx(), b.Dy())}
}

// farOff bounds pixel coordinates handed to the rasterizer
const farOff = 1 << 20

func inReach(vs ...float32) bool {
	for _, v := range vs {
		if !(v > -farOff && v < farOff) {
			return false
		}
	}
	return true
}

// segment adds a line of the given pixel width as a quad. Segments with an
// end far outside the image are dropped.
func (c *canvas) segment(ax, ay, bx, by, width float32) {
	if !inReach(ax, ay, bx, by) {
		return
	}
	dx, dy := bx-ax, by-ay
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	nx, ny := -dy/n*width/2, dx/n*width/2

	c.r.MoveTo(ax+nx, ay+ny)
	c.r.LineTo(bx+nx, by+ny)
	c.r.LineTo(bx-nx, by-ny)
	c.r.LineTo(ax-nx, ay-ny)
	c.r.ClosePath()
}

func (c *canvas) disc(x, y, radius float32) {
	const steps = 24
	if !inReach(x, y) {
		return
	}
	c.r.MoveTo(x+radius, y)
	for i := 1; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		c.r.LineTo(x+radius*float32(math.Cos(a)), y+radius*float32(math.Sin(a)))
	}
	c.r.ClosePath()
}

// fill draws everything added since the last fill in col
func (c *canvas) fill(col color.Color) {
	b := c.dst.Bounds()
	c.r.Draw(c.dst, b, image.NewUniform(col), image.Point{})
	c.r.Reset(b.Dx(), b.Dy())
}
