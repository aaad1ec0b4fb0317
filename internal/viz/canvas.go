package viz

import (
	"math"
	"strings"

	"github.com/jakecoffman/cp"
)

// Braille patterns hold 2x4 dots per cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in sub-pixels. A canvas of
// Width x Height cells has Width*2 x Height*4 pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the pixel at (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect outlines the box with corners (x0, y0) and (x1, y1).
func (c *Canvas) Rect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// Disc fills a circle of radius r pixels.
func (c *Canvas) Disc(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world millimetres (y up) onto canvas pixels (y down) with a
// uniform scale that fits the whole world.
type Viewport struct {
	Scale  float64
	Height float64
}

func NewViewport(c *Canvas, worldW, worldH float64) Viewport {
	s := math.Min(float64(c.Width*2)/worldW, float64(c.Height*4)/worldH)
	return Viewport{Scale: s, Height: worldH}
}

func (v Viewport) Point(p cp.Vector) (int, int) {
	return int(math.Round(p.X * v.Scale)), int(math.Round((v.Height - p.Y) * v.Scale))
}

func (v Viewport) Length(l float64) int {
	return int(math.Round(l * v.Scale))
}
