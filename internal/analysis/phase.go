package analysis

import (
	"strings"
)

// PhasePortrait plots y against x as text, padded by a tenth of the range on
// each side. The x and y axes are drawn where they cross the plot.
func PhasePortrait(x, y []float64, width, height int) string {
	n := min(len(x), len(y))
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := Extent(x[:n])
	minY, maxY := Extent(y[:n])
	if minX > maxX || minY > maxY {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := 0; i < n; i++ {
		col := int((x[i] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y[i]-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
