package render

import "github.com/matzehuels/barnsley/pkg/fern"

// Raster bins seq into a rows×cols density grid fitted to the sequence's own
// bounding box. Row 0 is the top of the fern. Non-positive sizes yield nil.
func Raster(seq *fern.Sequence, cols, rows int) [][]int {
	if cols <= 0 || rows <= 0 || seq == nil {
		return nil
	}

	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
	}

	b := seq.Bounds()
	w, h := b.Width(), b.Height()
	for i := 0; i < seq.Len(); i++ {
		p := seq.At(i)
		col := cell(p.X-b.MinX, w, cols)
		row := rows - 1 - cell(p.Y-b.MinY, h, rows)
		grid[row][col]++
	}
	return grid
}

// cell maps an offset within span onto [0, n).
func cell(offset, span float64, n int) int {
	if span <= 0 {
		return n / 2
	}
	c := int(offset / span * float64(n))
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}
