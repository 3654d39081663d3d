// Package physics implements the narrow 2D facade the simulation core depends
// on (create_body/add_fixture/raycast/step/contacts), plus the broad-phase
// spatial structures that back it.
//
// No 2D rigid-body library ships in the reference corpus this was built
// against, so bodies are tracked as simple shapes (circle/segment/polygon)
// over a uniform grid + sweep-and-prune broad phase, the same techniques the
// corpus itself uses for its own hit detection.
package physics

import "math"

// Grid provides O(1) average spatial queries via fixed-size cells.
// Cells store body indices, not pointers, to minimize GC pressure.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	originX     float64
	originY     float64
	cells       [][]BodyID
	scratch     []BodyID
}

// NewGrid creates a grid covering [0,width]x[0,height] with the given cell
// size. cellSize should equal the largest common query radius.
func NewGrid(width, height, cellSize float64, hintEntities int) *Grid {
	if cellSize <= 0 {
		cellSize = 100
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]BodyID, cols*rows)
	avgPerCell := hintEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]BodyID, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]BodyID, 0, 64),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cellIndex(x, y float64) int {
	col := int((x - g.originX) * g.invCellSize)
	row := int((y - g.originY) * g.invCellSize)
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// Insert adds a body at position (x, y). O(1).
func (g *Grid) Insert(id BodyID, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], id)
}

// QueryRadius returns all body IDs potentially within radius of (cx, cy).
// The returned slice is reused on subsequent calls; narrow-phase distance
// checks are the caller's responsibility.
func (g *Grid) QueryRadius(cx, cy, radius float64) []BodyID {
	g.scratch = g.scratch[:0]

	minCol := int((cx - radius - g.originX) * g.invCellSize)
	maxCol := int((cx + radius - g.originX) * g.invCellSize)
	minRow := int((cy - radius - g.originY) * g.invCellSize)
	maxRow := int((cy + radius - g.originY) * g.invCellSize)

	if minCol < 0 {
		minCol = 0
	}
	if maxCol >= g.cols {
		maxCol = g.cols - 1
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxRow >= g.rows {
		maxRow = g.rows - 1
	}

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			g.scratch = append(g.scratch, g.cells[idx]...)
		}
	}

	return g.scratch
}

// Dimensions returns the grid's cell layout.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
