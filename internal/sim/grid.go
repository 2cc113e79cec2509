package sim

import (
	"math"

	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/vmath"
)

// Grid is the uniform spatial partition backing the broadphase. Cells are a
// flat row-major slice; cell coordinates run from -border to
// ceil(extent/cellSize)+border-1 on each axis, so particles that drift past
// the world bounds before boundary containment runs still land in a real
// cell. Positions beyond the padding are a configuration error and fail the
// slice bounds check.
//
// Occupancy is rebuilt from scratch every frame: Clear, then Insert for
// every (entity, cell) assignment the partition stage collected.
type Grid struct {
	cellSize float64
	invCell  float64
	border   int
	width    int
	height   int
	cells    [][]ecs.EntityID
}

func NewGrid(worldW, worldH, cellSize float64, border int) *Grid {
	w := int(math.Ceil(worldW/cellSize)) + 2*border
	h := int(math.Ceil(worldH/cellSize)) + 2*border
	return &Grid{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		border:   border,
		width:    w,
		height:   h,
		cells:    make([][]ecs.EntityID, w*h),
	}
}

// Clear empties every cell, retaining capacity.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// CellOf floor-divides a position into cell coordinates.
func (g *Grid) CellOf(p vmath.Vec2) (int, int) {
	return int(math.Floor(p.X * g.invCell)), int(math.Floor(p.Y * g.invCell))
}

// Insert appends e to the cell at (cx, cy). No deduplication.
func (g *Grid) Insert(e ecs.EntityID, cx, cy int) {
	i := g.index(cx, cy)
	g.cells[i] = append(g.cells[i], e)
}

// Cell returns the entity list at (cx, cy). Callers must not retain or
// mutate it.
func (g *Grid) Cell(cx, cy int) []ecs.EntityID {
	return g.cells[g.index(cx, cy)]
}

// ForCellsOf visits every cell whose square overlaps the bounding box of the
// circle at center p with radius r. The upper bound is the inclusive ceil of
// (coordinate+r)/cellSize, so a circle ending exactly on a cell edge still
// reaches the next cell over.
func (g *Grid) ForCellsOf(p vmath.Vec2, r float64, fn func(cx, cy int)) {
	x0 := int(math.Floor((p.X - r) * g.invCell))
	x1 := int(math.Ceil((p.X + r) * g.invCell))
	y0 := int(math.Floor((p.Y - r) * g.invCell))
	y1 := int(math.Ceil((p.Y + r) * g.invCell))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			fn(cx, cy)
		}
	}
}

func (g *Grid) index(cx, cy int) int {
	return (cy+g.border)*g.width + (cx + g.border)
}
