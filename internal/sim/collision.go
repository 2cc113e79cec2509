package sim

import (
	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/core/stage"
)

// Contact is a detected overlapping pair with the center distance at
// detection time. Contacts are emitted into a double-buffered output and
// resolved by the solve stage one frame later.
type Contact struct {
	E0, E1 ecs.EntityID
	Dist   float64
}

// CollisionStage generates contacts. Each particle consults only the grid
// cell containing its own center and tests every other id in that cell with
// a strictly greater identifier, which yields each candidate pair at most
// once. Pairs straddling a cell boundary can be missed: the partition
// inserts a particle into every cell its bounds overlap, but the query
// stays in the single center cell.
type CollisionStage struct {
	c        *Components
	grid     *Grid
	contacts *stage.Buffer[Contact]
	deps     []string
}

func NewCollisionStage(c *Components, grid *Grid, contacts *stage.Buffer[Contact], deps ...string) *CollisionStage {
	return &CollisionStage{c: c, grid: grid, contacts: contacts, deps: deps}
}

func (s *CollisionStage) Name() string           { return "collision" }
func (s *CollisionStage) Dependencies() []string { return s.deps }
func (s *CollisionStage) Reads() stage.Access    { return ColPosition | ColCircle | ColGrid }
func (s *CollisionStage) Writes() stage.Access   { return stage.AccessNone }
func (s *CollisionStage) Len() int               { return s.c.Shape.Len() }

func (s *CollisionStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, sh := s.c.Shape.At(i)
		pos := s.c.Pos.MustGet(id)
		cx, cy := s.grid.CellOf(pos.V)
		for _, other := range s.grid.Cell(cx, cy) {
			if other <= id {
				continue
			}
			opos := s.c.Pos.MustGet(other)
			osh := s.c.Shape.MustGet(other)
			d := opos.V.Sub(pos.V).Length()
			if d <= sh.Radius+osh.Radius {
				s.contacts.Append(ctx.Worker, Contact{E0: id, E1: other, Dist: d})
			}
		}
	}
}
