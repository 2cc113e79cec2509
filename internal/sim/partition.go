package sim

import (
	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/core/stage"
)

// cellAssign is a frame-scoped (entity, cell) record: collected per worker
// during the parallel pass, drained into the grid single-threaded.
type cellAssign struct {
	e      ecs.EntityID
	cx, cy int
}

// PartitionStage rebuilds the broadphase grid every frame. Prepare clears
// the grid and the per-worker scratch lists; the parallel body assigns each
// particle to every cell its bounding box overlaps; Finish drains the
// assignments into the grid on the stage goroutine, after all workers have
// joined. Insertion covers all overlapped cells; the collision stage
// queries only the center cell.
type PartitionStage struct {
	c       *Components
	grid    *Grid
	scratch [][]cellAssign
	deps    []string
}

func NewPartitionStage(c *Components, grid *Grid, workers int, deps ...string) *PartitionStage {
	if workers < 1 {
		workers = 1
	}
	return &PartitionStage{
		c:       c,
		grid:    grid,
		scratch: make([][]cellAssign, workers),
		deps:    deps,
	}
}

func (s *PartitionStage) Name() string           { return "partition" }
func (s *PartitionStage) Dependencies() []string { return s.deps }
func (s *PartitionStage) Reads() stage.Access    { return ColPosition | ColCircle }
func (s *PartitionStage) Writes() stage.Access   { return ColGrid }
func (s *PartitionStage) Len() int               { return s.c.Shape.Len() }

func (s *PartitionStage) Prepare(float64) {
	s.grid.Clear()
	for i := range s.scratch {
		s.scratch[i] = s.scratch[i][:0]
	}
}

func (s *PartitionStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, sh := s.c.Shape.At(i)
		pos := s.c.Pos.MustGet(id)
		s.grid.ForCellsOf(pos.V, sh.Radius, func(cx, cy int) {
			s.scratch[ctx.Worker] = append(s.scratch[ctx.Worker], cellAssign{e: id, cx: cx, cy: cy})
		})
	}
}

func (s *PartitionStage) Finish() {
	for _, shard := range s.scratch {
		for _, a := range shard {
			s.grid.Insert(a.e, a.cx, a.cy)
		}
	}
}
