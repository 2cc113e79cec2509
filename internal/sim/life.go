package sim

import (
	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/core/stage"
)

// LifeStage decrements remaining life and marks expired particles for
// destruction at the frame barrier, so no stage of the current frame sees a
// half-removed entity and no entity survives a second frame at life <= 0.
// When a death hook is set, a particle dying with spawn budget left invokes
// it exactly once, carrying the child's budget (parent's minus one).
type LifeStage struct {
	c     *Components
	world *ecs.World
	decay float64
	deps  []string

	hookReads stage.Access
	onDeath   func(parent ecs.EntityID, childBudget int)
}

func NewLifeStage(c *Components, w *ecs.World, decay float64, deps ...string) *LifeStage {
	return &LifeStage{c: c, world: w, decay: decay, deps: deps}
}

// OnDeath installs the spawn hook. reads declares any columns the hook reads
// from the dying parent (the fission hook reads the circle column); the hook
// runs on a worker goroutine and must defer structural mutations through the
// world.
func (s *LifeStage) OnDeath(reads stage.Access, fn func(parent ecs.EntityID, childBudget int)) {
	s.hookReads = reads
	s.onDeath = fn
}

func (s *LifeStage) Name() string           { return "life" }
func (s *LifeStage) Dependencies() []string { return s.deps }
func (s *LifeStage) Reads() stage.Access    { return s.hookReads }
func (s *LifeStage) Writes() stage.Access   { return ColLife }
func (s *LifeStage) Len() int               { return s.c.Life.Len() }

func (s *LifeStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, l := s.c.Life.At(i)
		l.Remaining -= s.decay * ctx.DT
		if l.Remaining <= 0 {
			s.world.MarkForDestruction(id)
			if l.Spawns > 0 && s.onDeath != nil {
				s.onDeath(id, l.Spawns-1)
			}
		}
	}
}
