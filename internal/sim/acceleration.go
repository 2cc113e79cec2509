package sim

import "github.com/partsim/partsim/internal/core/stage"

// AccelStage integrates acceleration into velocity: v += a*dt. Pure per
// particle, safe to split across workers.
type AccelStage struct {
	c    *Components
	deps []string
}

func NewAccelStage(c *Components, deps ...string) *AccelStage {
	return &AccelStage{c: c, deps: deps}
}

func (s *AccelStage) Name() string           { return "acceleration" }
func (s *AccelStage) Dependencies() []string { return s.deps }
func (s *AccelStage) Reads() stage.Access    { return ColAcceleration }
func (s *AccelStage) Writes() stage.Access   { return ColVelocity }
func (s *AccelStage) Len() int               { return s.c.Acc.Len() }

func (s *AccelStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, acc := s.c.Acc.At(i)
		vel := s.c.Vel.MustGet(id)
		vel.V = vel.V.Add(acc.V.Scale(ctx.DT))
	}
}
