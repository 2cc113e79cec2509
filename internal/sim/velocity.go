package sim

import "github.com/partsim/partsim/internal/core/stage"

// VelocityStage integrates velocity into position: p += v*dt. Depends on the
// acceleration stage (read-after-write on velocity within the frame).
type VelocityStage struct {
	c    *Components
	deps []string
}

func NewVelocityStage(c *Components, deps ...string) *VelocityStage {
	return &VelocityStage{c: c, deps: deps}
}

func (s *VelocityStage) Name() string           { return "velocity" }
func (s *VelocityStage) Dependencies() []string { return s.deps }
func (s *VelocityStage) Reads() stage.Access    { return ColVelocity }
func (s *VelocityStage) Writes() stage.Access   { return ColPosition }
func (s *VelocityStage) Len() int               { return s.c.Vel.Len() }

func (s *VelocityStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, vel := s.c.Vel.At(i)
		pos := s.c.Pos.MustGet(id)
		pos.V = pos.V.Add(vel.V.Scale(ctx.DT))
	}
}
