package sim

import "github.com/partsim/partsim/internal/core/stage"

// BoundsStage keeps particles inside the world: per axis, when the particle's
// edge crosses the lower bound, clamp the center to bound+radius and negate
// that axis's velocity; else do the symmetric upper-bound correction. Only
// one branch per axis fires per frame, and the lower bound wins by evaluation
// order when a particle is wider than the world.
type BoundsStage struct {
	c      *Components
	width  float64
	height float64
	deps   []string
}

func NewBoundsStage(c *Components, width, height float64, deps ...string) *BoundsStage {
	return &BoundsStage{c: c, width: width, height: height, deps: deps}
}

func (s *BoundsStage) Name() string           { return "bounds" }
func (s *BoundsStage) Dependencies() []string { return s.deps }
func (s *BoundsStage) Reads() stage.Access    { return ColCircle }
func (s *BoundsStage) Writes() stage.Access   { return ColPosition | ColVelocity }
func (s *BoundsStage) Len() int               { return s.c.Shape.Len() }

func (s *BoundsStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, sh := s.c.Shape.At(i)
		pos := s.c.Pos.MustGet(id)
		vel := s.c.Vel.MustGet(id)
		r := sh.Radius

		if pos.V.X-r < 0 {
			pos.V.X = r
			vel.V.X = -vel.V.X
		} else if pos.V.X+r > s.width {
			pos.V.X = s.width - r
			vel.V.X = -vel.V.X
		}

		if pos.V.Y-r < 0 {
			pos.V.Y = r
			vel.V.Y = -vel.V.Y
		} else if pos.V.Y+r > s.height {
			pos.V.Y = s.height - r
			vel.V.Y = -vel.V.Y
		}
	}
}
