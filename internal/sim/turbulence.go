package sim

import (
	"github.com/aquilax/go-perlin"

	"github.com/partsim/partsim/internal/core/stage"
	"github.com/partsim/partsim/internal/vmath"
)

// Offset between the X and Y noise channels so the two samples decorrelate.
const turbChannelOffset = 100

// TurbulenceStage rewrites the acceleration column from a Perlin flow field
// sampled at each particle's position, advected through time. The preset's
// constant gravity is added on top. Reading positions here is safe: every
// position writer is ordered after this stage through the motion chain.
type TurbulenceStage struct {
	c        *Components
	noise    *perlin.Perlin
	strength float64
	scale    float64
	gravity  vmath.Vec2
	t        float64
}

func NewTurbulenceStage(c *Components, seed int64, strength, scale float64, gravity vmath.Vec2) *TurbulenceStage {
	return &TurbulenceStage{
		c:        c,
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		strength: strength,
		scale:    scale,
		gravity:  gravity,
	}
}

func (s *TurbulenceStage) Name() string           { return "turbulence" }
func (s *TurbulenceStage) Dependencies() []string { return nil }
func (s *TurbulenceStage) Reads() stage.Access    { return ColPosition }
func (s *TurbulenceStage) Writes() stage.Access   { return ColAcceleration }
func (s *TurbulenceStage) Len() int               { return s.c.Acc.Len() }

// Prepare advances the field's time coordinate once per frame.
func (s *TurbulenceStage) Prepare(dt float64) {
	s.t += dt
}

func (s *TurbulenceStage) RunRange(_ stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, acc := s.c.Acc.At(i)
		pos := s.c.Pos.MustGet(id)
		nx := s.noise.Noise3D(pos.V.X*s.scale, pos.V.Y*s.scale, s.t)
		ny := s.noise.Noise3D(pos.V.X*s.scale+turbChannelOffset, pos.V.Y*s.scale+turbChannelOffset, s.t)
		acc.V.X = s.gravity.X + nx*s.strength
		acc.V.Y = s.gravity.Y + ny*s.strength
	}
}
