package sim

import "github.com/partsim/partsim/internal/core/stage"

// FadeStage derives render opacity from remaining life: alpha = life*10,
// clamped to the byte range. Runs after the life stage so the frame's
// triangles carry the frame's alpha.
type FadeStage struct {
	c    *Components
	deps []string
}

func NewFadeStage(c *Components, deps ...string) *FadeStage {
	return &FadeStage{c: c, deps: deps}
}

func (s *FadeStage) Name() string           { return "fade" }
func (s *FadeStage) Dependencies() []string { return s.deps }
func (s *FadeStage) Reads() stage.Access    { return ColLife }
func (s *FadeStage) Writes() stage.Access   { return ColColor }
func (s *FadeStage) Len() int               { return s.c.Life.Len() }

func (s *FadeStage) RunRange(_ stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, l := s.c.Life.At(i)
		col := s.c.Col.MustGet(id)
		a := l.Remaining * 10
		if a < 0 {
			a = 0
		} else if a > 255 {
			a = 255
		}
		col.A = uint8(a)
	}
}
