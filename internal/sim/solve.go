package sim

import "github.com/partsim/partsim/internal/core/stage"

// SolveStage resolves the previous frame's contacts. It runs single-threaded:
// one entity can appear in several contacts and the read-modify-write on its
// position and velocity is order-sensitive, so contacts apply in received
// order with last-write-wins.
//
// Distances are re-measured rather than taken from the contact record: a
// frame of motion has passed since detection, and pairs that separated or
// were destroyed at the barrier in the meantime are skipped.
type SolveStage struct {
	c        *Components
	contacts *stage.Buffer[Contact]
	deps     []string
}

func NewSolveStage(c *Components, contacts *stage.Buffer[Contact], deps ...string) *SolveStage {
	return &SolveStage{c: c, contacts: contacts, deps: deps}
}

func (s *SolveStage) Name() string           { return "solve" }
func (s *SolveStage) Dependencies() []string { return s.deps }
func (s *SolveStage) Reads() stage.Access    { return ColCircle }
func (s *SolveStage) Writes() stage.Access   { return ColPosition | ColVelocity }

func (s *SolveStage) RunAll(stage.Context) {
	s.contacts.EachFront(func(ct *Contact) {
		p0, ok0 := s.c.Pos.Get(ct.E0)
		p1, ok1 := s.c.Pos.Get(ct.E1)
		if !ok0 || !ok1 {
			return
		}

		delta := p1.V.Sub(p0.V)
		dist := delta.Length()
		if dist <= 0 {
			// Coincident centers leave no resolvable normal.
			return
		}
		r0 := s.c.Shape.MustGet(ct.E0).Radius
		r1 := s.c.Shape.MustGet(ct.E1).Radius
		pen := (r0 + r1) - dist
		if pen <= 0 {
			return
		}

		// Push each particle half the penetration along the center line,
		// so the corrected distance is exactly r0+r1.
		n := delta.Scale(1 / dist)
		half := n.Scale(pen / 2)
		p0.V = p0.V.Sub(half)
		p1.V = p1.V.Add(half)

		// Exchange the normal velocity components when the pair is still
		// approaching; separating pairs keep their velocities.
		v0 := s.c.Vel.MustGet(ct.E0)
		v1 := s.c.Vel.MustGet(ct.E1)
		if v1.V.Sub(v0.V).Dot(n) < 0 {
			v0n := v0.V.Dot(n)
			v1n := v1.V.Dot(n)
			v0.V = v0.V.Add(n.Scale(v1n - v0n))
			v1.V = v1.V.Add(n.Scale(v0n - v1n))
		}
	})
}
