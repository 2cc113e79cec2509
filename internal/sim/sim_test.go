package sim

import (
	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/vmath"
)

func newTestWorld() (*ecs.World, *Components) {
	w := ecs.NewWorld()
	return w, NewComponents(w)
}

// addParticle creates a full particle at rest with a long life.
func addParticle(w *ecs.World, c *Components, x, y, r float64) ecs.EntityID {
	e := w.CreateEntity()
	c.Pos.Set(e, Position{V: vmath.Vec2{X: x, Y: y}})
	c.Vel.Set(e, Velocity{})
	c.Acc.Set(e, Acceleration{})
	c.Shape.Set(e, Circle{Radius: r})
	c.Col.Set(e, Color{R: 255, G: 255, B: 255, A: 255})
	c.Life.Set(e, Life{Remaining: 1000})
	return e
}
