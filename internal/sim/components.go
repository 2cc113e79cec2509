package sim

import (
	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/core/stage"
	"github.com/partsim/partsim/internal/vmath"
)

// Position is a particle's center in world coordinates.
type Position struct {
	V vmath.Vec2
}

// Velocity is updated by the acceleration stage and by collision response.
type Velocity struct {
	V vmath.Vec2
}

// Acceleration biases velocity each frame; constant in the gravity presets,
// rewritten per frame by the turbulence stage.
type Acceleration struct {
	V vmath.Vec2
}

// Circle is the collision and rendering extent. Radius must be positive;
// zero or negative values are a data-entry bug and propagate into
// degenerate collision results.
type Circle struct {
	Radius float64
}

// Color is the render tint; the fade stage rewrites A from remaining life.
type Color struct {
	R, G, B, A uint8
}

// Life drives death and optional spawning. Spawns is the remaining spawn
// budget: a particle dying with Spawns > 0 leaves one child carrying
// Spawns-1.
type Life struct {
	Remaining float64
	Spawns    int
}

// Column bits for stage access declarations. ColGrid stands in for the
// broadphase grid, which is exclusively owned by the partition stage within
// a frame.
const (
	ColPosition stage.Access = 1 << iota
	ColVelocity
	ColAcceleration
	ColCircle
	ColColor
	ColLife
	ColGrid
)

// Components bundles every column of the simulation world. All stores are
// registered with the world's registry so destroyed entities are cleared
// from each at the frame barrier.
type Components struct {
	Pos   *ecs.Store[Position]
	Vel   *ecs.Store[Velocity]
	Acc   *ecs.Store[Acceleration]
	Shape *ecs.Store[Circle]
	Col   *ecs.Store[Color]
	Life  *ecs.Store[Life]
}

func NewComponents(w *ecs.World) *Components {
	c := &Components{
		Pos:   ecs.NewStore[Position](),
		Vel:   ecs.NewStore[Velocity](),
		Acc:   ecs.NewStore[Acceleration](),
		Shape: ecs.NewStore[Circle](),
		Col:   ecs.NewStore[Color](),
		Life:  ecs.NewStore[Life](),
	}
	w.Registry().Register(c.Pos)
	w.Registry().Register(c.Vel)
	w.Registry().Register(c.Acc)
	w.Registry().Register(c.Shape)
	w.Registry().Register(c.Col)
	w.Registry().Register(c.Life)
	return c
}
