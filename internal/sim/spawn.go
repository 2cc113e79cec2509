package sim

import (
	"math/rand"

	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/scenario"
	"github.com/partsim/partsim/internal/vmath"
)

// Spawner creates particles from a preset's ranges. All methods run at the
// frame barrier (wave start, deferred drain) on one goroutine; the random
// stream restarts per wave so each wave is reproducible from its seed.
type Spawner struct {
	world  *ecs.World
	c      *Components
	preset *scenario.Preset
	rng    *rand.Rand
}

func NewSpawner(w *ecs.World, c *Components, p *scenario.Preset, seed int64) *Spawner {
	return &Spawner{world: w, c: c, preset: p, rng: rand.New(rand.NewSource(seed))}
}

// Reseed restarts the random stream for a new wave.
func (s *Spawner) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// SpawnWave bulk-creates n particles of the preset's kind.
func (s *Spawner) SpawnWave(n int) {
	lifeOnly := s.preset.Pipeline == scenario.PipelineLife
	for i := 0; i < n; i++ {
		if lifeOnly {
			s.SpawnLifeOnly(s.preset.Spawn.Budget)
		} else {
			s.SpawnParticle(s.preset.Spawn.Radius.Sample(s.rng), s.preset.Spawn.Budget)
		}
	}
}

// SpawnParticle creates one full particle with the given radius and spawn
// budget; position, velocity, color and life are drawn from the preset.
func (s *Spawner) SpawnParticle(radius float64, budget int) ecs.EntityID {
	sp := s.preset.Spawn
	e := s.world.CreateEntity()
	s.c.Pos.Set(e, Position{V: vmath.Vec2{
		X: s.rng.Float64() * s.preset.World.Width,
		Y: s.rng.Float64() * s.preset.World.Height,
	}})
	s.c.Vel.Set(e, Velocity{V: vmath.Vec2{
		X: sp.Velocity.Sample(s.rng),
		Y: sp.Velocity.Sample(s.rng),
	}})
	s.c.Acc.Set(e, Acceleration{V: vmath.Vec2{X: s.preset.Gravity.X, Y: s.preset.Gravity.Y}})
	s.c.Shape.Set(e, Circle{Radius: radius})
	s.c.Col.Set(e, Color{
		R: uint8(s.rng.Intn(256)),
		G: uint8(s.rng.Intn(256)),
		B: uint8(s.rng.Intn(256)),
		A: 255,
	})
	s.c.Life.Set(e, Life{Remaining: sp.Life.Sample(s.rng), Spawns: budget})
	return e
}

// SpawnLifeOnly creates a bare lifecycle entity (churn pipeline).
func (s *Spawner) SpawnLifeOnly(budget int) ecs.EntityID {
	e := s.world.CreateEntity()
	s.c.Life.Set(e, Life{Remaining: s.preset.Spawn.Life.Sample(s.rng), Spawns: budget})
	return e
}
