package sim

import (
	"testing"

	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/scenario"
)

func testPreset() *scenario.Preset {
	return &scenario.Preset{
		Name:      "test",
		Pipeline:  scenario.PipelineFull,
		World:     scenario.World{Width: 100, Height: 80},
		Grid:      scenario.Grid{CellSize: 8, Border: 2},
		DT:        0.04,
		Gravity:   scenario.Vec{Y: 1},
		LifeDecay: 1,
		Waves:     2,
		Spawn: scenario.Spawn{
			Count:    10,
			Radius:   scenario.Range{Min: 0.5, Max: 2.5},
			Velocity: scenario.Range{Min: -3, Max: 3},
			Life:     scenario.Range{Min: 5, Max: 25},
		},
	}
}

func TestSpawnWaveDrawsFromPresetRanges(t *testing.T) {
	w, c := newTestWorld()
	p := testPreset()
	sp := NewSpawner(w, c, p, 1)

	sp.SpawnWave(p.Spawn.Count)

	if got := c.Shape.Len(); got != 10 {
		t.Fatalf("spawned %d particles, want 10", got)
	}
	c.Shape.Each(func(id ecs.EntityID, sh *Circle) {
		if sh.Radius < 0.5 || sh.Radius > 2.5 {
			t.Errorf("radius %v outside [0.5, 2.5]", sh.Radius)
		}
		pos := c.Pos.MustGet(id)
		if pos.V.X < 0 || pos.V.X > 100 || pos.V.Y < 0 || pos.V.Y > 80 {
			t.Errorf("position %+v outside the world", pos.V)
		}
		vel := c.Vel.MustGet(id)
		if vel.V.X < -3 || vel.V.X > 3 || vel.V.Y < -3 || vel.V.Y > 3 {
			t.Errorf("velocity %+v outside [-3, 3]", vel.V)
		}
		if acc := c.Acc.MustGet(id); acc.V.X != 0 || acc.V.Y != 1 {
			t.Errorf("acceleration %+v, want the preset gravity (0, 1)", acc.V)
		}
		if col := c.Col.MustGet(id); col.A != 255 {
			t.Errorf("alpha = %d at spawn, want 255", col.A)
		}
		l := c.Life.MustGet(id)
		if l.Remaining < 5 || l.Remaining > 25 {
			t.Errorf("life %v outside [5, 25]", l.Remaining)
		}
		if l.Spawns != 0 {
			t.Errorf("spawn budget = %d, want the preset's 0", l.Spawns)
		}
	})
}

func TestSpawnReseedReplaysStream(t *testing.T) {
	w1, c1 := newTestWorld()
	w2, c2 := newTestWorld()
	p := testPreset()

	NewSpawner(w1, c1, p, 42).SpawnWave(5)
	s2 := NewSpawner(w2, c2, p, 7)
	s2.SpawnWave(3)
	s2.Reseed(42)
	s2.SpawnWave(5)

	for i := 0; i < 5; i++ {
		_, a := c1.Shape.At(i)
		_, b := c2.Shape.At(i + 3)
		if a.Radius != b.Radius {
			t.Fatalf("particle %d radius %v != %v after reseed", i, b.Radius, a.Radius)
		}
	}
}

func TestSpawnLifeOnlySkipsMotionColumns(t *testing.T) {
	w, c := newTestWorld()
	p := testPreset()
	p.Pipeline = scenario.PipelineLife
	p.Spawn.Life = scenario.Range{Min: 2, Max: 4}
	p.Spawn.Budget = 300

	NewSpawner(w, c, p, 1).SpawnWave(p.Spawn.Count)

	if got := c.Life.Len(); got != 10 {
		t.Fatalf("spawned %d lifecycle entities, want 10", got)
	}
	if c.Pos.Len() != 0 || c.Shape.Len() != 0 || c.Col.Len() != 0 {
		t.Error("churn entities grew motion or render columns")
	}
	c.Life.Each(func(_ ecs.EntityID, l *Life) {
		if l.Remaining < 2 || l.Remaining > 4 {
			t.Errorf("life %v outside [2, 4]", l.Remaining)
		}
		if l.Spawns != 300 {
			t.Errorf("spawn budget = %d, want 300", l.Spawns)
		}
	})
}

func TestSpawnParticleCarriesExplicitRadiusAndBudget(t *testing.T) {
	w, c := newTestWorld()
	sp := NewSpawner(w, c, testPreset(), 1)

	id := sp.SpawnParticle(1.25, 4)

	if r := c.Shape.MustGet(id).Radius; r != 1.25 {
		t.Errorf("radius = %v, want the explicit 1.25", r)
	}
	if b := c.Life.MustGet(id).Spawns; b != 4 {
		t.Errorf("budget = %d, want the explicit 4", b)
	}
}
