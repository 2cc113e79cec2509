package sim

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/partsim/partsim/internal/core/ecs"
	"github.com/partsim/partsim/internal/core/event"
	"github.com/partsim/partsim/internal/core/stage"
	"github.com/partsim/partsim/internal/scenario"
	"github.com/partsim/partsim/internal/vmath"
)

// Engine owns the world, the stage pipeline and the wave loop for one
// scenario run. Step advances one fixed timestep; the engine never sleeps or
// paces itself, callers decide the cadence (benchmark: as fast as possible,
// viewer: once per display tick).
type Engine struct {
	log     *zap.Logger
	preset  *scenario.Preset
	world   *ecs.World
	comps   *Components
	runner  *stage.Runner
	bus     *event.Bus
	spawner *Spawner
	waves   *WaveDriver

	grid     *Grid
	contacts *stage.Buffer[Contact]
	verts    *stage.Buffer[Vertex]

	seed     int64
	running  bool
	frames   int // frames in the current wave
	total    int // frames across the run
	waveFrom time.Time
	runFrom  time.Time
}

// Options configures an engine run.
type Options struct {
	Preset  *scenario.Preset
	Seed    int64
	Workers int         // <= 0 selects one worker per CPU
	Logger  *zap.Logger // nil runs silent
}

// New wires the preset's pipeline, freezes the stage graph and spawns the
// first wave.
func New(opts Options) (*Engine, error) {
	if opts.Preset == nil {
		return nil, errors.New("sim: nil preset")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	world := ecs.NewWorld()
	e := &Engine{
		log:    log,
		preset: opts.Preset,
		world:  world,
		comps:  NewComponents(world),
		runner: stage.NewRunner(opts.Workers),
		bus:    event.NewBus(),
		seed:   opts.Seed,
	}
	e.spawner = NewSpawner(world, e.comps, opts.Preset, opts.Seed)
	e.waves = NewWaveDriver(opts.Preset.Spawn.Count, opts.Preset.Waves)

	switch opts.Preset.Pipeline {
	case scenario.PipelineFull:
		e.wireFull()
	case scenario.PipelineLife:
		e.wireLife()
	default:
		e.runner.Close()
		return nil, fmt.Errorf("sim: unknown pipeline %q", opts.Preset.Pipeline)
	}

	if err := e.runner.Freeze(); err != nil {
		e.runner.Close()
		return nil, fmt.Errorf("sim: freeze pipeline: %w", err)
	}

	e.running = true
	e.runFrom = time.Now()
	e.startWave()
	return e, nil
}

// wireFull registers the motion/collision/lifecycle/render pipeline.
func (e *Engine) wireFull() {
	p := e.preset
	workers := e.runner.Workers()

	e.grid = NewGrid(p.World.Width, p.World.Height, p.Grid.CellSize, p.Grid.Border)
	e.contacts = stage.NewBuffer[Contact](workers)
	e.verts = stage.NewBuffer[Vertex](workers)
	e.runner.AttachOutput(e.contacts)
	e.runner.AttachOutput(e.verts)

	gravity := vmath.Vec2{X: p.Gravity.X, Y: p.Gravity.Y}
	var accelDeps []string
	if p.Turbulence != nil {
		e.runner.Register(NewTurbulenceStage(e.comps, e.seed, p.Turbulence.Strength, p.Turbulence.Scale, gravity))
		accelDeps = append(accelDeps, "turbulence")
	}
	e.runner.Register(NewAccelStage(e.comps, accelDeps...))
	e.runner.Register(NewVelocityStage(e.comps, "acceleration"))
	e.runner.Register(NewBoundsStage(e.comps, p.World.Width, p.World.Height, "velocity"))
	e.runner.Register(NewPartitionStage(e.comps, e.grid, workers, "bounds"))
	e.runner.Register(NewCollisionStage(e.comps, e.grid, e.contacts, "partition"))
	e.runner.Register(NewSolveStage(e.comps, e.contacts, "collision"))

	life := NewLifeStage(e.comps, e.world, p.LifeDecay)
	if p.Spawn.Budget > 0 {
		scale := p.Spawn.ChildScale
		life.OnDeath(ColCircle, func(parent ecs.EntityID, budget int) {
			r := e.comps.Shape.MustGet(parent).Radius * scale
			e.world.Defer(func() {
				e.spawner.SpawnParticle(r, budget)
			})
		})
	}
	e.runner.Register(life)
	e.runner.Register(NewFadeStage(e.comps, "life"))
	e.runner.Register(NewRenderStage(e.comps, e.verts, "solve", "fade"))
}

// wireLife registers the lifecycle stage alone (churn pipeline).
func (e *Engine) wireLife() {
	life := NewLifeStage(e.comps, e.world, e.preset.LifeDecay)
	if e.preset.Spawn.Budget > 0 {
		life.OnDeath(stage.AccessNone, func(_ ecs.EntityID, budget int) {
			e.world.Defer(func() {
				e.spawner.SpawnLifeOnly(budget)
			})
		})
	}
	e.runner.Register(life)
}

func (e *Engine) startWave() {
	target := e.waves.Target()
	e.spawner.SpawnWave(target)
	e.frames = 0
	e.waveFrom = time.Now()
	event.Emit(e.bus, event.WaveStarted{Wave: e.waves.Index(), Target: target})
	e.log.Info("wave started",
		zap.Int("wave", e.waves.Index()),
		zap.Int("particles", target))
}

// Step advances the simulation one fixed timestep: deliver last frame's
// events, run the stage pipeline, drain deferred mutations, then check for
// extinction. It reports false once the run is over.
func (e *Engine) Step() bool {
	if !e.running {
		return false
	}
	e.bus.SwapBuffers()
	e.bus.DispatchAll()

	e.runner.Frame(e.preset.DT)
	e.world.ApplyDeferred()
	e.frames++
	e.total++

	if e.comps.Life.Len() == 0 {
		e.endWave()
	}
	return e.running
}

func (e *Engine) endWave() {
	elapsed := time.Since(e.waveFrom)
	event.Emit(e.bus, event.WaveEnded{
		Wave:    e.waves.Index(),
		Target:  e.waves.Target(),
		Frames:  e.frames,
		Elapsed: elapsed,
	})
	e.log.Info("wave ended",
		zap.Int("wave", e.waves.Index()),
		zap.Int("particles", e.waves.Target()),
		zap.Int("frames", e.frames),
		zap.Duration("elapsed", elapsed))

	if _, ok := e.waves.Advance(); ok {
		e.spawner.Reseed(e.seed + int64(e.waves.Index()))
		e.startWave()
		return
	}

	e.running = false
	event.Emit(e.bus, event.RunFinished{
		Waves:   e.waves.Index() + 1,
		Frames:  e.total,
		Elapsed: time.Since(e.runFrom),
	})
	e.log.Info("run finished",
		zap.Int("waves", e.waves.Index()+1),
		zap.Int("frames", e.total),
		zap.Duration("elapsed", time.Since(e.runFrom)))
}

// FlushEvents delivers events still queued after the run stops (the final
// wave's WaveEnded and the RunFinished).
func (e *Engine) FlushEvents() {
	e.bus.SwapBuffers()
	e.bus.DispatchAll()
}

// Close stops the worker pool.
func (e *Engine) Close() {
	e.runner.Close()
}

func (e *Engine) Running() bool            { return e.running }
func (e *Engine) Bus() *event.Bus          { return e.bus }
func (e *Engine) Preset() *scenario.Preset { return e.preset }
func (e *Engine) World() *ecs.World        { return e.world }
func (e *Engine) Components() *Components  { return e.comps }
func (e *Engine) Wave() int                { return e.waves.Index() }
func (e *Engine) FrameCount() int          { return e.total }
func (e *Engine) Live() int                { return e.world.Live() }

// Workers reports the resolved worker-pool size.
func (e *Engine) Workers() int { return e.runner.Workers() }

// Contacts is the double-buffered contact output; nil in the churn pipeline.
func (e *Engine) Contacts() *stage.Buffer[Contact] { return e.contacts }

// Vertices is the double-buffered render output; nil in the churn pipeline.
func (e *Engine) Vertices() *stage.Buffer[Vertex] { return e.verts }
