package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/partsim/partsim/internal/config"
	"github.com/partsim/partsim/internal/scenario"
	"github.com/partsim/partsim/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// maxBatchVerts is the largest multiple of 3 a uint16 index list can address,
// so every DrawTriangles batch splits on a triangle boundary.
const maxBatchVerts = 65532

// Game steps the engine once per display tick and draws the front vertex
// buffer, which trails the simulation by one frame.
type Game struct {
	eng     *sim.Engine
	pixel   *ebiten.Image
	batch   []ebiten.Vertex
	indices []uint16
	width   int
	height  int
}

func newGame(eng *sim.Engine) *Game {
	p := eng.Preset()
	g := &Game{
		eng:     eng,
		pixel:   ebiten.NewImage(1, 1),
		batch:   make([]ebiten.Vertex, maxBatchVerts),
		indices: make([]uint16, maxBatchVerts),
		width:   int(p.World.Width),
		height:  int(p.World.Height),
	}
	g.pixel.Fill(color.White)
	for i := range g.indices {
		g.indices[i] = uint16(i)
	}
	return g
}

func (g *Game) Update() error {
	if !g.eng.Step() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModeStraightAlpha}
	n := 0
	flush := func() {
		if n > 0 {
			screen.DrawTriangles(g.batch[:n], g.indices[:n], g.pixel, op)
			n = 0
		}
	}
	for _, shard := range g.eng.Vertices().Front() {
		for _, v := range shard {
			if n == maxBatchVerts {
				flush()
			}
			g.batch[n] = ebiten.Vertex{
				DstX:   v.X,
				DstY:   v.Y,
				ColorR: float32(v.R) / 255,
				ColorG: float32(v.G) / 255,
				ColorB: float32(v.B) / 255,
				ColorA: float32(v.A) / 255,
			}
			n++
		}
	}
	flush()

	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.0f  FPS: %.0f\nWave: %d  Particles: %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(), g.eng.Wave(), g.eng.Live()))
}

func (g *Game) Layout(int, int) (int, int) {
	return g.width, g.height
}

func run() error {
	var (
		scenarioF = flag.String("scenario", "particles", "preset to draw")
		tableF    = flag.String("scenarios", "", "YAML preset file (empty uses the built-in table)")
		seedF     = flag.Int64("seed", 1, "base random seed")
		workersF  = flag.Int("workers", 0, "worker goroutines (0 = one per CPU)")
	)
	flag.Parse()

	log, err := config.NewLogger(config.LoggingConfig{Level: "info", Format: "console"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	table := scenario.Builtin()
	if *tableF != "" {
		table, err = scenario.LoadTable(*tableF)
		if err != nil {
			return fmt.Errorf("load scenarios: %w", err)
		}
	}
	preset := table.Get(*scenarioF)
	if preset == nil {
		return fmt.Errorf("unknown scenario %q", *scenarioF)
	}
	if preset.Pipeline != scenario.PipelineFull {
		return fmt.Errorf("scenario %q runs the %s pipeline and draws nothing", preset.Name, preset.Pipeline)
	}

	eng, err := sim.New(sim.Options{
		Preset:  preset,
		Seed:    *seedF,
		Workers: *workersF,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	ebiten.SetWindowSize(int(preset.World.Width), int(preset.World.Height))
	ebiten.SetWindowTitle("partsim: " + preset.Name)
	// One simulation step per display tick plays the run back in real time.
	ebiten.SetTPS(int(math.Round(1 / preset.DT)))

	if err := ebiten.RunGame(newGame(eng)); err != nil {
		return err
	}
	eng.FlushEvents()
	return nil
}
