package scenario

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline selects which stage set a preset registers.
type Pipeline string

const (
	// PipelineFull runs motion, collision, lifecycle and vertex building.
	PipelineFull Pipeline = "full"
	// PipelineLife runs the lifecycle stage alone (create/destroy churn).
	PipelineLife Pipeline = "life"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Vec is a 2D parameter pair (gravity).
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// World is the simulation bounds; particles live in [0,Width]x[0,Height].
type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Grid configures the broadphase partition.
type Grid struct {
	CellSize float64 `yaml:"cell_size"`
	Border   int     `yaml:"border"`
}

// Spawn configures wave and child creation. Budget is the spawn budget of
// wave-created particles; zero means particles never spawn children.
// ChildScale shrinks a child's radius relative to its parent's (full
// pipeline only).
type Spawn struct {
	Count      int     `yaml:"count"`
	Radius     Range   `yaml:"radius"`
	Velocity   Range   `yaml:"velocity"`
	Life       Range   `yaml:"life"`
	Budget     int     `yaml:"budget"`
	ChildScale float64 `yaml:"child_scale"`
}

// Turbulence configures the optional Perlin acceleration field.
type Turbulence struct {
	Strength float64 `yaml:"strength"`
	Scale    float64 `yaml:"scale"`
}

// Preset is one named scenario: world geometry, timestep, spawn ranges and
// the pipeline it runs.
type Preset struct {
	Name       string      `yaml:"name"`
	Pipeline   Pipeline    `yaml:"pipeline"`
	World      World       `yaml:"world"`
	Grid       Grid        `yaml:"grid"`
	DT         float64     `yaml:"dt"`
	Gravity    Vec         `yaml:"gravity"`
	LifeDecay  float64     `yaml:"life_decay"`
	Waves      int         `yaml:"waves"`
	Spawn      Spawn       `yaml:"spawn"`
	Turbulence *Turbulence `yaml:"turbulence"`
}

// Validate checks the fields the selected pipeline will actually consume.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("missing name")
	}
	if p.DT <= 0 {
		return fmt.Errorf("dt must be positive")
	}
	if p.LifeDecay <= 0 {
		return fmt.Errorf("life_decay must be positive")
	}
	if p.Waves < 0 {
		return fmt.Errorf("waves must not be negative")
	}
	if p.Spawn.Count <= 0 {
		return fmt.Errorf("spawn count must be positive")
	}
	if p.Spawn.Budget < 0 {
		return fmt.Errorf("spawn budget must not be negative")
	}
	if p.Spawn.Life.Min <= 0 || p.Spawn.Life.Max < p.Spawn.Life.Min {
		return fmt.Errorf("spawn life range must be positive and ordered")
	}

	switch p.Pipeline {
	case PipelineLife:
		return nil
	case PipelineFull:
	default:
		return fmt.Errorf("unknown pipeline %q", p.Pipeline)
	}

	if p.World.Width <= 0 || p.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive")
	}
	if p.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cell_size must be positive")
	}
	if p.Grid.Border < 1 {
		return fmt.Errorf("grid border must be at least 1")
	}
	if p.Spawn.Radius.Min <= 0 || p.Spawn.Radius.Max < p.Spawn.Radius.Min {
		return fmt.Errorf("spawn radius range must be positive and ordered")
	}
	if p.Spawn.Velocity.Max < p.Spawn.Velocity.Min {
		return fmt.Errorf("spawn velocity range must be ordered")
	}
	if p.Spawn.Budget > 0 && (p.Spawn.ChildScale <= 0 || p.Spawn.ChildScale > 1) {
		return fmt.Errorf("child_scale must be in (0,1] when budget is set")
	}
	if p.Turbulence != nil && p.Turbulence.Scale <= 0 {
		return fmt.Errorf("turbulence scale must be positive")
	}
	return nil
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Table holds named presets in file order.
type Table struct {
	byName map[string]*Preset
	names  []string
}

// LoadTable loads presets from a YAML file.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	return parseTable(raw)
}

//go:embed presets.yaml
var builtinPresets []byte

// Builtin returns the compiled-in preset table.
func Builtin() *Table {
	t, err := parseTable(builtinPresets)
	if err != nil {
		panic(fmt.Sprintf("scenario: builtin presets: %v", err))
	}
	return t
}

func parseTable(raw []byte) (*Table, error) {
	var f presetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	t := &Table{byName: make(map[string]*Preset, len(f.Presets))}
	for i := range f.Presets {
		p := &f.Presets[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", p.Name, err)
		}
		if _, dup := t.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario %q", p.Name)
		}
		t.byName[p.Name] = p
		t.names = append(t.names, p.Name)
	}
	return t, nil
}

// Get returns a preset by name, or nil if not found.
func (t *Table) Get(name string) *Preset {
	return t.byName[name]
}

// Count returns the number of loaded presets.
func (t *Table) Count() int {
	return len(t.byName)
}

// Names lists preset names in file order.
func (t *Table) Names() []string {
	return t.names
}
