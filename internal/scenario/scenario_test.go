package scenario

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validFull() *Preset {
	return &Preset{
		Name:      "valid",
		Pipeline:  PipelineFull,
		World:     World{Width: 100, Height: 100},
		Grid:      Grid{CellSize: 8, Border: 2},
		DT:        0.04,
		LifeDecay: 1,
		Waves:     1,
		Spawn: Spawn{
			Count:    10,
			Radius:   Range{Min: 0.5, Max: 2.5},
			Velocity: Range{Min: -3, Max: 3},
			Life:     Range{Min: 5, Max: 25},
		},
	}
}

func TestBuiltinTable(t *testing.T) {
	tbl := Builtin()
	if tbl.Count() != 4 {
		t.Fatalf("builtin table has %d presets, want 4", tbl.Count())
	}
	want := []string{"particles", "churn", "fission", "vortex"}
	names := tbl.Names()
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	p := tbl.Get("particles")
	if p == nil {
		t.Fatal("particles preset missing")
	}
	if p.Pipeline != PipelineFull {
		t.Errorf("particles pipeline = %q, want full", p.Pipeline)
	}
	if p.World.Width != 1440 || p.World.Height != 900 {
		t.Errorf("particles world = %+v, want 1440x900", p.World)
	}
	if p.Grid.CellSize != 8 || p.Grid.Border != 2 {
		t.Errorf("particles grid = %+v, want cell 8 border 2", p.Grid)
	}
	if p.DT != 0.04 || p.Gravity.Y != 1 || p.Waves != 2 {
		t.Errorf("particles timing = dt %v gravity %v waves %d", p.DT, p.Gravity, p.Waves)
	}
	if p.Spawn.Count != 50000 || p.Spawn.Budget != 0 {
		t.Errorf("particles spawn = %+v", p.Spawn)
	}
	if p.Spawn.Radius != (Range{Min: 0.5, Max: 2.5}) {
		t.Errorf("particles radius = %+v", p.Spawn.Radius)
	}
	if p.Turbulence != nil {
		t.Error("particles preset grew a turbulence field")
	}

	c := tbl.Get("churn")
	if c == nil || c.Pipeline != PipelineLife {
		t.Fatalf("churn preset = %+v, want the life pipeline", c)
	}
	if c.LifeDecay != 10 || c.Spawn.Budget != 300 || c.Spawn.Count != 50000 {
		t.Errorf("churn = decay %v budget %d count %d", c.LifeDecay, c.Spawn.Budget, c.Spawn.Count)
	}

	f := tbl.Get("fission")
	if f == nil || f.Spawn.Budget != 3 || f.Spawn.ChildScale != 0.5 {
		t.Fatalf("fission spawn = %+v, want budget 3 child_scale 0.5", f.Spawn)
	}

	v := tbl.Get("vortex")
	if v == nil || v.Turbulence == nil {
		t.Fatal("vortex preset missing its turbulence field")
	}
	if v.Turbulence.Strength != 4 || v.Turbulence.Scale != 0.01 {
		t.Errorf("vortex turbulence = %+v", v.Turbulence)
	}

	if tbl.Get("nope") != nil {
		t.Error("unknown name returned a preset")
	}
}

func TestLoadTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	doc := `
presets:
  - name: mini
    pipeline: life
    dt: 0.5
    life_decay: 2
    spawn:
      count: 7
      life: {min: 1, max: 3}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	p := tbl.Get("mini")
	if p == nil {
		t.Fatal("loaded table misses the preset")
	}
	if p.DT != 0.5 || p.LifeDecay != 2 || p.Spawn.Count != 7 {
		t.Errorf("loaded preset = %+v", p)
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file loaded without error")
	}
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	doc := []byte(`
presets:
  - {name: twin, pipeline: life, dt: 1, life_decay: 1, spawn: {count: 1, life: {min: 1, max: 1}}}
  - {name: twin, pipeline: life, dt: 1, life_decay: 1, spawn: {count: 1, life: {min: 1, max: 1}}}
`)
	_, err := parseTable(doc)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want a duplicate-name error", err)
	}
}

func TestParseRejectsInvalidPreset(t *testing.T) {
	doc := []byte(`
presets:
  - {name: broken, pipeline: life, dt: 0, life_decay: 1, spawn: {count: 1, life: {min: 1, max: 1}}}
`)
	_, err := parseTable(doc)
	if err == nil || !strings.Contains(err.Error(), `scenario "broken"`) {
		t.Fatalf("err = %v, want a validation error naming the preset", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Preset)
		want   string
	}{
		{"missing name", func(p *Preset) { p.Name = "" }, "name"},
		{"zero dt", func(p *Preset) { p.DT = 0 }, "dt"},
		{"zero decay", func(p *Preset) { p.LifeDecay = 0 }, "life_decay"},
		{"negative waves", func(p *Preset) { p.Waves = -1 }, "waves"},
		{"zero count", func(p *Preset) { p.Spawn.Count = 0 }, "count"},
		{"negative budget", func(p *Preset) { p.Spawn.Budget = -1 }, "budget"},
		{"zero life", func(p *Preset) { p.Spawn.Life.Min = 0 }, "life range"},
		{"inverted life", func(p *Preset) { p.Spawn.Life.Max = 1 }, "life range"},
		{"unknown pipeline", func(p *Preset) { p.Pipeline = "warp" }, "pipeline"},
		{"flat world", func(p *Preset) { p.World.Height = 0 }, "world"},
		{"zero cell", func(p *Preset) { p.Grid.CellSize = 0 }, "cell_size"},
		{"zero border", func(p *Preset) { p.Grid.Border = 0 }, "border"},
		{"zero radius", func(p *Preset) { p.Spawn.Radius.Min = 0 }, "radius"},
		{"inverted velocity", func(p *Preset) { p.Spawn.Velocity = Range{Min: 3, Max: -3} }, "velocity"},
		{"budget without scale", func(p *Preset) { p.Spawn.Budget = 2 }, "child_scale"},
		{"oversized scale", func(p *Preset) { p.Spawn.Budget = 2; p.Spawn.ChildScale = 1.5 }, "child_scale"},
		{"zero noise scale", func(p *Preset) { p.Turbulence = &Turbulence{Strength: 1} }, "turbulence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validFull()
			tc.mutate(p)
			err := p.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}

	if err := validFull().Validate(); err != nil {
		t.Errorf("valid full preset rejected: %v", err)
	}

	churn := &Preset{
		Name:      "c",
		Pipeline:  PipelineLife,
		DT:        1,
		LifeDecay: 1,
		Spawn:     Spawn{Count: 1, Life: Range{Min: 1, Max: 1}},
	}
	if err := churn.Validate(); err != nil {
		t.Errorf("life preset tripped on full-pipeline fields: %v", err)
	}
}

func TestRangeSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := Range{Min: 2, Max: 5}
	for i := 0; i < 200; i++ {
		v := r.Sample(rng)
		if v < 2 || v > 5 {
			t.Fatalf("sample %v outside [2, 5]", v)
		}
	}
	if v := (Range{Min: 3, Max: 3}).Sample(rng); v != 3 {
		t.Fatalf("degenerate range sampled %v, want 3", v)
	}
}
