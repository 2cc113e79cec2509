package sim

// WaveDriver tracks the population-growth loop: every time the population
// goes extinct the target doubles and a fresh wave spawns, until the
// extra-wave budget is spent.
type WaveDriver struct {
	target int
	index  int
	extra  int
}

// NewWaveDriver starts at wave 0 with the given population target; extra is
// the number of additional (doubled) waves to run after the first.
func NewWaveDriver(initial, extra int) *WaveDriver {
	return &WaveDriver{target: initial, extra: extra}
}

// Target is the current wave's population.
func (d *WaveDriver) Target() int { return d.target }

// Index is the current wave number, starting at 0.
func (d *WaveDriver) Index() int { return d.index }

// Advance moves to the next wave, doubling the target. It reports false when
// the wave budget is exhausted.
func (d *WaveDriver) Advance() (int, bool) {
	if d.index >= d.extra {
		return 0, false
	}
	d.index++
	d.target *= 2
	return d.target, true
}
