package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// WaveResult is one completed wave's population and timing.
type WaveResult struct {
	Scenario  string
	Wave      int
	Particles int
	Frames    int
	Elapsed   time.Duration
}

// Recorder accumulates per-wave results over one run.
type Recorder struct {
	scenario string
	results  []WaveResult
}

func NewRecorder(scenario string) *Recorder {
	return &Recorder{scenario: scenario}
}

func (r *Recorder) Record(wave, particles, frames int, elapsed time.Duration) {
	r.results = append(r.results, WaveResult{
		Scenario:  r.scenario,
		Wave:      wave,
		Particles: particles,
		Frames:    frames,
		Elapsed:   elapsed,
	})
}

func (r *Recorder) Results() []WaveResult {
	return r.results
}

// WriteCSV appends the recorded rows to path, prepending the header when the
// file is new or empty. Runs append rather than truncate so repeated
// invocations build one comparable series.
func (r *Recorder) WriteCSV(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat results %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write([]string{"scenario", "wave", "particles", "frames", "elapsed_ms"}); err != nil {
			return fmt.Errorf("write results header: %w", err)
		}
	}
	for _, res := range r.results {
		row := []string{
			res.Scenario,
			strconv.Itoa(res.Wave),
			strconv.Itoa(res.Particles),
			strconv.Itoa(res.Frames),
			strconv.FormatFloat(float64(res.Elapsed)/float64(time.Millisecond), 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}
