package event

import "time"

// WaveStarted fires on the frame a wave's population has been spawned.
type WaveStarted struct {
	Wave   int
	Target int
}

// WaveEnded fires on the frame a wave's population reaches zero.
type WaveEnded struct {
	Wave    int
	Target  int
	Frames  int
	Elapsed time.Duration
}

// RunFinished fires once, after the final wave ends.
type RunFinished struct {
	Waves   int
	Frames  int
	Elapsed time.Duration
}
