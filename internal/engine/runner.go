package engine

import (
	"log/slog"
	"time"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/spectrum"
)

// Cadence presets for the driver loop. The engine itself is cadence-agnostic;
// it simply receives elapsed time per call.
const (
	RealtimeInterval    = 16 * time.Millisecond
	ObservationInterval = 2 * time.Second
)

// Runner paces tick calls against wall-clock time. It is the single writer of
// its State; Stop may be called from another goroutine.
type Runner struct {
	Cfg      Config
	State    State
	Sample   *spectrum.Sample
	Interval time.Duration // base tick interval
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Running  bool

	// OnSnapshot fires after every tick — recording, display, prediction.
	OnSnapshot func(tick uint64, st State, snap Snapshot, ready readiness.State)

	Tick uint64 // monotonic tick counter
}

// NewRunner creates a runner with realtime cadence defaults.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		Cfg:      cfg,
		State:    NewState(cfg),
		Interval: RealtimeInterval,
		Speed:    1.0,
	}
}

// Run starts the driver loop. Blocks until Stop is called.
func (r *Runner) Run() {
	r.Running = true
	slog.Info("engine started", "tick", r.Tick, "interval", r.Interval, "speed", r.Speed)

	for r.Running {
		if r.Speed <= 0 {
			// Paused (analysis mode) — idle briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		r.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(r.Interval) / r.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", r.Tick)
}

// Stop halts the loop after the current tick.
func (r *Runner) Stop() {
	r.Running = false
}

// Step advances the simulation one tick. Simulation time moves by one Δt per
// tick regardless of wall-clock pacing.
func (r *Runner) Step() {
	r.Tick++
	elapsed := r.State.Time + r.Cfg.DeltaT

	st, snap, ready := Tick(r.State, elapsed, r.Cfg, r.State.Isotope, r.Sample)
	r.State = st

	if r.OnSnapshot != nil {
		r.OnSnapshot(r.Tick, st, snap, ready)
	}
}
