package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/cascade"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/config"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/persistence"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/spectrum"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ticks, _ := cmd.Flags().GetUint64("ticks")
			statusEvery, _ := cmd.Flags().GetUint64("status-every")
			return runLoop(cfg, ticks, statusEvery)
		},
	}
	cmd.Flags().Uint64("ticks", 0, "Stop after this many ticks (0 = run until interrupted)")
	cmd.Flags().Uint64("status-every", 60, "Log a status line every N ticks")
	return cmd
}

func runLoop(cfg *config.Config, maxTicks, statusEvery uint64) error {
	slog.Info("temporal displacement engine",
		"phi", phi.Phi,
		"mode", cfg.Engine.Mode,
		"oscillators", cfg.Engine.N,
		"base_freq_hz", cfg.Engine.BaseFrequency(),
	)

	// Run recorder — optional, the engine core never touches it.
	var db *persistence.DB
	var sessionID, priorSession string
	if cfg.Database.Path != "" {
		os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)
		var err error
		db, err = persistence.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		// Carry the previous session's cascade history into this run.
		priorSession, _ = db.LatestSession()

		sessionID, err = db.CreateSession(cfg.Engine)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		slog.Info("recording session", "path", cfg.Database.Path, "session", sessionID)
	}

	predictor := newSessionPredictor(db, priorSession)

	runner := engine.NewRunner(cfg.Engine)
	runner.Sample = resolveSample(cfg)
	runner.Interval = cfg.TickInterval()
	runner.Speed = cfg.Run.Speed
	if cfg.Paused() {
		runner.Speed = 0
	}

	runner.OnSnapshot = func(tick uint64, st engine.State, snap engine.Snapshot, ready readiness.State) {
		if db != nil {
			if err := db.RecordSnapshot(sessionID, tick, st.Time, snap, ready); err != nil {
				slog.Error("record snapshot failed", "tick", tick, "error", err)
			}
		}

		rec := cascade.Evaluate(cfg.Engine.CascadeN, cfg.Engine.DeltaPhase,
			snap.QEnt, snap.CTI, time.Now().UTC())
		predictor.Record(rec)
		if db != nil {
			if err := db.RecordCascade(sessionID, rec); err != nil {
				slog.Error("record cascade failed", "tick", tick, "error", err)
			}
		}

		if statusEvery > 0 && tick%statusEvery == 0 {
			slog.Info("tick",
				"n", tick,
				"tPTT", humanize.SIWithDigits(snap.TPTT, 2, ""),
				"TDF", humanize.SIWithDigits(snap.TDFValue, 2, ""),
				"coherence", fmt.Sprintf("%.3f", snap.Coherence),
				"readiness", ready.Status,
				"score", fmt.Sprintf("%.1f", ready.Score),
			)
		}

		if maxTicks > 0 && tick >= maxTicks {
			runner.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		runner.Stop()
	}()

	fmt.Printf("Simulation running at %s cadence (Ctrl+C to stop)\n", cfg.Run.Cadence)
	runner.Run()

	pred := predictor.Predict(cfg.Engine.CascadeN, cfg.Engine.DeltaPhase)
	slog.Info("final prediction",
		"optimal_n", pred.OptimalN,
		"optimal_delta_phase", pred.OptimalDeltaPhase,
		"breakthrough_probability", fmt.Sprintf("%.2f", pred.BreakthroughProbability),
		"confidence", fmt.Sprintf("%.2f", pred.Confidence),
	)
	return nil
}

// resolveSample builds the spectrum sample for the configured source. Only
// synthetic samples are generated locally; other sources run unmodulated.
func resolveSample(cfg *config.Config) *spectrum.Sample {
	if cfg.Spectrum.Source != "synthetic" {
		slog.Warn("spectrum source requires external data, running unmodulated",
			"source", cfg.Spectrum.Source)
		return nil
	}
	sc := spectrum.DefaultSyntheticConfig()
	sc.Seed = cfg.Spectrum.Seed
	sc.Points = cfg.Spectrum.Points
	return spectrum.Synthetic(sc)
}

// sessionPredictor seeds a predictor from the recorded cascade history so a
// resumed session keeps its learned trend.
func newSessionPredictor(db *persistence.DB, sessionID string) *cascade.Predictor {
	p := cascade.NewPredictor()
	if db == nil || sessionID == "" {
		return p
	}
	history, err := db.LoadCascadeHistory(sessionID, cascade.Capacity)
	if err != nil {
		slog.Warn("cascade history unavailable", "error", err)
		return p
	}
	for _, rec := range history {
		p.Record(rec)
	}
	if len(history) > 0 {
		slog.Info("cascade history restored", "records", len(history))
	}
	return p
}
