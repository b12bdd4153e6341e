package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/config"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
)

func newOnceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Step the simulation a fixed number of ticks and print the final snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ticks, _ := cmd.Flags().GetUint64("ticks")
			statePath, _ := cmd.Flags().GetString("state")

			if statePath != "" {
				data, err := os.ReadFile(statePath)
				if err != nil {
					return fmt.Errorf("read state: %w", err)
				}
				st, ecfg, err := engine.Import(data, cfg.Engine)
				if err != nil {
					return fmt.Errorf("import state: %w", err)
				}
				cfg.Engine = ecfg
				out := stepOnceFrom(cfg, st, ticks)
				return printJSON(cmd, out)
			}

			return printJSON(cmd, stepOnce(cfg, ticks))
		},
	}
	cmd.Flags().Uint64("ticks", 1, "Number of ticks to step")
	cmd.Flags().String("state", "", "Import state from this JSON file before stepping")
	return cmd
}

// onceResult is the once command's JSON document.
type onceResult struct {
	Ticks     uint64          `json:"ticks"`
	Snapshot  engine.Snapshot `json:"snapshot"`
	Readiness readiness.State `json:"readiness"`
}

// stepOnce steps a fresh simulation the given number of ticks.
func stepOnce(cfg *config.Config, ticks uint64) onceResult {
	return stepOnceFrom(cfg, engine.NewState(cfg.Engine), ticks)
}

func stepOnceFrom(cfg *config.Config, st engine.State, ticks uint64) onceResult {
	runner := engine.NewRunner(cfg.Engine)
	runner.State = st
	runner.Sample = resolveSample(cfg)

	var lastSnap engine.Snapshot
	var lastReady readiness.State
	runner.OnSnapshot = func(tick uint64, st engine.State, snap engine.Snapshot, ready readiness.State) {
		lastSnap = snap
		lastReady = ready
	}
	for i := uint64(0); i < ticks; i++ {
		runner.Step()
	}
	return onceResult{Ticks: runner.Tick, Snapshot: lastSnap, Readiness: lastReady}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
