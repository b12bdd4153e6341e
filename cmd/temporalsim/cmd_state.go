package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Step the simulation and export its state as JSON",
		Long: `export advances a fresh simulation the requested number of ticks and
writes the portable state document to the named file (or stdout). The
document restores an identical simulation via import.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ticks, _ := cmd.Flags().GetUint64("ticks")

			runner := engine.NewRunner(cfg.Engine)
			runner.Sample = resolveSample(cfg)
			for i := uint64(0); i < ticks; i++ {
				runner.Step()
			}

			data, err := engine.Export(runner.State, runner.Cfg)
			if err != nil {
				return fmt.Errorf("export state: %w", err)
			}

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("write state: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "state exported to %s after %d ticks\n", args[0], ticks)
			return nil
		},
	}
	cmd.Flags().Uint64("ticks", 0, "Ticks to advance before exporting")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a state document and report the restored state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read state: %w", err)
			}
			st, ecfg, err := engine.Import(data, cfg.Engine)
			if err != nil {
				return fmt.Errorf("import state: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"state restored: time=%.3fs cycle=%d oscillators=%d timeline=%s isotope=%s phi=%.4f\n",
				st.Time, st.Cycle, len(st.Network.Phases), st.Timeline, st.Isotope.Type, ecfg.Phi)
			return nil
		},
	}
}
