// Command temporalsim runs the temporal displacement simulation engine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/config"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "temporalsim",
		Short: "Temporal displacement simulation engine",
		Long: `temporalsim drives a deterministic phase-synchronization simulation:
oscillator networks, wave fields, and the tPTT / TDF / CTI metric chain,
with adaptive breakthrough readiness and a history-based cascade predictor.

Identical seeds and configs produce identical runs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "temporalsim.yaml", "Config file path")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level (debug, info, warn)")

	rootCmd.AddCommand(
		newRunCmd(),
		newOnceCmd(),
		newExportCmd(),
		newImportCmd(),
		newPredictCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("temporalsim version %s\n", version)
		},
	}
}

// loadConfig reads the config file named by the --config flag and installs
// the default slog handler at the configured level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slogLevel(level),
			TimeFormat: "15:04:05",
		}),
	))
	return cfg, nil
}

func slogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
