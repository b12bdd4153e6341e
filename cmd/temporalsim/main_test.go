package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/config"
)

// newTestRootCmd builds a root command with the persistent flags the
// subcommands read, pointed at a config file that does not exist so every
// test runs on defaults.
func newTestRootCmd(t *testing.T) *cobra.Command {
	t.Helper()
	rootCmd := &cobra.Command{Use: "temporalsim"}
	rootCmd.PersistentFlags().String("config", filepath.Join(t.TempDir(), "absent.yaml"), "")
	rootCmd.PersistentFlags().String("log-level", "warn", "")
	rootCmd.SilenceUsage = true
	return rootCmd
}

func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestStepOnce_Deterministic(t *testing.T) {
	run := func() string {
		out, err := json.Marshal(stepOnce(config.Default(), 10))
		if err != nil {
			t.Fatal(err)
		}
		return string(out)
	}

	first := run()
	second := run()
	if first != second {
		t.Errorf("once output not deterministic:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestOnceCmd(t *testing.T) {
	root := newTestRootCmd(t)
	root.AddCommand(newOnceCmd())

	out, err := execute(t, root, "once", "--ticks", "3")
	if err != nil {
		t.Fatalf("once error = %v", err)
	}

	var result onceResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("once output not JSON: %v\n%s", err, out)
	}
	if result.Ticks != 3 {
		t.Errorf("ticks = %d, want 3", result.Ticks)
	}
	if result.Readiness.Status == "" {
		t.Error("readiness status missing from once output")
	}
}

func TestExportImportCmds(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")

	root := newTestRootCmd(t)
	root.AddCommand(newExportCmd(), newImportCmd())

	if _, err := execute(t, root, "export", statePath, "--ticks", "5"); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if _, err := os.Stat(statePath); err != nil {
		t.Fatalf("export wrote no file: %v", err)
	}

	root2 := newTestRootCmd(t)
	root2.AddCommand(newImportCmd())
	if _, err := execute(t, root2, "import", statePath); err != nil {
		t.Fatalf("import error = %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.in); got != tt.want {
			t.Errorf("slogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveSample(t *testing.T) {
	cfg := config.Default()
	if s := resolveSample(cfg); s == nil || !s.Valid() {
		t.Error("synthetic source should produce a valid sample")
	}

	cfg.Spectrum.Source = "sdss"
	if s := resolveSample(cfg); s != nil {
		t.Error("external source without data should run unmodulated")
	}
}

func TestPredictCmd_ColdStart(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("database:\n  path: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root := newTestRootCmd(t)
	root.AddCommand(newPredictCmd())
	root.PersistentFlags().Set("config", cfgPath)

	out, err := execute(t, root, "predict")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	// No history: the predictor falls back to the tuned defaults.
	if !strings.Contains(out, "optimal n:                29") {
		t.Errorf("cold-start predict should suggest default n, got:\n%s", out)
	}
}
