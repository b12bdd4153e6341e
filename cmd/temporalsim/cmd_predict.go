package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/cascade"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/persistence"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict breakthrough parameters from recorded cascade history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("n")
			deltaPhase, _ := cmd.Flags().GetFloat64("delta-phase")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if n == 0 {
				n = cfg.Engine.CascadeN
			}
			if deltaPhase == 0 {
				deltaPhase = cfg.Engine.DeltaPhase
			}

			predictor := cascade.NewPredictor()
			if cfg.Database.Path != "" {
				db, err := persistence.Open(cfg.Database.Path)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()

				session, err := db.LatestSession()
				if err != nil {
					return fmt.Errorf("latest session: %w", err)
				}
				if session != "" {
					history, err := db.LoadCascadeHistory(session, cascade.Capacity)
					if err != nil {
						return fmt.Errorf("load history: %w", err)
					}
					for _, rec := range history {
						predictor.Record(rec)
					}
				}
			}

			pred := predictor.Predict(n, deltaPhase)

			if jsonOut {
				return printJSON(cmd, pred)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "history records:          %d\n", predictor.Len())
			fmt.Fprintf(w, "optimal n:                %d\n", pred.OptimalN)
			fmt.Fprintf(w, "optimal delta phase:      %.4f\n", pred.OptimalDeltaPhase)
			fmt.Fprintf(w, "breakthrough probability: %.2f\n", pred.BreakthroughProbability)
			fmt.Fprintf(w, "predicted efficiency:     %.1f\n", pred.PredictedEfficiency)
			fmt.Fprintf(w, "confidence:               %.2f\n", pred.Confidence)
			fmt.Fprintf(w, "recommendation:           %s\n", pred.Recommendation)
			return nil
		},
	}
	cmd.Flags().Int("n", 0, "Cascade n to evaluate (default: configured value)")
	cmd.Flags().Float64("delta-phase", 0, "Cascade delta phase to evaluate (default: configured value)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
