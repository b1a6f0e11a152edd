package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/diet-planner/internal/common"
)

var (
	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dietplan",
	Short: "Turn a medical report into a weekly diet plan",
	Long: `dietplan extracts text from a medical report (PDF, text, CSV or image),
detects conditions and advice with hosted models, scores risk from tabular
vitals and asks a chat model for a weekly diet plan.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&planDays, "days", 7, "number of days to plan")
	rootCmd.PersistentFlags().StringVar(&planCuisine, "cuisine", "Indian", "cuisine the plan should follow")
}

// setup loads .env (if present) and the environment, then builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	c, err := common.LoadConfig()
	if err != nil {
		return err
	}
	cfg = c
	logger = newLogger(cmd.ErrOrStderr(), c.Log)
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, lc common.LogConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: lc.Level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
