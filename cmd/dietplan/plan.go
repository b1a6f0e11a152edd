package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/export"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
	"github.com/joseph-ayodele/diet-planner/internal/pipeline"
)

var (
	planOutDir  string
	planDays    int
	planCuisine string
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Generate a diet plan from a medical report",
	Long: `Runs the full pipeline on one report and writes diet_plan.json,
diet_plan.pdf and diet_plan.xlsx into the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutDir, "out", "o", "", "output directory (default: next to the input file)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the report JSON to stdout")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}

	path := args[0]
	out := planOutDir
	if out == "" {
		out = filepath.Dir(path)
	}
	res, report, paths, err := planFile(cmd.Context(), p, path, out)
	if err != nil {
		return err
	}

	if planJSON {
		data, err := export.MarshalReport(report)
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Status:     %s\n", res.Status)
	cmd.Printf("Characters: %d\n", len(res.Extraction.Text))
	cmd.Printf("Entities:   %d\n", len(res.Entities))
	cmd.Printf("Condition:  %s\n", res.Guidelines.Condition)
	cmd.Printf("Risk:       %s\n", res.Risk.String())
	cmd.Printf("Days:       %d\n", len(res.Days))
	cmd.Println()
	cmd.Println("Wrote:")
	for _, p := range []string{paths.JSON, paths.PDF, paths.XLSX} {
		cmd.Println("  " + p)
	}
	return nil
}

func newProcessor(c *common.Config, log *slog.Logger) (*pipeline.Processor, error) {
	return pipeline.NewProcessor(newDeps(c, log), pipeline.Config{
		Coercion: c.Risk.Coercion,
		Days:     planDays,
		Cuisine:  planCuisine,
	}, log)
}

// planFile runs the pipeline on one file and writes the exports into outDir.
func planFile(ctx context.Context, p *pipeline.Processor, path, outDir string) (*pipeline.Result, export.Report, export.Paths, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, export.Report{}, export.Paths{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := p.Process(ctx, extract.Document{Name: filepath.Base(path), Reader: f})
	if err != nil {
		return nil, export.Report{}, export.Paths{}, fmt.Errorf("plan failed: %w", err)
	}
	report := res.Report(time.Now())
	paths, err := export.WriteFiles(outDir, report, logger)
	if err != nil {
		return res, report, export.Paths{}, err
	}
	return res, report, paths, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
