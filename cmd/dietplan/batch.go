package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/diet-planner/internal/ingest"
	"github.com/joseph-ayodele/diet-planner/internal/pipeline"
)

var (
	batchOutDir     string
	batchSkipHidden bool
	watchDebounce   time.Duration
	watchInitial    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Plan every report in a directory",
	Long: `Walks a directory and runs the pipeline on each supported report, one
after another. Each report gets its own folder under --out named after the
file. Identical files are planned once.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Plan reports as they are dropped into a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	for _, c := range []*cobra.Command{batchCmd, watchCmd} {
		c.Flags().StringVarP(&batchOutDir, "out", "o", "", "output root (default: <dir>/diet_plans)")
		c.Flags().BoolVar(&batchSkipHidden, "skip-hidden", true, "skip hidden files and directories")
	}
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "quiet period before a changed file is planned")
	watchCmd.Flags().BoolVar(&watchInitial, "initial-scan", true, "plan files already present on start")
	rootCmd.AddCommand(batchCmd, watchCmd)
}

func batchOut(root string) string {
	if batchOutDir != "" {
		return batchOutDir
	}
	return filepath.Join(root, "diet_plans")
}

// reportDir names the per-report output folder, e.g. labs.pdf -> labs_pdf.
func reportDir(outRoot, path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return filepath.Join(outRoot, strings.TrimSuffix(base, ext)+"_"+strings.TrimPrefix(ext, "."))
}

func newBatchIngestor(p *pipeline.Processor, outRoot string) *ingest.Ingestor {
	handle := func(ctx context.Context, path string) error {
		res, _, paths, err := planFile(ctx, p, path, reportDir(outRoot, path))
		if err != nil {
			return err
		}
		logger.Info("batch.file.ok", "path", path, "status", res.Status, "json", paths.JSON)
		return nil
	}
	opts := ingest.Options{SkipHidden: batchSkipHidden, ExcludeDirs: []string{outRoot}}
	return ingest.NewIngestor(handle, opts, logger)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}
	root := args[0]
	outRoot := batchOut(root)

	results, stats, err := newBatchIngestor(p, outRoot).IngestDirectory(cmd.Context(), root)
	if err != nil {
		return err
	}

	for _, r := range results {
		switch {
		case r.Err != "":
			cmd.Printf("FAIL  %s: %s\n", r.Path, r.Err)
		case r.Deduplicated:
			cmd.Printf("DUP   %s\n", r.Path)
		default:
			cmd.Printf("OK    %s -> %s\n", r.Path, reportDir(outRoot, r.Path))
		}
	}
	cmd.Printf("\nMatched %d, planned %d, duplicates %d, failed %d\n",
		stats.Matched, stats.Succeeded-stats.Deduplicated, stats.Deduplicated, stats.Failed)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := newProcessor(cfg, logger)
	if err != nil {
		return err
	}
	root := args[0]
	outRoot := batchOut(root)
	ing := newBatchIngestor(p, outRoot)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       []string{root},
		Options:     ingest.Options{SkipHidden: batchSkipHidden, ExcludeDirs: []string{outRoot}},
		InitialScan: watchInitial,
		Debounce:    watchDebounce,
	}, logger)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)

	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			r, err := ing.IngestPath(ctx, path)
			switch {
			case err != nil:
				cmd.Printf("FAIL  %s: %v\n", path, err)
			case r.Deduplicated:
				cmd.Printf("DUP   %s\n", path)
			default:
				cmd.Printf("OK    %s -> %s\n", path, reportDir(outRoot, path))
			}
		case err, ok := <-errs:
			if ok {
				logger.Warn("watch.error", "err", err)
			} else {
				errs = nil
			}
		}
	}
}
