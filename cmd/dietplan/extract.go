package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/diet-planner/internal/extract"
	"github.com/joseph-ayodele/diet-planner/internal/segment"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract and segment a report without calling any model",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	Method    string                 `json:"method"`
	Pages     int                    `json:"pages"`
	Text      string                 `json:"text"`
	Numeric   *extract.NumericRecord `json:"numeric_fields,omitempty"`
	Sentences []string               `json:"sentences"`
	Warnings  []string               `json:"warnings,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := newExtractor(cfg, logger).Extract(cmd.Context(), extract.Document{Name: filepath.Base(path), Reader: f})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	sents, err := segment.New(nil, logger).Segment(res.Text)
	if err != nil {
		return err
	}

	out := extractOutput{
		Method:    res.Method,
		Pages:     res.Pages,
		Text:      res.Text,
		Numeric:   res.Numeric,
		Sentences: sents,
		Warnings:  res.Warnings,
	}
	if out.Sentences == nil {
		out.Sentences = []string{}
	}
	if extractJSON {
		return printJSON(cmd, out)
	}

	cmd.Printf("Method: %s  Pages: %d  Characters: %d\n", out.Method, out.Pages, len(out.Text))
	if out.Numeric != nil {
		cmd.Println("Numeric fields:")
		for _, fld := range out.Numeric.Fields {
			cmd.Printf("  %s = %s\n", fld.Name, fld.Raw)
		}
	}
	cmd.Printf("Sentences (%d):\n", len(out.Sentences))
	for i, s := range out.Sentences {
		cmd.Printf("  [%d] %s\n", i+1, s)
	}
	return nil
}
