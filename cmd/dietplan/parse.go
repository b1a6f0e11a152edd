package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/diet-planner/internal/plan"
)

var parseCmd = &cobra.Command{
	Use:   "parse [plan.txt]",
	Short: "Split saved plan text into day and meal blocks",
	Long:  `Reads plan text from a file ("-" for stdin) and prints the parsed days as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open plan: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	return printJSON(cmd, plan.Parse(string(text)))
}
