package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/record"
	"github.com/unicornviz/unicornviz/pkg/scene"
	"github.com/unicornviz/unicornviz/pkg/synth"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	count  int    // number of companies to generate
	seed   int64  // generator seed, 0 means time-based
	output string // output file path, "-" for stdout
	format string // output format: "csv" or "json"
}

// newGenerateCmd creates the generate command for producing synthetic
// startup datasets without running the full pipeline.
func newGenerateCmd() *cobra.Command {
	opts := generateOpts{
		count:  pipeline.DefaultCount,
		output: "-",
		format: "csv",
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic unicorn startup dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "csv" && opts.format != "json" {
				return fmt.Errorf("invalid format: %s (must be 'csv' or 'json')", opts.format)
			}
			if opts.count <= 0 || opts.count > pipeline.MaxCount {
				return fmt.Errorf("count must be in [1, %d], got %d", pipeline.MaxCount, opts.count)
			}
			return runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of companies to generate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "generator seed (0 = time-based)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file ('-' for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: csv (default), json")

	return cmd
}

// runGenerate generates the dataset and writes it in the requested format.
func runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	var ds record.Dataset
	if opts.seed != 0 {
		ds = synth.GenerateSeeded(opts.count, opts.seed)
	} else {
		ds = synth.Generate(opts.count)
	}

	var data []byte
	var err error
	switch opts.format {
	case "csv":
		data, err = scene.RenderCSV(ds)
	case "json":
		data, err = json.MarshalIndent(ds, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Generated %d companies", len(ds)))
	if opts.output != "-" {
		printFile(opts.output)
	}
	return nil
}
