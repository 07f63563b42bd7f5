// =============================================================================
// Catalog Normalizer - Normalize Command
// =============================================================================
//
// This file defines the 'normalize' command, the main command of the tool. It
// runs the converter pipeline for a single host file.
//
// COMMAND USAGE:
//   normalizer normalize --file <path> [flags]
//   normalizer normalize <path> [flags]
//
// FLAGS:
//   --file      : Host file containing the embedded record array
//   --output    : Write the result to this path
//   --in-place  : Overwrite the input after backing it up
//   --dry-run   : Run every step but write nothing
//   --seed      : Seed the quantity generator for reproducible output
//   --report    : Number of transformed records to print
//   --xlsx      : Also export the records to an XLSX workbook, before the
//                 host file is written
//
// EXIT STATUS:
//   Non-zero when any pipeline step fails. The error names the offending
//   record and field so the source data can be corrected by hand.
//
// =============================================================================

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-normalizer/internal/converter"
	"github.com/ginjaninja78/catalog-normalizer/internal/logging"
	"github.com/ginjaninja78/catalog-normalizer/internal/report"
	"github.com/ginjaninja78/catalog-normalizer/internal/transformer"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	filePath    string
	outputPath  string
	inPlace     bool
	dryRun      bool
	seed        uint64
	reportLimit int
	xlsxPath    string
)

// =============================================================================
// NORMALIZE COMMAND DEFINITION
// =============================================================================

// normalizeCmd represents the 'normalize' command.
var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize the record array embedded in a host file",
	Long: `The normalize command extracts the JSON record array embedded between the
configured markers of a host file, normalizes currency fields, adds quantity
and id fields, and splices the result back between the same markers.

By default the result is written next to the input as <name>_normalized<ext>.
With --in-place the input is overwritten after a timestamped backup is taken.

On error nothing is written.`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := filePath
		if len(args) == 1 {
			if input != "" && input != args[0] {
				return errors.New("pass the input file either with --file or as an argument, not both")
			}
			input = args[0]
		}
		if input == "" {
			return errors.New("no input file: use --file or pass a path")
		}
		return runNormalize(cmd, input)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&filePath, "file", "f", "", "Host file containing the embedded record array")
	normalizeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this path instead of alongside the input")
	normalizeCmd.Flags().BoolVar(&inPlace, "in-place", false, "Overwrite the input file after backing it up")
	normalizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing any file")
	normalizeCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the quantity generator (default: unseeded)")
	normalizeCmd.Flags().IntVar(&reportLimit, "report", 0, "Number of transformed records to print (default from config)")
	normalizeCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the transformed records to this XLSX file")

	normalizeCmd.MarkFlagsMutuallyExclusive("output", "in-place")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runNormalize runs the converter for one file and prints the report.
func runNormalize(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	var opts []converter.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, converter.WithRandom(transformer.NewSeededSource(seed)))
	}

	conv, err := converter.New(mainConfig, logger, opts...)
	if err != nil {
		return err
	}

	result := conv.Run(ctx, input, converter.RunOptions{
		OutputPath:   outputPath,
		InPlace:      inPlace,
		DryRun:       dryRun,
		WorkbookPath: xlsxPath,
	})
	if !result.Success() {
		return result.Error
	}

	// =========================================================================
	// REPORT
	// =========================================================================

	limit := mainConfig.ReportLimit
	if cmd.Flags().Changed("report") {
		limit = reportLimit
	}

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, result.Records, limit); err != nil {
		return err
	}

	return report.WriteTotals(out, report.Totals{
		InputFile:    result.InputFile,
		OutputFile:   result.OutputFile,
		BackupFile:   result.BackupFile,
		WorkbookFile: result.WorkbookFile,
		DryRun:       dryRun,
		Stats:        result.Stats,
		Warnings:     len(result.Warnings),
		Duration:     result.Duration,
	})
}
