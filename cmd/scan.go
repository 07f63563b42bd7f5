// =============================================================================
// Catalog Normalizer - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, a diagnostic that lists every line of
// a text file containing a given code point. The default is U+2060 (WORD
// JOINER), which is invisible in most editors.
//
// COMMAND USAGE:
//   normalizer scan --file <path> [--rune U+2060]
//
// OUTPUT:
//   line 3: const x = "a<U+2060>b"
//   1 line(s) contain U+2060
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-normalizer/internal/logging"
	"github.com/ginjaninja78/catalog-normalizer/internal/scanner"
)

var (
	scanFile string
	scanRune string
)

// scanCmd represents the 'scan' command.
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Report lines containing a zero-width code point",
	Long: `The scan command reads a text file line by line and prints the 1-based line
number and trimmed content of every line containing the target code point.

The code point defaults to scan_code_point from the configuration (U+2060).
It may be given as U+2060, 0x2060, \u2060 or the literal character.`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := scanFile
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return errors.New("no input file: use --file or pass a path")
		}
		return runScan(cmd, input)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "Text file to scan")
	scanCmd.Flags().StringVar(&scanRune, "rune", "", "Code point to look for (default from config)")
}

// runScan scans input and prints every match.
func runScan(cmd *cobra.Command, input string) error {
	logger := logging.FromContext(cmd.Context())

	point := mainConfig.ScanCodePoint
	if scanRune != "" {
		point = scanRune
	}
	target, err := scanner.ParseCodePoint(point)
	if err != nil {
		return err
	}

	logger.Debug().Str("file", input).Str("rune", scanner.FormatCodePoint(target)).Msg("Scanning file")

	matches, err := scanner.ScanFile(input, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range matches {
		fmt.Fprintln(out, m.String())
	}
	fmt.Fprintf(out, "%d line(s) contain %s\n", len(matches), scanner.FormatCodePoint(target))

	return nil
}
