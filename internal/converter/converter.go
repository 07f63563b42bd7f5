// =============================================================================
// Catalog Normalizer - Converter Module
// =============================================================================
//
// This module contains the host pipeline around the record transformer. It
// takes one host file from disk to a normalized copy on disk.
//
// CONVERSION PIPELINE:
//   1. Read the host file
//   2. Extract the embedded record array between the configured markers
//   3. Decode the array
//   4. Check required fields are present
//   5. Transform the records (normalize prices, add quantity and id)
//   6. Encode the records with stable indentation
//   7. Splice the new array back between the same markers
//   8. Export the records to an XLSX workbook, when requested
//   9. Write the result alongside the input, or in place after a backup
//
// FAILURE SEMANTICS:
//   Any failure before step 9 leaves the host file untouched. A workbook
//   exported in step 8 is removed again if step 9 fails.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/catalog-normalizer/internal/codec"
	"github.com/ginjaninja78/catalog-normalizer/internal/config"
	"github.com/ginjaninja78/catalog-normalizer/internal/extractor"
	"github.com/ginjaninja78/catalog-normalizer/internal/report"
	"github.com/ginjaninja78/catalog-normalizer/internal/transformer"
	"github.com/ginjaninja78/catalog-normalizer/internal/types"
	"github.com/ginjaninja78/catalog-normalizer/internal/validation"
	"github.com/ginjaninja78/catalog-normalizer/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// InputFile is the path to the host file that was processed.
	InputFile string

	// OutputFile is the path written to. Empty on failure or dry run.
	OutputFile string

	// BackupFile is the copy of the input taken before an in-place write.
	BackupFile string

	// WorkbookFile is the exported XLSX workbook, if one was requested.
	WorkbookFile string

	// Records are the transformed records. Nil on failure.
	Records types.Collection

	// NextID is the id the next record would have received.
	NextID int64

	// Stats are the transformer statistics.
	Stats transformer.Stats

	// Warnings are presence-check findings that did not abort the run.
	Warnings []*validation.ValidationError

	// Duration is the time taken to process the file.
	Duration time.Duration

	// Error is non-nil if processing failed.
	Error error
}

// Success reports whether the run completed.
func (r Result) Success() bool {
	return r.Error == nil
}

// RunOptions select where the result goes.
type RunOptions struct {
	// OutputPath overrides the configured alongside output name.
	OutputPath string

	// InPlace overwrites the input file after backing it up.
	InPlace bool

	// DryRun runs every step except writing. No workbook is exported.
	DryRun bool

	// WorkbookPath also exports the transformed records to an XLSX file.
	WorkbookPath string
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the normalization pipeline for host files.
type Converter struct {
	cfg         *config.MainConfig
	extractor   extractor.Extractor
	transformer *transformer.Transformer
	validator   *validation.Validator
	files       *utils.FileManager
	random      transformer.RandomSource
	logger      zerolog.Logger
}

// Option customizes a Converter.
type Option func(*Converter)

// WithExtractor replaces the marker extractor built from the config.
func WithExtractor(ex extractor.Extractor) Option {
	return func(c *Converter) { c.extractor = ex }
}

// WithRandom sets the random source used for quantities.
func WithRandom(src transformer.RandomSource) Option {
	return func(c *Converter) { c.random = src }
}

// New creates a Converter from configuration.
//
// RETURNS:
//   - An error if the configuration cannot build a transformer.
func New(cfg *config.MainConfig, logger zerolog.Logger, opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:       cfg,
		extractor: extractor.NewMarkerExtractor(cfg.StartMarker, cfg.EndMarker),
		validator: validation.NewValidator(validation.ValidationOptions{
			RequiredFields:   cfg.RequiredFields,
			Strict:           cfg.StrictPresence,
			StopOnFirstError: cfg.StopOnFirstError,
		}),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	t, err := transformer.New(transformer.Options{
		CurrencyFields: cfg.CurrencyFields,
		NullSentinel:   cfg.NullSentinel,
		QuantityMin:    cfg.QuantityMin,
		QuantityMax:    cfg.QuantityMax,
		Random:         c.random,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transformer: %w", err)
	}
	c.transformer = t

	fm := utils.NewFileManager(cfg.OutputDir, cfg.BackupDir)
	fm.UseTimestampSubdirs = cfg.BackupTimestampSubdirs
	c.files = fm

	return c, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for one host file.
//
// PARAMETERS:
//   - ctx: Checked between steps; cancellation aborts before writing.
//   - inputPath: The host file containing the embedded record array.
//   - opts: Output selection.
//
// RETURNS:
//   - A Result describing the outcome. Result.Error is set on failure.
func (c *Converter) Run(ctx context.Context, inputPath string, opts RunOptions) Result {
	startTime := time.Now()
	result := Result{InputFile: inputPath}

	fail := func(err error) Result {
		result.Error = err
		result.Records = nil
		result.Duration = time.Since(startTime)
		return result
	}

	log := c.logger.With().Str("file", inputPath).Logger()
	log.Info().Msg("Processing file")

	// =========================================================================
	// STEP 1: READ HOST FILE
	// =========================================================================

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fail(fmt.Errorf("failed to read input file: %w", err))
	}
	text := string(data)

	// =========================================================================
	// STEP 2: EXTRACT EMBEDDED BLOCK
	// =========================================================================

	block, err := c.extractor.Extract(text)
	if err != nil {
		return fail(fmt.Errorf("failed to extract records from %s: %w", inputPath, err))
	}
	log.Debug().Int("start", block.Start).Int("end", block.End).Msg("Located embedded block")

	// =========================================================================
	// STEP 3: DECODE RECORDS
	// =========================================================================

	records, err := codec.Decode([]byte(block.Body))
	if err != nil {
		return fail(fmt.Errorf("failed to decode records from %s: %w", inputPath, err))
	}
	log.Debug().Int("records", len(records)).Msg("Decoded records")

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 4: PRESENCE CHECKS
	// =========================================================================

	validationResult := c.validator.ValidateAll(records)
	for _, finding := range validationResult.Errors {
		log.Warn().
			Str("severity", finding.Severity).
			Int("record", finding.RecordIndex).
			Str("field", finding.Field).
			Msg(finding.Message)
	}
	if !validationResult.IsValid {
		return fail(fmt.Errorf("presence check failed: %s",
			strings.TrimSpace(validation.FormatErrors(validationResult.Errors))))
	}
	result.Warnings = validationResult.Errors

	// =========================================================================
	// STEP 5: TRANSFORM
	// =========================================================================

	outcome, err := c.transformer.Run(records, c.cfg.IDStart)
	if err != nil {
		return fail(fmt.Errorf("failed to transform records from %s: %w", inputPath, err))
	}
	result.Stats = outcome.Stats
	result.NextID = outcome.NextID
	log.Debug().
		Int("normalized", outcome.Stats.Normalized).
		Int("sentinels", outcome.Stats.SentinelsKept).
		Msg("Transformed records")

	// =========================================================================
	// STEP 6: ENCODE
	// =========================================================================

	body, err := codec.Encode(outcome.Records, "", c.cfg.Indent)
	if err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 7: SPLICE
	// =========================================================================

	output := extractor.Splice(text, block, string(body))

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	if opts.DryRun {
		log.Info().Int("records", len(outcome.Records)).Msg("Dry run, nothing written")
		result.Records = outcome.Records
		result.Duration = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 8: EXPORT WORKBOOK
	// =========================================================================

	if opts.WorkbookPath != "" {
		if err := report.WriteWorkbook(opts.WorkbookPath, outcome.Records); err != nil {
			return fail(fmt.Errorf("failed to export workbook: %w", err))
		}
		log.Debug().Str("workbook", opts.WorkbookPath).Msg("Exported records")
	}

	// =========================================================================
	// STEP 9: WRITE
	// =========================================================================

	outputPath, backupPath, err := c.write(inputPath, output, opts)
	if err != nil {
		if opts.WorkbookPath != "" {
			os.Remove(opts.WorkbookPath)
		}
		return fail(err)
	}
	result.OutputFile = outputPath
	result.BackupFile = backupPath
	result.WorkbookFile = opts.WorkbookPath
	log.Info().Str("output", outputPath).Int("records", len(outcome.Records)).Msg("Wrote output")

	result.Records = outcome.Records
	result.Duration = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// write places the spliced text at its destination.
//
// RETURNS:
//   - The output path.
//   - The backup path, for in-place writes.
//   - An error if the backup or the write fails.
func (c *Converter) write(inputPath, output string, opts RunOptions) (string, string, error) {
	outputPath := c.outputPath(inputPath, opts)

	backupPath := ""
	if samePath(outputPath, inputPath) {
		var err error
		backupPath, err = c.files.BackupFile(inputPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to back up input file: %w", err)
		}
		c.logger.Debug().Str("backup", backupPath).Msg("Backed up input file")
	} else if utils.FileExists(outputPath) {
		c.logger.Warn().Str("output", outputPath).Msg("Overwriting existing output file")
	}

	if err := utils.WriteFileAtomic(outputPath, []byte(output)); err != nil {
		return "", "", fmt.Errorf("failed to write output: %w", err)
	}

	return outputPath, backupPath, nil
}

// outputPath resolves the destination for a run.
func (c *Converter) outputPath(inputPath string, opts RunOptions) string {
	switch {
	case opts.InPlace:
		return inputPath
	case opts.OutputPath != "":
		return opts.OutputPath
	default:
		return c.files.OutputPath(inputPath, c.cfg.OutputNameFormat)
	}
}

// samePath reports whether two paths name the same file.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
