// =============================================================================
// Catalog Normalizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (normalizer)
//   ├── normalizeCmd (normalizer normalize)
//   ├── scanCmd (normalizer scan)
//   └── versionCmd (normalizer version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/catalog-normalizer/internal/config"
	"github.com/ginjaninja78/catalog-normalizer/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is loaded once per invocation by loadConfig.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "normalizer",
	Short: "Catalog Normalizer - Normalize product records embedded in source files",
	Long: `Catalog Normalizer rewrites the product catalog array embedded in a source
file (for example a Go raw string constant) into a normalized form.

For every record it:
  - Converts formatted currency strings ("Rp150.000") to integers (150000)
  - Leaves the literal "null" sentinel untouched
  - Adds a random quantity and a sequential id

Example Usage:
  normalizer normalize --file internal/db/dummy/casing.go
  normalizer normalize --file casing.go --in-place --seed 42
  normalizer scan --file internal/db/dummy/casing.go`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// A missing config.yaml in the current directory is not an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration and attaches a logger to the command
// context. An explicitly named config file must exist.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	mainConfig = cfg

	level := cfg.LogLevel
	if verbose {
		level = zerolog.LevelDebugValue
	}
	logger := logging.New(level)
	logger.Debug().Str("config", cfgFile).Msg("Configuration loaded")

	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	return nil
}
