// =============================================================================
// Catalog Normalizer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Catalog Normalizer CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   normalizer normalize   - Normalize the record array embedded in a host file
//   normalizer scan        - Report lines containing a zero-width code point
//   normalizer version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (not for external import)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/catalog-normalizer/cmd"
)

func main() {
	cmd.Execute()
}
