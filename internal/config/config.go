// =============================================================================
// Catalog Normalizer - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a YAML file, applying defaults and validating the result.
//
// CONFIGURATION FILE (config.yaml):
//
//	start_marker: "`"
//	end_marker: "`"
//	currency_fields: [price, discount_price]
//	null_sentinel: "null"
//	quantity_min: 1
//	quantity_max: 100
//	id_start: 1
//	indent: "  "
//	required_fields: [product_name]
//	strict_presence: false
//	stop_on_first_error: false
//	output_dir: ""
//	output_name_format: "{original}_normalized{ext}"
//	backup_dir: "./backup"
//	backup_timestamp_subdirs: false
//	report_limit: 5
//	scan_code_point: "U+2060"
//	log_level: info
//
// Every key is optional. A missing config file at the default path is not an
// error; the defaults above are used.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/catalog-normalizer/internal/codec"
	"github.com/ginjaninja78/catalog-normalizer/internal/scanner"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// EXTRACTION SETTINGS
	// =========================================================================

	// StartMarker precedes the embedded record array in the host file.
	// Default: "`"
	StartMarker string `yaml:"start_marker"`

	// EndMarker follows the embedded record array. The last occurrence in
	// the file is used.
	// Default: "`"
	EndMarker string `yaml:"end_marker"`

	// =========================================================================
	// TRANSFORMATION SETTINGS
	// =========================================================================

	// CurrencyFields are normalized from formatted strings to integers.
	// Default: ["price", "discount_price"]
	CurrencyFields []string `yaml:"currency_fields"`

	// NullSentinel is the literal string left untouched in currency fields.
	// Default: "null"
	NullSentinel string `yaml:"null_sentinel"`

	// QuantityMin and QuantityMax bound the injected quantity (inclusive).
	// Default: 1 and 100
	QuantityMin int `yaml:"quantity_min"`
	QuantityMax int `yaml:"quantity_max"`

	// IDStart is the id assigned to the first record.
	// Default: 1
	IDStart int64 `yaml:"id_start"`

	// Indent is one level of indentation in the written JSON.
	// Default: two spaces
	Indent string `yaml:"indent"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// RequiredFields must be present on every record.
	// Default: ["product_name"]
	RequiredFields []string `yaml:"required_fields"`

	// StrictPresence turns missing required fields into a fatal error.
	// Default: false
	StrictPresence bool `yaml:"strict_presence"`

	// StopOnFirstError ends the presence check at the first error in strict
	// mode, so only that record is reported.
	// Default: false
	StopOnFirstError bool `yaml:"stop_on_first_error"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where alongside output files are written.
	// Empty means the directory of the input file.
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat names the alongside output file.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {ext}       - Input file extension, including the dot
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "{original}_normalized{ext}"
	OutputNameFormat string `yaml:"output_name_format"`

	// BackupDir receives a copy of the input file before an in-place write.
	// Default: "./backup"
	BackupDir string `yaml:"backup_dir"`

	// BackupTimestampSubdirs stores backups under YYYY/MM/DD subdirectories.
	// Default: false
	BackupTimestampSubdirs bool `yaml:"backup_timestamp_subdirs"`

	// =========================================================================
	// REPORTING SETTINGS
	// =========================================================================

	// ReportLimit is the number of transformed records printed to the console.
	// Zero uses the default; a negative value prints none.
	// Default: 5
	ReportLimit int `yaml:"report_limit"`

	// ScanCodePoint is the code point the scan command looks for.
	// Default: "U+2060" (WORD JOINER)
	ScanCodePoint string `yaml:"scan_code_point"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and required is false.
func LoadOrDefault(configPath string, required bool) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if err != nil && !required && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.StartMarker == "" {
		config.StartMarker = "`"
	}
	if config.EndMarker == "" {
		config.EndMarker = "`"
	}
	if len(config.CurrencyFields) == 0 {
		config.CurrencyFields = []string{"price", "discount_price"}
	}
	if config.NullSentinel == "" {
		config.NullSentinel = "null"
	}
	if config.QuantityMin == 0 && config.QuantityMax == 0 {
		config.QuantityMin = 1
		config.QuantityMax = 100
	}
	if config.IDStart == 0 {
		config.IDStart = 1
	}
	if config.Indent == "" {
		config.Indent = codec.DefaultIndent
	}
	if config.RequiredFields == nil {
		config.RequiredFields = []string{"product_name"}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_normalized{ext}"
	}
	if config.BackupDir == "" {
		config.BackupDir = "./backup"
	}
	if config.ReportLimit == 0 {
		config.ReportLimit = 5
	}
	if config.ScanCodePoint == "" {
		config.ScanCodePoint = "U+2060"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if config.QuantityMin < 1 {
		return fmt.Errorf("quantity_min must be at least 1, got %d", config.QuantityMin)
	}
	if config.QuantityMax < config.QuantityMin {
		return fmt.Errorf("quantity_max (%d) must not be below quantity_min (%d)", config.QuantityMax, config.QuantityMin)
	}
	if strings.TrimSpace(config.Indent) != "" {
		return fmt.Errorf("indent must contain only whitespace, got %q", config.Indent)
	}
	for _, field := range config.CurrencyFields {
		if field == "id" || field == "quantity" {
			return fmt.Errorf("currency_fields must not include generated field %q", field)
		}
	}
	if _, err := scanner.ParseCodePoint(config.ScanCodePoint); err != nil {
		return fmt.Errorf("scan_code_point: %w", err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}
