// =============================================================================
// Estados de Cuenta - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
// Every setting has a default, so the file is optional: running without one
// reads the statements workbook with its standard layout.
//
// CONFIGURATION FILE (config.yaml):
//
//   workbook: Estados_de_Cuenta.xlsx
//   skip_sheets: ["Base de datos", "MODELO"]
//   max_concurrency: 4
//   log_level: info
//   layout:
//     label_column: 1
//     value_column: 4
//     info_scan_rows: 10
//     header_markers: ["Fecha", "Concepto"]
//   report:
//     format: text
//     last_transactions: 5
//   import:
//     env_files: [".env.local", ".env"]
//     batch_size: 100
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/report"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Workbook is the statements workbook, or a directory holding it.
	// Default: "Estados_de_Cuenta.xlsx"
	Workbook string `yaml:"workbook"`

	// SkipSheets lists worksheets that are not artist statements.
	// Default: ["Base de datos", "MODELO"]
	SkipSheets []string `yaml:"skip_sheets"`

	// Layout describes where things are on an artist worksheet.
	Layout LayoutConfig `yaml:"layout"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of worksheets extracted at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	Report ReportConfig `yaml:"report"`

	Import ImportConfig `yaml:"import"`
}

// LayoutConfig mirrors ledger.Options in YAML form.
type LayoutConfig struct {
	LabelColumn   int                `yaml:"label_column"`
	ValueColumn   int                `yaml:"value_column"`
	InfoScanRows  int                `yaml:"info_scan_rows"`
	Labels        []ledger.LabelRule `yaml:"labels"`
	HeaderMarkers []string           `yaml:"header_markers"`
	AdvanceMarker string             `yaml:"advance_marker"`
	BalanceMarker string             `yaml:"balance_marker"`
}

// ReportConfig controls the report command.
type ReportConfig struct {
	// Format is "text", "json", "yaml" or "csv".
	// Default: "text"
	Format string `yaml:"format"`

	// LastTransactions is how many trailing transactions are listed per
	// artist. Default: 5
	LastTransactions int `yaml:"last_transactions"`

	// CSVDelimiter separates the fields of the csv format: one character,
	// or "tab", "pipe" or "semicolon".
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// OutputDir, when set, also writes the report to a file there.
	OutputDir string `yaml:"output_dir"`

	// FileNameFormat names report files.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {date}      - Current date (YYYYMMDD)
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {workbook}  - Workbook file name without extension
	// The extension follows the format.
	// Default: "{date}_{uuid}"
	FileNameFormat string `yaml:"file_name_format"`
}

// ImportConfig controls the import command.
type ImportConfig struct {
	// EnvFiles are loaded in order before reading DATABASE_URL. Missing
	// files are ignored.
	// Default: [".env.local", ".env"]
	EnvFiles []string `yaml:"env_files"`

	// BatchSize is the number of transactions inserted per batch.
	// Default: 100
	BatchSize int `yaml:"batch_size"`

	// Source is recorded as the import source of every statement.
	// Default: "excel_import"
	Source string `yaml:"source"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
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
//   - An error if the file cannot be read, parsed or validated. A missing
//     file yields an error matching os.ErrNotExist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Resolve loads configPath. When the file does not exist and the path was
// not asked for explicitly, the defaults are returned instead.
func Resolve(configPath string, explicit bool) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Workbook == "" {
		config.Workbook = "Estados_de_Cuenta.xlsx"
	}
	if config.SkipSheets == nil {
		config.SkipSheets = []string{"Base de datos", "MODELO"}
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	def := ledger.DefaultOptions()
	layout := &config.Layout
	if layout.LabelColumn == 0 && layout.ValueColumn == 0 {
		layout.LabelColumn = def.LabelColumn
		layout.ValueColumn = def.ValueColumn
	}
	if layout.InfoScanRows == 0 {
		layout.InfoScanRows = def.InfoScanRows
	}
	if len(layout.Labels) == 0 {
		layout.Labels = def.Labels
	}
	if len(layout.HeaderMarkers) == 0 {
		layout.HeaderMarkers = def.HeaderMarkers
	}
	if layout.AdvanceMarker == "" {
		layout.AdvanceMarker = def.AdvanceMarker
	}
	if layout.BalanceMarker == "" {
		layout.BalanceMarker = def.BalanceMarker
	}

	if config.Report.Format == "" {
		config.Report.Format = "text"
	}
	if config.Report.LastTransactions == 0 {
		config.Report.LastTransactions = 5
	}
	if config.Report.FileNameFormat == "" {
		config.Report.FileNameFormat = "{date}_{uuid}"
	}

	if config.Import.EnvFiles == nil {
		config.Import.EnvFiles = []string{".env.local", ".env"}
	}
	if config.Import.BatchSize == 0 {
		config.Import.BatchSize = 100
	}
	if config.Import.Source == "" {
		config.Import.Source = "excel_import"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	var problems []string

	if config.MaxConcurrency < 1 {
		problems = append(problems, "max_concurrency must be at least 1")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel)); err != nil {
		problems = append(problems, fmt.Sprintf("unknown log_level %q", config.LogLevel))
	}
	if config.Layout.LabelColumn < 0 || config.Layout.ValueColumn < 0 {
		problems = append(problems, "layout columns must not be negative")
	}
	if config.Layout.LabelColumn == config.Layout.ValueColumn {
		problems = append(problems, "layout label_column and value_column must differ")
	}
	if config.Layout.InfoScanRows < 0 {
		problems = append(problems, "layout info_scan_rows must not be negative")
	}
	if !ValidFormat(config.Report.Format) {
		problems = append(problems, fmt.Sprintf("unknown report format %q", config.Report.Format))
	}
	if _, err := report.ParseDelimiter(config.Report.CSVDelimiter); err != nil {
		problems = append(problems, "report "+err.Error())
	}
	if config.Report.LastTransactions < 0 {
		problems = append(problems, "report last_transactions must not be negative")
	}
	if config.Import.BatchSize < 1 {
		problems = append(problems, "import batch_size must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ValidFormat reports whether a report format name is supported.
func ValidFormat(format string) bool {
	switch format {
	case "text", "json", "yaml", "csv":
		return true
	}
	return false
}

// =============================================================================
// ACCESSORS
// =============================================================================

// LedgerOptions converts the layout into extractor options.
func (c *MainConfig) LedgerOptions() ledger.Options {
	return ledger.Options{
		LabelColumn:   c.Layout.LabelColumn,
		ValueColumn:   c.Layout.ValueColumn,
		InfoScanRows:  c.Layout.InfoScanRows,
		Labels:        c.Layout.Labels,
		HeaderMarkers: c.Layout.HeaderMarkers,
		AdvanceMarker: c.Layout.AdvanceMarker,
		BalanceMarker: c.Layout.BalanceMarker,
	}
}
