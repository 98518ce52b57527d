// =============================================================================
// Estados de Cuenta - Report Command
// =============================================================================
//
// This file defines the 'report' command, the main command of the tool. It
// analyzes every artist worksheet of the workbook and prints the report.
//
// COMMAND USAGE:
//   ledger report [flags]
//
// FLAGS:
//   --workbook    : Workbook file or directory (global flag)
//   --format      : text, json, yaml or csv
//   --last        : Trailing transactions listed per artist
//   --output-dir  : Also write the report to a file in this directory
//
// PROCESSING PIPELINE:
//   1. Open the workbook
//   2. Analyze the artist worksheets (concurrently)
//   3. Render the report to stdout
//   4. Optionally write the same report to a file
//
// A worksheet that cannot be read aborts the command before anything is
// printed.
//
// =============================================================================

package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/analyzer"
	"github.com/ginjaninja78/estados-de-cuenta/internal/config"
	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/report"
	"github.com/ginjaninja78/estados-de-cuenta/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	reportFormat    string
	reportLast      int
	reportOutputDir string
)

// =============================================================================
// REPORT COMMAND DEFINITION
// =============================================================================

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze the workbook and print the statements report",
	Long: `The report command reads every artist worksheet of the statements
workbook and prints, for each artist, the basic information, the financial
summary and the last transactions, followed by the grand totals.

Worksheets on the skip list (by default "Base de datos" and "MODELO") are
not analyzed. A worksheet that cannot be read stops the command with an
error and no report is printed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(
		&reportFormat,
		"format",
		"f",
		"",
		"Report format: text, json, yaml or csv (default from configuration, text)",
	)

	reportCmd.Flags().IntVar(
		&reportLast,
		"last",
		0,
		"Number of trailing transactions listed per artist (default from configuration, 5)",
	)

	reportCmd.Flags().StringVarP(
		&reportOutputDir,
		"output-dir",
		"o",
		"",
		"Also write the report to a file in this directory",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runReport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	startTime := time.Now()

	// Flags take precedence over the configuration file.
	opts := report.DefaultOptions()
	opts.Format = mainConfig.Report.Format
	opts.Last = mainConfig.Report.LastTransactions
	opts.Delimiter = mainConfig.Report.CSVDelimiter
	outputDir := mainConfig.Report.OutputDir

	if cmd.Flags().Changed("format") {
		if !config.ValidFormat(reportFormat) {
			return fmt.Errorf("unknown report format %q", reportFormat)
		}
		opts.Format = reportFormat
	}
	if cmd.Flags().Changed("last") {
		if reportLast < 0 {
			return fmt.Errorf("--last must not be negative")
		}
		opts.Last = reportLast
	}
	if cmd.Flags().Changed("output-dir") {
		outputDir = reportOutputDir
	}

	// =========================================================================
	// STEP 1: OPEN THE WORKBOOK
	// =========================================================================

	wb, path, err := openWorkbook(log)
	if err != nil {
		return err
	}
	defer wb.Close()
	opts.Workbook = path

	// =========================================================================
	// STEP 2: ANALYZE
	// =========================================================================

	overview, err := analyzer.Run(ctx, wb, analyzer.Config{
		SkipSheets:     mainConfig.SkipSheets,
		MaxConcurrency: mainConfig.MaxConcurrency,
		Options:        mainConfig.LedgerOptions(),
	})
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: RENDER
	// =========================================================================

	var buf bytes.Buffer
	if err := report.Render(&buf, overview, opts); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// =========================================================================
	// STEP 4: WRITE THE REPORT FILE
	// =========================================================================

	if outputDir != "" {
		name := utils.GenerateOutputFileName(
			mainConfig.Report.FileNameFormat,
			report.Extension(opts.Format),
			map[string]string{"workbook": utils.WorkbookStem(path)},
		)
		written, err := utils.WriteReportFile(outputDir, name, buf.Bytes())
		if err != nil {
			return err
		}
		log.Info().Str("file", written).Msg("report written")
	}

	log.Debug().
		Int("artists", overview.Totals.Artists).
		Dur("elapsed", time.Since(startTime)).
		Msg("report complete")

	return nil
}
