// =============================================================================
// Estados de Cuenta - Import Command
// =============================================================================
//
// This file defines the 'import' command, which stores every artist
// statement of the workbook in Postgres.
//
// COMMAND USAGE:
//   ledger import [--dry-run]
//
// PROCESSING PIPELINE:
//   1. Open and analyze the workbook (same as 'report')
//   2. Read DATABASE_URL (from the environment or the configured env files)
//   3. Connect and create the tables if they are missing
//   4. Import each statement; a failing artist does not stop the others
//   5. Print the import summary and write an error log on failures
//
// With --dry-run the database is not touched: the command prints what each
// statement would store.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/analyzer"
	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/report"
	"github.com/ginjaninja78/estados-de-cuenta/internal/store"
	"github.com/ginjaninja78/estados-de-cuenta/internal/validation"
	"github.com/ginjaninja78/estados-de-cuenta/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// dryRun prints the import plan without connecting to the database.
var dryRun bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the artist statements into the database",
	Long: `The import command analyzes the workbook and stores, for every artist
worksheet, the artist (created when missing), one statement per artist and
month with its totals, and the statement's transactions.

Importing the same month again replaces that statement's transactions.

The connection string is read from DATABASE_URL. When it is not set in the
environment, the env files listed in the configuration (.env.local, .env)
are loaded first.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Show what would be imported without connecting to the database",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runImport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: ANALYZE THE WORKBOOK
	// =========================================================================

	wb, _, err := openWorkbook(log)
	if err != nil {
		return err
	}
	defer wb.Close()

	overview, err := analyzer.Run(ctx, wb, analyzer.Config{
		SkipSheets:     mainConfig.SkipSheets,
		MaxConcurrency: mainConfig.MaxConcurrency,
		Options:        mainConfig.LedgerOptions(),
	})
	if err != nil {
		return err
	}

	statements := overview.Statements()

	if dryRun {
		printImportPlan(out, overview)
		return nil
	}

	// =========================================================================
	// STEP 2: CONNECT
	// =========================================================================

	url, err := store.DatabaseURL(mainConfig.Import.EnvFiles...)
	if err != nil {
		return err
	}

	pool, err := store.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := store.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: IMPORT
	// =========================================================================

	importer := store.NewImporter(repo, store.ImportOptions{
		BatchSize: mainConfig.Import.BatchSize,
		Source:    mainConfig.Import.Source,
	})
	summary := importer.ImportAll(ctx, statements)

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	printImportSummary(out, len(statements), summary)

	var entries []utils.ErrorLogEntry
	for _, err := range summary.Errors {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp: time.Now(),
			Sheet:     sheetOf(err),
			Stage:     "import",
			Message:   err.Error(),
		})
	}

	if len(entries) > 0 && mainConfig.Report.OutputDir != "" {
		path, err := utils.WriteErrorLog(entries, mainConfig.Report.OutputDir)
		if err != nil {
			return err
		}
		log.Warn().Str("file", path).Int("errors", len(entries)).Msg("errors have been logged")
	}

	return ctx.Err()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// printImportPlan lists what each statement would store.
func printImportPlan(w io.Writer, overview *analyzer.Overview) {
	now := time.Now()
	total := 0

	fmt.Fprintln(w, "IMPORTACION (simulacion)")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, res := range overview.Sheets {
		st := res.Statement

		records, skipped := store.TransactionRecords(st, uuid.Nil)
		start, end := store.Period(st, records, now)
		total += len(records)

		fmt.Fprintf(w, "%s\n", st.Sheet)
		fmt.Fprintf(w, "  Periodo: %s a %s (%s)\n", start.Format("2006-01-02"), end.Format("2006-01-02"), start.Format("2006-01"))
		fmt.Fprintf(w, "  Transacciones: %d (omitidas: %d)\n", len(records), skipped)
		fmt.Fprintf(w, "  Balance: %s\n", report.FormatMoney(st.Summary.FinalBalance))
		if len(res.Warnings) > 0 {
			fmt.Fprintf(w, "  %s", validation.FormatWarnings(res.Warnings))
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Artistas: %d\n", len(overview.Statements()))
	fmt.Fprintf(w, "Total de transacciones: %d\n", total)
}

// printImportSummary prints the outcome of an import.
func printImportSummary(w io.Writer, processed int, summary store.ImportSummary) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "RESUMEN DE IMPORTACION")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Artistas procesados: %d\n", processed)
	fmt.Fprintf(w, "Importaciones exitosas: %d\n", summary.Succeeded)
	fmt.Fprintf(w, "Importaciones fallidas: %d\n", summary.Failed)
	fmt.Fprintf(w, "Total de transacciones: %d\n", summary.Transactions)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// sheetOf returns the worksheet an import error belongs to.
func sheetOf(err error) string {
	var importErr *store.ImportError
	if errors.As(err, &importErr) {
		return importErr.Sheet
	}
	return ""
}
