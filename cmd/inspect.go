// =============================================================================
// Estados de Cuenta - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command. It shows the raw layout of every
// worksheet, skip list included: dimensions, the detected ledger columns,
// the artist info labels and the first rows. It is used to tune the layout
// section of the configuration when a workbook does not extract as
// expected.
//
// COMMAND USAGE:
//   ledger inspect [--rows 15]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/report"
	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/spf13/cobra"
)

// inspectRows is the number of leading rows printed per worksheet.
var inspectRows int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the raw structure of every worksheet",
	Long: `The inspect command prints every worksheet of the workbook, including
the ones on the skip list, with its dimensions, the ledger header and column
classes it was detected with, the artist info labels, and its first rows.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(
		&inspectRows,
		"rows",
		15,
		"Number of leading rows printed per worksheet",
	)
}

func runInspect(cmd *cobra.Command) error {
	log := logger.FromContext(cmd.Context())

	if inspectRows < 0 {
		return fmt.Errorf("--rows must not be negative")
	}

	wb, _, err := openWorkbook(log)
	if err != nil {
		return err
	}
	defer wb.Close()

	names := wb.SheetNames()
	sheets := make([]*types.Worksheet, 0, len(names))
	for _, name := range names {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		ws, err := wb.Load(name)
		if err != nil {
			return fmt.Errorf("failed to load sheet %q: %w", name, err)
		}
		sheets = append(sheets, ws)
	}

	return report.RenderInspection(cmd.OutOrStdout(), sheets, mainConfig.LedgerOptions(), inspectRows)
}
