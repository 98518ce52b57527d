// =============================================================================
// Estados de Cuenta - Main Entry Point
// =============================================================================
//
// This is the main entry point for the ledger CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   ledger report    - Analyze the statements workbook and print the report
//   ledger inspect   - Show the raw structure of every worksheet
//   ledger import    - Store the statements in Postgres
//   ledger version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Workbook loading, extraction, reporting and storage
//   - pkg/           : File handling utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/estados-de-cuenta/cmd"
)

func main() {
	cmd.Execute()
}
