// =============================================================================
// Estados de Cuenta - Statement Diagnostics
// =============================================================================
//
// This module inspects an extracted Statement and reports layout problems
// that the extractor tolerates silently:
//   - No ledger header row
//   - No artist info labels in the scan window
//   - No balance column, or a balance column with no numeric values
//   - Ledger rows that have a date but no numeric amount
//
// VALIDATION STRATEGY:
//   Diagnostics never fail a run. A worksheet with a missing header still
//   produces an empty ledger and a zero summary; the warning only explains
//   why the numbers are zero.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
)

// =============================================================================
// WARNING TYPES
// =============================================================================

// Code identifies the kind of diagnostic.
type Code string

const (
	// CodeNoHeader means no row contained every header marker.
	CodeNoHeader Code = "no_header"

	// CodeNoArtistInfo means no label/value pair was found in the scan window.
	CodeNoArtistInfo Code = "no_artist_info"

	// CodeNoLegalName means info labels exist but none matched the legal name.
	CodeNoLegalName Code = "no_legal_name"

	// CodeNoBalanceColumn means the ledger has no balance column.
	CodeNoBalanceColumn Code = "no_balance_column"

	// CodeEmptyBalance means the balance column has no numeric value.
	CodeEmptyBalance Code = "empty_balance"

	// CodeNoAmounts means a dated ledger row carries no numeric amount.
	CodeNoAmounts Code = "no_amounts"
)

// Warning is a single diagnostic for one worksheet.
type Warning struct {
	// Sheet is the worksheet name.
	Sheet string `json:"sheet" yaml:"sheet"`

	// Code is the machine-readable kind.
	Code Code `json:"code" yaml:"code"`

	// Row is the 0-based worksheet row, or -1 when the warning is not tied
	// to a row.
	Row int `json:"row" yaml:"row"`

	// Message is a human-readable description.
	Message string `json:"message" yaml:"message"`
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Row >= 0 {
		return fmt.Sprintf("[%s] row %d: %s", w.Sheet, w.Row+1, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Sheet, w.Message)
}

// =============================================================================
// CHECKS
// =============================================================================

// Check runs every diagnostic against a statement.
//
// PARAMETERS:
//   - st: The extracted statement.
//
// RETURNS:
//   - The warnings in a stable order. Nil when the statement is clean.
func Check(st *ledger.Statement) []Warning {
	var warnings []Warning

	add := func(code Code, row int, format string, args ...any) {
		warnings = append(warnings, Warning{
			Sheet:   st.Sheet,
			Code:    code,
			Row:     row,
			Message: fmt.Sprintf(format, args...),
		})
	}

	switch {
	case len(st.Info.Raw) == 0:
		add(CodeNoArtistInfo, -1, "no artist info labels found")
	case st.Info.LegalName() == "":
		add(CodeNoLegalName, -1, "artist info has no legal name")
	}

	if !st.HasLedger() {
		add(CodeNoHeader, -1, "no ledger header row found")
		return warnings
	}

	switch {
	case !st.Summary.HasBalanceColumn:
		add(CodeNoBalanceColumn, st.HeaderRow, "ledger has no balance column")
	case !st.Summary.HasBalance:
		add(CodeEmptyBalance, st.HeaderRow, "balance column has no numeric values")
	}

	for _, tx := range st.Transactions {
		if len(tx.Amounts) == 0 {
			add(CodeNoAmounts, tx.Row, "dated row %q has no numeric amount", tx.Fecha)
		}
	}

	return warnings
}

// =============================================================================
// WARNING FORMATTING
// =============================================================================

// FormatWarnings formats warnings for display or logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return "No warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%d warning(s):\n", len(warnings)))
	for i, w := range warnings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, w.String()))
	}

	return builder.String()
}
