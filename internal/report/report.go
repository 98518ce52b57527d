// =============================================================================
// Estados de Cuenta - Report Writer
// =============================================================================
//
// This module renders an analyzer Overview for people and for tools.
//
// TEXT LAYOUT:
//
//   ========================================================================
//   ANALISIS COMPLETO DEL DOCUMENTO: Estados_de_Cuenta.xlsx
//   ========================================================================
//
//   Total de hojas: 3
//
//   Artistas encontrados: Base de datos, Artist1, Artist2
//
//   ========================================================================
//   ARTISTA: Artist1                                <- one block per sheet
//   ========================================================================
//
//   INFORMACION BASICA:
//     Nombre Artistico: Artist1
//     Nombre Legal: Jane Doe
//     ...
//
//   RESUMEN FINANCIERO:                             <- only with a ledger
//     Total Ingresos: $1,234.56
//     ...
//
//   ULTIMAS 5 TRANSACCIONES:
//     - 2024-01-05 00:00:00: Factura 001
//
//   RESUMEN GENERAL DE TODOS LOS ARTISTAS           <- then the grand totals
//
// JSON and YAML renderings serialise the Overview itself and are meant for
// debugging and scripting. The CSV rendering is a flat export with one
// record per transaction.
//
// =============================================================================

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/estados-de-cuenta/internal/analyzer"
	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// RENDER OPTIONS
// =============================================================================

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Options contains options for rendering.
type Options struct {
	// Format is FormatText, FormatJSON or FormatYAML.
	// Default: FormatText
	Format string

	// Last is the number of trailing transactions listed per artist.
	// Zero lists none.
	// Default: 5
	Last int

	// Workbook is the workbook name printed in the text header.
	Workbook string

	// Width is the width of the rule lines in the text layout.
	// Default: 120
	Width int

	// Delimiter separates CSV fields: ",", ";", "|", "tab" or any single
	// character. Default: ","
	Delimiter string
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Format: FormatText,
		Last:   5,
		Width:  120,
	}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatCSV:
		return ".csv"
	default:
		return ".txt"
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// Render writes the overview to w.
//
// PARAMETERS:
//   - w: The destination.
//   - overview: The analyzer result.
//   - opts: Format and layout. An empty Format or Width takes its default.
//
// RETURNS:
//   - An error for an unknown format or a failed write.
func Render(w io.Writer, overview *analyzer.Overview, opts Options) error {
	def := DefaultOptions()
	if opts.Format == "" {
		opts.Format = def.Format
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}

	var (
		data []byte
		err  error
	)

	switch opts.Format {
	case FormatText:
		data = renderText(overview, opts)
	case FormatJSON:
		data, err = json.MarshalIndent(overview, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(overview)
	case FormatCSV:
		data, err = renderCSV(overview, opts)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s report: %w", opts.Format, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// renderText builds the console layout.
func renderText(overview *analyzer.Overview, opts Options) []byte {
	var buf bytes.Buffer
	rule := strings.Repeat("=", opts.Width)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "ANALISIS COMPLETO DEL DOCUMENTO: %s\n", opts.Workbook)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "\nTotal de hojas: %d\n", len(overview.SheetNames))
	fmt.Fprintf(&buf, "\nArtistas encontrados: %s\n", strings.Join(overview.SheetNames, ", "))

	for _, res := range overview.Sheets {
		fmt.Fprintf(&buf, "\n%s\nARTISTA: %s\n%s\n", rule, res.Sheet, rule)

		writeArtist(&buf, res.Statement, opts.Last)

		if len(res.Warnings) > 0 {
			fmt.Fprintln(&buf, "\nADVERTENCIAS:")
			for _, w := range res.Warnings {
				fmt.Fprintf(&buf, "  - %s\n", w.Message)
			}
		}
	}

	fmt.Fprintf(&buf, "\n\n%s\nRESUMEN GENERAL DE TODOS LOS ARTISTAS\n%s\n", rule, rule)

	for _, st := range overview.Statements() {
		s := st.Summary
		fmt.Fprintf(&buf, "\n%s:\n", st.Sheet)
		fmt.Fprintf(&buf, "  Nombre Legal: %s\n", orNA(st.Info.LegalName()))
		fmt.Fprintf(&buf, "  Periodo: %s - %s\n",
			orNA(st.Info.Text(ledger.KeyStartDate)), orNA(st.Info.Text(ledger.KeyEndDate)))
		fmt.Fprintf(&buf, "  Transacciones: %d\n", s.Transactions)
		if s.HasBalance && !s.FinalBalance.IsZero() {
			fmt.Fprintf(&buf, "  Balance: %s\n", FormatMoney(s.FinalBalance))
		}
	}

	t := overview.Totals
	fmt.Fprintf(&buf, "\n%s\nTOTALES GENERALES:\n", rule)
	fmt.Fprintf(&buf, "  Total Artistas: %d\n", t.Artists)
	fmt.Fprintf(&buf, "  Total Transacciones: %d\n", t.Transactions)
	fmt.Fprintf(&buf, "  Total Ingresos: %s\n", FormatMoney(t.Income))
	fmt.Fprintf(&buf, "  Total Gastos: %s\n", FormatMoney(t.Expenses))
	fmt.Fprintf(&buf, "  Total Avances: %s\n", FormatMoney(t.Advances))
	fmt.Fprintf(&buf, "  Balance Total: %s\n", FormatMoney(t.Balance))
	if len(overview.Skipped) > 0 {
		fmt.Fprintf(&buf, "  Hojas omitidas: %s\n", strings.Join(overview.Skipped, ", "))
	}
	fmt.Fprintln(&buf, rule)

	return buf.Bytes()
}

// writeArtist writes the info, summary and trailing transactions of one
// statement.
func writeArtist(buf *bytes.Buffer, st *ledger.Statement, last int) {
	fmt.Fprintln(buf, "\nINFORMACION BASICA:")
	fmt.Fprintf(buf, "  Nombre Artistico: %s\n", st.Info.StageName)
	fmt.Fprintf(buf, "  Nombre Legal: %s\n", orNA(st.Info.LegalName()))
	fmt.Fprintf(buf, "  Fecha Inicio: %s\n", orNA(st.Info.Text(ledger.KeyStartDate)))
	fmt.Fprintf(buf, "  Fecha Fin: %s\n", orNA(st.Info.Text(ledger.KeyEndDate)))

	if !st.HasLedger() {
		return
	}

	s := st.Summary
	fmt.Fprintln(buf, "\nRESUMEN FINANCIERO:")
	fmt.Fprintf(buf, "  Total Transacciones: %d\n", s.Transactions)
	fmt.Fprintf(buf, "  Total Ingresos: %s\n", FormatMoney(s.TotalIncome))
	fmt.Fprintf(buf, "  Total Gastos: %s\n", FormatMoney(s.TotalExpenses))
	fmt.Fprintf(buf, "  Total Avances: %s\n", FormatMoney(s.TotalAdvances))
	fmt.Fprintf(buf, "  Balance Final: %s\n", FormatMoney(s.FinalBalance))
	if first, lastDate, ok := st.DateRange(); ok {
		fmt.Fprintf(buf, "  Rango de Fechas: %s a %s\n", first.Format("2006-01-02"), lastDate.Format("2006-01-02"))
	}

	if last <= 0 {
		return
	}
	fmt.Fprintf(buf, "\nULTIMAS %d TRANSACCIONES:\n", last)
	for _, tx := range st.Last(last) {
		fmt.Fprintf(buf, "  - %s: %s\n", tx.Fecha, orNA(tx.Concepto))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
