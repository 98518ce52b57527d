package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
)

// RenderInspection writes a raw listing of worksheets: dimensions, detected
// ledger columns, artist info labels and the first rows of the grid. It is
// the tool for working out the layout of an unfamiliar workbook.
func RenderInspection(w io.Writer, sheets []*types.Worksheet, opts ledger.Options, rows int) error {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 80)

	names := make([]string, len(sheets))
	for i, ws := range sheets {
		names[i] = ws.Name
	}
	fmt.Fprintf(&buf, "Hojas disponibles: %s\n", strings.Join(names, ", "))

	for _, ws := range sheets {
		st := ledger.Extract(ws, opts)

		fmt.Fprintf(&buf, "\n%s\nHOJA: %s\n%s\n", rule, ws.Name, rule)
		fmt.Fprintf(&buf, "\nDimensiones: %d filas x %d columnas\n", ws.RowCount(), ws.ColumnCount())

		if st.HasLedger() {
			fmt.Fprintf(&buf, "\nEncabezado en fila %d:\n", st.HeaderRow+1)
			for _, c := range st.Columns {
				fmt.Fprintf(&buf, "  [%d] %s (%s)\n", c.Index, c.Name, c.Class)
			}
		} else {
			fmt.Fprintln(&buf, "\nEncabezado: no encontrado")
		}

		if len(st.Info.Raw) > 0 {
			fmt.Fprintln(&buf, "\nEtiquetas:")
			for _, lv := range st.Info.Raw {
				fmt.Fprintf(&buf, "  %s: %s\n", lv.Label, lv.Value)
			}
		}

		n := min(rows, ws.RowCount())
		if n > 0 {
			fmt.Fprintf(&buf, "\nPrimeras %d filas:\n", n)
			writeGrid(&buf, ws, n)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write inspection: %w", err)
	}
	return nil
}

// writeGrid prints the first n rows as an aligned table with 1-based row
// numbers.
func writeGrid(buf *bytes.Buffer, ws *types.Worksheet, n int) {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	width := ws.ColumnCount()

	for i := 0; i < n; i++ {
		cells := make([]string, width)
		for j := range cells {
			cells[j] = ws.Cell(i, j).String()
		}
		fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
