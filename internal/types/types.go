// =============================================================================
// Estados de Cuenta - Shared Types
// =============================================================================
//
// This package contains the worksheet grid model shared by the loader, the
// ledger extractor and the reporting layer. Types defined here are used by:
//   - xlsxparser (produces worksheets)
//   - ledger     (reads worksheets, never mutates them)
//   - report     (renders raw cells for the inspect command)
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CELL TYPES
// =============================================================================

// CellKind identifies the kind of value held by a cell.
type CellKind int

const (
	// Empty is a missing or blank cell.
	Empty CellKind = iota

	// Text is a string cell.
	Text

	// Number is a numeric cell that is not formatted as a date.
	Number

	// Date is a numeric cell carrying a date number format.
	Date

	// Bool is a TRUE/FALSE cell.
	Bool
)

// String returns the lower-case name of the kind.
func (k CellKind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	case Bool:
		return "bool"
	default:
		return "empty"
	}
}

// DateLayout is the layout used when a date cell is rendered as text.
const DateLayout = "2006-01-02 15:04:05"

// Cell is a single typed worksheet value.
// Only the field matching Kind is meaningful.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
	Bool bool
}

// TextCell builds a text cell. Blank strings become empty cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Str: s}
}

// NumberCell builds a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: Number, Num: n}
}

// DateCell builds a date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: Date, Time: t}
}

// BoolCell builds a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{Kind: Bool, Bool: b}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// IsNumber reports whether the cell holds a plain number.
// Dates and booleans are not numbers.
func (c Cell) IsNumber() bool {
	return c.Kind == Number
}

// String renders the cell the way it is shown in reports.
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Str
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Date:
		return c.Time.Format(DateLayout)
	case Bool:
		if c.Bool {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// MarshalText renders the cell as its display text in JSON and YAML.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// =============================================================================
// WORKSHEET
// =============================================================================

// Worksheet is one tab of the workbook as a read-only grid.
// Rows may be ragged; missing trailing cells read as empty.
type Worksheet struct {
	// Name is the tab name. For artist sheets it is the artist's stage name.
	Name string

	// Index is the 0-based position of the tab in the workbook.
	Index int

	// Rows holds the cells, addressed Rows[row][column], both 0-based.
	Rows [][]Cell
}

// RowCount returns the number of rows in the grid.
func (w *Worksheet) RowCount() int {
	return len(w.Rows)
}

// ColumnCount returns the width of the widest row.
func (w *Worksheet) ColumnCount() int {
	width := 0
	for _, row := range w.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (w *Worksheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(w.Rows) {
		return Cell{}
	}
	r := w.Rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Row returns row i, or nil when out of range.
func (w *Worksheet) Row(i int) []Cell {
	if i < 0 || i >= len(w.Rows) {
		return nil
	}
	return w.Rows[i]
}

// FromValues builds a worksheet from plain Go values. Supported values are
// nil, string, float64, float32, int, int64, bool, time.Time and Cell;
// anything else is rendered as text.
func FromValues(name string, index int, values [][]any) *Worksheet {
	ws := &Worksheet{Name: name, Index: index, Rows: make([][]Cell, len(values))}
	for i, row := range values {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = cellFromValue(v)
		}
		ws.Rows[i] = cells
	}
	return ws
}

func cellFromValue(v any) Cell {
	switch val := v.(type) {
	case nil:
		return Cell{}
	case Cell:
		return val
	case string:
		return TextCell(val)
	case float64:
		return NumberCell(val)
	case float32:
		return NumberCell(float64(val))
	case int:
		return NumberCell(float64(val))
	case int64:
		return NumberCell(float64(val))
	case bool:
		return BoolCell(val)
	case time.Time:
		return DateCell(val)
	default:
		return TextCell(fmt.Sprint(val))
	}
}
