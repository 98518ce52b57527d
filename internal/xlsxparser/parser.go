// =============================================================================
// Estados de Cuenta - XLSX Workbook Loader
// =============================================================================
//
// This module is responsible for opening the statements workbook and turning
// each worksheet into a typed grid (types.Worksheet). The ledger extractor
// never touches excelize directly; it only sees the grid produced here.
//
// CELL TYPING:
//   excelize returns every cell as a string. The loader restores the type of
//   each non-empty cell from the cell's XML type and number format:
//
//   | Cell XML type         | Number format        | Result        |
//   |-----------------------|----------------------|---------------|
//   | s / inlineStr / str   | any                  | types.Text    |
//   | b                     | any                  | types.Bool    |
//   | n / unset             | date/time format     | types.Date    |
//   | n / unset             | anything else        | types.Number  |
//   | e                     | any                  | types.Text    |
//
//   Formula cells carry their cached value. A formula with a string result
//   has type "str" and is read as text.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrOpenWorkbook indicates the workbook could not be opened or parsed.
var ErrOpenWorkbook = errors.New("cannot open workbook")

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("worksheet not found")

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open XLSX file.
type Workbook struct {
	// Path is the file the workbook was opened from.
	Path string

	file     *excelize.File
	date1904 bool

	// dateStyles caches whether a style index carries a date format.
	mu         sync.Mutex
	dateStyles map[int]bool
}

// Open opens the workbook at path.
//
// RETURNS:
//   - The open workbook. The caller must Close it.
//   - An error wrapping ErrOpenWorkbook if the file is missing or malformed.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpenWorkbook, path, err)
	}

	wb := &Workbook{
		Path:       path,
		file:       f,
		dateStyles: make(map[int]bool),
	}

	// Workbooks saved by old Mac versions of Excel count dates from 1904.
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	return wb, nil
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// SheetNames returns the worksheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// Load reads the named worksheet into a typed grid.
//
// PARAMETERS:
//   - name: The worksheet name, exactly as it appears on the tab.
//
// RETURNS:
//   - The worksheet grid. Row and column indices are 0-based and start at A1.
//   - An error wrapping ErrSheetNotFound, or a read error.
func (wb *Workbook) Load(name string) (*types.Worksheet, error) {
	index, err := wb.file.GetSheetIndex(name)
	if err != nil || index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	// Raw values keep numbers unformatted so they can be parsed back.
	rows, err := wb.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", name, err)
	}

	ws := &types.Worksheet{
		Name:  name,
		Index: positionOf(wb.SheetNames(), name),
		Rows:  make([][]types.Cell, len(rows)),
	}

	for i, row := range rows {
		cells := make([]types.Cell, len(row))
		for j, raw := range row {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			cell, err := wb.typedCell(name, i, j, raw)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %d,%d of %q: %w", i+1, j+1, name, err)
			}
			cells[j] = cell
		}
		ws.Rows[i] = cells
	}

	return ws, nil
}

// typedCell restores the type of one non-empty raw cell value.
func (wb *Workbook) typedCell(sheet string, row, col int, raw string) (types.Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return types.Cell{}, err
	}

	cellType, err := wb.file.GetCellType(sheet, axis)
	if err != nil {
		return types.Cell{}, err
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return types.TextCell(raw), nil

	case excelize.CellTypeBool:
		return types.BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil

	case excelize.CellTypeDate:
		// ISO 8601 date cells written by non-Excel producers.
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return types.DateCell(t), nil
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return types.DateCell(t), nil
		}
	}

	// Unset and number types: try the numeric route first.
	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return types.TextCell(raw), nil
	}

	isDate, err := wb.hasDateFormat(sheet, axis)
	if err != nil {
		return types.Cell{}, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(num, wb.date1904)
		if err == nil {
			return types.DateCell(t), nil
		}
	}

	return types.NumberCell(num), nil
}

// hasDateFormat reports whether the cell's style applies a date or time format.
func (wb *Workbook) hasDateFormat(sheet, axis string) (bool, error) {
	styleID, err := wb.file.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}

	wb.mu.Lock()
	defer wb.mu.Unlock()

	if isDate, ok := wb.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := wb.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}

	isDate := IsDateFormat(style.NumFmt, style.CustomNumFmt)
	wb.dateStyles[styleID] = isDate
	return isDate, nil
}

// =============================================================================
// NUMBER FORMATS
// =============================================================================

// builtinDateFormats lists the built-in number format ids that render dates
// or times, including the East Asian variants.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// formatNoise matches the parts of a format code that never denote a date
// component: quoted literals, escaped characters and bracketed sections
// such as colours and locale tags.
var formatNoise = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)

// IsDateFormat reports whether a number format renders a date or time.
//
// PARAMETERS:
//   - numFmt: The built-in number format id.
//   - custom: The custom format code, or nil.
func IsDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		code := strings.ToLower(formatNoise.ReplaceAllString(*custom, ""))
		if strings.Contains(code, "general") {
			return false
		}
		return strings.ContainsAny(code, "dyh")
	}
	return builtinDateFormats[numFmt]
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// positionOf returns the index of name in names, or -1.
func positionOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
