package xlsxparser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with one artist sheet and returns its path.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Artist1")
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue("Artist1", "B3", "Nombre Legal:"))
	require.NoError(t, f.SetCellValue("Artist1", "E3", "Jane Doe"))
	require.NoError(t, f.SetCellValue("Artist1", "A8", "Fecha"))
	require.NoError(t, f.SetCellValue("Artist1", "B8", "Concepto"))
	require.NoError(t, f.SetCellValue("Artist1", "C8", "Monto"))
	require.NoError(t, f.SetCellValue("Artist1", "A9", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Artist1", "B9", "Factura 001"))
	require.NoError(t, f.SetCellValue("Artist1", "C9", 100))
	require.NoError(t, f.SetCellValue("Artist1", "C10", -30.25))
	require.NoError(t, f.SetCellValue("Artist1", "D10", true))

	path := filepath.Join(t.TempDir(), "Estados_de_Cuenta.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpenAndLoad(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Sheet1", "Artist1"}, wb.SheetNames())

	ws, err := wb.Load("Artist1")
	require.NoError(t, err)

	assert.Equal(t, "Artist1", ws.Name)
	assert.Equal(t, 1, ws.Index)
	assert.Equal(t, 10, ws.RowCount())

	// Leading blank rows keep their position.
	assert.True(t, ws.Cell(0, 0).IsEmpty())

	label := ws.Cell(2, 1)
	assert.Equal(t, types.Text, label.Kind)
	assert.Equal(t, "Nombre Legal:", label.Str)

	date := ws.Cell(8, 0)
	require.Equal(t, types.Date, date.Kind)
	assert.True(t, date.Time.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), "got %v", date.Time)

	amount := ws.Cell(8, 2)
	require.Equal(t, types.Number, amount.Kind)
	assert.Equal(t, 100.0, amount.Num)

	negative := ws.Cell(9, 2)
	require.Equal(t, types.Number, negative.Kind)
	assert.InDelta(t, -30.25, negative.Num, 1e-9)

	flag := ws.Cell(9, 3)
	assert.Equal(t, types.Bool, flag.Kind)
	assert.True(t, flag.Bool)

	assert.True(t, ws.Cell(9, 0).IsEmpty())
}

func TestOpenMissingWorkbook(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpenWorkbook)
}

func TestLoadMissingSheet(t *testing.T) {
	wb, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Load("Nope")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name   string
		numFmt int
		custom *string
		want   bool
	}{
		{"builtin short date", 14, nil, true},
		{"builtin datetime", 22, nil, true},
		{"builtin number", 4, nil, false},
		{"general", 0, nil, false},
		{"custom day month year", 164, custom("dd/mm/yyyy"), true},
		{"custom time", 164, custom("h:mm AM/PM"), true},
		{"custom currency", 164, custom(`[$$-409]#,##0.00`), false},
		{"custom quoted literal", 164, custom(`"Day" 0`), false},
		{"custom colour section", 164, custom(`#,##0.00;[Red]-#,##0.00`), false},
		{"custom general", 164, custom("General"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateFormat(tt.numFmt, tt.custom))
		})
	}
}
