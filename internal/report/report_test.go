package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/analyzer"
	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeSource serves fixed worksheets.
type fakeSource struct {
	sheets []*types.Worksheet
}

func (f fakeSource) SheetNames() []string {
	names := make([]string, len(f.sheets))
	for i, ws := range f.sheets {
		names[i] = ws.Name
	}
	return names
}

func (f fakeSource) Load(name string) (*types.Worksheet, error) {
	for _, ws := range f.sheets {
		if ws.Name == name {
			return ws, nil
		}
	}
	return nil, errors.New("missing")
}

func jan(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleOverview(t *testing.T) *analyzer.Overview {
	t.Helper()

	src := fakeSource{sheets: []*types.Worksheet{
		types.FromValues("Base de datos", 0, [][]any{{"id", "nombre"}}),
		types.FromValues("Artist1", 1, [][]any{
			{nil, "Nombre Legal:", nil, nil, "Jane Doe"},
			{"Fecha", "Concepto", "Monto", "Avance", "Balance"},
			{jan(5), "Factura 001", 1500.5, nil, 1500.5},
			{jan(6), "Pago estudio", -250, nil, 1250.5},
			{jan(7), "Avance", nil, 1000, 250.5},
		}),
		types.FromValues("Notas", 2, [][]any{{"libre"}}),
	}}

	overview, err := analyzer.Run(context.Background(), src, analyzer.Config{
		SkipSheets:     []string{"Base de datos"},
		MaxConcurrency: 2,
		Options:        ledger.DefaultOptions(),
	})
	require.NoError(t, err)
	return overview
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"100", "$100.00"},
		{"1234.567", "$1,234.57"},
		{"-30", "$-30.00"},
		{"1234567.8", "$1,234,567.80"},
		{"-999999.99", "$-999,999.99"},
		{"999.999", "$1,000.00"},
		{"-0.001", "$0.00"},
		{"12345678901234.5", "$12,345,678,901,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Workbook = "Estados_de_Cuenta.xlsx"
	opts.Last = 2

	require.NoError(t, Render(&buf, sampleOverview(t), opts))
	out := buf.String()

	assert.Contains(t, out, "ANALISIS COMPLETO DEL DOCUMENTO: Estados_de_Cuenta.xlsx")
	assert.Contains(t, out, "Total de hojas: 3")
	assert.Contains(t, out, "Artistas encontrados: Base de datos, Artist1, Notas")
	assert.NotContains(t, out, "ARTISTA: Base de datos")

	assert.Contains(t, out, "ARTISTA: Artist1")
	assert.Contains(t, out, "  Nombre Legal: Jane Doe")
	assert.Contains(t, out, "  Fecha Inicio: N/A")
	assert.Contains(t, out, "  Total Ingresos: $1,500.50")
	assert.Contains(t, out, "  Total Gastos: $250.00")
	assert.Contains(t, out, "  Total Avances: $1,000.00")
	assert.Contains(t, out, "  Balance Final: $250.50")
	assert.Contains(t, out, "  Rango de Fechas: 2024-01-05 a 2024-01-07")

	assert.Contains(t, out, "ULTIMAS 2 TRANSACCIONES:")
	assert.Contains(t, out, "  - 2024-01-06 00:00:00: Pago estudio")
	assert.NotContains(t, out, "  - 2024-01-05 00:00:00: Factura 001")

	// Notas has no ledger: info only, plus warnings.
	notas := out[strings.Index(out, "ARTISTA: Notas"):]
	assert.NotContains(t, notas[:strings.Index(notas, "RESUMEN GENERAL")], "RESUMEN FINANCIERO")
	assert.Contains(t, notas, "ADVERTENCIAS:")

	assert.Contains(t, out, "  Total Artistas: 2")
	assert.Contains(t, out, "  Total Transacciones: 3")
	assert.Contains(t, out, "  Balance Total: $250.50")
	assert.Contains(t, out, "  Hojas omitidas: Base de datos")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleOverview(t), Options{Format: FormatJSON}))

	var doc struct {
		Skipped []string `json:"skipped"`
		Sheets  []struct {
			Sheet     string `json:"sheet"`
			Statement struct {
				Info struct {
					Fields map[string]string `json:"fields"`
				} `json:"info"`
				Columns []struct {
					Name  string `json:"name"`
					Class string `json:"class"`
				} `json:"columns"`
			} `json:"statement"`
		} `json:"sheets"`
		Totals struct {
			Balance string `json:"balance"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []string{"Base de datos"}, doc.Skipped)
	require.Len(t, doc.Sheets, 2)
	assert.Equal(t, "Jane Doe", doc.Sheets[0].Statement.Info.Fields[ledger.KeyLegalName])
	assert.Equal(t, "advance", doc.Sheets[0].Statement.Columns[3].Class)
	assert.Equal(t, "250.5", doc.Totals.Balance)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleOverview(t), Options{Format: FormatYAML}))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "totals")
	assert.Contains(t, doc, "sheets")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, &analyzer.Overview{}, Options{Format: "xml"})
	assert.ErrorContains(t, err, `unknown report format "xml"`)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", Extension(FormatText))
	assert.Equal(t, ".json", Extension(FormatJSON))
	assert.Equal(t, ".yaml", Extension(FormatYAML))
	assert.Equal(t, ".csv", Extension(FormatCSV))
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleOverview(t), Options{Format: FormatCSV, Delimiter: ";"}))

	r := csv.NewReader(&buf)
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, "hoja", records[0][0])
	assert.Equal(t, []string{"Artist1", "3", "2024-01-05", "Factura 001", "", "", "income", "Factura", "1500.50", "1500.50"}, records[1])
	assert.Equal(t, []string{"Artist1", "5", "2024-01-07", "Avance", "", "", "advance", "Avance", "1000.00", "250.50"}, records[3])
}

func TestParseDelimiter(t *testing.T) {
	valid := map[string]rune{
		"":     ',',
		"tab":  '\t',
		`\t`:   '\t',
		"pipe": '|',
		";":    ';',
		":":    ':',
		"¦":    '¦',
	}
	for name, want := range valid {
		got, err := ParseDelimiter(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{";;", "comma", `"`, "\n", "\xa6"} {
		_, err := ParseDelimiter(name)
		assert.Error(t, err, name)
	}
}

func TestRenderCSVMultibyteDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleOverview(t), Options{Format: FormatCSV, Delimiter: "¦"}))
	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "hoja¦fila¦fecha¦concepto¦nombre¦metodo_pago¦tipo¦categoria¦monto¦balance", header)
}

func TestRenderInspection(t *testing.T) {
	ws := types.FromValues("Artist1", 0, [][]any{
		{nil, "Nombre Legal:", nil, nil, "Jane Doe"},
		{"Fecha", "Concepto", "Monto"},
		{jan(5), "Factura", 100},
	})

	var buf bytes.Buffer
	require.NoError(t, RenderInspection(&buf, []*types.Worksheet{ws}, ledger.DefaultOptions(), 2))
	out := buf.String()

	assert.Contains(t, out, "Hojas disponibles: Artist1")
	assert.Contains(t, out, "Dimensiones: 3 filas x 5 columnas")
	assert.Contains(t, out, "Encabezado en fila 2:")
	assert.Contains(t, out, "  [2] Monto (amount)")
	assert.Contains(t, out, "  Nombre Legal: Jane Doe")
	assert.Contains(t, out, "Primeras 2 filas:")
	assert.NotContains(t, out, "Factura")
}
