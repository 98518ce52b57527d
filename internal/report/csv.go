package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/ginjaninja78/estados-de-cuenta/internal/analyzer"
	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
)

// csvHeader is the first record of a CSV export.
var csvHeader = []string{
	"hoja", "fila", "fecha", "concepto", "nombre", "metodo_pago",
	"tipo", "categoria", "monto", "balance",
}

// ParseDelimiter maps a delimiter setting to its rune. Empty means comma;
// "tab", "pipe" and "semicolon" name their character; anything else must
// be exactly one character that can separate CSV fields.
func ParseDelimiter(name string) (rune, error) {
	switch name {
	case "":
		return ',', nil
	case "\\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || size != len(name) {
		return 0, fmt.Errorf("invalid csv delimiter %q: must be a single character", name)
	}
	switch r {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("invalid csv delimiter %q", name)
	}
	return r, nil
}

// renderCSV writes one record per transaction of every extracted sheet, in
// workbook and table order. Monto is the primary amount and is empty when
// the row has none; balance is empty when the row carries no balance.
func renderCSV(overview *analyzer.Overview, opts Options) ([]byte, error) {
	comma, err := ParseDelimiter(opts.Delimiter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, st := range overview.Statements() {
		for _, tx := range st.Transactions {
			if err := w.Write(csvRecord(st.Sheet, tx)); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", st.Sheet, tx.Row+1, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRecord(sheet string, tx ledger.Transaction) []string {
	category := ledger.Categorize(tx.Concepto)

	var amount, balance string
	if v, ok := ledger.PrimaryAmount(tx); ok {
		amount = v.StringFixed(2)
	}
	if v, ok := ledger.BalanceOf(tx); ok {
		balance = v.StringFixed(2)
	}

	date := tx.Fecha
	if tx.HasDate() {
		date = tx.Date.Format("2006-01-02")
	}

	return []string{
		sheet,
		strconv.Itoa(tx.Row + 1),
		date,
		tx.Concepto,
		tx.Nombre,
		tx.MetodoPago,
		string(category.Type),
		category.Name,
		amount,
		balance,
	}
}
