// =============================================================================
// Estados de Cuenta - Ledger Extractor & Aggregator
// =============================================================================
//
// This module turns one artist worksheet into a Statement. It is a pure
// function of the worksheet grid: no I/O, no shared state, safe to run on
// several worksheets at once.
//
// EXTRACTION PIPELINE:
//   1. Scan the first rows for the artist info label/value block
//   2. Find the ledger header row (first row containing every marker)
//   3. Name and classify the ledger columns once
//   4. Read every row under the header with a non-empty date
//   5. Aggregate income, expenses, advances and the final balance
//
// A worksheet without a header row yields an empty ledger and a zero
// summary. That is not an error.
//
// =============================================================================

package ledger

import (
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
)

// Statement is the extraction result for one worksheet.
type Statement struct {
	// Sheet and SheetIndex identify the source worksheet.
	Sheet      string `json:"sheet" yaml:"sheet"`
	SheetIndex int    `json:"sheet_index" yaml:"sheet_index"`

	// Info is the artist info block.
	Info ArtistInfo `json:"info" yaml:"info"`

	// HeaderRow is the 0-based ledger header row, or -1 when none was found.
	HeaderRow int `json:"header_row" yaml:"header_row"`

	// Columns are the ledger columns, empty when there is no header.
	Columns []Column `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Transactions are the ledger rows in table order.
	Transactions []Transaction `json:"transactions" yaml:"transactions"`

	// Summary aggregates Transactions.
	Summary FinancialSummary `json:"summary" yaml:"summary"`
}

// Extract reads the artist info, ledger and summary of one worksheet.
//
// PARAMETERS:
//   - ws: The worksheet grid. It is not modified.
//   - opts: The worksheet layout. Zero fields take their defaults.
//
// RETURNS:
//   - The statement. Never nil.
func Extract(ws *types.Worksheet, opts Options) *Statement {
	opts = opts.withDefaults()

	st := &Statement{
		Sheet:      ws.Name,
		SheetIndex: ws.Index,
		Info:       scanArtistInfo(ws, opts),
		HeaderRow:  FindHeaderRow(ws, opts.HeaderMarkers),
	}

	if st.HeaderRow < 0 {
		st.Summary = Summarize(nil, nil)
		return st
	}

	// Columns span the whole sheet width; data cells to the right of the
	// last header cell get "Unnamed" columns.
	header := make([]types.Cell, ws.ColumnCount())
	copy(header, ws.Row(st.HeaderRow))

	st.Columns = buildColumns(header, opts)
	st.Transactions = parseTransactions(ws, st.HeaderRow, st.Columns)
	st.Summary = Summarize(st.Transactions, st.Columns)

	return st
}

// HasLedger reports whether a ledger header was found.
func (s *Statement) HasLedger() bool {
	return s.HeaderRow >= 0
}

// Last returns the last n transactions in table order.
func (s *Statement) Last(n int) []Transaction {
	if n <= 0 {
		return nil
	}
	if n >= len(s.Transactions) {
		return s.Transactions
	}
	return s.Transactions[len(s.Transactions)-n:]
}

// DateRange returns the earliest and latest transaction dates. ok is false
// when no transaction carries a real date.
func (s *Statement) DateRange() (first, last time.Time, ok bool) {
	for _, tx := range s.Transactions {
		if !tx.HasDate() {
			continue
		}
		if !ok || tx.Date.Before(first) {
			first = tx.Date
		}
		if !ok || tx.Date.After(last) {
			last = tx.Date
		}
		ok = true
	}
	return first, last, ok
}
