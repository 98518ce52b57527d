package ledger

import (
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/shopspring/decimal"
)

// Amount is one numeric cell of a transaction.
type Amount struct {
	Column string          `json:"column" yaml:"column"`
	Class  ColumnClass     `json:"class" yaml:"class"`
	Value  decimal.Decimal `json:"value" yaml:"value"`
}

// Transaction is one ledger row with a non-empty date cell.
type Transaction struct {
	// Row is the 0-based worksheet row the transaction was read from.
	Row int `json:"row" yaml:"row"`

	// Fecha is the date cell as text. Date is set when the cell held a
	// real date.
	Fecha string    `json:"fecha" yaml:"fecha"`
	Date  time.Time `json:"date,omitzero" yaml:"date,omitempty"`

	Concepto   string `json:"concepto" yaml:"concepto"`
	Nombre     string `json:"nombre" yaml:"nombre"`
	MetodoPago string `json:"metodo_pago" yaml:"metodo_pago"`

	// Amounts holds every numeric cell of a non-named column, in column order.
	Amounts []Amount `json:"amounts" yaml:"amounts"`
}

// Amount returns the value of the named column on this row.
func (t Transaction) Amount(column string) (decimal.Decimal, bool) {
	for _, a := range t.Amounts {
		if a.Column == column {
			return a.Value, true
		}
	}
	return decimal.Zero, false
}

// HasDate reports whether the date cell was a real date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// parseTransactions reads the rows under the header. Rows whose date cell is
// empty are skipped; all other rows become transactions.
func parseTransactions(ws *types.Worksheet, headerRow int, columns []Column) []Transaction {
	dateCol := -1
	for _, col := range columns {
		if col.Field == FieldDate {
			dateCol = col.Index
			break
		}
	}
	if dateCol < 0 {
		return nil
	}

	var transactions []Transaction
	for i := headerRow + 1; i < ws.RowCount(); i++ {
		dateCell := ws.Cell(i, dateCol)
		if dateCell.IsEmpty() {
			continue
		}

		tx := Transaction{Row: i, Fecha: dateCell.String()}
		if d, ok := cellDate(dateCell); ok && dateCell.Kind != types.Number {
			tx.Date = d
		}

		for _, col := range columns {
			cell := ws.Cell(i, col.Index)
			if col.Class == Named {
				switch col.Field {
				case FieldConcept:
					tx.Concepto = cell.String()
				case FieldName:
					tx.Nombre = cell.String()
				case FieldPaymentMethod:
					tx.MetodoPago = cell.String()
				}
				continue
			}

			if !cell.IsNumber() {
				continue
			}
			tx.Amounts = append(tx.Amounts, Amount{
				Column: col.Name,
				Class:  col.Class,
				Value:  decimal.NewFromFloat(cell.Num),
			})
		}

		transactions = append(transactions, tx)
	}

	return transactions
}
