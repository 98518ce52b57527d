package ledger

import (
	"github.com/shopspring/decimal"
)

// FinancialSummary aggregates the transactions of one worksheet.
type FinancialSummary struct {
	Transactions int `json:"transactions" yaml:"transactions"`

	// TotalIncome sums the positive values of amount columns.
	TotalIncome decimal.Decimal `json:"total_income" yaml:"total_income"`

	// TotalExpenses sums the absolute values of negative amounts.
	TotalExpenses decimal.Decimal `json:"total_expenses" yaml:"total_expenses"`

	// TotalAdvances sums every value of advance columns.
	TotalAdvances decimal.Decimal `json:"total_advances" yaml:"total_advances"`

	// FinalBalance is the balance value on the last row that has one.
	FinalBalance decimal.Decimal `json:"final_balance" yaml:"final_balance"`

	// HasBalanceColumn is true when the ledger has a balance column at all.
	// HasBalance is true when at least one transaction carried a balance;
	// BalanceRow is then the worksheet row it came from.
	HasBalanceColumn bool `json:"has_balance_column" yaml:"has_balance_column"`
	HasBalance       bool `json:"has_balance" yaml:"has_balance"`
	BalanceRow       int  `json:"balance_row,omitempty" yaml:"balance_row,omitempty"`
}

// Summarize aggregates transactions in a single pass.
//
// Advance values are summed. The balance is taken from the transaction with
// the highest row index that carries one; within a row the rightmost balance
// column wins. Other amounts go to income when positive and to expenses
// (as absolute value) when negative; zeros contribute nothing.
func Summarize(transactions []Transaction, columns []Column) FinancialSummary {
	s := FinancialSummary{
		Transactions:  len(transactions),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalAdvances: decimal.Zero,
		FinalBalance:  decimal.Zero,
	}

	for _, col := range columns {
		if col.Class == Balance {
			s.HasBalanceColumn = true
			break
		}
	}

	for _, tx := range transactions {
		for _, a := range tx.Amounts {
			switch a.Class {
			case Advance:
				s.TotalAdvances = s.TotalAdvances.Add(a.Value)
			case Balance:
				if !s.HasBalance || tx.Row >= s.BalanceRow {
					s.FinalBalance = a.Value
					s.BalanceRow = tx.Row
					s.HasBalance = true
				}
			case SignedAmount:
				switch a.Value.Sign() {
				case 1:
					s.TotalIncome = s.TotalIncome.Add(a.Value)
				case -1:
					s.TotalExpenses = s.TotalExpenses.Add(a.Value.Abs())
				}
			}
		}
	}

	return s
}
