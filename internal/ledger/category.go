package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the accounting type of a transaction as stored by the
// importer.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeAdvance TransactionType = "advance"
	TypePayment TransactionType = "payment"
)

// Category is the result of classifying a transaction concept.
type Category struct {
	Type TransactionType
	Name string
}

// categoryRule maps concept keywords to a category. Rules are tried in order.
type categoryRule struct {
	keywords []string
	category Category
}

var categoryRules = []categoryRule{
	{[]string{"avance", "adelanto"}, Category{TypeAdvance, "Avance"}},
	{[]string{"factura"}, Category{TypeIncome, "Factura"}},
	{[]string{"pago"}, Category{TypeExpense, "Pago por servicios"}},
	{[]string{"gasto", "viatico"}, Category{TypeExpense, "Gastos de producción"}},
	{[]string{"video", "produccion"}, Category{TypeExpense, "Gastos de producción"}},
}

// Categorize classifies a transaction by keywords in its concept.
// Matching ignores case and accents. Unmatched concepts are income "Otros".
func Categorize(concept string) Category {
	c := foldAccents(strings.ToLower(concept))
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(c, kw) {
				return rule.category
			}
		}
	}
	return Category{TypeIncome, "Otros"}
}

// PrimaryAmount returns the headline amount of a transaction: the first
// non-zero amount column, else the first non-zero advance. Balances are
// never primary. ok is false when every candidate is zero or missing.
func PrimaryAmount(tx Transaction) (decimal.Decimal, bool) {
	for _, class := range []ColumnClass{SignedAmount, Advance} {
		for _, a := range tx.Amounts {
			if a.Class == class && !a.Value.IsZero() {
				return a.Value, true
			}
		}
	}
	return decimal.Zero, false
}

// BalanceOf returns the last balance value carried by a transaction.
func BalanceOf(tx Transaction) (decimal.Decimal, bool) {
	var (
		value decimal.Decimal
		found bool
	)
	for _, a := range tx.Amounts {
		if a.Class == Balance {
			value, found = a.Value, true
		}
	}
	return value, found
}
