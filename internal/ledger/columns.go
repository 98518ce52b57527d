package ledger

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
)

// ColumnClass is the aggregation bucket of a ledger column. It is decided
// once per column from the header name, so a column never feeds two buckets.
type ColumnClass int

const (
	// SignedAmount columns feed income (positive) or expenses (negative).
	SignedAmount ColumnClass = iota

	// Advance columns are summed into the advances total.
	Advance

	// Balance columns hold a running balance; the last value wins.
	Balance

	// Named columns are the descriptive fields and are never aggregated.
	Named
)

// String returns the class name.
func (c ColumnClass) String() string {
	switch c {
	case Advance:
		return "advance"
	case Balance:
		return "balance"
	case Named:
		return "named"
	default:
		return "amount"
	}
}

// MarshalText renders the class by name in JSON and YAML reports.
func (c ColumnClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Column is one ledger column.
type Column struct {
	// Index is the 0-based worksheet column.
	Index int `json:"index" yaml:"index"`

	// Name is the header text. Blank headers are named "Unnamed: <index>"
	// and repeated names get ".1", ".2", ... suffixes.
	Name string `json:"name" yaml:"name"`

	// Class is the aggregation bucket.
	Class ColumnClass `json:"class" yaml:"class"`

	// Field is the named field this column carries, when Class is Named.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// namedFields lists the descriptive fields in their canonical spelling.
var namedFields = []string{FieldDate, FieldConcept, FieldName, FieldPaymentMethod}

// Classify decides the bucket of a column from its name.
// Named fields are recognised case- and accent-insensitively; the advance
// and balance markers are case-sensitive substrings, advance first.
func Classify(name string, opts Options) (ColumnClass, string) {
	key := normalizeColumn(name)
	for _, field := range namedFields {
		if key == normalizeColumn(field) {
			return Named, field
		}
	}

	return classifyByMarker(name, opts), ""
}

func classifyByMarker(name string, opts Options) ColumnClass {
	switch {
	case opts.AdvanceMarker != "" && strings.Contains(name, opts.AdvanceMarker):
		return Advance
	case opts.BalanceMarker != "" && strings.Contains(name, opts.BalanceMarker):
		return Balance
	default:
		return SignedAmount
	}
}

// buildColumns names and classifies the columns of the header row.
// A named field is bound to the first column carrying it; later duplicates
// are treated as ordinary columns.
func buildColumns(header []types.Cell, opts Options) []Column {
	columns := make([]Column, 0, len(header))
	seen := make(map[string]int)
	bound := make(map[string]bool)

	for i, cell := range header {
		name := strings.TrimSpace(cell.String())
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}

		class, field := Classify(name, opts)
		if class == Named {
			if bound[field] {
				class, field = classifyByMarker(name, opts), ""
			} else {
				bound[field] = true
			}
		}

		columns = append(columns, Column{Index: i, Name: name, Class: class, Field: field})
	}

	return columns
}

// headerText joins the non-empty cells of a row with single spaces.
func headerText(row []types.Cell) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if !c.IsEmpty() {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, " ")
}

// FindHeaderRow returns the index of the first row whose joined text
// contains every marker, or -1.
func FindHeaderRow(ws *types.Worksheet, markers []string) int {
	if len(markers) == 0 {
		return -1
	}
	for i, row := range ws.Rows {
		text := headerText(row)
		if text == "" {
			continue
		}
		found := true
		for _, marker := range markers {
			if !strings.Contains(text, marker) {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}
