// =============================================================================
// Estados de Cuenta - Workbook Analyzer
// =============================================================================
//
// This module runs the ledger extractor over every artist worksheet of a
// workbook and reduces the per-sheet statements into an Overview.
//
// ANALYSIS PIPELINE:
//   1. List the worksheets and set aside the skip list
//   2. Load each remaining worksheet (sequential, excelize is not read
//      concurrently). A worksheet that cannot be read aborts the run
//   3. Extract and check each worksheet (concurrent, bounded)
//   4. Re-order the results by workbook position
//   5. Reduce the statements into grand totals
//
// CONCURRENCY:
//   Each worksheet is extracted in its own goroutine. An errgroup limit
//   bounds the number running at once; results are collected on a buffered
//   channel and placed by position, so the output never depends on
//   scheduling.
//
// =============================================================================

package analyzer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/ginjaninja78/estados-de-cuenta/internal/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SheetSource is a workbook the analyzer can read. *xlsxparser.Workbook
// implements it.
type SheetSource interface {
	SheetNames() []string
	Load(name string) (*types.Worksheet, error)
}

// Config controls a run.
type Config struct {
	// SkipSheets are worksheet names that are not artist statements.
	SkipSheets []string

	// MaxConcurrency bounds the number of worksheets extracted at once.
	// Values below 1 mean 1.
	MaxConcurrency int

	// Options is the worksheet layout.
	Options ledger.Options
}

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// SheetError is a worksheet that could not be read. It aborts the run.
type SheetError struct {
	Sheet string
	Err   error
}

// Error implements the error interface.
func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

// Unwrap returns the underlying error.
func (e *SheetError) Unwrap() error {
	return e.Err
}

// SheetResult is the outcome of one worksheet.
type SheetResult struct {
	// Sheet and Index identify the worksheet.
	Sheet string `json:"sheet" yaml:"sheet"`
	Index int    `json:"index" yaml:"index"`

	Statement *ledger.Statement `json:"statement,omitempty" yaml:"statement,omitempty"`

	// Warnings are the diagnostics for Statement.
	Warnings []validation.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Duration is the time spent extracting the worksheet.
	Duration time.Duration `json:"-" yaml:"-"`
}

// Totals are the grand totals over every extracted worksheet.
type Totals struct {
	// Artists counts the extracted worksheets, with or without a ledger.
	Artists int `json:"artists" yaml:"artists"`

	Transactions int             `json:"transactions" yaml:"transactions"`
	Income       decimal.Decimal `json:"income" yaml:"income"`
	Expenses     decimal.Decimal `json:"expenses" yaml:"expenses"`
	Advances     decimal.Decimal `json:"advances" yaml:"advances"`

	// Balance sums the final balance of the worksheets that have one.
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// Overview is the result of a run.
type Overview struct {
	// SheetNames lists every worksheet in workbook order.
	SheetNames []string `json:"sheet_names" yaml:"sheet_names"`

	// Sheets holds one result per non-skipped worksheet, in workbook order.
	Sheets []SheetResult `json:"sheets" yaml:"sheets"`

	// Skipped lists the worksheets on the skip list.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	Totals Totals `json:"totals" yaml:"totals"`
}

// Statements returns the statement of every analyzed worksheet.
func (o *Overview) Statements() []*ledger.Statement {
	out := make([]*ledger.Statement, 0, len(o.Sheets))
	for _, r := range o.Sheets {
		if r.Statement != nil {
			out = append(out, r.Statement)
		}
	}
	return out
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// loaded is a worksheet ready for extraction.
type loaded struct {
	pos int
	ws  *types.Worksheet
}

// Run analyzes every worksheet of src.
//
// PARAMETERS:
//   - ctx: Cancels the run. Worksheets not yet started are abandoned.
//   - src: The open workbook.
//   - cfg: Skip list, concurrency and layout.
//
// RETURNS:
//   - The overview.
//   - A *SheetError when a worksheet cannot be read, or the ctx error. No
//     overview is returned with an error.
func Run(ctx context.Context, src SheetSource, cfg Config) (*Overview, error) {
	log := logger.FromContext(ctx)

	// =========================================================================
	// STEP 1: PARTITION WORKSHEETS
	// =========================================================================

	names := src.SheetNames()
	overview := &Overview{SheetNames: names}

	var todo []string
	for _, name := range names {
		if slices.Contains(cfg.SkipSheets, name) {
			overview.Skipped = append(overview.Skipped, name)
			log.Debug().Str("sheet", name).Msg("skipping worksheet")
			continue
		}
		todo = append(todo, name)
	}

	overview.Sheets = make([]SheetResult, len(todo))

	// =========================================================================
	// STEP 2: LOAD WORKSHEETS
	// =========================================================================

	var ready []loaded
	for pos, name := range todo {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}

		overview.Sheets[pos] = SheetResult{Sheet: name, Index: slices.Index(names, name)}

		ws, err := src.Load(name)
		if err != nil {
			log.Error().Err(err).Str("sheet", name).Msg("failed to load worksheet")
			return nil, &SheetError{Sheet: name, Err: err}
		}

		ready = append(ready, loaded{pos: pos, ws: ws})
	}

	// =========================================================================
	// STEP 3: EXTRACT CONCURRENTLY
	// =========================================================================

	var g errgroup.Group
	g.SetLimit(max(cfg.MaxConcurrency, 1))

	// Buffered so no goroutine blocks on send.
	results := make(chan loadedResult, len(ready))

	for _, item := range ready {
		item := item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			st := ledger.Extract(item.ws, cfg.Options)
			results <- loadedResult{
				pos:      item.pos,
				st:       st,
				warnings: validation.Check(st),
				elapsed:  time.Since(start),
			}
			return nil
		})
	}

	err := g.Wait()
	close(results)
	if err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	for r := range results {
		res := &overview.Sheets[r.pos]
		res.Statement = r.st
		res.Warnings = r.warnings
		res.Duration = r.elapsed

		for _, w := range r.warnings {
			log.Warn().Str("sheet", w.Sheet).Str("code", string(w.Code)).Msg(w.Message)
		}
		log.Debug().
			Str("sheet", res.Sheet).
			Int("transactions", r.st.Summary.Transactions).
			Dur("elapsed", r.elapsed).
			Msg("worksheet extracted")
	}

	// =========================================================================
	// STEP 5: REDUCE
	// =========================================================================

	overview.Totals = Reduce(overview.Sheets)

	log.Info().
		Int("artists", overview.Totals.Artists).
		Int("transactions", overview.Totals.Transactions).
		Int("skipped", len(overview.Skipped)).
		Msg("workbook analyzed")

	return overview, nil
}

// loadedResult carries one extraction back to the collector.
type loadedResult struct {
	pos      int
	st       *ledger.Statement
	warnings []validation.Warning
	elapsed  time.Duration
}

// Reduce computes the grand totals. The result does not depend on the order
// of results.
func Reduce(results []SheetResult) Totals {
	t := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Advances: decimal.Zero,
		Balance:  decimal.Zero,
	}

	for _, r := range results {
		if r.Statement == nil {
			continue
		}

		s := r.Statement.Summary
		t.Artists++
		t.Transactions += s.Transactions
		t.Income = t.Income.Add(s.TotalIncome)
		t.Expenses = t.Expenses.Add(s.TotalExpenses)
		t.Advances = t.Advances.Add(s.TotalAdvances)
		if s.HasBalance {
			t.Balance = t.Balance.Add(s.FinalBalance)
		}
	}

	return t
}
