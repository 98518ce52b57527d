// =============================================================================
// Estados de Cuenta - Statement Importer
// =============================================================================
//
// This module persists extracted statements so they can be queried later.
//
// IMPORT PIPELINE (per artist):
//   1. Find the artist by stage name (case-insensitive) or create it
//   2. Work out the statement period and month
//   3. Upsert the statement for (artist, month) with its totals
//   4. Delete the transactions previously stored for that statement
//   5. Insert the new transactions in batches
//
// The steps of one artist share a database transaction.
//
// Rows without a real date, without a concept or without a non-zero amount
// are not stored. They still count in the extracted summary.
//
// =============================================================================

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportOptions controls an Importer.
type ImportOptions struct {
	// BatchSize is the number of transactions per insert batch.
	// Default: 100
	BatchSize int

	// Source is recorded as the import source of every statement.
	// Default: "excel_import"
	Source string

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// ImportResult describes one imported statement.
type ImportResult struct {
	Artist         string
	ArtistID       uuid.UUID
	ArtistCreated  bool
	StatementID    uuid.UUID
	StatementMonth string
	Transactions   int
	SkippedRows    int
	Balance        decimal.Decimal
}

// ImportSummary counts the outcome of ImportAll.
type ImportSummary struct {
	Results      []ImportResult
	Succeeded    int
	Failed       int
	Transactions int
	Errors       []error
}

// ImportError is the failure of one statement. Other statements are not
// affected.
type ImportError struct {
	Sheet string
	Err   error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	return fmt.Sprintf("import %q: %v", e.Sheet, e.Err)
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// Importer writes statements through a Repository.
type Importer struct {
	repo Repository
	opts ImportOptions
}

// NewImporter creates an importer.
func NewImporter(repo Repository, opts ImportOptions) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Source == "" {
		opts.Source = "excel_import"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Importer{repo: repo, opts: opts}
}

// ImportAll imports every statement. A failing statement is recorded and
// the others continue; only a cancelled context stops the loop.
func (im *Importer) ImportAll(ctx context.Context, statements []*ledger.Statement) ImportSummary {
	log := logger.FromContext(ctx)
	var summary ImportSummary

	for _, st := range statements {
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, ctx.Err())
			break
		}

		res, err := im.Import(ctx, st)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, &ImportError{Sheet: st.Sheet, Err: err})
			log.Error().Err(err).Str("artist", st.Sheet).Msg("import failed")
			continue
		}

		summary.Succeeded++
		summary.Transactions += res.Transactions
		summary.Results = append(summary.Results, *res)
		log.Info().
			Str("artist", res.Artist).
			Str("month", res.StatementMonth).
			Int("transactions", res.Transactions).
			Bool("created", res.ArtistCreated).
			Msg("statement imported")
	}

	return summary
}

// Import stores one statement. Every step runs in one database
// transaction: on failure nothing of this statement is stored and the
// previous import of the same month is left as it was.
func (im *Importer) Import(ctx context.Context, st *ledger.Statement) (*ImportResult, error) {
	var res *ImportResult
	err := im.repo.WithTx(ctx, func(repo Repository) error {
		var err error
		res, err = im.importStatement(ctx, repo, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *Importer) importStatement(ctx context.Context, repo Repository, st *ledger.Statement) (*ImportResult, error) {
	res := &ImportResult{Artist: st.Sheet, Balance: st.Summary.FinalBalance}

	// =========================================================================
	// STEP 1: FIND OR CREATE THE ARTIST
	// =========================================================================

	artist, err := repo.FindArtistByName(ctx, st.Info.StageName)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		artist = &Artist{
			ID:        uuid.New(),
			Name:      st.Info.StageName,
			LegalName: st.Info.LegalName(),
		}
		if err := repo.CreateArtist(ctx, artist); err != nil {
			return nil, fmt.Errorf("failed to create artist: %w", err)
		}
		res.ArtistCreated = true
	}
	res.ArtistID = artist.ID

	// =========================================================================
	// STEP 2: BUILD THE STATEMENT
	// =========================================================================

	records, skipped := TransactionRecords(st, artist.ID)
	res.SkippedRows = skipped

	start, end := Period(st, records, im.opts.Now())
	record := &StatementRecord{
		ID:                uuid.New(),
		ArtistID:          artist.ID,
		PeriodStart:       start,
		PeriodEnd:         end,
		StatementMonth:    start.Format("2006-01"),
		LegalName:         st.Info.LegalName(),
		TotalIncome:       st.Summary.TotalIncome,
		TotalExpenses:     st.Summary.TotalExpenses,
		TotalAdvances:     st.Summary.TotalAdvances,
		Balance:           st.Summary.FinalBalance,
		TotalTransactions: len(records),
		LastImportDate:    im.opts.Now(),
		ImportSource:      im.opts.Source,
	}
	res.StatementMonth = record.StatementMonth

	// =========================================================================
	// STEP 3: UPSERT THE STATEMENT
	// =========================================================================

	statementID, err := repo.UpsertStatement(ctx, record)
	if err != nil {
		return nil, err
	}
	res.StatementID = statementID

	// =========================================================================
	// STEP 4: REPLACE THE TRANSACTIONS
	// =========================================================================

	if err := repo.DeleteTransactions(ctx, statementID); err != nil {
		return nil, err
	}

	for i := range records {
		records[i].StatementID = statementID
	}

	for i := 0; i < len(records); i += im.opts.BatchSize {
		batch := records[i:min(i+im.opts.BatchSize, len(records))]
		if err := repo.InsertTransactions(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to save transactions %d-%d: %w", i+1, i+len(batch), err)
		}
	}

	res.Transactions = len(records)
	return res, nil
}

// TransactionRecords converts the ledger rows that can be stored and
// returns the number of rows left out.
func TransactionRecords(st *ledger.Statement, artistID uuid.UUID) ([]TransactionRecord, int) {
	records := make([]TransactionRecord, 0, len(st.Transactions))
	skipped := 0

	for _, tx := range st.Transactions {
		amount, ok := ledger.PrimaryAmount(tx)
		if !ok || !tx.HasDate() || tx.Concepto == "" {
			skipped++
			continue
		}

		category := ledger.Categorize(tx.Concepto)
		rec := TransactionRecord{
			ID:              uuid.New(),
			ArtistID:        artistID,
			TransactionDate: tx.Date,
			Concept:         tx.Concepto,
			Name:            tx.Nombre,
			PaymentMethod:   tx.MetodoPago,
			Amount:          amount,
			TransactionType: string(category.Type),
			Category:        category.Name,
			Amounts:         make(map[string]string, len(tx.Amounts)),
			SourceRow:       tx.Row + 1,
		}
		if bal, ok := ledger.BalanceOf(tx); ok {
			rec.RunningBalance = decimal.NewNullDecimal(bal)
		}
		for _, a := range tx.Amounts {
			rec.Amounts[a.Column] = a.Value.String()
		}

		records = append(records, rec)
	}

	return records, skipped
}

// Period returns the statement period. The contract dates from the artist
// info are used when both are present; otherwise the range of the stored
// transactions; otherwise the calendar month of now.
func Period(st *ledger.Statement, records []TransactionRecord, now time.Time) (time.Time, time.Time) {
	start, okStart := st.Info.StartDate()
	end, okEnd := st.Info.EndDate()
	if okStart && okEnd {
		return start, end
	}

	if len(records) > 0 {
		start, end = records[0].TransactionDate, records[0].TransactionDate
		for _, r := range records[1:] {
			if r.TransactionDate.Before(start) {
				start = r.TransactionDate
			}
			if r.TransactionDate.After(end) {
				end = r.TransactionDate
			}
		}
		return start, end
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first, first.AddDate(0, 1, -1)
}
